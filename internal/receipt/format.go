// Package receipt renders submitted sales and hands them to a printer.
package receipt

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout matches the short Indonesian date/time style, e.g. 09/03/24 14.05.
const DateLayout = "02/01/06 15.04"

// FormatNumber groups digits in threes with dots: 1250000 -> 1.250.000.
func FormatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	b.WriteString(sign)
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatPrice renders an amount in rupiah, e.g. Rp. 45.000.
func FormatPrice(n int64) string {
	return "Rp. " + FormatNumber(n)
}

// FormatIssuedAt renders t in loc using DateLayout. A nil loc keeps t's zone.
func FormatIssuedAt(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DateLayout)
}
