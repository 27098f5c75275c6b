package register

import (
	"math"
	"strconv"
	"strings"

	"github.com/fairyhunter13/pos-register/internal/feedback"
)

// Tender is the cash amount the operator has received.
type Tender struct {
	amount int64
}

// Amount returns the tendered cash.
func (t Tender) Amount() int64 { return t.amount }

// ParseTender keeps only the digits of raw and parses them. Input with no
// digits, or too many to fit, counts as zero.
func ParseTender(raw string) int64 {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Set replaces the tender with the amount typed in raw.
func (t Tender) Set(raw string) Tender {
	return Tender{amount: ParseTender(raw)}
}

// Add increases the tender by a quick-cash amount. Negative amounts are
// ignored and the sum saturates instead of overflowing.
func (t Tender) Add(amount int64) (Tender, feedback.Signal) {
	if amount < 0 {
		return t, 0
	}
	if t.amount > math.MaxInt64-amount {
		return Tender{amount: math.MaxInt64}, feedback.Add
	}
	return Tender{amount: t.amount + amount}, feedback.Add
}

// Reset zeroes the tender.
func (t Tender) Reset() Tender { return Tender{} }
