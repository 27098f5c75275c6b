package receipt

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fairyhunter13/pos-register/internal/model"
)

// Width is the character width of a printed receipt.
const Width = 40

const nameWidth = 18

// Header is the store identity printed on top of every receipt.
type Header struct {
	StoreName string
	Branch    string
	Location  *time.Location
}

// Render writes the printable receipt to w.
//
// Layout: store name and branch centered, receipt number with issue time,
// one row per line (index, name, quantity, subtotal) followed by its unit
// price, then total, cash and change.
func Render(w io.Writer, r model.Receipt, h Header) error {
	rule := strings.Repeat("-", Width)
	var b bytes.Buffer
	if h.StoreName != "" {
		b.WriteString(center(h.StoreName) + "\n")
	}
	if h.Branch != "" {
		b.WriteString(center(h.Branch) + "\n")
	}
	b.WriteString(rule + "\n")
	b.WriteString(spread("No: "+r.ID, FormatIssuedAt(r.IssuedAt, h.Location)) + "\n")
	b.WriteString(rule + "\n")
	b.WriteString(row("#", "Item", "Qty", "Subtotal") + "\n")
	for i, l := range r.Lines {
		b.WriteString(row(fmt.Sprint(i+1), truncate(l.Name, nameWidth), fmt.Sprint(l.Quantity), FormatPrice(l.Subtotal())) + "\n")
		b.WriteString("   " + FormatPrice(l.UnitPrice) + "\n")
	}
	b.WriteString(rule + "\n")
	b.WriteString(spread("TOTAL", FormatPrice(r.Total)) + "\n")
	b.WriteString(spread("CASH", FormatPrice(r.Tendered)) + "\n")
	b.WriteString(spread("CHANGE", FormatPrice(r.Change)) + "\n")
	b.WriteString(rule + "\n")
	_, err := w.Write(b.Bytes())
	return err
}

// Text returns the rendered receipt as a string.
func Text(r model.Receipt, h Header) string {
	var b strings.Builder
	_ = Render(&b, r, h)
	return b.String()
}

func row(idx, name, qty, subtotal string) string {
	return fmt.Sprintf("%-3s%-19s%4s%14s", idx, name, qty, subtotal)
}

func center(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= Width {
		return s
	}
	return strings.Repeat(" ", (Width-n)/2) + s
}

func spread(left, right string) string {
	gap := Width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
