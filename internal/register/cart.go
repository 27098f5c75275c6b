// Package register implements the cart and transaction state machine of a
// single point-of-sale till.
//
// Every value in this package is immutable: operations return a new value
// and never modify the receiver, so a state can be published to readers
// wholesale and never be observed half-updated.
package register

import (
	"math"

	"github.com/fairyhunter13/pos-register/internal/feedback"
	"github.com/fairyhunter13/pos-register/internal/model"
)

// Cart is the ordered ledger of cart lines. Lines keep the order in which
// their product was first added; there is at most one line per product and
// every line has a positive quantity.
type Cart struct {
	lines []model.CartLine
}

// Lines returns a copy of the cart lines.
func (c Cart) Lines() []model.CartLine {
	if len(c.lines) == 0 {
		return nil
	}
	return append([]model.CartLine(nil), c.lines...)
}

// Len returns the number of distinct lines.
func (c Cart) Len() int { return len(c.lines) }

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Line returns the line for productID.
func (c Cart) Line(productID int64) (model.CartLine, bool) {
	i := c.index(productID)
	if i < 0 {
		return model.CartLine{}, false
	}
	return c.lines[i], true
}

func (c Cart) index(productID int64) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem adds one unit of p, appending a new line the first time p is seen.
// It fails with ErrQuantityOverflow when the cart would no longer add up in
// an int64; the receiver is returned unchanged.
func (c Cart) AddItem(p model.Product) (Cart, feedback.Signal, error) {
	next := c.Lines()
	if i := c.index(p.ID); i >= 0 {
		qty, ok := addInt64(next[i].Quantity, 1)
		if !ok {
			return c, 0, ErrQuantityOverflow
		}
		next[i].Quantity = qty
	} else {
		next = append(next, model.CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Image:     p.Image,
			Option:    p.Option,
			Quantity:  1,
		})
	}
	if err := checkSums(next); err != nil {
		return c, 0, err
	}
	return Cart{lines: next}, feedback.Add, nil
}

// AdjustQuantity changes the quantity of productID by delta. A line whose
// quantity would drop to zero or below is removed. A product that is not in
// the cart is a no-op, reported by a zero signal and a nil error.
//
// A surviving line always yields feedback.Add, even for a negative delta.
// Only a removal yields feedback.Remove.
func (c Cart) AdjustQuantity(productID, delta int64) (Cart, feedback.Signal, error) {
	i := c.index(productID)
	if i < 0 {
		return c, 0, nil
	}
	qty, ok := addInt64(c.lines[i].Quantity, delta)
	if !ok {
		return c, 0, ErrQuantityOverflow
	}
	lines := c.Lines()
	if qty <= 0 {
		lines = append(lines[:i], lines[i+1:]...)
		return Cart{lines: lines}, feedback.Remove, nil
	}
	lines[i].Quantity = qty
	if err := checkSums(lines); err != nil {
		return c, 0, err
	}
	return Cart{lines: lines}, feedback.Add, nil
}

// Clear empties the cart.
func (c Cart) Clear() (Cart, feedback.Signal) {
	return Cart{}, feedback.Remove
}

// ItemCount is the sum of all line quantities.
func (c Cart) ItemCount() int64 {
	var n int64
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// TotalPrice is the sum of quantity times unit price over all lines.
func (c Cart) TotalPrice() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// checkSums reports ErrQuantityOverflow unless every subtotal, the total
// and the item count of lines fit in an int64.
func checkSums(lines []model.CartLine) error {
	var total, count int64
	for _, l := range lines {
		sub, ok := mulInt64(l.Quantity, l.UnitPrice)
		if !ok {
			return ErrQuantityOverflow
		}
		if total, ok = addInt64(total, sub); !ok {
			return ErrQuantityOverflow
		}
		if count, ok = addInt64(count, l.Quantity); !ok {
			return ErrQuantityOverflow
		}
	}
	return nil
}

func addInt64(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return p, true
}
