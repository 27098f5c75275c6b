package register

import (
	"errors"
	"time"

	"github.com/fairyhunter13/pos-register/internal/feedback"
	"github.com/fairyhunter13/pos-register/internal/model"
)

// ErrUnknownCommand is returned by Apply for a command it cannot handle.
var ErrUnknownCommand = errors.New("unknown command")

// Command is an operator action on the register.
type Command interface {
	Name() string
}

type (
	// AddItem adds one unit of Product.
	AddItem struct{ Product model.Product }
	// AdjustQuantity changes a line's quantity by Delta.
	AdjustQuantity struct {
		ProductID int64
		Delta     int64
	}
	// ClearCart empties the cart and leaves the tender alone.
	ClearCart struct{}
	// ResetSale empties the cart and zeroes the tender.
	ResetSale struct{}
	// SetTender replaces the tender with the digits typed in Raw.
	SetTender struct{ Raw string }
	// AddTender adds a quick-cash Amount to the tender.
	AddTender struct{ Amount int64 }
	// Submit finalizes the sale into a pending receipt.
	Submit struct{}
	// Complete clears the sale after its receipt was printed.
	Complete struct{}
	// Cancel dismisses the pending receipt and keeps the sale.
	Cancel struct{}
)

func (AddItem) Name() string        { return "add_item" }
func (AdjustQuantity) Name() string { return "adjust_quantity" }
func (ClearCart) Name() string      { return "clear_cart" }
func (ResetSale) Name() string      { return "reset_sale" }
func (SetTender) Name() string      { return "set_tender" }
func (AddTender) Name() string      { return "add_tender" }
func (Submit) Name() string         { return "submit" }
func (Complete) Name() string       { return "complete" }
func (Cancel) Name() string         { return "cancel" }

// Env supplies the clock and receipt numbers used by Submit.
type Env struct {
	Now     func() time.Time
	Numbers *Numberer
}

// Outcome reports what Apply did. When Err is set the returned state is the
// input state.
type Outcome struct {
	Changed bool
	Signals []feedback.Signal
	Err     error
}

func changed(sig feedback.Signal) Outcome {
	o := Outcome{Changed: true}
	if sig != 0 {
		o.Signals = []feedback.Signal{sig}
	}
	return o
}

func rejected(err error) Outcome { return Outcome{Err: err} }

// Apply is the register's only transition function. It returns the complete
// next state; derived totals are read from that state afterwards.
func Apply(s State, cmd Command, env Env) (State, Outcome) {
	if s.phase == PhaseSubmitted {
		switch cmd.(type) {
		case Submit, Complete, Cancel:
		default:
			return s, rejected(ErrReceiptPending)
		}
	}

	switch c := cmd.(type) {
	case AddItem:
		cart, sig, err := s.cart.AddItem(c.Product)
		if err != nil {
			return s, rejected(err)
		}
		n := s.next()
		n.cart = cart
		return n, changed(sig)

	case AdjustQuantity:
		cart, sig, err := s.cart.AdjustQuantity(c.ProductID, c.Delta)
		if err != nil {
			return s, rejected(err)
		}
		if sig == 0 {
			return s, Outcome{}
		}
		n := s.next()
		n.cart = cart
		return n, changed(sig)

	case ClearCart:
		n := s.next()
		var sig feedback.Signal
		n.cart, sig = s.cart.Clear()
		return n, changed(sig)

	case ResetSale:
		n := s.next()
		var sig feedback.Signal
		n.cart, sig = s.cart.Clear()
		n.tender = s.tender.Reset()
		return n, changed(sig)

	case SetTender:
		n := s.next()
		n.tender = s.tender.Set(c.Raw)
		return n, changed(0)

	case AddTender:
		tender, sig := s.tender.Add(c.Amount)
		if sig == 0 {
			return s, Outcome{}
		}
		n := s.next()
		n.tender = tender
		return n, changed(sig)

	case Submit:
		now := time.Now()
		if env.Now != nil {
			now = env.Now()
		}
		id := ""
		if env.Numbers != nil && s.phase == PhaseIdle && s.Totals().SubmitEligible {
			id = env.Numbers.Next(now)
		}
		n, err := s.Submit(id, now)
		if err != nil {
			return s, rejected(err)
		}
		return n, changed(0)

	case Complete:
		n, sig, err := s.Complete()
		if err != nil {
			return s, rejected(err)
		}
		return n, changed(sig)

	case Cancel:
		n, err := s.Cancel()
		if err != nil {
			return s, rejected(err)
		}
		return n, changed(0)

	default:
		return s, rejected(ErrUnknownCommand)
	}
}
