package register

import (
	"errors"
	"time"

	"github.com/fairyhunter13/pos-register/internal/feedback"
	"github.com/fairyhunter13/pos-register/internal/model"
)

var (
	// ErrNotSubmittable rejects a submit with an empty cart or short tender.
	ErrNotSubmittable = errors.New("sale is not submittable")
	// ErrReceiptPending rejects edits and re-submits while a receipt waits
	// for the operator to proceed or cancel.
	ErrReceiptPending = errors.New("receipt pending")
	// ErrNoPendingReceipt rejects complete or cancel with nothing submitted.
	ErrNoPendingReceipt = errors.New("no pending receipt")
	// ErrQuantityOverflow rejects a cart edit whose quantities or amounts
	// would not fit in an int64.
	ErrQuantityOverflow = errors.New("quantity overflow")
)

// Phase is the finalizer phase of a sale.
type Phase int

const (
	// PhaseIdle allows free editing; no receipt exists.
	PhaseIdle Phase = iota
	// PhaseSubmitted holds a receipt awaiting print or cancel.
	PhaseSubmitted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// MarshalText renders the phase by name in JSON.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// State is the whole register: cart, tender, phase and pending receipt.
// Version increases by one on every accepted change.
type State struct {
	version uint64
	phase   Phase
	cart    Cart
	tender  Tender
	receipt *model.Receipt
}

// NewState returns an idle register with an empty cart.
func NewState() State { return State{} }

// Version counts applied changes; it grows by one per changing command.
func (s State) Version() uint64 { return s.version }

// Phase returns the finalizer phase.
func (s State) Phase() Phase { return s.phase }

// Cart returns the live cart.
func (s State) Cart() Cart { return s.cart }

// Tender returns the cash tendered so far.
func (s State) Tender() Tender { return s.tender }

// Totals recomputes the settlement from the current cart and tender.
func (s State) Totals() model.Totals { return Settle(s.cart, s.tender) }

// Receipt returns a copy of the pending receipt.
func (s State) Receipt() (model.Receipt, bool) {
	if s.receipt == nil {
		return model.Receipt{}, false
	}
	r := *s.receipt
	r.Lines = append([]model.CartLine(nil), s.receipt.Lines...)
	return r, true
}

func (s State) next() State {
	s.version++
	return s
}

// Submit moves an eligible idle sale to PhaseSubmitted with a receipt
// snapshot. The cart and tender stay as they are.
func (s State) Submit(id string, now time.Time) (State, error) {
	if s.phase == PhaseSubmitted {
		return s, ErrReceiptPending
	}
	totals := s.Totals()
	if !totals.SubmitEligible {
		return s, ErrNotSubmittable
	}
	n := s.next()
	n.phase = PhaseSubmitted
	n.receipt = &model.Receipt{
		ID:       id,
		IssuedAt: now,
		Lines:    s.cart.Lines(),
		Total:    totals.Total,
		Tendered: totals.Tendered,
		Change:   totals.Change,
	}
	return n, nil
}

// Complete finishes a printed sale: the cart and tender are cleared, the
// receipt is discarded and the register is idle again.
func (s State) Complete() (State, feedback.Signal, error) {
	if s.phase != PhaseSubmitted {
		return s, 0, ErrNoPendingReceipt
	}
	n := s.next()
	n.phase = PhaseIdle
	n.receipt = nil
	var sig feedback.Signal
	n.cart, sig = s.cart.Clear()
	n.tender = s.tender.Reset()
	return n, sig, nil
}

// Cancel dismisses the pending receipt and keeps the sale for correction.
func (s State) Cancel() (State, error) {
	if s.phase != PhaseSubmitted {
		return s, ErrNoPendingReceipt
	}
	n := s.next()
	n.phase = PhaseIdle
	n.receipt = nil
	return n, nil
}
