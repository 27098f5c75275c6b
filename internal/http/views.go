package httpapi

import (
	"time"

	"github.com/fairyhunter13/pos-register/internal/model"
	"github.com/fairyhunter13/pos-register/internal/receipt"
	"github.com/fairyhunter13/pos-register/internal/register"
)

type lineView struct {
	model.CartLine
	Subtotal      int64  `json:"subtotal"`
	UnitPriceText string `json:"unit_price_text"`
	SubtotalText  string `json:"subtotal_text"`
}

type totalsView struct {
	model.Totals
	ChangeNegative bool   `json:"change_negative"`
	TotalText      string `json:"total_text"`
	TenderedText   string `json:"tendered_text"`
	ChangeText     string `json:"change_text"`
}

type receiptView struct {
	model.Receipt
	IssuedAtText string     `json:"issued_at_text"`
	Lines        []lineView `json:"lines"`
}

// registerView is everything the operator screen draws.
type registerView struct {
	Version   uint64         `json:"version"`
	Phase     register.Phase `json:"phase"`
	Lines     []lineView     `json:"lines"`
	ItemCount int64          `json:"item_count"`
	Tender    int64          `json:"tender"`
	Totals    totalsView     `json:"totals"`
	Receipt   *receiptView   `json:"receipt,omitempty"`
}

func newLineViews(lines []model.CartLine) []lineView {
	out := make([]lineView, 0, len(lines))
	for _, l := range lines {
		out = append(out, lineView{
			CartLine:      l,
			Subtotal:      l.Subtotal(),
			UnitPriceText: receipt.FormatPrice(l.UnitPrice),
			SubtotalText:  receipt.FormatPrice(l.Subtotal()),
		})
	}
	return out
}

func newTotalsView(t model.Totals) totalsView {
	return totalsView{
		Totals:         t,
		ChangeNegative: t.Change < 0,
		TotalText:      receipt.FormatPrice(t.Total),
		TenderedText:   receipt.FormatPrice(t.Tendered),
		ChangeText:     receipt.FormatPrice(t.Change),
	}
}

func newReceiptView(r model.Receipt, loc *time.Location) *receiptView {
	return &receiptView{
		Receipt:      r,
		IssuedAtText: receipt.FormatIssuedAt(r.IssuedAt, loc),
		Lines:        newLineViews(r.Lines),
	}
}

func newRegisterView(st register.State, loc *time.Location) registerView {
	v := registerView{
		Version:   st.Version(),
		Phase:     st.Phase(),
		Lines:     newLineViews(st.Cart().Lines()),
		ItemCount: st.Cart().ItemCount(),
		Tender:    st.Tender().Amount(),
		Totals:    newTotalsView(st.Totals()),
	}
	if r, ok := st.Receipt(); ok {
		v.Receipt = newReceiptView(r, loc)
	}
	return v
}
