package register

import "github.com/fairyhunter13/pos-register/internal/model"

// Settle derives the total, change and submit eligibility. Negative change
// is a valid state meaning the customer still owes money.
func Settle(c Cart, t Tender) model.Totals {
	total := c.TotalPrice()
	change := t.Amount() - total
	return model.Totals{
		Total:          total,
		Tendered:       t.Amount(),
		Change:         change,
		SubmitEligible: change >= 0 && !c.IsEmpty(),
	}
}
