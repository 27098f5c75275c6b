// Package model defines domain types shared across the register service.
package model

import "time"

// Product is a purchasable catalog item. Products are read-only once loaded.
type Product struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Price  int64  `json:"price"`
	Image  string `json:"image"`
	Option string `json:"option,omitempty"`
}

// CartLine is one product in the cart with its quantity.
type CartLine struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Image     string `json:"image"`
	Option    string `json:"option,omitempty"`
	Quantity  int64  `json:"quantity"`
}

// Subtotal returns quantity times unit price.
func (l CartLine) Subtotal() int64 { return l.Quantity * l.UnitPrice }

// Totals is the settlement derived from a cart and a tender amount.
type Totals struct {
	Total          int64 `json:"total"`
	Tendered       int64 `json:"tendered"`
	Change         int64 `json:"change"`
	SubmitEligible bool  `json:"submit_eligible"`
}

// Receipt is the immutable record of a submitted sale.
type Receipt struct {
	ID       string     `json:"receipt_id"`
	IssuedAt time.Time  `json:"issued_at"`
	Lines    []CartLine `json:"lines"`
	Total    int64      `json:"total"`
	Tendered int64      `json:"tendered"`
	Change   int64      `json:"change"`
}
