package models

import "time"

// BillingSnapshot is the cart-plus-total payload handed to the checkout
// screen. It is built once at checkout time and consumed exactly once; the
// checkout view treats it as the sole source of truth and never re-derives
// the totals.
type BillingSnapshot struct {
	BillID    string     `json:"billId"`
	Items     []CartLine `json:"items"`
	Total     float64    `json:"total"`
	Date      string     `json:"date"`
	Time      string     `json:"time"`
	CreatedAt time.Time  `json:"createdAt"`
}
