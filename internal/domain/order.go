package domain

import "time"

// LineItem represents a single product entry within an order
type LineItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Order is an immutable purchase record.
// TotalAmount is the price snapshot taken when the order was placed.
type Order struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Products    []LineItem `json:"products"`
	TotalAmount float64    `json:"totalAmount"`
	PurchasedOn time.Time  `json:"purchasedOn"`
}

// Clone returns a deep copy so callers never share the line item slice with the store.
func (o Order) Clone() Order {
	items := make([]LineItem, len(o.Products))
	copy(items, o.Products)
	o.Products = items
	return o
}
