package domain

import "time"

// Product is a catalog entry. Archived products keep IsActive=false forever.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	IsActive    bool      `json:"isActive"`
	CreatedOn   time.Time `json:"createdOn"`
}
