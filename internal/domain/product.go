package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry. ID is the slug of Name.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
}
