// Package view derives display models from cart snapshots and keeps per-item
// controls bound to the latest render.
package view

import (
	"github.com/shopspring/decimal"

	"github.com/trendify/storefront/internal/domain"
)

// EmptyCartMessage is shown in place of items when the cart is empty.
const EmptyCartMessage = "Your cart is empty."

// DisplayLine is one rendered cart row.
type DisplayLine struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// DisplayModel is the rendered cart sidebar.
type DisplayModel struct {
	BadgeCount   int           `json:"badge_count"`
	Items        []DisplayLine `json:"items"`
	Total        string        `json:"total"`
	Empty        bool          `json:"empty"`
	EmptyMessage string        `json:"empty_message,omitempty"`
}

// FormatPrice renders an amount as dollars with two decimals.
func FormatPrice(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// Render builds the sidebar model for items. It has no side effects.
func Render(items []domain.LineItem) DisplayModel {
	c := domain.Cart{Items: items}
	m := DisplayModel{
		BadgeCount: c.ItemCount(),
		Items:      make([]DisplayLine, 0, len(items)),
		Total:      FormatPrice(c.Total()),
		Empty:      len(items) == 0,
	}
	if m.Empty {
		m.EmptyMessage = EmptyCartMessage
	}
	for _, item := range items {
		m.Items = append(m.Items, DisplayLine{
			ID:        item.ID,
			Name:      item.Name,
			UnitPrice: FormatPrice(item.UnitPrice),
			Quantity:  item.Quantity,
		})
	}
	return m
}
