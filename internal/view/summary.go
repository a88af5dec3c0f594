package view

import (
	"github.com/shopspring/decimal"

	"github.com/trendify/storefront/internal/domain"
)

// SummaryLine is one row of the checkout order summary.
type SummaryLine struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

// OrderSummary is the checkout page's view of the cart. Shipping is free.
type OrderSummary struct {
	Lines        []SummaryLine `json:"lines"`
	Subtotal     string        `json:"subtotal"`
	Shipping     string        `json:"shipping"`
	Total        string        `json:"total"`
	Empty        bool          `json:"empty"`
	EmptyMessage string        `json:"empty_message,omitempty"`
}

// Summary renders items for the checkout page.
func Summary(items []domain.LineItem) OrderSummary {
	c := domain.Cart{Items: items}
	subtotal := c.Total()
	shipping := decimal.Zero

	s := OrderSummary{
		Lines:    make([]SummaryLine, 0, len(items)),
		Subtotal: FormatPrice(subtotal),
		Shipping: FormatPrice(shipping),
		Total:    FormatPrice(subtotal.Add(shipping)),
		Empty:    len(items) == 0,
	}
	if s.Empty {
		s.EmptyMessage = EmptyCartMessage
	}
	for _, item := range items {
		s.Lines = append(s.Lines, SummaryLine{
			ID:        item.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			LineTotal: FormatPrice(item.LineTotal()),
		})
	}
	return s
}
