package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// LineItem is one product entry in the cart.
type LineItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// lineItemJSON is the persisted shape. Price is written as a plain JSON number.
type lineItemJSON struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Quantity int         `json:"quantity"`
}

// MarshalJSON encodes the item as {"id","name","price","quantity"}.
func (li LineItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(lineItemJSON{
		ID:       li.ID,
		Name:     li.Name,
		Price:    json.Number(li.UnitPrice.String()),
		Quantity: li.Quantity,
	})
}

// UnmarshalJSON decodes the persisted shape.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var raw lineItemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	price := decimal.Zero
	if raw.Price != "" {
		p, err := decimal.NewFromString(raw.Price.String())
		if err != nil {
			return fmt.Errorf("line item %q price: %w", raw.ID, err)
		}
		price = p
	}
	*li = LineItem{ID: raw.ID, Name: raw.Name, UnitPrice: price, Quantity: raw.Quantity}
	return nil
}

// LineTotal is unit price times quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is the ordered list of line items for one session.
type Cart struct {
	Items []LineItem
}

// Total sums line totals exactly.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// ItemCount returns the total number of units in the cart.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IndexOf returns the position of the item with id, or -1.
func (c *Cart) IndexOf(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the items.
func (c *Cart) Clone() []LineItem {
	out := make([]LineItem, len(c.Items))
	copy(out, c.Items)
	return out
}

// Valid reports whether the cart holds unique ids and positive quantities.
// Carts loaded from storage that fail this are discarded.
func (c *Cart) Valid() bool {
	seen := make(map[string]struct{}, len(c.Items))
	for _, item := range c.Items {
		if item.ID == "" || item.Quantity < 1 || item.UnitPrice.IsNegative() {
			return false
		}
		if _, dup := seen[item.ID]; dup {
			return false
		}
		seen[item.ID] = struct{}{}
	}
	return true
}
