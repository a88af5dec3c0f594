// Package cart owns the contents of a session's cart. Every effective
// mutation is persisted under domain.KeyCart and then announced to the
// registered listeners exactly once.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/trendify/storefront/internal/domain"
	"github.com/trendify/storefront/internal/storage"
)

// Op names the mutation that produced a ChangeEvent.
type Op string

const (
	OpAdd         Op = "add"
	OpRemove      Op = "remove"
	OpSetQuantity Op = "set_quantity"
	OpIncrease    Op = "increase"
	OpDecrease    Op = "decrease"
	OpClear       Op = "clear"
)

// ChangeEvent describes one effective mutation. ItemID is empty for OpClear.
type ChangeEvent struct {
	Op     Op
	ItemID string
}

// Listener is notified after a mutation has been persisted. Listeners run
// outside the store's lock and may call Snapshot, Total or ItemCount.
type Listener func(ctx context.Context, ev ChangeEvent)

type subscription struct {
	id int
	fn Listener
}

// Store is the sole authority over one cart. Quantities are always >= 1 and
// ids are unique. Calls that would leave the cart unchanged (unknown ids,
// non-positive adds of new items, clearing an empty cart) neither persist nor
// notify.
type Store struct {
	mu        sync.Mutex
	cart      domain.Cart
	adapter   storage.Adapter
	logger    *slog.Logger
	listeners []subscription
	nextID    int
}

// New returns an empty store persisting through adapter.
func New(adapter storage.Adapter, logger *slog.Logger) *Store {
	return &Store{adapter: adapter, logger: logger}
}

// Load hydrates a store from the persisted cart. A missing or malformed value
// yields an empty cart; only storage I/O failures are returned.
func Load(ctx context.Context, adapter storage.Adapter, logger *slog.Logger) (*Store, error) {
	s := New(adapter, logger)

	var items []domain.LineItem
	found, err := storage.LoadJSON(ctx, adapter, domain.KeyCart, &items)
	switch {
	case errors.Is(err, storage.ErrCorrupt):
		logger.WarnContext(ctx, "discarding unreadable cart", slog.String("error", err.Error()))
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("hydrate cart: %w", err)
	case !found:
		return s, nil
	}

	loaded := domain.Cart{Items: items}
	if !loaded.Valid() {
		logger.WarnContext(ctx, "discarding cart with invalid items", slog.Int("items", len(items)))
		return s, nil
	}
	s.cart = loaded
	return s, nil
}

// OnChange registers l and returns a function that unregisters it.
func (s *Store) OnChange(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, fn: l})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Add puts quantity units of id in the cart. An existing item's quantity is
// adjusted by quantity and the item is removed if that leaves it at zero or
// below. A new item is appended only when quantity > 0 and unitPrice >= 0.
func (s *Store) Add(ctx context.Context, id, name string, unitPrice decimal.Decimal, quantity int) error {
	return s.mutate(ctx, ChangeEvent{Op: OpAdd, ItemID: id}, func(c *domain.Cart) bool {
		if i := c.IndexOf(id); i >= 0 {
			if quantity == 0 {
				return false
			}
			return setQuantity(c, i, c.Items[i].Quantity+quantity)
		}
		if quantity <= 0 || unitPrice.IsNegative() {
			return false
		}
		c.Items = append(c.Items, domain.LineItem{ID: id, Name: name, UnitPrice: unitPrice, Quantity: quantity})
		return true
	})
}

// Remove deletes id from the cart.
func (s *Store) Remove(ctx context.Context, id string) error {
	return s.mutate(ctx, ChangeEvent{Op: OpRemove, ItemID: id}, func(c *domain.Cart) bool {
		i := c.IndexOf(id)
		if i < 0 {
			return false
		}
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return true
	})
}

// SetQuantity sets id's quantity; n <= 0 removes the item.
func (s *Store) SetQuantity(ctx context.Context, id string, n int) error {
	return s.mutate(ctx, ChangeEvent{Op: OpSetQuantity, ItemID: id}, func(c *domain.Cart) bool {
		i := c.IndexOf(id)
		if i < 0 {
			return false
		}
		return setQuantity(c, i, n)
	})
}

// Increase adds one unit of id.
func (s *Store) Increase(ctx context.Context, id string) error {
	return s.step(ctx, OpIncrease, id, 1)
}

// Decrease removes one unit of id, removing the item at quantity 1.
func (s *Store) Decrease(ctx context.Context, id string) error {
	return s.step(ctx, OpDecrease, id, -1)
}

func (s *Store) step(ctx context.Context, op Op, id string, delta int) error {
	return s.mutate(ctx, ChangeEvent{Op: op, ItemID: id}, func(c *domain.Cart) bool {
		i := c.IndexOf(id)
		if i < 0 {
			return false
		}
		return setQuantity(c, i, c.Items[i].Quantity+delta)
	})
}

// Clear empties the cart and deletes the persisted value.
func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, ChangeEvent{Op: OpClear}, func(c *domain.Cart) bool {
		if len(c.Items) == 0 {
			return false
		}
		c.Items = nil
		return true
	})
}

// Total is the exact sum of unit price times quantity.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// ItemCount is the sum of quantities.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount()
}

// Snapshot returns a copy of the items in insertion order.
func (s *Store) Snapshot() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// setQuantity sets item i to n, removing it when n <= 0. It reports whether
// the cart changed.
func setQuantity(c *domain.Cart, i, n int) bool {
	if n <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return true
	}
	if c.Items[i].Quantity == n {
		return false
	}
	c.Items[i].Quantity = n
	return true
}

// mutate applies fn under the lock, persists the result and then notifies
// listeners. A failed write restores the previous contents.
func (s *Store) mutate(ctx context.Context, ev ChangeEvent, fn func(c *domain.Cart) bool) error {
	s.mu.Lock()
	prev := s.cart.Clone()
	if !fn(&s.cart) {
		s.mu.Unlock()
		return nil
	}

	if err := s.persist(ctx, ev.Op); err != nil {
		s.cart.Items = prev
		s.mu.Unlock()
		return err
	}

	listeners := make([]Listener, len(s.listeners))
	for i, sub := range s.listeners {
		listeners[i] = sub.fn
	}
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "cart changed",
		slog.String("op", string(ev.Op)),
		slog.String("item_id", ev.ItemID),
	)
	for _, l := range listeners {
		l(ctx, ev)
	}
	return nil
}

// persist writes the whole cart. Clear deletes the key instead.
func (s *Store) persist(ctx context.Context, op Op) error {
	if op == OpClear {
		if err := s.adapter.Remove(ctx, domain.KeyCart); err != nil {
			return fmt.Errorf("persist cart: %w", err)
		}
		return nil
	}
	if err := storage.SaveJSON(ctx, s.adapter, domain.KeyCart, s.cart.Clone()); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}
