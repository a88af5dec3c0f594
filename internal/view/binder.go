package view

import (
	"context"
	"errors"
	"sync"

	"github.com/trendify/storefront/internal/cart"
)

// ErrStaleControl is returned when a control from an earlier render is used.
var ErrStaleControl = errors.New("control belongs to a previous render")

// Action is a per-item control.
type Action string

const (
	ActionIncrease Action = "increase"
	ActionDecrease Action = "decrease"
	ActionRemove   Action = "remove"
	ActionSet      Action = "set"
)

// Control is bound to one item in one render.
type Control struct {
	binder     *Binder
	generation uint64
	action     Action
	itemID     string
}

// Invoke runs the control's mutation. quantity is only used by ActionSet.
func (c Control) Invoke(ctx context.Context, quantity int) error {
	if !c.binder.isCurrent(c.generation) {
		return ErrStaleControl
	}
	s := c.binder.store
	switch c.action {
	case ActionIncrease:
		return s.Increase(ctx, c.itemID)
	case ActionDecrease:
		return s.Decrease(ctx, c.itemID)
	case ActionRemove:
		return s.Remove(ctx, c.itemID)
	case ActionSet:
		return s.SetQuantity(ctx, c.itemID, quantity)
	}
	return nil
}

type controlKey struct {
	itemID string
	action Action
}

// Binder re-renders the cart on every store notification and rebinds the
// per-item controls. It also holds the sidebar panel flag, which is
// independent of cart contents.
type Binder struct {
	store *cart.Store

	mu          sync.Mutex
	model       DisplayModel
	generation  uint64
	controls    map[controlKey]Control
	panelOpen   bool
	unsubscribe func()
}

// Bind renders store once and subscribes to its changes.
func Bind(store *cart.Store) *Binder {
	b := &Binder{store: store}
	b.refresh()
	b.unsubscribe = store.OnChange(func(context.Context, cart.ChangeEvent) { b.refresh() })
	return b
}

// Close stops listening to the store.
func (b *Binder) Close() {
	b.unsubscribe()
}

// Model returns the latest render.
func (b *Binder) Model() DisplayModel {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.model
}

// Generation counts renders, starting at 1 for the initial one.
func (b *Binder) Generation() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.generation
}

// Control returns the control for itemID bound to the latest render. ok is
// false when the item is not in the cart.
func (b *Binder) Control(itemID string, action Action) (Control, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.controls[controlKey{itemID: itemID, action: action}]
	return c, ok
}

// TogglePanel flips the sidebar flag and returns the new state.
func (b *Binder) TogglePanel() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.panelOpen = !b.panelOpen
	return b.panelOpen
}

// SetPanelOpen restores a previously saved panel state.
func (b *Binder) SetPanelOpen(open bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.panelOpen = open
}

// PanelOpen reports the sidebar flag.
func (b *Binder) PanelOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.panelOpen
}

func (b *Binder) isCurrent(gen uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return gen == b.generation
}

func (b *Binder) refresh() {
	model := Render(b.store.Snapshot())

	b.mu.Lock()
	defer b.mu.Unlock()

	b.generation++
	b.model = model
	b.controls = make(map[controlKey]Control, len(model.Items)*4)
	for _, line := range model.Items {
		for _, a := range []Action{ActionIncrease, ActionDecrease, ActionRemove, ActionSet} {
			b.controls[controlKey{itemID: line.ID, action: a}] = Control{
				binder:     b,
				generation: b.generation,
				action:     a,
				itemID:     line.ID,
			}
		}
	}
}
