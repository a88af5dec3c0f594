package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/trendify/storefront/internal/cart"
	"github.com/trendify/storefront/internal/checkout"
	"github.com/trendify/storefront/internal/domain"
	"github.com/trendify/storefront/internal/session"
	"github.com/trendify/storefront/internal/storage"
	"github.com/trendify/storefront/internal/view"
	apperrors "github.com/trendify/storefront/pkg/errors"
	"github.com/trendify/storefront/pkg/logger"
)

// client is the per-request view of one session: its storage, a cart store
// hydrated from it and the listeners attached to that store.
type client struct {
	id      string
	storage storage.Adapter
	cart    *cart.Store
	binder  *view.Binder
	auth    *session.Session

	unsubscribe []func()
}

// open hydrates the session's cart and attaches the view binder, the mutation
// counter and the cart event publisher. Call close when the request is done.
func (h *Handler) open(r *http.Request) (*client, error) {
	ctx := r.Context()
	id := logger.SessionIDFromContext(ctx)
	if id == "" {
		return nil, errors.New("request has no session")
	}
	l := logger.FromContext(ctx)

	adapter := h.storage.For(id)
	store, err := cart.Load(ctx, adapter, l)
	if err != nil {
		return nil, err
	}

	c := &client{
		id:      id,
		storage: adapter,
		cart:    store,
		binder:  view.Bind(store),
		auth:    session.New(adapter, l),
	}
	c.unsubscribe = append(c.unsubscribe,
		store.OnChange(cart.CountMutations),
		store.OnChange(h.events.CartListener(id, store)),
	)

	open, err := loadPanel(ctx, adapter)
	if err != nil {
		c.close()
		return nil, err
	}
	c.binder.SetPanelOpen(open)
	return c, nil
}

func (c *client) close() {
	for _, u := range c.unsubscribe {
		u()
	}
	c.binder.Close()
}

func (c *client) checkout() checkout.Session {
	return checkout.Session{ID: c.id, Storage: c.storage, Cart: c.cart, Auth: c.auth}
}

func (c *client) togglePanel(ctx context.Context) (bool, error) {
	open := c.binder.TogglePanel()
	if err := c.storage.Set(ctx, domain.KeyCartPanel, strconv.FormatBool(open)); err != nil {
		c.binder.SetPanelOpen(!open)
		return false, fmt.Errorf("save cart panel: %w", err)
	}
	return open, nil
}

func loadPanel(ctx context.Context, a storage.Adapter) (bool, error) {
	v, err := a.Get(ctx, domain.KeyCartPanel)
	if errors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read cart panel: %w", err)
	}
	open, _ := strconv.ParseBool(v)
	return open, nil
}
