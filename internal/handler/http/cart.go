package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trendify/storefront/internal/view"
	"github.com/trendify/storefront/pkg/httputil"
	"github.com/trendify/storefront/pkg/validator"
)

// AddItemRequest is the JSON request body for adding a product to the cart.
// A missing quantity adds one unit; an explicit zero changes nothing.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  *int   `json:"quantity"`
}

// UpdateQuantityRequest is the JSON request body for setting an item's quantity.
// Zero or less removes the item.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type cartResponse struct {
	view.DisplayModel
	PanelOpen bool `json:"panel_open"`
}

type panelResponse struct {
	PanelOpen bool `json:"panel_open"`
}

func writeCart(w http.ResponseWriter, c *client) {
	httputil.WriteData(w, cartResponse{DisplayModel: c.binder.Model(), PanelOpen: c.binder.PanelOpen()})
}

// GetCart handles GET /api/v1/cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.withClient(w, r, func(c *client) {
		writeCart(w, c)
	})
}

// AddItem handles POST /api/v1/cart/items. Name and price come from the catalog.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	p, err := h.catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.withClient(w, r, func(c *client) {
		if err := c.cart.Add(r.Context(), p.ID, p.Name, p.Price, quantity); err != nil {
			h.writeError(w, r, err)
			return
		}
		writeCart(w, c)
	})
}

// UpdateItem handles PUT /api/v1/cart/items/{id}
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	h.invoke(w, r, view.ActionSet, *req.Quantity)
}

// IncreaseItem handles POST /api/v1/cart/items/{id}/increase
func (h *Handler) IncreaseItem(w http.ResponseWriter, r *http.Request) {
	h.invoke(w, r, view.ActionIncrease, 0)
}

// DecreaseItem handles POST /api/v1/cart/items/{id}/decrease
func (h *Handler) DecreaseItem(w http.ResponseWriter, r *http.Request) {
	h.invoke(w, r, view.ActionDecrease, 0)
}

// RemoveItem handles DELETE /api/v1/cart/items/{id}
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.invoke(w, r, view.ActionRemove, 0)
}

// invoke runs the rendered control for the item. Items not in the cart have
// no controls, so the request is a no-op and the cart is returned unchanged.
func (h *Handler) invoke(w http.ResponseWriter, r *http.Request, action view.Action, quantity int) {
	itemID := chi.URLParam(r, "id")
	h.withClient(w, r, func(c *client) {
		if ctl, ok := c.binder.Control(itemID, action); ok {
			if err := ctl.Invoke(r.Context(), quantity); err != nil && !errors.Is(err, view.ErrStaleControl) {
				h.writeError(w, r, err)
				return
			}
		}
		writeCart(w, c)
	})
}

// ClearCart handles DELETE /api/v1/cart
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.withClient(w, r, func(c *client) {
		if err := c.cart.Clear(r.Context()); err != nil {
			h.writeError(w, r, err)
			return
		}
		writeCart(w, c)
	})
}

// TogglePanel handles POST /api/v1/cart/panel
func (h *Handler) TogglePanel(w http.ResponseWriter, r *http.Request) {
	h.withClient(w, r, func(c *client) {
		open, err := c.togglePanel(r.Context())
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		httputil.WriteData(w, panelResponse{PanelOpen: open})
	})
}
