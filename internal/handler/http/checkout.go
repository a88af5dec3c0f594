package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trendify/storefront/internal/checkout"
	"github.com/trendify/storefront/internal/view"
	"github.com/trendify/storefront/pkg/httputil"
	"github.com/trendify/storefront/pkg/validator"
)

// CheckFieldRequest is the JSON request body for live field validation.
type CheckFieldRequest struct {
	Value string `json:"value"`
}

type fieldResponse struct {
	Field   string              `json:"field"`
	State   checkout.FieldState `json:"state"`
	Message string              `json:"message,omitempty"`
}

type lastOrderResponse struct {
	view.OrderSummary
	ItemCount int `json:"item_count"`
}

// CheckoutSummary handles GET /api/v1/checkout/summary
func (h *Handler) CheckoutSummary(w http.ResponseWriter, r *http.Request) {
	h.withClient(w, r, func(c *client) {
		summary, err := h.checkout.Summary(r.Context(), c.checkout())
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		httputil.WriteData(w, summary)
	})
}

// CheckField handles POST /api/v1/checkout/fields/{field}
func (h *Handler) CheckField(w http.ResponseWriter, r *http.Request) {
	var req CheckFieldRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	field := chi.URLParam(r, "field")
	state, msg, err := h.checkout.CheckField(field, req.Value)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteData(w, fieldResponse{Field: field, State: state, Message: msg})
}

// PlaceOrder handles POST /api/v1/checkout
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var sub checkout.Submission
	if err := validator.DecodeAndValidate(r, &sub); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	h.withClient(w, r, func(c *client) {
		order, err := h.checkout.Submit(r.Context(), c.checkout(), sub)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
	})
}

// LastOrder handles GET /api/v1/orders/last
func (h *Handler) LastOrder(w http.ResponseWriter, r *http.Request) {
	h.withClient(w, r, func(c *client) {
		items, err := h.checkout.LastOrder(r.Context(), c.checkout())
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		count := 0
		for _, it := range items {
			count += it.Quantity
		}
		httputil.WriteData(w, lastOrderResponse{OrderSummary: view.Summary(items), ItemCount: count})
	})
}
