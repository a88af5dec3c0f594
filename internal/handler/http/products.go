package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trendify/storefront/pkg/httputil"
	"github.com/trendify/storefront/pkg/pagination"
)

// ListProducts handles GET /api/v1/products?q=&page=&per_page=
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	listing, err := h.catalog.List(r.Context(), r.URL.Query().Get("q"), pagination.FromRequest(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteData(w, listing)
}

// GetProduct handles GET /api/v1/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteData(w, p)
}
