// Package http exposes the storefront over a JSON API.
package http

import (
	"log/slog"
	"net/http"

	"github.com/trendify/storefront/internal/catalog"
	"github.com/trendify/storefront/internal/checkout"
	"github.com/trendify/storefront/internal/event"
	"github.com/trendify/storefront/internal/profile"
	"github.com/trendify/storefront/internal/storage"
	"github.com/trendify/storefront/pkg/httputil"
)

// Handler serves every storefront endpoint.
type Handler struct {
	storage  storage.Provider
	catalog  *catalog.Service
	checkout *checkout.Service
	profile  *profile.Service
	events   *event.Producer
	logger   *slog.Logger
}

// NewHandler creates the storefront HTTP handler.
func NewHandler(
	store storage.Provider,
	catalogSvc *catalog.Service,
	checkoutSvc *checkout.Service,
	profileSvc *profile.Service,
	events *event.Producer,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		storage:  store,
		catalog:  catalogSvc,
		checkout: checkoutSvc,
		profile:  profileSvc,
		events:   events,
		logger:   logger,
	}
}

// withClient opens the session's client for fn and closes it afterwards.
// Failures to open are written as errors.
func (h *Handler) withClient(w http.ResponseWriter, r *http.Request, fn func(c *client)) {
	c, err := h.open(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer c.close()
	fn(c)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.WriteError(w, r, err, h.logger)
}
