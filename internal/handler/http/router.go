package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trendify/storefront/pkg/health"
	"github.com/trendify/storefront/pkg/middleware"
)

const serviceName = "storefront"

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	h *Handler,
	healthHandler *health.Handler,
	cors middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cors))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)

		r.Post("/checkout/fields/{field}", h.CheckField)

		r.Group(func(r chi.Router) {
			r.Use(Sessions(logger))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.GetCart)
				r.Delete("/", h.ClearCart)
				r.Post("/panel", h.TogglePanel)

				r.Post("/items", h.AddItem)
				r.Put("/items/{id}", h.UpdateItem)
				r.Delete("/items/{id}", h.RemoveItem)
				r.Post("/items/{id}/increase", h.IncreaseItem)
				r.Post("/items/{id}/decrease", h.DecreaseItem)
			})

			r.Get("/checkout/summary", h.CheckoutSummary)
			r.Post("/checkout", h.PlaceOrder)
			r.Get("/orders/last", h.LastOrder)

			r.Get("/session", h.GetSession)
			r.Post("/session/login", h.Login)
			r.Post("/session/logout", h.Logout)

			r.Get("/profile", h.GetProfile)
			r.Put("/profile", h.UpdateProfile)

			r.Get("/theme", h.GetTheme)
			r.Post("/theme/toggle", h.ToggleTheme)
		})
	})

	return r
}
