package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trendify/storefront/internal/storage"
	"github.com/trendify/storefront/pkg/logger"
	"github.com/trendify/storefront/pkg/middleware"
)

const (
	// SessionHeader carries the client identity for API clients.
	SessionHeader = "X-Session-ID"
	// SessionCookie carries the client identity for browsers.
	SessionCookie = "trendify_sid"
)

// Sessions resolves the client identity from the X-Session-ID header or the
// trendify_sid cookie and issues a new one when neither holds a UUID. The id is
// echoed in both and stored in the context; the request logger and span are
// re-enriched so that they carry the session id. The cookie lives as long as durable keys do so
// the theme outlives the browser session; session keys still expire server side.
func Sessions(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sessionIDFromRequest(r)
			if id == "" {
				id = uuid.New().String()
			}

			w.Header().Set(SessionHeader, id)
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(storage.DurableTTL / time.Second),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := middleware.EnrichContext(logger.WithSessionID(r.Context(), id), base)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionIDFromRequest(r *http.Request) string {
	if id := r.Header.Get(SessionHeader); isSessionID(id) {
		return id
	}
	if c, err := r.Cookie(SessionCookie); err == nil && isSessionID(c.Value) {
		return c.Value
	}
	return ""
}

func isSessionID(s string) bool {
	if s == "" {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
