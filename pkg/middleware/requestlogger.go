package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/trendify/storefront/pkg/logger"
)

// EnrichContext stores a logger carrying the correlation, session and trace
// ids found in ctx and copies the correlation and session ids onto the active
// span. Call it again after adding one of those ids.
func EnrichContext(ctx context.Context, base *slog.Logger) context.Context {
	span := trace.SpanFromContext(ctx)
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		span.SetAttributes(attribute.String("correlation_id", id))
	}
	if id := logger.SessionIDFromContext(ctx); id != "" {
		span.SetAttributes(attribute.String("session.id", id))
	}
	return logger.NewContext(ctx, logger.WithContext(ctx, base))
}

// RequestLogger runs EnrichContext for every request. Mount it after
// RequestLogging and Tracing.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(EnrichContext(r.Context(), base)))
		})
	}
}
