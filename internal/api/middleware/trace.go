package middleware

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/arc-api/internal/api/shared"
	"github.com/phrazzld/arc-api/internal/platform/logger"
)

// NewTraceMiddleware returns middleware that gives every request a trace ID
// and stores a request logger, derived from base and tagged with the trace
// and request IDs, in the request context.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())

			log := base.With("trace_id", shared.GetTraceID(ctx))
			if reqID := chimw.GetReqID(ctx); reqID != "" {
				log = log.With("request_id", reqID)
			}
			log.Debug("request started",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr)

			next.ServeHTTP(w, r.WithContext(logger.WithLogger(ctx, log)))
		})
	}
}
