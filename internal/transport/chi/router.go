package chi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/kailas-cloud/productsearch/internal/metrics"
)

// RouterOptions tunes the query router.
type RouterOptions struct {
	// RateLimitPerMinute caps /search requests per client IP. 0 disables the limit.
	RateLimitPerMinute int
}

// NewRouter wires the query service routes and middleware.
func NewRouter(s *Server, logger *zap.Logger, opts RouterOptions) http.Handler {
	metrics.RegisterHTTPMetrics()

	r := chi.NewRouter()
	r.Use(JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEvent(logger))
	r.Use(metrics.Middleware())

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Group(func(r chi.Router) {
		if opts.RateLimitPerMinute > 0 {
			r.Use(httprate.Limit(
				opts.RateLimitPerMinute, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
					writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
				}),
			))
		}
		r.Get("/search", s.Search)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, "method not allowed")
	})

	return r
}
