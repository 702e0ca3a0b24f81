// Package chi serves the product search HTTP API.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/productsearch/internal/domain"
	healthuc "github.com/kailas-cloud/productsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/productsearch/internal/usecase/search"
)

// Error codes of the JSON error body.
const (
	codeBadRequest         = "bad_request"
	codeBadQuery           = "bad_query"
	codeNotFound           = "not_found"
	codeServiceUnavailable = "service_unavailable"
	codeInternalError      = "internal_error"
)

// Searcher runs product queries.
type Searcher interface {
	Search(ctx context.Context, query string, fields *string) ([]searchuc.Result, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers of the query service.
type Server struct {
	search        Searcher
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, health HealthChecker, logger *zap.Logger) *Server {
	return &Server{
		search: search,
		health: health,
		logger: logger,
		errorHandlers: []errorHandler{
			badQueryHandler,
			sentinelHandler(domain.ErrServiceUnavailable, http.StatusServiceUnavailable, codeServiceUnavailable),
			sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, codeNotFound),
		},
	}
}

// Search handles GET /search?q=<query>&fields=<csv>.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q, ok := params["q"]
	if !ok || len(q) == 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "query parameter q is required")
		return
	}

	var fields *string
	if f, ok := params["fields"]; ok && len(f) > 0 {
		fields = &f[0]
	}

	results, err := s.search.Search(r.Context(), q[0], fields)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// badQueryHandler returns the engine's message so the caller can fix the query.
func badQueryHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrBadQuery) {
		return false
	}
	msg := domain.ErrBadQuery.Error()
	var bq *domain.BadQueryError
	if errors.As(err, &bq) {
		msg = bq.Reason
	}
	writeError(w, http.StatusBadRequest, codeBadQuery, msg)
	return true
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := requestLogger(r, s.logger)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
