package chi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/productsearch/internal/domain"
	"github.com/kailas-cloud/productsearch/internal/domain/product"
	"github.com/kailas-cloud/productsearch/internal/metrics"
)

// DocumentReader reads back an indexed product document.
type DocumentReader interface {
	Get(ctx context.Context, productID int64) (product.Document, error)
}

// ConsumerStater exposes the indexer's consumer state.
type ConsumerStater interface {
	StateName() string
}

// OpsServer holds the indexer's side listener handlers.
type OpsServer struct {
	health   HealthChecker
	docs     DocumentReader
	consumer ConsumerStater
	logger   *zap.Logger
}

// NewOpsServer creates the indexer's operational HTTP handlers. consumer can be nil.
func NewOpsServer(health HealthChecker, docs DocumentReader, consumer ConsumerStater, logger *zap.Logger) *OpsServer {
	return &OpsServer{health: health, docs: docs, consumer: consumer, logger: logger}
}

// NewOpsRouter wires /health, /metrics, /consumer and /documents/{id}.
func NewOpsRouter(s *OpsServer) http.Handler {
	metrics.RegisterHTTPMetrics()

	api := &Server{health: s.health, logger: s.logger}

	r := chi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(metrics.Middleware())

	r.Get("/health", api.HealthCheck)
	r.Get("/metrics", api.Metrics)
	r.Get("/consumer", s.ConsumerState)
	r.Get("/documents/{id}", s.GetDocument)

	return r
}

// GetDocument handles GET /documents/{id}: the stored hash of one product.
func (s *OpsServer) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "id must be an integer")
		return
	}

	doc, err := s.docs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			writeError(w, http.StatusNotFound, codeNotFound, domain.ErrDocumentNotFound.Error())
			return
		}
		s.logger.Error("get document", zap.Int64("product_id", id), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, codeServiceUnavailable, domain.ErrServiceUnavailable.Error())
		return
	}

	writeJSON(w, http.StatusOK, doc.Fields)
}

// ConsumerState handles GET /consumer.
func (s *OpsServer) ConsumerState(w http.ResponseWriter, _ *http.Request) {
	state := "unknown"
	if s.consumer != nil {
		state = s.consumer.StateName()
	}
	writeJSON(w, http.StatusOK, map[string]string{"state": state})
}
