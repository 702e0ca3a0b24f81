// Package indexing turns raw change events into index writes.
package indexing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/productsearch/internal/domain"
	"github.com/kailas-cloud/productsearch/internal/domain/product"
	"github.com/kailas-cloud/productsearch/internal/logger"
	"github.com/kailas-cloud/productsearch/internal/metrics"
)

// Event outcomes counted by metrics.EventsTotal.
const (
	ResultIndexed     = "indexed"
	ResultMalformed   = "malformed"
	ResultWriteFailed = "write_failed"
)

// Service runs decode, mapping and upsert for one record at a time.
type Service struct {
	writer    Writer
	keyPrefix string
}

// New creates an indexing service writing documents under keyPrefix.
func New(w Writer, keyPrefix string) *Service {
	return &Service{writer: w, keyPrefix: keyPrefix}
}

// Handle indexes one raw change event. Errors are *StageError: malformed input
// fails the transform stage and matches domain.ErrMalformedEvent; store failures
// fail the write stage and match domain.ErrIndexUnavailable.
func (s *Service) Handle(ctx context.Context, payload []byte) error {
	enterStage(ctx, StageTransform)
	doc, err := product.Decode(s.keyPrefix, payload)
	if err != nil {
		metrics.EventsTotal.WithLabelValues(ResultMalformed).Inc()
		return &StageError{Stage: StageTransform, Err: err}
	}

	enterStage(ctx, StageWrite)
	start := time.Now()
	err = s.writer.Upsert(ctx, doc)
	metrics.IndexWriteDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.EventsTotal.WithLabelValues(ResultWriteFailed).Inc()
		if !errors.Is(err, domain.ErrInvalidDocument) {
			err = fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
		}
		return &StageError{Stage: StageWrite, Err: err}
	}

	metrics.EventsTotal.WithLabelValues(ResultIndexed).Inc()
	logger.FromContext(ctx).Debug("document indexed",
		zap.String("key", doc.Key),
		zap.String("name", doc.Fields[product.FieldName]),
	)
	return nil
}
