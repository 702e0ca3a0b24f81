// Package search answers product queries against the index.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/productsearch/internal/domain"
	"github.com/kailas-cloud/productsearch/internal/logger"
	"github.com/kailas-cloud/productsearch/internal/metrics"
)

// DefaultMaxResults is the fixed result window.
const DefaultMaxResults = 1000

// fieldSeparator splits the fields parameter. Names are not trimmed.
const fieldSeparator = ","

// Result is one matched document as a flat field map.
type Result map[string]string

// Service executes queries against the product index.
type Service struct {
	repo       Repository
	maxResults int
}

// New creates a search service. maxResults <= 0 uses DefaultMaxResults.
func New(repo Repository, maxResults int) *Service {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Service{repo: repo, maxResults: maxResults}
}

// Search passes query to the engine unchanged and returns at most the first
// maxResults hits in engine order. fields nil returns every stored field;
// otherwise it is split on "," and only those fields are returned.
// A query with no hits returns an empty, non-nil slice.
func (s *Service) Search(ctx context.Context, query string, fields *string) ([]Result, error) {
	if query == "" {
		metrics.SearchQueriesTotal.WithLabelValues(resultBadQuery).Inc()
		return nil, &domain.BadQueryError{Reason: "query is empty"}
	}

	var returnFields []string
	if fields != nil {
		returnFields = ParseFields(*fields)
	}

	start := time.Now()
	docs, err := s.repo.Search(ctx, query, 0, s.maxResults, returnFields)
	if err != nil {
		outcome := classify(err)
		metrics.SearchQueriesTotal.WithLabelValues(outcome).Inc()
		logger.FromContext(ctx).Debug("search failed",
			zap.String("query", query),
			zap.String("result", outcome),
			zap.Error(err),
		)
		return nil, fmt.Errorf("search: %w", err)
	}

	results := make([]Result, 0, len(docs))
	for _, d := range docs {
		results = append(results, Result(d))
	}

	metrics.SearchQueriesTotal.WithLabelValues(resultOK).Inc()
	metrics.SearchResultsReturned.Observe(float64(len(results)))
	logger.FromContext(ctx).Debug("search done",
		zap.String("query", query),
		zap.Int("results", len(results)),
		zap.Duration("took", time.Since(start)),
	)
	return results, nil
}

// ParseFields splits a comma-separated field list. Entries are kept verbatim,
// including empty ones and surrounding spaces.
func ParseFields(csv string) []string {
	return strings.Split(csv, fieldSeparator)
}

const (
	resultOK          = "ok"
	resultBadQuery    = "bad_query"
	resultUnavailable = "unavailable"
	resultError       = "error"
)

func classify(err error) string {
	switch {
	case errors.Is(err, domain.ErrBadQuery):
		return resultBadQuery
	case errors.Is(err, domain.ErrServiceUnavailable):
		return resultUnavailable
	default:
		return resultError
	}
}
