// Package search runs raw queries against the product index.
package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/productsearch/internal/db"
	"github.com/kailas-cloud/productsearch/internal/domain"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, q *db.Query) (*db.SearchResult, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store     store
	indexName string
}

// New creates a search repository over one index.
func New(s store, indexName string) *Repo {
	return &Repo{store: s, indexName: indexName}
}

// Search runs query against the index and returns the stored fields of each hit,
// in engine order. fields nil returns every field; otherwise only the named ones.
// Engine rejections map to domain.BadQueryError, everything else to
// domain.ErrServiceUnavailable.
func (r *Repo) Search(
	ctx context.Context, query string, offset, limit int, fields []string,
) ([]map[string]string, error) {
	sr, err := r.store.Search(ctx, &db.Query{
		IndexName:    r.indexName,
		Text:         query,
		Offset:       offset,
		Limit:        limit,
		ReturnFields: fields,
	})
	if err != nil {
		return nil, classify(err)
	}

	docs := make([]map[string]string, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		if e.Fields == nil {
			docs = append(docs, map[string]string{})
			continue
		}
		docs = append(docs, e.Fields)
	}
	return docs, nil
}

func classify(err error) error {
	var qe *db.QueryError
	if errors.As(err, &qe) {
		return &domain.BadQueryError{Reason: qe.Reason}
	}
	if errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("%w: index missing: %w", domain.ErrServiceUnavailable, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
}
