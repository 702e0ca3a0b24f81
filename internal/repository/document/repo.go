// Package document writes product documents to the index store.
package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/productsearch/internal/db"
	"github.com/kailas-cloud/productsearch/internal/domain"
	"github.com/kailas-cloud/productsearch/internal/domain/product"
)

// store is the consumer interface for documents (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo implements usecase/indexing.Writer.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a document repository for keys under keyPrefix.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Upsert sets the document's fields on its hash. Fields not present in doc keep
// their stored values; the hash is never deleted or replaced.
func (r *Repo) Upsert(ctx context.Context, doc product.Document) error {
	if doc.Key == "" {
		return fmt.Errorf("%w: empty key", domain.ErrInvalidDocument)
	}
	if len(doc.Fields) == 0 {
		return fmt.Errorf("%w: no fields for %s", domain.ErrInvalidDocument, doc.Key)
	}

	if err := r.store.HSet(ctx, doc.Key, doc.Fields); err != nil {
		return fmt.Errorf("hset %s: %w", doc.Key, err)
	}
	return nil
}

// Get reads back the stored document of a product.
func (r *Repo) Get(ctx context.Context, productID int64) (product.Document, error) {
	key := product.Key(r.keyPrefix, productID)
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return product.Document{}, fmt.Errorf("%s: %w", key, domain.ErrDocumentNotFound)
		}
		return product.Document{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	return product.Document{Key: key, Fields: fields}, nil
}
