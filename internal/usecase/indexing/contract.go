package indexing

import (
	"context"

	"github.com/kailas-cloud/productsearch/internal/domain/product"
)

// Writer upserts documents into the index store.
type Writer interface {
	Upsert(ctx context.Context, doc product.Document) error
}
