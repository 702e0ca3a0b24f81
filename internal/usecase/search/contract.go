package search

import "context"

// Repository runs raw queries against the product index.
type Repository interface {
	Search(ctx context.Context, query string, offset, limit int, fields []string) ([]map[string]string, error)
}
