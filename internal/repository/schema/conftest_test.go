package schema

import (
	"context"
	"testing"

	"github.com/kailas-cloud/productsearch/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func newTestManager(t *testing.T) (*Manager, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	m, err := New(ms, "search-index", "product:")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m, ms
}
