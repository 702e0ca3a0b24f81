package document

import (
	"context"
	"testing"

	"github.com/kailas-cloud/productsearch/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn    func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn func(ctx context.Context, key string) (map[string]string, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

// hashStore merges field writes like HSET does.
type hashStore struct {
	hashes map[string]map[string]string
}

func newHashStore() *hashStore {
	return &hashStore{hashes: make(map[string]map[string]string)}
}

func (h *hashStore) HSet(_ context.Context, key string, fields map[string]string) error {
	cur, ok := h.hashes[key]
	if !ok {
		cur = make(map[string]string, len(fields))
		h.hashes[key] = cur
	}
	for k, v := range fields {
		cur[k] = v
	}
	return nil
}

func (h *hashStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	cur, ok := h.hashes[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	out := make(map[string]string, len(cur))
	for k, v := range cur {
		out[k] = v
	}
	return out, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "product:"), ms
}
