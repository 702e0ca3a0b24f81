// Package schema creates the product search index.
package schema

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/productsearch/internal/db"
	"github.com/kailas-cloud/productsearch/internal/domain"
	"github.com/kailas-cloud/productsearch/internal/domain/product"
	"github.com/kailas-cloud/productsearch/internal/logger"
)

// textWeight is the relevance weight of every TEXT field.
const textWeight = 1.0

// store is the consumer interface for index lifecycle (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Manager owns the FT index definition over product hashes.
type Manager struct {
	store store
	def   *db.IndexDefinition
}

// New builds the index definition for name over keys starting with keyPrefix.
func New(s store, name, keyPrefix string) (*Manager, error) {
	def, err := buildIndex(name, keyPrefix)
	if err != nil {
		return nil, err
	}
	return &Manager{store: s, def: def}, nil
}

// Definition returns the index definition the manager creates.
func (m *Manager) Definition() *db.IndexDefinition {
	return m.def
}

// EnsureIndex creates the index. An index that already exists counts as success;
// its schema is not compared. Any other failure wraps domain.ErrIndexUnavailable.
func (m *Manager) EnsureIndex(ctx context.Context) error {
	err := m.store.CreateIndex(ctx, m.def)
	switch {
	case err == nil:
		logger.FromContext(ctx).Info("search index created",
			zap.String("index", m.def.Name),
			zap.String("schema", m.def.String()),
		)
		return nil
	case errors.Is(err, db.ErrIndexExists):
		logger.FromContext(ctx).Warn("search index already exists, keeping it",
			zap.String("index", m.def.Name),
		)
		return nil
	default:
		return fmt.Errorf("create index %s: %w: %w", m.def.Name, domain.ErrIndexUnavailable, err)
	}
}

// Exists reports whether the index is present.
func (m *Manager) Exists(ctx context.Context) (bool, error) {
	ok, err := m.store.IndexExists(ctx, m.def.Name)
	if err != nil {
		return false, fmt.Errorf("index info %s: %w", m.def.Name, err)
	}
	return ok, nil
}

func buildIndex(name, keyPrefix string) (*db.IndexDefinition, error) {
	def, err := db.NewIndex(name).
		Prefix(keyPrefix).
		TextWeighted(product.FieldID, textWeight).
		TextWeighted(product.FieldName, textWeight).
		Numeric(product.FieldCreated).
		TextWeighted(product.FieldDescription, textWeight).
		TextWeighted(product.FieldBrand, textWeight).
		Tag(product.FieldTags).
		Tag(product.FieldCategories).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build index %s: %w", name, err)
	}
	return def, nil
}
