package productsearch

import (
	"context"

	"github.com/kailas-cloud/productsearch/internal/domain/product"
	healthuc "github.com/kailas-cloud/productsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/productsearch/internal/usecase/search"
)

// --- schemaUseCase mock ---

type mockSchemaUC struct {
	ensureFn func(ctx context.Context) error
}

func (m *mockSchemaUC) EnsureIndex(ctx context.Context) error {
	return m.ensureFn(ctx)
}

// --- indexingUseCase mock ---

type mockIndexingUC struct {
	handleFn func(ctx context.Context, payload []byte) error
}

func (m *mockIndexingUC) Handle(ctx context.Context, payload []byte) error {
	return m.handleFn(ctx, payload)
}

// --- documentReader mock ---

type mockDocumentReader struct {
	getFn func(ctx context.Context, productID int64) (product.Document, error)
}

func (m *mockDocumentReader) Get(ctx context.Context, productID int64) (product.Document, error) {
	return m.getFn(ctx, productID)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, query string, fields *string) ([]searchuc.Result, error)
}

func (m *mockSearchUC) Search(ctx context.Context, query string, fields *string) ([]searchuc.Result, error) {
	return m.searchFn(ctx, query, fields)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthUC) Check(ctx context.Context) healthuc.Report {
	return m.checkFn(ctx)
}
