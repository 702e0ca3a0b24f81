package chi

import (
	"context"

	"github.com/kailas-cloud/productsearch/internal/domain/product"
	healthuc "github.com/kailas-cloud/productsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/productsearch/internal/usecase/search"
)

type mockSearcher struct {
	searchFn func(ctx context.Context, query string, fields *string) ([]searchuc.Result, error)
}

func (m *mockSearcher) Search(ctx context.Context, query string, fields *string) ([]searchuc.Result, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, fields)
	}
	return []searchuc.Result{}, nil
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

func healthyReport() healthuc.Report {
	return healthuc.Report{
		Status: healthuc.Healthy,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
	}
}

type mockDocs struct {
	getFn func(ctx context.Context, productID int64) (product.Document, error)
}

func (m *mockDocs) Get(ctx context.Context, productID int64) (product.Document, error) {
	return m.getFn(ctx, productID)
}

type fixedState string

func (s fixedState) StateName() string { return string(s) }
