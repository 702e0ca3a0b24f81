package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/productsearch/internal/domain"
	"github.com/kailas-cloud/productsearch/internal/domain/product"
)

func newTestOpsRouter(docs DocumentReader) http.Handler {
	return NewOpsRouter(NewOpsServer(&mockHealth{report: healthyReport()}, docs, fixedState("receiving"), zap.NewNop()))
}

func TestGetDocument(t *testing.T) {
	docs := &mockDocs{getFn: func(_ context.Context, id int64) (product.Document, error) {
		return product.Document{
			Key:    fmt.Sprintf("product:%d", id),
			Fields: map[string]string{product.FieldID: "42", product.FieldTags: "red,sale"},
		}, nil
	}}

	rr := doGet(t, newTestOpsRouter(docs), "/documents/42")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["id"] != "42" || body["tags"] != "red,sale" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	docs := &mockDocs{getFn: func(context.Context, int64) (product.Document, error) {
		return product.Document{}, fmt.Errorf("product:7: %w", domain.ErrDocumentNotFound)
	}}

	rr := doGet(t, newTestOpsRouter(docs), "/documents/7")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestGetDocument_BadID(t *testing.T) {
	docs := &mockDocs{getFn: func(context.Context, int64) (product.Document, error) {
		t.Fatal("reader must not be called")
		return product.Document{}, nil
	}}

	rr := doGet(t, newTestOpsRouter(docs), "/documents/abc")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestGetDocument_StoreError(t *testing.T) {
	docs := &mockDocs{getFn: func(context.Context, int64) (product.Document, error) {
		return product.Document{}, errors.New("connection refused")
	}}

	rr := doGet(t, newTestOpsRouter(docs), "/documents/1")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestConsumerState(t *testing.T) {
	rr := doGet(t, newTestOpsRouter(&mockDocs{}), "/consumer")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["state"] != "receiving" {
		t.Errorf("unexpected state: %v", body)
	}
}

func TestOpsHealth(t *testing.T) {
	rr := doGet(t, newTestOpsRouter(&mockDocs{}), "/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
