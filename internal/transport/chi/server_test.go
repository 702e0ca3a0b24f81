package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/productsearch/internal/domain"
	healthuc "github.com/kailas-cloud/productsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/productsearch/internal/usecase/search"
)

func newTestRouter(t *testing.T, s *mockSearcher, opts RouterOptions) http.Handler {
	t.Helper()
	return NewRouter(NewServer(s, &mockHealth{report: healthyReport()}, zap.NewNop()), zap.NewNop(), opts)
}

func doGet(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp
}

// --- /search ---

func TestSearch_ReturnsArray(t *testing.T) {
	var gotQuery string
	var gotFields *string
	s := &mockSearcher{searchFn: func(_ context.Context, q string, f *string) ([]searchuc.Result, error) {
		gotQuery, gotFields = q, f
		return []searchuc.Result{{"id": "42", "name": "Widget"}}, nil
	}}

	rr := doGet(t, newTestRouter(t, s, RouterOptions{}), "/search?q=%40brand%3AAcme")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotQuery != "@brand:Acme" {
		t.Errorf("expected decoded query, got %q", gotQuery)
	}
	if gotFields != nil {
		t.Errorf("expected nil fields, got %q", *gotFields)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type: %s", ct)
	}

	var body []map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 1 || body[0]["name"] != "Widget" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestSearch_EmptyResultIsEmptyArray(t *testing.T) {
	rr := doGet(t, newTestRouter(t, &mockSearcher{}, RouterOptions{}), "/search?q=nothing")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("expected [], got %q", rr.Body.String())
	}
}

func TestSearch_FieldsPassedVerbatim(t *testing.T) {
	var gotFields *string
	s := &mockSearcher{searchFn: func(_ context.Context, _ string, f *string) ([]searchuc.Result, error) {
		gotFields = f
		return []searchuc.Result{}, nil
	}}

	doGet(t, newTestRouter(t, s, RouterOptions{}), "/search?q=*&fields=name,%20brand")

	if gotFields == nil || *gotFields != "name, brand" {
		t.Errorf("expected fields %q, got %v", "name, brand", gotFields)
	}
}

func TestSearch_EmptyFieldsParamIsPresent(t *testing.T) {
	var gotFields *string
	s := &mockSearcher{searchFn: func(_ context.Context, _ string, f *string) ([]searchuc.Result, error) {
		gotFields = f
		return []searchuc.Result{}, nil
	}}

	doGet(t, newTestRouter(t, s, RouterOptions{}), "/search?q=*&fields=")

	if gotFields == nil || *gotFields != "" {
		t.Errorf("expected present empty fields, got %v", gotFields)
	}
}

func TestSearch_MissingQuery(t *testing.T) {
	s := &mockSearcher{searchFn: func(context.Context, string, *string) ([]searchuc.Result, error) {
		t.Fatal("searcher must not be called")
		return nil, nil
	}}

	rr := doGet(t, newTestRouter(t, s, RouterOptions{}), "/search")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != codeBadRequest {
		t.Errorf("unexpected code: %s", resp.Code)
	}
}

func TestSearch_BadQuery(t *testing.T) {
	s := &mockSearcher{searchFn: func(context.Context, string, *string) ([]searchuc.Result, error) {
		return nil, &domain.BadQueryError{Reason: "Syntax error at offset 7 near brand"}
	}}

	rr := doGet(t, newTestRouter(t, s, RouterOptions{}), "/search?q=%40brand%3A(")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	resp := decodeError(t, rr)
	if resp.Code != codeBadQuery {
		t.Errorf("unexpected code: %s", resp.Code)
	}
	if resp.Message != "Syntax error at offset 7 near brand" {
		t.Errorf("expected engine message, got %q", resp.Message)
	}
}

func TestSearch_ServiceUnavailable(t *testing.T) {
	s := &mockSearcher{searchFn: func(context.Context, string, *string) ([]searchuc.Result, error) {
		return nil, errors.Join(domain.ErrServiceUnavailable, errors.New("dial tcp 10.0.0.1:6379: i/o timeout"))
	}}

	rr := doGet(t, newTestRouter(t, s, RouterOptions{}), "/search?q=*")

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	resp := decodeError(t, rr)
	if resp.Code != codeServiceUnavailable {
		t.Errorf("unexpected code: %s", resp.Code)
	}
	if strings.Contains(resp.Message, "10.0.0.1") {
		t.Errorf("internal detail leaked: %q", resp.Message)
	}
}

func TestSearch_InternalError(t *testing.T) {
	s := &mockSearcher{searchFn: func(context.Context, string, *string) ([]searchuc.Result, error) {
		return nil, errors.New("unexpected")
	}}

	rr := doGet(t, newTestRouter(t, s, RouterOptions{}), "/search?q=*")

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Message != "internal error" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
}

func TestSearch_RequestIDHeader(t *testing.T) {
	rr := doGet(t, newTestRouter(t, &mockSearcher{}, RouterOptions{}), "/search?q=*")

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestSearch_RateLimited(t *testing.T) {
	h := newTestRouter(t, &mockSearcher{}, RouterOptions{RateLimitPerMinute: 1})

	if rr := doGet(t, h, "/search?q=*"); rr.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rr.Code)
	}
	rr := doGet(t, h, "/search?q=*")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rr.Code)
	}

	// health is outside the limited group
	if rr := doGet(t, h, "/health"); rr.Code != http.StatusOK {
		t.Errorf("health must not be rate limited, got %d", rr.Code)
	}
}

// --- /health ---

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		report healthuc.Report
		want   int
	}{
		{"healthy", healthyReport(), http.StatusOK},
		{"degraded", healthuc.Report{
			Status: healthuc.Degraded,
			Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK, "index": healthuc.CheckError},
		}, http.StatusServiceUnavailable},
		{"unhealthy", healthuc.Report{
			Status: healthuc.Unhealthy,
			Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckError},
		}, http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := NewServer(&mockSearcher{}, &mockHealth{report: tc.report}, zap.NewNop())
			rr := doGet(t, NewRouter(srv, zap.NewNop(), RouterOptions{}), "/health")

			if rr.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rr.Code)
			}
			var body HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Status != string(tc.report.Status) {
				t.Errorf("expected status %q, got %q", tc.report.Status, body.Status)
			}
		})
	}
}

// --- misc ---

func TestMetricsRoute(t *testing.T) {
	h := newTestRouter(t, &mockSearcher{}, RouterOptions{})
	doGet(t, h, "/search?q=*")
	rr := doGet(t, h, "/metrics")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "productsearch_http_requests_total") {
		t.Error("expected http metrics in exposition")
	}
}

func TestNotFoundRoute(t *testing.T) {
	rr := doGet(t, newTestRouter(t, &mockSearcher{}, RouterOptions{}), "/nope")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != codeNotFound {
		t.Errorf("unexpected code: %s", resp.Code)
	}
}

func TestJSONRecoverer(t *testing.T) {
	h := JSONRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := doGet(t, h, "/search?q=*")

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != codeInternalError {
		t.Errorf("unexpected code: %s", resp.Code)
	}
}
