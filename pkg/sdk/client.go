package productsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/productsearch/internal/db"
	dbRedis "github.com/kailas-cloud/productsearch/internal/db/redis"
	"github.com/kailas-cloud/productsearch/internal/domain/product"
	documentrepo "github.com/kailas-cloud/productsearch/internal/repository/document"
	"github.com/kailas-cloud/productsearch/internal/repository/schema"
	searchrepo "github.com/kailas-cloud/productsearch/internal/repository/search"
	healthuc "github.com/kailas-cloud/productsearch/internal/usecase/health"
	indexinguc "github.com/kailas-cloud/productsearch/internal/usecase/indexing"
	searchuc "github.com/kailas-cloud/productsearch/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultIndexName        = "search-index"
	defaultKeyPrefix        = "product:"
)

// Internal interfaces, swapped for mocks in tests.
type schemaUseCase interface {
	EnsureIndex(ctx context.Context) error
}

type indexingUseCase interface {
	Handle(ctx context.Context, payload []byte) error
}

type documentReader interface {
	Get(ctx context.Context, productID int64) (product.Document, error)
}

type searchUseCase interface {
	Search(ctx context.Context, query string, fields *string) ([]searchuc.Result, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// HealthStatus is the aggregated state of the store and the index.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // "database", "index" → "ok"/"error"
}

// OK reports whether every check passed.
func (h HealthStatus) OK() bool { return h.Status == string(healthuc.Healthy) }

// Client is the productsearch SDK entry point.
type Client struct {
	store     db.Store
	schema    schemaUseCase
	indexer   indexingUseCase
	docs      documentReader
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the store.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("productsearch: store address required (use WithRedis)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		TLS:      cfg.tls,
	})
	if err != nil {
		return nil, fmt.Errorf("productsearch: create store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("productsearch: store not ready: %w", err)
	}

	c, err := wireClient(store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	indexName := cfg.indexName
	if indexName == "" {
		indexName = defaultIndexName
	}
	keyPrefix := cfg.keyPrefix
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}

	schemaMgr, err := schema.New(store, indexName, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("productsearch: %w", err)
	}
	docRepo := documentrepo.New(store, keyPrefix)

	return &Client{
		store:     store,
		schema:    schemaMgr,
		indexer:   indexinguc.New(docRepo, keyPrefix),
		docs:      docRepo,
		searchSvc: searchuc.New(searchrepo.New(store, indexName), cfg.maxResults),
		healthSvc: healthuc.New(store, schemaMgr),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// EnsureIndex creates the search index if it does not exist yet.
func (c *Client) EnsureIndex(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ensure_index", start, err) }()

	return c.schema.EnsureIndex(ctx) //nolint:wrapcheck // already wrapped by the schema manager
}

// Index decodes one raw change event and upserts its document.
func (c *Client) Index(ctx context.Context, payload []byte) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("index", start, err) }()

	if err = c.indexer.Handle(ctx, payload); err != nil {
		return fmt.Errorf("index: %w", err)
	}
	return nil
}

// Get returns the stored fields of one product.
func (c *Client) Get(ctx context.Context, productID int64) (_ map[string]string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get", start, err) }()

	doc, err := c.docs.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	return doc.Fields, nil
}

// Search runs a query in the engine's native syntax. With no fields every
// stored field is returned; otherwise only the named ones.
func (c *Client) Search(ctx context.Context, query string, fields ...string) (_ []map[string]string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	var csv *string
	if len(fields) > 0 {
		joined := product.JoinList(fields)
		csv = &joined
	}

	results, err := c.searchSvc.Search(ctx, query, csv)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	out := make([]map[string]string, len(results))
	for i, r := range results {
		out[i] = r
	}
	return out, nil
}

// Health pings the store and checks that the index exists.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for name, res := range report.Checks {
		checks[name] = string(res)
	}
	return HealthStatus{Status: string(report.Status), Checks: checks}
}
