package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/productsearch/internal/config"
	dbRedis "github.com/kailas-cloud/productsearch/internal/db/redis"
	logpkg "github.com/kailas-cloud/productsearch/internal/logger"
	"github.com/kailas-cloud/productsearch/internal/metrics"
	"github.com/kailas-cloud/productsearch/internal/repository/schema"
	searchrepo "github.com/kailas-cloud/productsearch/internal/repository/search"
	chiTransport "github.com/kailas-cloud/productsearch/internal/transport/chi"
	healthuc "github.com/kailas-cloud/productsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/productsearch/internal/usecase/search"
	"github.com/kailas-cloud/productsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, "searchapi", cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting product search API", append(version.Fields(),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("redis_addr", cfg.Redis.Addr()),
		zap.String("index", cfg.Index.Name),
	)...)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:          []string{cfg.Redis.Addr()},
		Username:       cfg.Redis.Username,
		Password:       cfg.Redis.Password,
		TLS:            cfg.Redis.TLS,
		ConnectTimeout: time.Duration(cfg.Redis.ConnectTimeoutMs) * time.Millisecond,
		PoolSize:       cfg.Redis.PoolSize,
	})
	if err != nil {
		logger.Fatal("Failed to create index store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Redis.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Index store not ready", zap.Error(err))
	}
	logger.Info("Connected to index store")

	// Register query metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// The index is owned by the indexer; the manager here only backs the health check.
	schemaMgr, err := schema.New(store, cfg.Index.Name, cfg.Index.KeyPrefix)
	if err != nil {
		logger.Fatal("Invalid index definition", zap.Error(err))
	}

	searchSvc := searchuc.New(searchrepo.New(store, cfg.Index.Name), cfg.Index.MaxResults)
	healthSvc := healthuc.New(store, schemaMgr)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)
	handler := chiTransport.NewRouter(server, logger, chiTransport.RouterOptions{
		RateLimitPerMinute: cfg.HTTP.RateLimitPerMinute,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
