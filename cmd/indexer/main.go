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
	documentrepo "github.com/kailas-cloud/productsearch/internal/repository/document"
	"github.com/kailas-cloud/productsearch/internal/repository/schema"
	chiTransport "github.com/kailas-cloud/productsearch/internal/transport/chi"
	kafkaTransport "github.com/kailas-cloud/productsearch/internal/transport/kafka"
	healthuc "github.com/kailas-cloud/productsearch/internal/usecase/health"
	indexinguc "github.com/kailas-cloud/productsearch/internal/usecase/indexing"
	"github.com/kailas-cloud/productsearch/internal/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		return 1
	}
	if err := cfg.ValidateConsumer(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid config:", err)
		return 1
	}

	logger, err := logpkg.NewLogger(env, "indexer", cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting product indexer", append(version.Fields(),
		zap.String("env", env),
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("group_id", cfg.Kafka.GroupID),
		zap.String("redis_addr", cfg.Redis.Addr()),
		zap.String("index", cfg.Index.Name),
	)...)

	store, err := dbRedis.NewStore(storeConfig(cfg.Redis))
	if err != nil {
		logger.Error("Failed to create index store", zap.Error(err))
		return 1
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logpkg.ContextWithLogger(ctx, logger)

	if err := store.WaitForReady(ctx, time.Duration(cfg.Redis.ReadinessTimeout)*time.Second); err != nil {
		logger.Error("Index store not ready", zap.Error(err))
		return 1
	}
	logger.Info("Connected to index store")

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	schemaMgr, err := schema.New(store, cfg.Index.Name, cfg.Index.KeyPrefix)
	if err != nil {
		logger.Error("Invalid index definition", zap.Error(err))
		return 1
	}
	if err := schemaMgr.EnsureIndex(ctx); err != nil {
		logger.Error("Failed to ensure search index", zap.Error(err))
		return 1
	}

	docRepo := documentrepo.New(store, cfg.Index.KeyPrefix)
	indexer := indexinguc.New(docRepo, cfg.Index.KeyPrefix)

	reader, err := kafkaTransport.NewReader(cfg.Kafka)
	if err != nil {
		logger.Error("Failed to create stream reader", zap.Error(err))
		return 1
	}
	consumer := kafkaTransport.NewConsumer(reader, indexer)
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.Warn("Error closing stream reader", zap.Error(err))
		}
	}()

	var opsSrv *http.Server
	if cfg.Metrics.Port > 0 {
		ops := chiTransport.NewOpsServer(healthuc.New(store, schemaMgr), docRepo, consumer, logger)
		opsSrv = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler:           chiTransport.NewOpsRouter(ops),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("Starting ops listener", zap.String("addr", opsSrv.Addr))
			if err := opsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Ops listener error", zap.Error(err))
			}
		}()
	}

	runErr := consumer.Run(ctx)

	if opsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := opsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during ops listener shutdown", zap.Error(err))
		}
		cancel()
	}

	if runErr != nil {
		logger.Error("Consumer stopped on failure", zap.Error(runErr))
		return 1
	}
	logger.Info("Indexer stopped gracefully")
	return 0
}

func storeConfig(c config.RedisConfig) dbRedis.Config {
	return dbRedis.Config{
		Addrs:          []string{c.Addr()},
		Username:       c.Username,
		Password:       c.Password,
		TLS:            c.TLS,
		ConnectTimeout: time.Duration(c.ConnectTimeoutMs) * time.Millisecond,
		PoolSize:       c.PoolSize,
	}
}
