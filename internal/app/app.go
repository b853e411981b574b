package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nyxieeee/aa2000-website/internal/cart"
	"github.com/nyxieeee/aa2000-website/internal/catalog"
	"github.com/nyxieeee/aa2000-website/internal/checkout"
	"github.com/nyxieeee/aa2000-website/internal/client"
	"github.com/nyxieeee/aa2000-website/internal/config"
	"github.com/nyxieeee/aa2000-website/internal/event"
	handler "github.com/nyxieeee/aa2000-website/internal/handler/http"
	"github.com/nyxieeee/aa2000-website/internal/storage"
	"github.com/nyxieeee/aa2000-website/pkg/health"
	"github.com/nyxieeee/aa2000-website/pkg/httpclient"
	pkgkafka "github.com/nyxieeee/aa2000-website/pkg/kafka"
	"github.com/nyxieeee/aa2000-website/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg           *config.Config
	logger        *slog.Logger
	rdb           *redis.Client
	producer      *pkgkafka.Producer
	cache         *catalog.Cache
	httpServer    *http.Server
	shutdownTrace func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize tracing. With an empty endpoint spans are created but
	// not exported.
	shutdownTrace, err := tracing.Init(ctx, tracing.Config{
		ServiceName:  "aa2000-storefront",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SampleRatio:  cfg.TraceSample,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Initialize Redis client.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Back office API client behind a circuit breaker.
	httpClient := httpclient.New(httpclient.DefaultConfig())
	cbClient := httpclient.NewCircuitBreakerClient(
		httpClient,
		httpclient.DefaultCircuitBreakerConfig("backoffice"),
		logger,
	)
	backend := client.NewBackend(cbClient, cfg.BackOfficeURL, logger)

	// Build the dependency graph.
	cartTTL := time.Duration(cfg.CartTTL) * time.Hour
	store := storage.NewRedisStore(rdb, cartTTL, logger)
	eventProducer := event.NewProducer(producer, logger)
	cache := catalog.New(backend, store, eventProducer, logger)
	sessions := cart.NewSessions(store, eventProducer, logger)
	checkoutSvc := checkout.NewService(sessions, backend, eventProducer, logger, cfg.ConfirmationDelay)

	// Load the product catalog before accepting traffic. A back office
	// outage here is not fatal; the cache degrades to local mode.
	cache.Initialize(ctx)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	// HTTP router.
	router := handler.NewRouter(cache, sessions, checkoutSvc, backend, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:           cfg,
		logger:        logger,
		rdb:           rdb,
		producer:      producer,
		cache:         cache,
		httpServer:    httpServer,
		shutdownTrace: shutdownTrace,
	}, nil
}

// Run starts the HTTP server and the catalog sync loop, blocking until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	syncCtx, stopSync := context.WithCancel(ctx)
	defer stopSync()
	go a.cache.Run(syncCtx, a.cfg.CatalogSyncInterval)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	// Close Redis client.
	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	// Flush pending spans.
	if err := a.shutdownTrace(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
