package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/trendify/storefront/internal/catalog"
	catalogmem "github.com/trendify/storefront/internal/catalog/memory"
	catalogpg "github.com/trendify/storefront/internal/catalog/postgres"
	"github.com/trendify/storefront/internal/checkout"
	"github.com/trendify/storefront/internal/config"
	"github.com/trendify/storefront/internal/event"
	handler "github.com/trendify/storefront/internal/handler/http"
	"github.com/trendify/storefront/internal/profile"
	"github.com/trendify/storefront/internal/storage"
	"github.com/trendify/storefront/internal/storage/memory"
	redisstore "github.com/trendify/storefront/internal/storage/redis"
	"github.com/trendify/storefront/pkg/database"
	"github.com/trendify/storefront/pkg/health"
	pkgkafka "github.com/trendify/storefront/pkg/kafka"
	"github.com/trendify/storefront/pkg/middleware"
)

const serviceName = "storefront"

// App wires together all dependencies and runs the storefront.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	pool       *pgxpool.Pool
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
// Anything opened before a failure is closed again.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	healthHandler := health.NewHandler()

	sessions, err := a.initStorage(ctx, healthHandler)
	if err != nil {
		return nil, err
	}
	products, err := a.initCatalog(ctx, healthHandler)
	if err != nil {
		return nil, err
	}
	publisher := a.initEvents(healthHandler)

	// Build the dependency graph.
	events := event.NewProducer(publisher, logger)
	checkoutSvc := checkout.NewService(checkout.NewValidator(time.Now), events, logger)
	h := handler.NewHandler(
		sessions,
		catalog.NewService(products),
		checkoutSvc,
		profile.NewService(time.Now),
		events,
		logger,
	)

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      handler.NewRouter(h, healthHandler, cors, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return a, nil
}

func (a *App) initStorage(ctx context.Context, hh *health.Handler) (storage.Provider, error) {
	ttl := a.cfg.SessionTTL()
	if a.cfg.StorageBackend != config.BackendRedis {
		a.logger.Info("using in-memory session storage", slog.Duration("session_ttl", ttl))
		return memory.New(ttl), nil
	}

	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		URL:      a.cfg.RedisURL,
		Addr:     a.cfg.RedisAddr,
		Password: a.cfg.RedisPass,
		DB:       a.cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.rdb = rdb
	a.logger.Info("connected to Redis",
		slog.String("addr", rdb.Options().Addr),
		slog.Int("db", rdb.Options().DB),
	)

	hh.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	tracer := &database.QueryTracer{System: "redis", SlowThreshold: a.cfg.SlowQueryThreshold(), Logger: a.logger}
	return redisstore.New(rdb, ttl, tracer), nil
}

func (a *App) initCatalog(ctx context.Context, hh *health.Handler) (catalog.Repository, error) {
	if a.cfg.CatalogBackend != config.BackendPostgres {
		a.logger.Info("using in-memory catalog")
		return catalogmem.New(catalog.Seed()), nil
	}

	pool, err := database.NewPostgresPool(ctx, database.PostgresConfig{
		Host:            a.cfg.PostgresHost,
		Port:            a.cfg.PostgresPort,
		User:            a.cfg.PostgresUser,
		Password:        a.cfg.PostgresPassword,
		DBName:          a.cfg.PostgresDB,
		SSLMode:         a.cfg.PostgresSSLMode,
		MaxConns:        10,
		MinConns:        2,
		MaxConnLifetime: 30 * time.Minute,
		MaxConnIdleTime: 5 * time.Minute,
	}, a.logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	a.pool = pool
	a.logger.Info("connected to PostgreSQL", slog.String("host", a.cfg.PostgresHost))

	if err := database.RunMigrations(ctx, pool, catalogpg.Migrations(), a.logger); err != nil {
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}

	collector := database.NewPoolStatsCollector(pool, serviceName)
	if err := prometheus.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, fmt.Errorf("register pool metrics: %w", err)
		}
	}

	hh.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})

	tracer := &database.QueryTracer{System: "postgresql", SlowThreshold: a.cfg.SlowQueryThreshold(), Logger: a.logger}
	return catalogpg.New(pool, tracer), nil
}

func (a *App) initEvents(hh *health.Handler) event.Publisher {
	if !a.cfg.KafkaEnabled {
		a.logger.Info("kafka disabled, events are discarded")
		return event.Noop{}
	}

	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(a.cfg.KafkaBrokers), a.logger)
	a.producer = producer
	a.logger.Info("kafka producer initialized", slog.Any("brokers", a.cfg.KafkaBrokers))

	hh.RegisterNonCritical("kafka", producer.Ping)
	return producer
}

// Handler returns the HTTP handler. It is exposed for tests.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.close()
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

	a.close()
	a.logger.Info("application shutdown complete")
	return nil
}

// close releases the backing clients in reverse order of creation.
func (a *App) close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}
}
