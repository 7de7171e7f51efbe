package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/samadhanbodkhe/gudworld-admin/internal/cache"
	"github.com/samadhanbodkhe/gudworld-admin/internal/config"
	"github.com/samadhanbodkhe/gudworld-admin/internal/database"
	"github.com/samadhanbodkhe/gudworld-admin/internal/events"
	idemmemory "github.com/samadhanbodkhe/gudworld-admin/internal/idempotency/memory"
	idempostgres "github.com/samadhanbodkhe/gudworld-admin/internal/idempotency/postgres"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/adapters"
	httpadapter "github.com/samadhanbodkhe/gudworld-admin/internal/orders/adapters/http"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/adapters/memory"
	orderspostgres "github.com/samadhanbodkhe/gudworld-admin/internal/orders/adapters/postgres"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/adapters/upstream"
	ordersapp "github.com/samadhanbodkhe/gudworld-admin/internal/orders/app"
	ordersmetrics "github.com/samadhanbodkhe/gudworld-admin/internal/orders/metrics"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
	"github.com/samadhanbodkhe/gudworld-admin/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("admin api exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := telemetry.NewLogger(os.Stdout, telemetry.ParseLevel(cfg.Telemetry.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		Insecure:       cfg.Telemetry.OTelInsecure,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	meter := tel.Meter(cfg.Service.Name)
	orderMetrics, err := ordersmetrics.NewMetrics(meter)
	if err != nil {
		return err
	}
	httpMetrics, err := httpadapter.NewMetrics(meter)
	if err != nil {
		return err
	}
	upstreamMetrics, err := upstream.NewMetrics(meter)
	if err != nil {
		return err
	}
	dbMetrics, err := database.NewMetrics(meter)
	if err != nil {
		return err
	}
	eventMetrics, err := events.NewMetrics(meter)
	if err != nil {
		return err
	}

	var checks []httpadapter.ReadinessCheck

	gateway, err := newGateway(cfg.Upstream, upstreamMetrics, logger)
	if err != nil {
		return err
	}

	var (
		audit     ports.AuditLog
		idemStore ports.IdempotencyStore
	)
	if cfg.Database.Enabled {
		pool, err := database.NewPool(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("create database pool: %w", err)
		}
		defer pool.Close()

		if cfg.Database.AutoMigrate {
			logger.Info("running database migrations", "path", cfg.Database.MigrationsPath)
			result, err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath)
			if err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			logger.Info("migrations completed", "version", result.Version, "applied", result.Applied)
		}

		audit = orderspostgres.NewAuditLog(pool)
		idemStore = idempostgres.NewStore(pool, cfg.Database.IdempotencyTTL)
		checks = append(checks, database.NewChecker(pool))
	} else {
		logger.Warn("DB_ENABLED is false, audit journal and idempotency keys are kept in memory")
		audit = memory.NewAuditLog()
		idemStore = idemmemory.NewStoreWithTTL(cfg.Database.IdempotencyTTL)
	}

	var queryCache ports.QueryCache
	localCache := false
	switch {
	case cfg.Cache.TTL <= 0:
		queryCache = cache.Disabled{}
	case cfg.Cache.Addr != "":
		client, err := cache.ConnectRedis(ctx, cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
		if err != nil {
			return err
		}
		defer client.Close()
		redisCache := cache.NewRedis(client, cfg.Cache.Prefix, cfg.Cache.TTL)
		queryCache = redisCache
		checks = append(checks, redisCache)
	default:
		queryCache = cache.NewMemory(cfg.Cache.TTL)
		localCache = true
	}

	var publisher ports.EventPublisher = events.NewNoopPublisher(logger)
	if cfg.Events.NATSURL != "" {
		conn, err := events.Connect(cfg.Events.NATSURL, cfg.Service.Name, logger)
		if err != nil {
			return err
		}
		defer func() { _ = conn.Drain() }()

		publisher = events.NewPublisher(conn, cfg.Events.Subject)
		checks = append(checks, events.NewChecker(conn))

		// A per-process cache only hears about other instances' mutations through NATS.
		if localCache {
			_, err := events.Subscribe(conn, cfg.Events.Subject, logger, func(ctx context.Context, e ports.OrderChanged) {
				eventMetrics.RecordReceived(ctx, cfg.Events.Subject)
				if err := queryCache.Invalidate(ctx); err != nil {
					logger.WarnContext(ctx, "query cache invalidation failed", "order_id", e.OrderID, "error", err)
				}
			})
			if err != nil {
				return err
			}
		}
	}

	service := ordersapp.NewService(ordersapp.Dependencies{
		Gateway:     gateway,
		Cache:       queryCache,
		Events:      adapters.NewObservablePublisher(publisher, eventMetrics, cfg.Events.Subject),
		Audit:       adapters.NewObservableAuditLog(audit, dbMetrics),
		Idempotency: idemStore,
		Logger:      logger,
		Metrics:     orderMetrics,
		PageSize:    cfg.Upstream.PageSize,
	})

	router := httpadapter.NewRouter(httpadapter.RouterConfig{
		Handler: httpadapter.NewHandler(service, logger),
		Logger:  logger,
		Metrics: httpMetrics,
		Checks:  checks,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.Upstream.Timeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("http server stopped")
	return nil
}

// newGateway talks to the order service, or to the demo order book when no base URL is configured.
func newGateway(cfg config.UpstreamConfig, metrics *upstream.Metrics, logger *slog.Logger) (ports.OrderGateway, error) {
	if cfg.BaseURL == "" {
		logger.Warn("UPSTREAM_BASE_URL is empty, serving the in-memory demo order book")
		demo := memory.NewGateway()
		demo.Seed(memory.DemoOrders(time.Now())...)
		return adapters.NewObservableGateway(demo, metrics), nil
	}

	httpClient := upstream.NewHTTPClient(upstream.TransportConfig{
		Timeout: cfg.Timeout,
		Metrics: metrics,
		OnInvalidated: func(ctx context.Context) {
			logger.WarnContext(ctx, "order service rejected the session",
				"request_id", middleware.GetReqID(ctx),
			)
		},
	})
	client, err := upstream.NewClient(cfg.BaseURL, httpClient)
	if err != nil {
		return nil, err
	}
	return adapters.NewObservableGateway(client, metrics), nil
}
