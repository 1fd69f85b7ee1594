// Command server starts the apply engine HTTP server.
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

	"github.com/nexfound/apply-engine/internal/adapter/ai/groq"
	"github.com/nexfound/apply-engine/internal/adapter/events/redpanda"
	httpserver "github.com/nexfound/apply-engine/internal/adapter/httpserver"
	"github.com/nexfound/apply-engine/internal/adapter/observability"
	"github.com/nexfound/apply-engine/internal/adapter/repo/postgres"
	sessionredis "github.com/nexfound/apply-engine/internal/adapter/session/redis"
	"github.com/nexfound/apply-engine/internal/app"
	"github.com/nexfound/apply-engine/internal/config"
	"github.com/nexfound/apply-engine/internal/domain"
	"github.com/nexfound/apply-engine/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register all Prometheus metrics once per process so that /metrics
	// exposes HTTP and pipeline instrumentation.
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	// Infra: DB pool
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// Session store (sessions are written by the identity provider; the
	// engine only resolves tokens).
	sessions := sessionredis.New(cfg.RedisAddr, cfg.RedisPassword)
	defer func() {
		if err := sessions.Close(); err != nil {
			slog.Error("failed to close session store", slog.Any("error", err))
		}
	}()

	// Repositories
	appRepo := postgres.NewApplicationRepo(pool)
	listingRepo := postgres.NewListingRepo(pool)
	profileRepo := postgres.NewProfileRepo(pool)

	// AI client
	aicl := groq.New(cfg)
	if !cfg.AIConfigured() {
		slog.Warn("groq api key not configured; completion calls will fail")
	}

	// Event producer. Startup proceeds without one when no brokers are
	// configured; application events are then dropped.
	var events domain.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := redpanda.NewProducer(ctx, cfg.KafkaBrokers)
		if err != nil {
			slog.Error("redpanda producer connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer producer.Close()
		events = producer
	} else {
		slog.Warn("no kafka brokers configured; application events disabled")
	}

	// Dev fixtures
	if cfg.IsDev() && cfg.SeedFile != "" {
		if err := app.SeedListings(ctx, pool, cfg.SeedFile); err != nil {
			slog.Error("seeding listings failed", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Usecases
	applySvc := usecase.NewApplicationService(appRepo, listingRepo, profileRepo, aicl, events)

	// Readiness checks
	dbCheck, redisCheck, aiCheck := app.BuildReadinessChecks(pool, sessions, aicl)

	// HTTP server
	srv := &httpserver.Server{
		Cfg:          cfg,
		Applications: applySvc,
		Listings:     listingRepo,
		Sessions:     sessions,
		DBCheck:      dbCheck,
		RedisCheck:   redisCheck,
		AICheck:      aiCheck,
	}
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
