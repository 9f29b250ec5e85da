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

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"kycdesk/internal/entity"
	entitymetrics "kycdesk/internal/entity/metrics"
	"kycdesk/internal/platform/config"
	"kycdesk/internal/platform/httpserver"
	"kycdesk/internal/platform/logger"
	"kycdesk/internal/platform/metrics"
	"kycdesk/internal/platform/middleware"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the store, the change feed and the router, then serves until
// SIGINT or SIGTERM.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		appMetrics    *metrics.Metrics
		entityMetrics *entitymetrics.Metrics
	)
	if cfg.Metrics.Enabled {
		appMetrics = metrics.New()
		entityMetrics = entitymetrics.New(appMetrics.Registerer())
	}

	backend, err := entity.OpenBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Warn("closing store", "error", err)
		}
	}()

	publisher, err := entity.NewPublisher(ctx, cfg.Kafka, log, entityMetrics)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("closing change feed", "error", err)
		}
	}()

	repo := entity.NewRepository(backend.KV, cfg.Store, log, entityMetrics)
	directory, err := entity.NewDirectory(ctx, repo, log, publisher, entityMetrics)
	if err != nil {
		return fmt.Errorf("load entity directory: %w", err)
	}

	router := newRouter(log, appMetrics, cfg.Server)
	entity.NewHandler(directory, log).Register(router)

	srv := httpserver.New(cfg.Server, router)
	log.Info("starting kycdesk",
		"addr", cfg.Server.Addr,
		"store", cfg.Store.Driver,
		"change_feed", len(cfg.Kafka.Brokers) > 0,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newRouter(log *slog.Logger, m *metrics.Metrics, cfg config.Server) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Logger(log))
	r.Use(middleware.Latency(m))
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}
	return r
}
