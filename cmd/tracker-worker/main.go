package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"tracker/internal/amqp"
	"tracker/internal/config"
	applog "tracker/internal/log"
	"tracker/internal/storage"
	"tracker/internal/storage/postgres"
	"tracker/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	applog.SetDefault(logger)

	logger.Info("Starting tracker-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the rollup worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store worker.RollupStore
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		store = repo
	case "postgres":
		repo, err := postgres.New(ctx, cfg.PostgresURL)
		if err != nil {
			logger.Error("Failed to initialize Postgres repository", "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		store = repo
	default:
		logger.Error("Rollup worker requires a persistent backend", "backend", cfg.DataBackend)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	rollupWorker := worker.NewRollupWorker(store)

	// One full rebuild before events flow, so summaries written while the
	// worker was down are corrected immediately.
	if err := rollupWorker.StartupRebuild(ctx); err != nil {
		logger.Error("Startup rebuild failed", "error", err)
		// Don't exit - the periodic rebuild will retry
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeLedgerEvents(ctx, rollupWorker.HandleLedgerEvent)
	})

	g.Go(func() error {
		return rollupWorker.RunPeriodicRebuild(ctx, cfg.RollupInterval)
	})

	logger.Info("Rollup worker running",
		"backend", cfg.DataBackend,
		"queue", cfg.AMQPQueue,
		"rebuild_interval", cfg.RollupInterval.String())

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
