package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/polarisfn/Polaris_Go/internal/catalog"
	"github.com/polarisfn/Polaris_Go/internal/cloudstorage"
	"github.com/polarisfn/Polaris_Go/internal/config"
	"github.com/polarisfn/Polaris_Go/internal/database"
	"github.com/polarisfn/Polaris_Go/internal/database/postgres"
	"github.com/polarisfn/Polaris_Go/internal/event"
	"github.com/polarisfn/Polaris_Go/internal/handler"
	"github.com/polarisfn/Polaris_Go/internal/logger"
	"github.com/polarisfn/Polaris_Go/internal/metrics"
	"github.com/polarisfn/Polaris_Go/internal/profile"
	"github.com/polarisfn/Polaris_Go/internal/server"
)

const (
	poolMaxConns    = 10
	poolMaxIdleTime = 30 * time.Minute
	poolMaxLifetime = time.Hour
	shutdownTimeout = 15 * time.Second

	accountCacheSize = 1024
	accountCacheTTL  = 5 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)

	handler.InitValidator()

	pool, err := database.NewPool(cfg.GetDBConnString(), poolMaxConns, poolMaxIdleTime, poolMaxLifetime)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.ApplySchema(context.Background(), pool); err != nil {
		slog.Error("Schema setup failed", "error", err)
		os.Exit(1)
	}

	questSource, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		slog.Error("Quest catalog load failed", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}
	slog.Info("Quest catalog loaded", "path", cfg.CatalogPath, "quests", len(questSource.Quests()))

	eventBus := event.NewMemoryBus()
	metrics.NewEventCollector(eventBus)

	accountRepo := profile.NewCachedAccountDirectory(postgres.NewAccountRepository(pool), accountCacheSize, accountCacheTTL)
	profileRepo := postgres.NewProfileRepository(pool)

	profileService := profile.NewService(accountRepo, profileRepo, questSource, eventBus, profile.Options{
		StatUpdateOnNoOp: cfg.StatUpdateOnNoOp,
		CommitTimeout:    cfg.CommitTimeout,
	})

	storageService := cloudstorage.NewService(cfg.CloudStorageDir, cfg.SettingsDir, eventBus)

	srv := server.NewServer(cfg.Port, pool, profileService, storageService)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}

	// Drain background profile writes before closing the pool.
	if err := profileService.Shutdown(ctx); err != nil {
		slog.Error("Profile service drain failed", "error", err)
	}

	slog.Info("Shutdown complete")
}
