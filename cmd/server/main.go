package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"resq-relief/resq/internal/api"
	"resq-relief/resq/internal/common"
	"resq-relief/resq/internal/config"
	"resq-relief/resq/internal/db"
	"resq-relief/resq/internal/logging"
	"resq-relief/resq/internal/metrics"
	"resq-relief/resq/internal/middleware"
	"resq-relief/resq/internal/routes"
)

// @title ResQ API
// @version 1.0
// @description Disaster relief coordination backend: disasters, aid requests, donations, shelters and volunteer tasks.
// @BasePath /
func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("ResQ starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	if err := run(cfg); err != nil {
		logging.Fatal("Server exited with error", "error", err.Error())
	}
}

func run(cfg *config.Config) error {
	gdb, err := db.Open(cfg.Database)
	if err != nil {
		return err
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			return err
		}
		logging.Info("Schema migrated")
	}

	sqlxDB, err := db.OpenReporting(cfg.Database, gdb)
	if err != nil {
		return err
	}
	defer sqlxDB.Close()

	cache := newCache(cfg.Cache)
	defer cache.Close()

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	deps, err := api.InitDependencies(cfg, gdb, sqlxDB, cache, metricsReg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimit, metricsReg)
	go limiter.RunSweeper(ctx, time.Minute)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           routes.RegisterRoutes(deps, limiter, time.Now()),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server starting", "port", cfg.Port, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// newCache picks the backend named in config.
func newCache(cfg config.CacheConfig) common.CacheInterface {
	if cfg.Backend == "redis" {
		logging.Info("Using Redis cache")
		return common.NewRedisCacheService(common.NewRedisClient(cfg), "resq:")
	}
	logging.Info("Using in-memory cache")
	return common.NewCacheService(cfg.StatsTTL, 10*time.Minute)
}
