package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/JonMunkholm/catalog/internal/cache"
	"github.com/JonMunkholm/catalog/internal/config"
	"github.com/JonMunkholm/catalog/internal/core"
	"github.com/JonMunkholm/catalog/internal/database"
	"github.com/JonMunkholm/catalog/internal/jobs"
	"github.com/JonMunkholm/catalog/internal/logging"
	"github.com/JonMunkholm/catalog/internal/observability"
	"github.com/JonMunkholm/catalog/internal/web"
)

func main() {
	// Overload lets a local .env win over the inherited environment.
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx := context.Background()
	pool, err := database.OpenPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
	}

	metrics := observability.NewMetrics()
	limiter := core.NewImportLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime)
	metrics.WatchLimiter(limiter)

	svcCfg := core.ServiceConfig{
		ReportDir: cfg.Reports.Dir,
		Recorder:  metrics,
	}
	opts := web.Options{
		Config:  cfg,
		Limiter: limiter,
		Metrics: metrics,
		Ping:    pool.Ping,
	}

	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.Warn("redis ping failed", "error", err)
		}
		svcCfg.Cache = cache.NewSearchCache(redisClient, cfg.Redis.CacheTTL)

		jobClient := jobs.NewClient(jobs.RedisOpts(cfg.Redis), cfg.Jobs.Retention)
		defer jobClient.Close()
		inspector := asynq.NewInspector(jobs.RedisOpts(cfg.Redis))
		defer inspector.Close()
		opts.Jobs = jobClient
		opts.JobStatus = jobs.NewStatusReader(inspector)
		slog.Info("redis enabled", "search_cache_ttl", cfg.Redis.CacheTTL, "async_imports", true)
	}

	service, err := core.NewService(database.NewStore(pool), svcCfg)
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}
	opts.Service = service

	server := web.NewServer(opts)

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	// Start returns as soon as Shutdown begins; wait for in-flight imports.
	<-shutdownDone
	slog.Info("server stopped")
}
