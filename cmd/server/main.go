package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garnizeh/techstaff/api"
	"github.com/garnizeh/techstaff/internal/backend"
	"github.com/garnizeh/techstaff/internal/config"
	"github.com/garnizeh/techstaff/internal/ratelimit"
	"github.com/garnizeh/techstaff/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	api.SetLogger(logger)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "err", err)
		os.Exit(1)
	}
	if cfg.IsDevelopment() {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
		api.SetLogger(logger)
	}

	logger.Info("starting techstaff server", "version", version, "build_time", buildTime, "store", cfg.Store)

	ctx := context.Background()

	b, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "err", err)
		os.Exit(1)
	}
	defer b.Close()

	if cfg.MigrateOnStart {
		applied, err := b.Migrate(ctx)
		if err != nil {
			logger.Error("migrations failed", "err", err)
			os.Exit(1)
		}
		logger.Info("migrations applied", "versions", applied)
	}

	deps := api.Deps{Store: b.Store}

	if cfg.RedisURL != "" {
		client, err := ratelimit.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid redis url", "err", err)
			os.Exit(1)
		}
		defer client.Close()
		deps.Limiter = ratelimit.NewRedis(client, "techstaff:ratelimit", logger)
	} else {
		deps.Limiter = ratelimit.NewMemory()
	}

	if cfg.Uploads.Dir != "" {
		up, err := storage.NewLocal(cfg.Uploads.Dir, cfg.Uploads.BaseURL, cfg.Uploads.MaxBytes)
		if err != nil {
			logger.Error("failed to prepare upload dir", "err", err)
			os.Exit(1)
		}
		deps.Uploader = up
	}

	handler, err := api.SetupRoutes(cfg, version, buildTime, deps)
	if err != nil {
		logger.Error("failed to build routes", "err", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "err", err)
	}

	logger.Info("server exited")
}
