package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/playmoney/internal/api"
	"github.com/mcoot/playmoney/internal/config"
	"github.com/mcoot/playmoney/internal/factory"
	"github.com/mcoot/playmoney/internal/realtime"
)

func main() {
	// Load configuration from the environment
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if len(cfg.AllowedOrigins) == 0 {
		logger.Warn("PLAYMONEY_ALLOWED_ORIGINS not set, any origin may connect")
	}

	// Create application factory
	app, err := factory.New(factory.FromServerConfig(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		Registry:          app.Registry,
		Archive:           app.Storage,
		AllowedOrigins:    cfg.AllowedOrigins,
		ArchiveAdminToken: cfg.ArchiveAdminToken,
		WebSocket: realtime.WSOptions{
			OriginPatterns: cfg.OriginHosts(),
			IdleTimeout:    cfg.IdleTimeout,
		},
	})

	// Create server
	server := api.NewServer(router, api.ServerConfigFrom(cfg), logger)
	if err := server.Listen(); err != nil {
		logger.Error("failed to start server", slog.String("error", err.Error()))
		_ = app.Close(context.Background())
		os.Exit(1)
	}

	// Live streams only finish once their games have ended
	appClosed := make(chan struct{})
	server.RegisterOnShutdown(func() {
		defer close(appClosed)
		if err := app.Close(context.Background()); err != nil {
			logger.Error("failed to close archive", slog.String("error", err.Error()))
		}
	})

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
		<-appClosed
	}

	logger.Info("server stopped")
}
