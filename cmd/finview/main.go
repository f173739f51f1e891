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

	"github.com/joho/godotenv"

	"finview/internal/backend"
	"finview/internal/config"
	"finview/internal/events"
	apphttp "finview/internal/http"
	applog "finview/internal/log"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	result, err := backend.NewFactory(slog.Default()).Create(backendCfg)
	if err != nil {
		logger.Error("Failed to initialize data backend",
			"error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Warn("Backend cleanup failed", "error", err)
			}
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, result.Backend, apphttp.Options{
		DefaultCurrency: cfg.DefaultCurrency,
		UseLocaleFormat: cfg.UseLocaleFormat,
		ChartPalette:    cfg.ChartPalette,
		CacheTTL:        cfg.CacheTTL,
		SessionCookie:   cfg.SessionCookie,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional AMQP consumer: the finance API publishes change events so
	// cached snapshots can be dropped without waiting for the TTL.
	if cfg.AMQPURL != "" {
		consumer, err := events.NewConsumer(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Change-event consumer unavailable, relying on cache TTL",
				"component", "events", "error", err)
		} else {
			defer consumer.Close()
			invalidate := srv.InvalidateOnChange()
			go func() {
				err := consumer.Consume(ctx, func(msg *events.TransactionsChanged) error {
					invalidate(msg.UserID)
					return nil
				})
				if err != nil && ctx.Err() == nil {
					logger.Warn("Change-event consumer stopped",
						"component", "events", "error", err)
				}
			}()
			logger.Info("Change-event consumer started",
				"component", "events", "exchange", cfg.AMQPExchange)
		}
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting finview server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
