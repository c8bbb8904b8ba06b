package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deusflow/uscisnews/internal/app"
	"github.com/deusflow/uscisnews/internal/config"
	"github.com/deusflow/uscisnews/internal/logger"
	"github.com/deusflow/uscisnews/internal/metrics"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrMissingCredentials) {
			fmt.Fprintln(os.Stderr, "請先設定環境變數 WP_SITE_URL, WP_USERNAME, WP_APP_PASSWORD")
			return 1
		}
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 1
	}

	log := logger.Init(cfg.LogLevel, cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.EnableMonitoring {
		srv := newMonitoringServer(cfg.MonitoringPort, metrics.Global)
		go func() {
			logger.Info("starting monitoring server", "port", cfg.MonitoringPort)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("monitoring server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	a, cleanup, err := app.Build(ctx, cfg, metrics.Global, log)
	defer cleanup()
	if err != nil {
		logger.Error("failed to start", "error", err)
		return 1
	}

	if cfg.RunInterval <= 0 {
		if _, err := a.Run(ctx); err != nil {
			logger.Error("run failed", "error", err)
			return 1
		}
		return 0
	}

	runEvery(ctx, a, cfg.RunInterval)
	return 0
}

// runEvery runs immediately and then on every tick until ctx is cancelled.
// Errors are logged and the loop keeps going.
func runEvery(ctx context.Context, a *app.App, interval time.Duration) {
	logger.Info("interval mode", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := a.Run(ctx); err != nil {
			logger.Warn("run failed", "error", err)
		}

		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case <-ticker.C:
		}
	}
}
