package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pickupwatch/pickupwatch/internal/api"
	"github.com/pickupwatch/pickupwatch/internal/config"
	"github.com/pickupwatch/pickupwatch/internal/logging"
)

// newWatchCmd creates the 'watch' subcommand, which runs the monitor loop
// until interrupted.
func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Runs the availability monitor until interrupted",
		Long: `Polls the configured product/store pair on the configured interval and
emails the configured recipient when the product becomes available for
in-store pickup. SIGINT or SIGTERM stops the loop after the current cycle's
cleanup.`,
		RunE: runWatchCommand,
	}
}

func runWatchCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.Logging.Development, cfg.Logging.File)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := buildMonitor(cfg, logger)

	if cfg.Server.Enabled {
		startStatusServer(ctx, cfg, logger, m)
	}

	logger.Info("watching product",
		zap.String("part", cfg.Product.PartNumber),
		zap.String("store", cfg.Product.StoreNumber),
		zap.String("recipient", cfg.SMTP.Recipient),
		zap.Int("interval_minutes", cfg.Monitor.IntervalMinutes),
	)

	if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run monitor: %w", err)
	}
	logger.Info("monitoring stopped")
	return nil
}

// startStatusServer serves /healthz, /status, and /metrics in the background
// and shuts the listener down when ctx is canceled.
func startStatusServer(ctx context.Context, cfg config.Config, logger *zap.Logger, m api.StatusSource) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewServer(m, logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("status server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("status server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("status server shutdown failed", zap.Error(err))
		}
	}()
}
