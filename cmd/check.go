package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pickupwatch/pickupwatch/internal/config"
	"github.com/pickupwatch/pickupwatch/internal/logging"
	"github.com/pickupwatch/pickupwatch/internal/notify"
)

// newCheckCmd creates the 'check' subcommand: a single availability check
// with the result printed to stdout, useful for probing a configuration
// before leaving the watcher running. Exit code 0 means available, 1 not
// available, 2 check failure.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Runs a single availability check and prints the result",
		RunE:  runCheckCommand,
	}
}

func runCheckCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.Logging.Development, cfg.Logging.File)

	m := buildMonitor(cfg, logger)
	snap, err := m.CheckOnce(cmd.Context())
	if err != nil {
		logger.Error("availability check failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(2)
	}

	fmt.Fprint(cmd.OutOrStdout(), notify.FormatBody(snap))
	_ = logger.Sync()
	if !snap.Available {
		os.Exit(1)
	}
	return nil
}
