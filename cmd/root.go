// Package cmd defines and implements the CLI commands for the pickupwatch executable.
package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pickupwatch/pickupwatch/internal/browser"
	"github.com/pickupwatch/pickupwatch/internal/config"
	"github.com/pickupwatch/pickupwatch/internal/fulfillment"
	"github.com/pickupwatch/pickupwatch/internal/monitor"
	"github.com/pickupwatch/pickupwatch/internal/notify"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pickupwatch",
		Short: "Watches a store's in-store pickup availability for one product.",
		Long: `pickupwatch polls a retailer's pickup-availability endpoint through a
headless browser session, detects when the watched product becomes available
at the target store, and sends an email notification on the change.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (defaults and PICKUPWATCH_* env vars apply when unset)")

	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newCheckCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// buildMonitor assembles the loop from configuration: check URLs, the
// per-cycle browser session factory, and the SMTP notifier.
func buildMonitor(cfg config.Config, logger *zap.Logger) *monitor.Monitor {
	request := browser.CheckRequest{
		WarmupURL:   cfg.Product.BaseURL,
		ProductURL:  fulfillment.ProductURL(cfg.Product.BaseURL, cfg.Product.PartNumber),
		EndpointURL: fulfillment.EndpointURL(cfg.Product.BaseURL, cfg.Product.PartNumber, cfg.Product.StoreNumber, cfg.Product.SearchNearby),
	}

	browserCfg := browser.Config{
		UserAgent:     cfg.Browser.UserAgent,
		Headless:      cfg.Browser.Headless,
		NavTimeout:    cfg.NavTimeout(),
		NavQPS:        cfg.Browser.NavQPS,
		WarmupSettle:  time.Duration(cfg.Browser.WarmupSettleMs) * time.Millisecond,
		ProductSettle: time.Duration(cfg.Browser.ProductSettleMs) * time.Millisecond,
	}
	factory := func(ctx context.Context) (monitor.Session, error) {
		return browser.NewSession(ctx, browserCfg, logger)
	}

	notifier := notify.NewEmailNotifier(notify.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		Recipient: cfg.SMTP.Recipient,
	}, logger)

	return monitor.New(monitor.Config{
		Interval: cfg.Interval(),
		Request:  request,
	}, factory, notifier, logger)
}
