// Package cli wires the reconciliation modes behind a cobra command tree.
// Each mode is a full run to completion; serve keeps the process alive
// behind the liveness endpoints and is the default when no subcommand is
// given.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dropsync/backend/internal/domain/dropship"
	"github.com/dropsync/backend/internal/infrastructure/config"
	"github.com/dropsync/backend/internal/infrastructure/distributor"
	"github.com/dropsync/backend/internal/infrastructure/logger"
	"github.com/dropsync/backend/internal/infrastructure/mail"
	"github.com/dropsync/backend/internal/infrastructure/storefront"
)

// NewRootCommand creates the dropsync command tree.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dropsync",
		Short: "Storefront and distributor reconciliation engine",
		Long: `Reconciles a storefront against a dropship distributor.

Modes:
  products   reconcile the product catalog (create, restock, draft, sweep)
  orders     submit new storefront orders to the distributor
  tracking   attach distributor shipment tracking to storefront orders
  serve      run the keep-alive HTTP server (default)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	cmd.AddCommand(newProductsCommand())
	cmd.AddCommand(newOrdersCommand())
	cmd.AddCommand(newTrackingCommand())
	cmd.AddCommand(newServeCommand())

	return cmd
}

// bootstrap loads configuration and builds the logger every mode starts
// from. The caller owns the returned logger and should Sync it on exit.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	return cfg, log, nil
}

// buildGateways constructs the storefront and distributor API clients from
// configuration.
func buildGateways(cfg *config.Config, log *zap.Logger) (*storefront.Client, *distributor.Client, error) {
	sf, err := storefront.NewClient(&storefront.Config{
		StoreDomain:         cfg.Storefront.StoreDomain,
		AccessToken:         cfg.Storefront.AccessToken,
		APIVersion:          cfg.Storefront.APIVersion,
		LocationID:          cfg.Storefront.LocationID,
		PageSize:            cfg.Storefront.PageSize,
		MinRequestInterval:  cfg.Storefront.MinRequestInterval,
		RateLimitRetryDelay: cfg.Storefront.RateLimitRetryDelay,
		Timeout:             cfg.Storefront.Timeout,
	}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("storefront client: %w", err)
	}

	dist, err := distributor.NewClient(&distributor.Config{
		APIKey:               cfg.Distributor.APIKey,
		APIBaseURL:           cfg.Distributor.APIBaseURL,
		ReservedSuffix:       cfg.Distributor.ReservedSuffix,
		DetailRetryBaseDelay: cfg.Distributor.DetailRetryBaseDelay,
		Timeout:              cfg.Distributor.Timeout,
	}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("distributor client: %w", err)
	}

	return sf, dist, nil
}

// buildNotifier returns the SMTP notifier when mail is configured, a no-op
// notifier otherwise.
func buildNotifier(cfg *config.Config, log *zap.Logger) (dropship.Notifier, error) {
	if !cfg.MailEnabled() {
		log.Info("Mail not configured, notifications disabled")
		return dropship.NopNotifier{}, nil
	}
	notifier, err := mail.NewNotifier(&mail.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		To:       cfg.Mail.To,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("mail notifier: %w", err)
	}
	return notifier, nil
}
