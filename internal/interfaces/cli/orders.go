package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dropsync/backend/internal/application/orders"
)

func newOrdersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "Submit new storefront orders to the distributor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrders(cmd.Context())
		},
	}
}

func runOrders(ctx context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	sf, dist, err := buildGateways(cfg, log)
	if err != nil {
		return err
	}
	notifier, err := buildNotifier(cfg, log)
	if err != nil {
		return err
	}

	svc := orders.NewService(sf, dist, notifier, log)

	report, err := svc.SyncNewOrders(ctx)
	if err != nil {
		return err
	}
	log.Info("Order run finished",
		zap.String("run_id", report.ID),
		zap.Int("total", report.Total),
		zap.Int("submitted", report.Submitted),
		zap.Int("finalized", report.Finalized),
		zap.Int("already_done", report.AlreadyDone),
		zap.Int("address_issues", report.AddressIssues),
		zap.Int("no_valid_lines", report.NoValidLines),
		zap.Int("failed", report.Failed))
	return nil
}
