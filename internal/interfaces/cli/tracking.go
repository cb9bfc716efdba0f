package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dropsync/backend/internal/application/tracking"
)

func newTrackingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tracking",
		Short: "Attach distributor shipment tracking to storefront orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTracking(cmd.Context())
		},
	}
}

func runTracking(ctx context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	sf, dist, err := buildGateways(cfg, log)
	if err != nil {
		return err
	}

	svc := tracking.NewService(sf, dist, log)

	report, err := svc.SyncTracking(ctx)
	if err != nil {
		return err
	}
	log.Info("Tracking run finished",
		zap.String("run_id", report.ID),
		zap.Int("total", report.Total),
		zap.Int("updated", report.Updated),
		zap.Int("no_shipped", report.NoShipped),
		zap.Int("failed", report.Failed))
	return nil
}
