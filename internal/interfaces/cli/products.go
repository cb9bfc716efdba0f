package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dropsync/backend/internal/application/catalog"
	"github.com/dropsync/backend/internal/domain/dropship"
)

func newProductsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "Reconcile the product catalog against the distributor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProducts(cmd.Context())
		},
	}
}

func runProducts(ctx context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	sf, dist, err := buildGateways(cfg, log)
	if err != nil {
		return err
	}

	svc := catalog.NewService(
		sf,
		dist,
		log,
		dropship.DefaultMarkupPolicy(),
		dropship.DefaultExclusionPolicy(),
		cfg.Sync.SweepThreshold,
	)

	report, err := svc.SyncCatalog(ctx)
	if err != nil {
		return err
	}
	log.Info("Catalog run finished",
		zap.String("run_id", report.ID),
		zap.Int("processed", report.Processed),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("drafted", report.Drafted),
		zap.Int("sold_out", report.SoldOut),
		zap.Int("skipped", report.Skipped))
	return nil
}
