// Package tracking propagates distributor shipment tracking back to
// storefront fulfillments.
package tracking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dropsync/backend/internal/domain/dropship"
)

// Service drives one tracking sync run.
type Service struct {
	storefront  dropship.StorefrontGateway
	distributor dropship.DistributorGateway
	logger      *zap.Logger
}

// NewService creates a tracking sync service.
func NewService(
	storefront dropship.StorefrontGateway,
	distributor dropship.DistributorGateway,
	logger *zap.Logger,
) *Service {
	return &Service{
		storefront:  storefront,
		distributor: distributor,
		logger:      logger,
	}
}

// RunReport summarizes one tracking sync run.
type RunReport struct {
	ID        string
	Total     int
	Updated   int
	NoShipped int
	Failed    int
}

// SyncTracking finds storefront orders lacking tracking, looks up their
// distributor shipments and attaches tracking to the open fulfillment order.
// Orders without a shipment yet are skipped silently; per-order failures are
// logged and the run continues.
func (s *Service) SyncTracking(ctx context.Context) (*RunReport, error) {
	orders, err := s.storefront.ListOrdersWithoutTracking(ctx)
	if err != nil {
		return nil, fmt.Errorf("tracking: list untracked orders: %w", err)
	}

	report := &RunReport{ID: uuid.New().String(), Total: len(orders)}
	s.logger.Info("Tracking sync started",
		zap.String("run_id", report.ID),
		zap.Int("untracked_orders", len(orders)),
	)

	for i := range orders {
		order := &orders[i]
		updated, err := s.syncOrder(ctx, order)
		switch {
		case err != nil:
			s.logger.Error("Tracking update failed", zap.String("order_id", order.ID), zap.Error(err))
			report.Failed++
		case updated:
			report.Updated++
		default:
			report.NoShipped++
		}
	}

	s.logger.Info("Tracking sync finished",
		zap.String("run_id", report.ID),
		zap.Int("updated", report.Updated),
		zap.Int("not_yet_shipped", report.NoShipped),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

// syncOrder attaches tracking for one order. A false result without error
// means the distributor has not shipped anything yet.
func (s *Service) syncOrder(ctx context.Context, order *dropship.Order) (bool, error) {
	po := order.PONumber()

	record, found, err := s.distributor.GetDropshipRecord(ctx, po)
	if err != nil {
		return false, fmt.Errorf("dropship record %s: %w", po, err)
	}
	if !found || len(record.Entries) == 0 {
		s.logger.Debug("No dropship record yet", zap.String("order_id", order.ID))
		return false, nil
	}

	detail, err := s.distributor.GetSuborderDetail(ctx, record.Entries[0].Suborder)
	if err != nil {
		return false, fmt.Errorf("suborder detail %s: %w", record.Entries[0].Suborder, err)
	}
	if detail == nil || len(detail.Shipments) == 0 {
		s.logger.Debug("Not yet shipped", zap.String("order_id", order.ID))
		return false, nil
	}
	shipment := detail.Shipments[0]

	fulfillmentOrders, err := s.storefront.ListFulfillmentOrders(ctx, order.ID)
	if err != nil {
		return false, fmt.Errorf("fulfillment orders for %s: %w", order.ID, err)
	}
	open := openFulfillmentOrder(fulfillmentOrders)
	if open == nil {
		return false, fmt.Errorf("no open fulfillment order for order %s", order.ID)
	}

	update := dropship.TrackingUpdate{
		FulfillmentOrderID: open.ID,
		Lines:              open.LineItems,
		Carrier:            shipment.Carrier,
		TrackingNumber:     shipment.TrackingNumber,
		TrackingURL:        shipment.TrackingURL,
		NotifyCustomer:     true,
	}
	if err := s.storefront.CreateFulfillment(ctx, update); err != nil {
		return false, fmt.Errorf("create fulfillment for %s: %w", order.ID, err)
	}

	s.logger.Info("Attached tracking to order",
		zap.String("order_id", order.ID),
		zap.String("carrier", shipment.Carrier),
		zap.String("tracking_number", shipment.TrackingNumber),
	)
	return true, nil
}

func openFulfillmentOrder(orders []dropship.FulfillmentOrder) *dropship.FulfillmentOrder {
	for i := range orders {
		if orders[i].Open() {
			return &orders[i]
		}
	}
	return nil
}
