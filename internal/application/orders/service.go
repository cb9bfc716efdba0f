// Package orders reconciles open storefront orders into distributor dropship
// submissions, exactly once per order.
package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dropsync/backend/internal/domain/dropship"
)

// Service drives the order submission state machine. It holds no state
// between runs; every run rebuilds its view from the two remote systems.
type Service struct {
	storefront  dropship.StorefrontGateway
	distributor dropship.DistributorGateway
	notifier    dropship.Notifier
	logger      *zap.Logger
}

// NewService creates an order reconciliation service.
func NewService(
	storefront dropship.StorefrontGateway,
	distributor dropship.DistributorGateway,
	notifier dropship.Notifier,
	logger *zap.Logger,
) *Service {
	if notifier == nil {
		notifier = dropship.NopNotifier{}
	}
	return &Service{
		storefront:  storefront,
		distributor: distributor,
		notifier:    notifier,
		logger:      logger,
	}
}

// RunReport summarizes one reconciliation run.
type RunReport struct {
	ID            string
	Total         int
	Submitted     int
	Finalized     int
	AlreadyDone   int
	AddressIssues int
	NoValidLines  int
	Failed        int
	StatesByOrder map[string]dropship.OrderState
}

// SyncNewOrders lists open storefront orders and reconciles each one against
// the distributor's submission records. Orders are processed sequentially;
// a per-order failure is logged and the run continues with the next order.
func (s *Service) SyncNewOrders(ctx context.Context) (*RunReport, error) {
	orders, err := s.storefront.ListOpenOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("orders: list open orders: %w", err)
	}

	report := &RunReport{
		ID:            uuid.New().String(),
		Total:         len(orders),
		StatesByOrder: make(map[string]dropship.OrderState, len(orders)),
	}
	s.logger.Info("Order reconciliation started",
		zap.String("run_id", report.ID),
		zap.Int("open_orders", len(orders)),
	)

	for i := range orders {
		order := &orders[i]
		state, err := s.reconcile(ctx, order)
		if err != nil {
			s.logger.Error("Order reconciliation failed",
				zap.String("order_id", order.ID),
				zap.Error(err),
			)
			state = dropship.OrderStateFailed
		}
		report.StatesByOrder[order.ID] = state

		switch state {
		case dropship.OrderStateSubmitted:
			report.Submitted++
		case dropship.OrderStateExistsUnprocessed:
			report.Finalized++
		case dropship.OrderStateFullySubmitted:
			report.AlreadyDone++
		case dropship.OrderStateNoAddress:
			report.AddressIssues++
		case dropship.OrderStateNotSubmitted:
			report.NoValidLines++
		case dropship.OrderStateFailed:
			report.Failed++
		}
	}

	s.logger.Info("Order reconciliation finished",
		zap.String("run_id", report.ID),
		zap.Int("submitted", report.Submitted),
		zap.Int("finalized", report.Finalized),
		zap.Int("already_done", report.AlreadyDone),
		zap.Int("address_issues", report.AddressIssues),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

// reconcile derives the order's submission state and advances it at most one
// step. Existence checks run before any line validation so that in-flight
// orders are never re-validated or re-notified.
func (s *Service) reconcile(ctx context.Context, order *dropship.Order) (dropship.OrderState, error) {
	if err := order.ShippingAddress.Validate(); err != nil {
		s.reportIssue(ctx, order, "Order submission aborted due to incomplete shipping address")
		return dropship.OrderStateNoAddress, nil
	}

	po := order.PONumber()

	exists, err := s.distributor.GetSuborder(ctx, po)
	if err != nil {
		return dropship.OrderStateFailed, fmt.Errorf("check suborder %s: %w", po, err)
	}
	record, found, err := s.distributor.GetDropshipRecord(ctx, po)
	if err != nil {
		return dropship.OrderStateFailed, fmt.Errorf("check dropship record %s: %w", po, err)
	}
	processed := found && record.Processed(po)

	switch {
	case exists && processed:
		s.logger.Info("Order already fully submitted", zap.String("order_id", order.ID))
		return dropship.OrderStateFullySubmitted, nil

	case exists && !processed:
		// The suborder already carries its lines; only the finalization
		// call is missing. Resubmitting lines would duplicate the order.
		s.logger.Info("Finalizing existing suborder", zap.String("order_id", order.ID))
		if err := s.finalize(ctx, po); err != nil {
			return dropship.OrderStateFailed, err
		}
		return dropship.OrderStateExistsUnprocessed, nil
	}

	lines, err := s.validateLines(ctx, order)
	switch {
	case errors.Is(err, dropship.ErrNoValidLines):
		s.reportIssue(ctx, order, "No valid lines to submit. All items are out of stock or insufficient quantity.")
		return dropship.OrderStateNotSubmitted, nil
	case err != nil:
		return dropship.OrderStateFailed, err
	}

	result, err := s.distributor.CreateSuborder(ctx, dropship.NewSuborderRequest(order, lines))
	if err != nil {
		return dropship.OrderStateFailed, fmt.Errorf("create suborder %s: %w", po, err)
	}
	if !result.Accepted() {
		return dropship.OrderStateFailed, fmt.Errorf("%w: suborder %s created=%q", dropship.ErrSubmissionRejected, po, result.Created)
	}
	if err := s.finalize(ctx, po); err != nil {
		return dropship.OrderStateFailed, err
	}

	s.logger.Info("Order submitted",
		zap.String("order_id", order.ID),
		zap.Int("lines", len(lines)),
		zap.String("created", result.Created),
	)
	return dropship.OrderStateSubmitted, nil
}

// validateLines checks every line's live distributor availability
// concurrently and returns the accepted lines in their original order.
// Unavailable or short-stocked lines are dropped and their issues reported
// sequentially after the join; annotating the order note is a remote
// read-modify-write, so concurrent reports could lose one another's line.
func (s *Service) validateLines(ctx context.Context, order *dropship.Order) ([]dropship.SuborderLine, error) {
	accepted := make([]*dropship.SuborderLine, len(order.LineItems))
	issues := make([]string, len(order.LineItems))

	g, gctx := errgroup.WithContext(ctx)
	for i := range order.LineItems {
		g.Go(func() error {
			item := order.LineItems[i]
			product, err := s.distributor.GetProductDetail(gctx, item.SKU)
			if err != nil {
				return err
			}
			if product == nil || product.Available < item.Quantity {
				issues[i] = fmt.Sprintf("Item %s is out of stock or insufficient quantity.", item.SKU)
				return nil
			}
			accepted[i] = &dropship.SuborderLine{
				SKU:      item.SKU,
				Qty:      item.Quantity,
				Net:      item.Price.String(),
				ItemDesc: item.Title,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("validate lines for %s: %w", order.ID, err)
	}

	for _, issue := range issues {
		if issue != "" {
			s.reportIssue(ctx, order, issue)
		}
	}

	lines := make([]dropship.SuborderLine, 0, len(accepted))
	for _, line := range accepted {
		if line != nil {
			lines = append(lines, *line)
		}
	}
	if len(lines) == 0 {
		return nil, dropship.ErrNoValidLines
	}
	return lines, nil
}

// finalize issues the dropship call that releases a created suborder for
// fulfillment.
func (s *Service) finalize(ctx context.Context, po string) error {
	comment := fmt.Sprintf("Dropship order for PO# %s", po)
	if err := s.distributor.CreateDropship(ctx, po, comment); err != nil {
		return fmt.Errorf("finalize dropship %s: %w", po, err)
	}
	return nil
}

// reportIssue annotates the order and notifies the operator. Both channels
// are best effort; a reporting failure is logged, never propagated.
func (s *Service) reportIssue(ctx context.Context, order *dropship.Order, issue string) {
	s.logger.Warn("Order issue", zap.String("order_id", order.ID), zap.String("issue", issue))

	note := fmt.Sprintf("Order not processed due to inventory issue: %s", issue)
	if err := s.storefront.AnnotateOrder(ctx, order.ID, note); err != nil {
		s.logger.Error("Failed to annotate order", zap.String("order_id", order.ID), zap.Error(err))
	}

	subject := fmt.Sprintf("Inventory Issue with Order %s", order.ID)
	body := fmt.Sprintf("There was an issue processing order %s. Reason: %s", order.ID, issue)
	if err := s.notifier.Notify(ctx, subject, body); err != nil {
		s.logger.Error("Failed to send issue notification", zap.String("order_id", order.ID), zap.Error(err))
	}
}
