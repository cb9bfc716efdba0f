package tracking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dropsync/backend/internal/domain/dropship"
)

type fakeStorefront struct {
	dropship.StorefrontGateway

	orders            []dropship.Order
	fulfillmentOrders map[string][]dropship.FulfillmentOrder
	fulfillments      []dropship.TrackingUpdate
}

func (f *fakeStorefront) ListOrdersWithoutTracking(ctx context.Context) ([]dropship.Order, error) {
	return f.orders, nil
}

func (f *fakeStorefront) ListFulfillmentOrders(ctx context.Context, orderID string) ([]dropship.FulfillmentOrder, error) {
	return f.fulfillmentOrders[orderID], nil
}

func (f *fakeStorefront) CreateFulfillment(ctx context.Context, update dropship.TrackingUpdate) error {
	f.fulfillments = append(f.fulfillments, update)
	return nil
}

type fakeDistributor struct {
	dropship.DistributorGateway

	records map[string]dropship.DropshipRecord
	details map[string]*dropship.SuborderDetail
}

func (f *fakeDistributor) GetDropshipRecord(ctx context.Context, po string) (dropship.DropshipRecord, bool, error) {
	record, ok := f.records[po]
	return record, ok, nil
}

func (f *fakeDistributor) GetSuborderDetail(ctx context.Context, suborderID string) (*dropship.SuborderDetail, error) {
	return f.details[suborderID], nil
}

func processedRecord(po string) dropship.DropshipRecord {
	return dropship.DropshipRecord{Entries: []dropship.DropshipEntry{
		{Suborder: po, Status: dropship.DropshipStatusProcessed},
	}}
}

func TestService_SyncTracking_AttachesToOpenFulfillmentOrder(t *testing.T) {
	sf := &fakeStorefront{
		orders: []dropship.Order{{ID: "1001"}},
		fulfillmentOrders: map[string][]dropship.FulfillmentOrder{
			"1001": {
				{ID: 501, Status: "closed"},
				{ID: 502, Status: "open", LineItems: []dropship.FulfillmentOrderLine{{ID: 7, Quantity: 2}}},
			},
		},
	}
	dist := &fakeDistributor{
		records: map[string]dropship.DropshipRecord{"1001": processedRecord("1001")},
		details: map[string]*dropship.SuborderDetail{
			"1001": {Shipments: []dropship.Shipment{
				{Carrier: "UPS", TrackingNumber: "1Z999", TrackingURL: "https://track.example/1Z999"},
			}},
		},
	}
	svc := NewService(sf, dist, zap.NewNop())

	report, err := svc.SyncTracking(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 0, report.Failed)
	require.Len(t, sf.fulfillments, 1)

	update := sf.fulfillments[0]
	assert.Equal(t, int64(502), update.FulfillmentOrderID)
	assert.Equal(t, "UPS", update.Carrier)
	assert.Equal(t, "1Z999", update.TrackingNumber)
	assert.True(t, update.NotifyCustomer)
	require.Len(t, update.Lines, 1)
	assert.Equal(t, int64(7), update.Lines[0].ID)
}

func TestService_SyncTracking_SkipsUnshippedOrders(t *testing.T) {
	sf := &fakeStorefront{
		orders: []dropship.Order{
			{ID: "1001"}, // no dropship record at all
			{ID: "1002"}, // record exists but no shipments yet
		},
	}
	dist := &fakeDistributor{
		records: map[string]dropship.DropshipRecord{"1002": processedRecord("1002")},
		details: map[string]*dropship.SuborderDetail{"1002": {}},
	}
	svc := NewService(sf, dist, zap.NewNop())

	report, err := svc.SyncTracking(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 2, report.NoShipped)
	assert.Empty(t, sf.fulfillments)
}

func TestService_SyncTracking_NoOpenFulfillmentOrderFails(t *testing.T) {
	sf := &fakeStorefront{
		orders: []dropship.Order{{ID: "1001"}},
		fulfillmentOrders: map[string][]dropship.FulfillmentOrder{
			"1001": {{ID: 501, Status: "closed"}},
		},
	}
	dist := &fakeDistributor{
		records: map[string]dropship.DropshipRecord{"1001": processedRecord("1001")},
		details: map[string]*dropship.SuborderDetail{
			"1001": {Shipments: []dropship.Shipment{{Carrier: "UPS", TrackingNumber: "1Z999"}}},
		},
	}
	svc := NewService(sf, dist, zap.NewNop())

	report, err := svc.SyncTracking(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Empty(t, sf.fulfillments)
}
