package dropship

import "context"

// StorefrontGateway is the port interface for the storefront platform.
// Full-listing methods walk pagination to exhaustion; a partial walk is
// surfaced as an error, never as a truncated success.
type StorefrontGateway interface {
	// ListOpenOrders returns all open orders with shipping and line detail.
	ListOpenOrders(ctx context.Context) ([]Order, error)

	// ListOrdersWithoutTracking returns orders, in any status, whose every
	// fulfillment lacks a tracking number (including orders with none).
	ListOrdersWithoutTracking(ctx context.Context) ([]Order, error)

	// AnnotateOrder appends a note line to the order's free-text note.
	AnnotateOrder(ctx context.Context, orderID, note string) error

	// ListProducts returns the full storefront catalog.
	ListProducts(ctx context.Context) ([]StorefrontProduct, error)

	// FindVariantBySKU looks up the storefront listing carrying the SKU,
	// with live inventory and lifecycle status. Absent SKUs yield (nil, nil).
	FindVariantBySKU(ctx context.Context, sku string) (*StorefrontProduct, error)

	// CreateProduct creates a new active listing with full content.
	CreateProduct(ctx context.Context, listing ProductListing) error

	// UpdateProduct pushes variant fields (stock, price, weight, barcode)
	// to an existing listing, leaving descriptive content untouched.
	UpdateProduct(ctx context.Context, update ProductUpdate) error

	// SetProductStatus moves a listing between active, draft and archived.
	SetProductStatus(ctx context.Context, productID int64, status string) error

	// ListFulfillmentOrders returns the fulfillment orders of one order.
	ListFulfillmentOrders(ctx context.Context, orderID string) ([]FulfillmentOrder, error)

	// CreateFulfillment attaches carrier tracking to a fulfillment order.
	CreateFulfillment(ctx context.Context, update TrackingUpdate) error
}

// DistributorGateway is the port interface for the distributor/fulfillment
// API. Lookup methods report absence through their found result rather than
// an error; only genuine transport failures use the error channel.
type DistributorGateway interface {
	// ListProducts returns the distributor's full active catalog, reserved
	// accessory variants already filtered out.
	ListProducts(ctx context.Context) ([]DistributorProduct, error)

	// GetProductDetail fetches live detail for one item code. Transient
	// server failures are retried; on exhaustion or any other failure the
	// result is (nil, nil), meaning "treat as unavailable".
	GetProductDetail(ctx context.Context, item string) (*DistributorProduct, error)

	// GetSuborder checks suborder existence for a PO number.
	GetSuborder(ctx context.Context, poNumber string) (found bool, err error)

	// GetDropshipRecord returns the dropship entries recorded for a PO
	// number; found is false when the PO is unknown to the distributor.
	GetDropshipRecord(ctx context.Context, poNumber string) (DropshipRecord, bool, error)

	// GetSuborderDetail returns shipment detail for a suborder.
	GetSuborderDetail(ctx context.Context, suborderID string) (*SuborderDetail, error)

	// CreateSuborder submits a dropship suborder.
	CreateSuborder(ctx context.Context, req SuborderRequest) (SuborderResult, error)

	// CreateDropship issues the finalization call that releases a created
	// suborder for fulfillment.
	CreateDropship(ctx context.Context, poNumber, comment string) error
}

// Notifier is the best-effort notification side channel. Callers log
// failures and continue; a notification error never aborts reconciliation.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// NopNotifier discards notifications.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(context.Context, string, string) error { return nil }

var _ Notifier = NopNotifier{}
