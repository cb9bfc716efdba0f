package dropship

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Storefront order model (read-only to this engine)
// ---------------------------------------------------------------------------

// Order is a storefront order as read from the orders API. The order ID
// doubles as the purchase-order number on the distributor side.
type Order struct {
	// ID is the opaque, stable order identifier
	ID string
	// Email is the buyer's contact email
	Email string
	// Note is the free-text order note; the engine appends issue annotations
	Note string
	// ShippingAddress is the delivery address (nil when the buyer gave none)
	ShippingAddress *Address
	// LineItems are the ordered lines, in storefront order
	LineItems []LineItem
	// Fulfillments are the existing fulfillment records (tracking sync only)
	Fulfillments []Fulfillment
}

// PONumber returns the purchase-order number used to join this order to its
// distributor suborder and dropship records.
func (o *Order) PONumber() string {
	return o.ID
}

// HasTracking returns true if any fulfillment carries a tracking number.
func (o *Order) HasTracking() bool {
	for _, f := range o.Fulfillments {
		if f.TrackingNumber != "" {
			return true
		}
	}
	return false
}

// LineItem is a single ordered line. Immutable once read from the order.
type LineItem struct {
	SKU      string
	Quantity int
	Price    decimal.Decimal
	Title    string
}

// Address is a shipping destination. The validate tags mirror the fields the
// distributor requires before a suborder can be accepted.
type Address struct {
	Name         string `validate:"required"`
	Line1        string `validate:"required"`
	Line2        string
	City         string `validate:"required"`
	ProvinceCode string `validate:"required"`
	Zip          string `validate:"required"`
	CountryCode  string `validate:"required"`
	Company      string
	Phone        string
}

var addressValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate reports whether the address carries every field the distributor
// requires. A nil or incomplete address yields ErrIncompleteAddress; the
// caller must not issue any remote call for the order in that case.
func (a *Address) Validate() error {
	if a == nil {
		return ErrIncompleteAddress
	}
	if err := addressValidator.Struct(a); err != nil {
		return ErrIncompleteAddress
	}
	return nil
}

// ---------------------------------------------------------------------------
// Distributor suborder model
// ---------------------------------------------------------------------------

// SuborderLine is one submitted line of a dropship suborder.
type SuborderLine struct {
	SKU      string
	Qty      int
	Net      string
	ItemDesc string
}

// ShipTo is the distributor-side shipping destination.
type ShipTo struct {
	Name      string
	Line1     string
	Line2     string
	City      string
	State     string
	Zip       string
	Country   string
	Company   string
	Phone     string
	Residence bool
	Email     string
}

// SuborderRequest is the payload submitted to create a dropship suborder.
// Suborder equals the storefront order's PO number.
type SuborderRequest struct {
	Suborder   string
	Prime      bool
	Premium    bool
	Signature  bool
	Comment    string
	ShipMethod string
	ShipTo     ShipTo
	Lines      []SuborderLine
}

// NewSuborderRequest builds a suborder submission for an order and its
// validated lines. The comment falls back to a fixed marker when the order
// has no note.
func NewSuborderRequest(order *Order, lines []SuborderLine) SuborderRequest {
	comment := order.Note
	if comment == "" {
		comment = "Dropship order from storefront"
	}
	addr := order.ShippingAddress
	return SuborderRequest{
		Suborder: order.PONumber(),
		Comment:  comment,
		ShipTo: ShipTo{
			Name:      addr.Name,
			Line1:     addr.Line1,
			Line2:     addr.Line2,
			City:      addr.City,
			State:     addr.ProvinceCode,
			Zip:       addr.Zip,
			Country:   addr.CountryCode,
			Company:   addr.Company,
			Phone:     addr.Phone,
			Residence: true,
			Email:     order.Email,
		},
		Lines: lines,
	}
}

// Suborder creation outcomes reported by the distributor.
const (
	CreatedFully     = "FULLY"
	CreatedPartially = "PARTIALLY"
)

// SuborderResult is the distributor's response to a suborder submission.
type SuborderResult struct {
	Created string
}

// Accepted returns true if the distributor created the suborder fully or
// partially; either outcome requires a dropship finalization call.
func (r SuborderResult) Accepted() bool {
	return r.Created == CreatedFully || r.Created == CreatedPartially
}

// ---------------------------------------------------------------------------
// Dropship record model
// ---------------------------------------------------------------------------

// DropshipStatusProcessed marks a suborder as fully submitted for
// fulfillment. A processed suborder must never be resubmitted.
const DropshipStatusProcessed = "Processed"

// DropshipEntry links a suborder to its dropship processing status.
type DropshipEntry struct {
	Suborder string
	Status   string
}

// DropshipRecord is the set of dropship entries recorded against one PO
// number.
type DropshipRecord struct {
	Entries []DropshipEntry
}

// Processed returns true if the given suborder has reached Processed status.
func (r DropshipRecord) Processed(suborderID string) bool {
	for _, e := range r.Entries {
		if e.Suborder == suborderID && e.Status == DropshipStatusProcessed {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Shipment / fulfillment model (tracking sync)
// ---------------------------------------------------------------------------

// Shipment is a distributor shipment with carrier tracking.
type Shipment struct {
	Carrier        string
	TrackingNumber string
	TrackingURL    string
}

// SuborderDetail is the distributor's detail record for a suborder,
// including any shipments dispatched against it.
type SuborderDetail struct {
	Shipments []Shipment
}

// Fulfillment is a storefront fulfillment record.
type Fulfillment struct {
	TrackingNumber string
}

// FulfillmentOrderLine is a line item of a storefront fulfillment order.
type FulfillmentOrderLine struct {
	ID       int64
	Quantity int
}

// FulfillmentOrder is a storefront fulfillment order; tracking is attached
// to the open one.
type FulfillmentOrder struct {
	ID        int64
	Status    string
	LineItems []FulfillmentOrderLine
}

// Open returns true unless the fulfillment order is closed.
func (f FulfillmentOrder) Open() bool {
	return f.Status != "closed"
}

// TrackingUpdate carries carrier tracking back to a storefront fulfillment
// order, notifying the customer.
type TrackingUpdate struct {
	FulfillmentOrderID int64
	Lines              []FulfillmentOrderLine
	Carrier            string
	TrackingNumber     string
	TrackingURL        string
	NotifyCustomer     bool
}

// ---------------------------------------------------------------------------
// Order reconciliation states
// ---------------------------------------------------------------------------

// OrderState is the submission state derived for one order against the
// distributor's current records.
type OrderState string

const (
	// OrderStateNoAddress aborts before any remote call (data quality)
	OrderStateNoAddress OrderState = "NO_ADDRESS"
	// OrderStateNotSubmitted means neither suborder nor dropship exists yet
	OrderStateNotSubmitted OrderState = "NOT_SUBMITTED"
	// OrderStateExistsUnprocessed means the suborder exists but the dropship
	// finalization has not been issued
	OrderStateExistsUnprocessed OrderState = "EXISTS_UNPROCESSED"
	// OrderStateFullySubmitted is terminal; the run must not touch the order
	OrderStateFullySubmitted OrderState = "FULLY_SUBMITTED"
	// OrderStateSubmitted means this run created the suborder and finalized it
	OrderStateSubmitted OrderState = "SUBMITTED"
	// OrderStateFailed covers transport or submission failures for the order
	OrderStateFailed OrderState = "FAILED"
)
