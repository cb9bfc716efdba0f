package storefront

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dropsync/backend/internal/domain/dropship"
)

// ---------------------------------------------------------------------------
// Product wire types (Admin REST)
// ---------------------------------------------------------------------------

type productsResponse struct {
	Products []productPayload `json:"products"`
}

type productPayload struct {
	ID       int64            `json:"id"`
	Status   string           `json:"status"`
	Variants []variantPayload `json:"variants"`
}

type variantPayload struct {
	SKU               string          `json:"sku"`
	Price             decimal.Decimal `json:"price"`
	CompareAtPrice    decimal.Decimal `json:"compare_at_price"`
	InventoryQuantity int             `json:"inventory_quantity"`
	Barcode           string          `json:"barcode"`
	Weight            decimal.Decimal `json:"weight"`
}

func (p productPayload) toDomain() dropship.StorefrontProduct {
	variants := make([]dropship.Variant, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, dropship.Variant{
			SKU:               v.SKU,
			Price:             v.Price,
			CompareAtPrice:    v.CompareAtPrice,
			InventoryQuantity: v.InventoryQuantity,
			Barcode:           v.Barcode,
			Weight:            v.Weight,
		})
	}
	return dropship.StorefrontProduct{
		ID:       p.ID,
		Status:   p.Status,
		Variants: variants,
	}
}

type productWriteRequest struct {
	Product productBody `json:"product"`
}

type productBody struct {
	Title       string         `json:"title,omitempty"`
	BodyHTML    string         `json:"body_html,omitempty"`
	Vendor      string         `json:"vendor,omitempty"`
	ProductType string         `json:"product_type,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Variants    []variantBody  `json:"variants,omitempty"`
	Images      []imagePayload `json:"images,omitempty"`
	Status      string         `json:"status,omitempty"`
}

type variantBody struct {
	Price             string `json:"price"`
	CompareAtPrice    string `json:"compare_at_price,omitempty"`
	SKU               string `json:"sku"`
	InventoryQuantity int    `json:"inventory_quantity"`
	InventoryMgmt     string `json:"inventory_management"`
	Barcode           string `json:"barcode,omitempty"`
	Weight            string `json:"weight"`
	WeightUnit        string `json:"weight_unit"`
}

type imagePayload struct {
	Src string `json:"src"`
}

func newVariantBody(v dropship.Variant) variantBody {
	body := variantBody{
		Price:             v.Price.StringFixed(2),
		SKU:               v.SKU,
		InventoryQuantity: v.InventoryQuantity,
		InventoryMgmt:     "shopify",
		Barcode:           v.Barcode,
		Weight:            v.Weight.String(),
		WeightUnit:        "oz",
	}
	if !v.CompareAtPrice.IsZero() {
		body.CompareAtPrice = v.CompareAtPrice.StringFixed(2)
	}
	return body
}

// ---------------------------------------------------------------------------
// Order wire types (Admin REST)
// ---------------------------------------------------------------------------

type ordersResponse struct {
	Orders []orderPayload `json:"orders"`
}

type orderPayload struct {
	ID              int64                `json:"id"`
	Email           string               `json:"email"`
	Note            string               `json:"note"`
	ShippingAddress *addressPayload      `json:"shipping_address"`
	LineItems       []lineItemPayload    `json:"line_items"`
	Fulfillments    []fulfillmentPayload `json:"fulfillments"`
}

type addressPayload struct {
	Name         string `json:"name"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2"`
	City         string `json:"city"`
	ProvinceCode string `json:"province_code"`
	Zip          string `json:"zip"`
	CountryCode  string `json:"country_code"`
	Company      string `json:"company"`
	Phone        string `json:"phone"`
}

type lineItemPayload struct {
	SKU      string          `json:"sku"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Title    string          `json:"title"`
}

type fulfillmentPayload struct {
	TrackingNumber string `json:"tracking_number"`
}

func (o orderPayload) toDomain() dropship.Order {
	order := dropship.Order{
		ID:    strconv.FormatInt(o.ID, 10),
		Email: o.Email,
		Note:  o.Note,
	}
	if o.ShippingAddress != nil {
		order.ShippingAddress = &dropship.Address{
			Name:         o.ShippingAddress.Name,
			Line1:        o.ShippingAddress.Address1,
			Line2:        o.ShippingAddress.Address2,
			City:         o.ShippingAddress.City,
			ProvinceCode: o.ShippingAddress.ProvinceCode,
			Zip:          o.ShippingAddress.Zip,
			CountryCode:  o.ShippingAddress.CountryCode,
			Company:      o.ShippingAddress.Company,
			Phone:        o.ShippingAddress.Phone,
		}
	}
	for _, li := range o.LineItems {
		order.LineItems = append(order.LineItems, dropship.LineItem{
			SKU:      li.SKU,
			Quantity: li.Quantity,
			Price:    li.Price,
			Title:    li.Title,
		})
	}
	for _, f := range o.Fulfillments {
		order.Fulfillments = append(order.Fulfillments, dropship.Fulfillment{
			TrackingNumber: f.TrackingNumber,
		})
	}
	return order
}

type orderNoteRequest struct {
	Order orderNoteBody `json:"order"`
}

type orderNoteBody struct {
	ID   int64  `json:"id"`
	Note string `json:"note"`
}

// ---------------------------------------------------------------------------
// Fulfillment wire types (Admin REST)
// ---------------------------------------------------------------------------

type fulfillmentOrdersResponse struct {
	FulfillmentOrders []fulfillmentOrderPayload `json:"fulfillment_orders"`
}

type fulfillmentOrderPayload struct {
	ID        int64                         `json:"id"`
	Status    string                        `json:"status"`
	LineItems []fulfillmentOrderLinePayload `json:"line_items"`
}

type fulfillmentOrderLinePayload struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

func (f fulfillmentOrderPayload) toDomain() dropship.FulfillmentOrder {
	lines := make([]dropship.FulfillmentOrderLine, 0, len(f.LineItems))
	for _, li := range f.LineItems {
		lines = append(lines, dropship.FulfillmentOrderLine{ID: li.ID, Quantity: li.Quantity})
	}
	return dropship.FulfillmentOrder{ID: f.ID, Status: f.Status, LineItems: lines}
}

type fulfillmentCreateRequest struct {
	Fulfillment fulfillmentBody `json:"fulfillment"`
}

type fulfillmentBody struct {
	LocationID     int64                  `json:"location_id"`
	TrackingInfo   trackingInfoPayload    `json:"tracking_info"`
	NotifyCustomer bool                   `json:"notify_customer"`
	LineItemsByFO  []lineItemsByFOPayload `json:"line_items_by_fulfillment_order"`
}

type trackingInfoPayload struct {
	Number  string `json:"number"`
	URL     string `json:"url,omitempty"`
	Company string `json:"company,omitempty"`
}

type lineItemsByFOPayload struct {
	FulfillmentOrderID int64                         `json:"fulfillment_order_id"`
	LineItems          []fulfillmentOrderLinePayload `json:"fulfillment_order_line_items"`
}

func newFulfillmentCreateRequest(locationID int64, update dropship.TrackingUpdate) fulfillmentCreateRequest {
	lines := make([]fulfillmentOrderLinePayload, 0, len(update.Lines))
	for _, li := range update.Lines {
		lines = append(lines, fulfillmentOrderLinePayload{ID: li.ID, Quantity: li.Quantity})
	}
	return fulfillmentCreateRequest{
		Fulfillment: fulfillmentBody{
			LocationID: locationID,
			TrackingInfo: trackingInfoPayload{
				Number:  update.TrackingNumber,
				URL:     update.TrackingURL,
				Company: update.Carrier,
			},
			NotifyCustomer: update.NotifyCustomer,
			LineItemsByFO: []lineItemsByFOPayload{
				{FulfillmentOrderID: update.FulfillmentOrderID, LineItems: lines},
			},
		},
	}
}

// ---------------------------------------------------------------------------
// Variant lookup wire types (Admin GraphQL)
// ---------------------------------------------------------------------------

type graphqlRequest struct {
	Query string `json:"query"`
}

type productLookupResponse struct {
	Data struct {
		Products struct {
			Edges []struct {
				Node productNode `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	} `json:"data"`
}

type productNode struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Variants struct {
		Edges []struct {
			Node variantNode `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

type variantNode struct {
	SKU               string          `json:"sku"`
	Price             decimal.Decimal `json:"price"`
	CompareAtPrice    decimal.Decimal `json:"compareAtPrice"`
	InventoryQuantity int             `json:"inventoryQuantity"`
}

const productGIDPrefix = "gid://shopify/Product/"

func (n productNode) toDomain() (dropship.StorefrontProduct, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(n.ID, productGIDPrefix), 10, 64)
	if err != nil {
		return dropship.StorefrontProduct{}, err
	}
	product := dropship.StorefrontProduct{
		ID: id,
		// GraphQL reports lifecycle status uppercase; the REST surface and
		// the domain model use lowercase.
		Status: strings.ToLower(n.Status),
	}
	for _, edge := range n.Variants.Edges {
		product.Variants = append(product.Variants, dropship.Variant{
			SKU:               edge.Node.SKU,
			Price:             edge.Node.Price,
			CompareAtPrice:    edge.Node.CompareAtPrice,
			InventoryQuantity: edge.Node.InventoryQuantity,
		})
	}
	return product, nil
}
