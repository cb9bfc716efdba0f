// Package storefront implements the StorefrontGateway port against the
// storefront platform's Admin REST and GraphQL APIs.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/dropsync/backend/internal/domain/dropship"
	"github.com/dropsync/backend/internal/infrastructure/httpx"
)

// maxResponseSize is the maximum allowed response size from the Admin API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Client is the Admin API client implementing dropship.StorefrontGateway.
type Client struct {
	config     *Config
	httpClient *http.Client
	pacer      *httpx.Pacer
	logger     *zap.Logger

	baseURL string
}

// NewClient creates a storefront client with the given configuration.
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		pacer:      httpx.NewPacer(config.MinRequestInterval),
		logger:     logger,
		baseURL:    "https://" + config.StoreDomain + "/admin/api/" + config.APIVersion,
	}, nil
}

// ---------------------------------------------------------------------------
// Product Operations
// ---------------------------------------------------------------------------

// nextPagePattern extracts the rel="next" URL from a Link response header.
var nextPagePattern = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

// ListProducts walks the paginated product listing to exhaustion. Requests
// are spaced by the pacer; a 429 response retries the same page after the
// server's Retry-After delay without advancing the cursor. Any other non-2xx
// aborts the walk, discarding the partial result.
func (c *Client) ListProducts(ctx context.Context) ([]dropship.StorefrontProduct, error) {
	var products []dropship.StorefrontProduct
	pageInfo := ""

	for {
		reqURL := fmt.Sprintf("%s/products.json?fields=id,status,variants,images&limit=%d", c.baseURL, c.config.PageSize)
		if pageInfo != "" {
			reqURL += "&page_info=" + url.QueryEscape(pageInfo)
		}

		if err := c.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		body, resp, err := c.do(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("storefront: product listing aborted: %w", err)
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			delay := httpx.RetryAfter(resp.Header.Get("Retry-After"), c.config.RateLimitRetryDelay)
			c.logger.Warn("Rate limited on product listing", zap.Duration("retry_after", delay))
			if err := sleepCtx(ctx, delay); err != nil {
				return nil, err
			}
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: product listing returned status %d", dropship.ErrTransport, resp.StatusCode)
		}

		var page productsResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("%w: invalid product listing page: %v", dropship.ErrTransport, err)
		}
		for _, p := range page.Products {
			products = append(products, p.toDomain())
		}

		pageInfo = nextPageInfo(resp.Header.Get("Link"))
		if pageInfo == "" {
			break
		}
	}

	c.logger.Info("Fetched storefront catalog", zap.Int("count", len(products)))
	return products, nil
}

// nextPageInfo extracts the page_info cursor of the rel="next" link, or ""
// when the listing has no further page.
func nextPageInfo(linkHeader string) string {
	matches := nextPagePattern.FindStringSubmatch(linkHeader)
	if matches == nil {
		return ""
	}
	next, err := url.Parse(matches[1])
	if err != nil {
		return ""
	}
	return next.Query().Get("page_info")
}

// FindVariantBySKU looks up the listing carrying the SKU through the GraphQL
// Admin API. An absent SKU yields (nil, nil).
func (c *Client) FindVariantBySKU(ctx context.Context, sku string) (*dropship.StorefrontProduct, error) {
	query := fmt.Sprintf(`{
  products(first: 1, query: "sku:%s") {
    edges {
      node {
        id
        status
        variants(first: 1) {
          edges {
            node {
              sku
              price
              compareAtPrice
              inventoryQuantity
            }
          }
        }
      }
    }
  }
}`, sku)

	body, err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/graphql.json", graphqlRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("storefront: variant lookup for %s: %w", sku, err)
	}

	var result productLookupResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: invalid variant lookup response: %v", dropship.ErrTransport, err)
	}
	if len(result.Data.Products.Edges) == 0 {
		return nil, nil
	}

	product, err := result.Data.Products.Edges[0].Node.toDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: malformed product id in lookup response: %v", dropship.ErrTransport, err)
	}
	return &product, nil
}

// CreateProduct creates a new active listing with full descriptive content.
func (c *Client) CreateProduct(ctx context.Context, listing dropship.ProductListing) error {
	body := productBody{
		Title:       listing.Title,
		BodyHTML:    listing.BodyHTML,
		Vendor:      listing.Vendor,
		ProductType: listing.ProductType,
		Tags:        listing.Tags,
		Variants:    []variantBody{newVariantBody(listing.Variant)},
		Status:      dropship.ProductStatusActive,
	}
	if listing.ImageURL != "" {
		body.Images = []imagePayload{{Src: listing.ImageURL}}
	}

	if _, err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/products.json", productWriteRequest{Product: body}); err != nil {
		return fmt.Errorf("storefront: create product %s: %w", listing.Variant.SKU, err)
	}
	c.logger.Info("Created storefront product", zap.String("sku", listing.Variant.SKU))
	return nil
}

// UpdateProduct pushes variant fields to an existing listing. Title,
// description and tags are left untouched.
func (c *Client) UpdateProduct(ctx context.Context, update dropship.ProductUpdate) error {
	payload := productWriteRequest{
		Product: productBody{Variants: []variantBody{newVariantBody(update.Variant)}},
	}
	reqURL := fmt.Sprintf("%s/products/%d.json", c.baseURL, update.ProductID)
	if _, err := c.doJSON(ctx, http.MethodPut, reqURL, payload); err != nil {
		return fmt.Errorf("storefront: update product %d: %w", update.ProductID, err)
	}
	return nil
}

// SetProductStatus moves a listing between active, draft and archived.
func (c *Client) SetProductStatus(ctx context.Context, productID int64, status string) error {
	payload := productWriteRequest{Product: productBody{Status: status}}
	reqURL := fmt.Sprintf("%s/products/%d.json", c.baseURL, productID)
	if _, err := c.doJSON(ctx, http.MethodPut, reqURL, payload); err != nil {
		return fmt.Errorf("storefront: set product %d status %s: %w", productID, status, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// ListOpenOrders returns all open orders with shipping and line detail.
func (c *Client) ListOpenOrders(ctx context.Context) ([]dropship.Order, error) {
	return c.listOrders(ctx, "open", "id,email,note,shipping_address,line_items", nil)
}

// ListOrdersWithoutTracking returns orders, in any status, whose every
// fulfillment lacks a tracking number.
func (c *Client) ListOrdersWithoutTracking(ctx context.Context) ([]dropship.Order, error) {
	return c.listOrders(ctx, "any", "id,email,fulfillments", func(o dropship.Order) bool {
		return !o.HasTracking()
	})
}

func (c *Client) listOrders(ctx context.Context, status, fields string, keep func(dropship.Order) bool) ([]dropship.Order, error) {
	reqURL := fmt.Sprintf("%s/orders.json?status=%s&fields=%s", c.baseURL, status, url.QueryEscape(fields))
	body, err := c.doJSON(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("storefront: order listing: %w", err)
	}

	var page ordersResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: invalid order listing: %v", dropship.ErrTransport, err)
	}

	orders := make([]dropship.Order, 0, len(page.Orders))
	for _, o := range page.Orders {
		order := o.toDomain()
		if keep == nil || keep(order) {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

// AnnotateOrder appends a note line to the order's free-text note, preserving
// what is already there.
func (c *Client) AnnotateOrder(ctx context.Context, orderID, note string) error {
	id, err := strconv.ParseInt(orderID, 10, 64)
	if err != nil {
		return fmt.Errorf("storefront: invalid order id %q: %v", orderID, err)
	}

	orderURL := fmt.Sprintf("%s/orders/%d.json", c.baseURL, id)
	body, err := c.doJSON(ctx, http.MethodGet, orderURL+"?fields=id,note", nil)
	if err != nil {
		return fmt.Errorf("storefront: annotate order %s: %w", orderID, err)
	}
	var current struct {
		Order orderPayload `json:"order"`
	}
	if err := json.Unmarshal(body, &current); err != nil {
		return fmt.Errorf("%w: invalid order response: %v", dropship.ErrTransport, err)
	}

	combined := note
	if current.Order.Note != "" {
		combined = current.Order.Note + "\n" + note
	}
	payload := orderNoteRequest{Order: orderNoteBody{ID: id, Note: combined}}
	if _, err := c.doJSON(ctx, http.MethodPut, orderURL, payload); err != nil {
		return fmt.Errorf("storefront: annotate order %s: %w", orderID, err)
	}
	c.logger.Info("Annotated order", zap.String("order_id", orderID), zap.String("note", note))
	return nil
}

// ---------------------------------------------------------------------------
// Fulfillment Operations
// ---------------------------------------------------------------------------

// ListFulfillmentOrders returns the fulfillment orders of one order.
func (c *Client) ListFulfillmentOrders(ctx context.Context, orderID string) ([]dropship.FulfillmentOrder, error) {
	reqURL := fmt.Sprintf("%s/orders/%s/fulfillment_orders.json", c.baseURL, orderID)
	body, err := c.doJSON(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("storefront: fulfillment orders for %s: %w", orderID, err)
	}

	var page fulfillmentOrdersResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: invalid fulfillment orders response: %v", dropship.ErrTransport, err)
	}
	orders := make([]dropship.FulfillmentOrder, 0, len(page.FulfillmentOrders))
	for _, fo := range page.FulfillmentOrders {
		orders = append(orders, fo.toDomain())
	}
	return orders, nil
}

// CreateFulfillment attaches carrier tracking to a fulfillment order,
// notifying the customer when the update asks for it.
func (c *Client) CreateFulfillment(ctx context.Context, update dropship.TrackingUpdate) error {
	payload := newFulfillmentCreateRequest(c.config.LocationID, update)
	if _, err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/fulfillments.json", payload); err != nil {
		return fmt.Errorf("storefront: create fulfillment for order %d: %w", update.FulfillmentOrderID, err)
	}
	c.logger.Info("Attached tracking",
		zap.Int64("fulfillment_order_id", update.FulfillmentOrderID),
		zap.String("tracking_number", update.TrackingNumber),
	)
	return nil
}

// ---------------------------------------------------------------------------
// HTTP helpers
// ---------------------------------------------------------------------------

// doJSON performs a request and requires a 2xx response. A 404 wraps
// ErrNotFound so callers can tell an absent resource from a transport
// failure; any other non-2xx outcome wraps ErrTransport.
func (c *Client) doJSON(ctx context.Context, method, reqURL string, payload any) ([]byte, error) {
	body, resp, err := c.do(ctx, method, reqURL, payload)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s %s", dropship.ErrNotFound, method, reqURL)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s %s returned status %d", dropship.ErrTransport, method, reqURL, resp.StatusCode)
	}
	return body, nil
}

// do performs a request, returning the response body, the response itself
// for header and status inspection, and any transport error wrapped in
// ErrTransport.
func (c *Client) do(ctx context.Context, method, reqURL string, payload any) ([]byte, *http.Response, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("storefront: marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("storefront: create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.config.AccessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", dropship.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read response: %v", dropship.ErrTransport, err)
	}
	return body, resp, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Ensure Client implements the StorefrontGateway interface
var _ dropship.StorefrontGateway = (*Client)(nil)
