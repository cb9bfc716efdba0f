// Package distributor implements the DistributorGateway port over the
// distributor's HTTP API.
package distributor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/dropsync/backend/internal/domain/dropship"
	"github.com/dropsync/backend/internal/infrastructure/httpx"
)

// maxResponseSize is the maximum allowed response size from the distributor
// API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Client implements dropship.DistributorGateway against the distributor's
// HTTP API.
type Client struct {
	config     *Config
	httpClient *http.Client
	retry      httpx.RetryPolicy
	logger     *zap.Logger
}

// NewClient creates a distributor client with the given configuration.
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		retry:      httpx.DetailRetryPolicy(config.DetailRetryBaseDelay),
		logger:     logger,
	}, nil
}

// ---------------------------------------------------------------------------
// Catalog Operations
// ---------------------------------------------------------------------------

// ListProducts walks the paginated product listing to exhaustion, following
// the NextUrl cursor. Reserved accessory variants are filtered out of every
// page. Any non-2xx page response aborts the walk; the partial result is
// discarded so callers never mistake a truncated listing for a full one.
func (c *Client) ListProducts(ctx context.Context) ([]dropship.DistributorProduct, error) {
	var products []dropship.DistributorProduct
	next := c.config.APIBaseURL + "/products"

	for next != "" {
		body, err := c.get(ctx, next)
		if err != nil {
			return nil, fmt.Errorf("distributor: product listing aborted: %w", err)
		}

		var page productListResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("%w: invalid product listing page: %v", dropship.ErrTransport, err)
		}

		for _, p := range page.Results {
			if p.Item == "" || strings.HasSuffix(p.Item, c.config.ReservedSuffix) {
				continue
			}
			products = append(products, p.toDomain())
		}

		next = normalizeNextURL(page.NextUrl)
	}

	c.logger.Info("Fetched distributor catalog", zap.Int("count", len(products)))
	return products, nil
}

// GetProductDetail fetches live detail for one item code, retrying transient
// server responses under the detail retry policy. Exhausted retries and any
// non-transient failure yield (nil, nil): the item is treated as unavailable
// rather than failing the caller's run.
func (c *Client) GetProductDetail(ctx context.Context, item string) (*dropship.DistributorProduct, error) {
	url := c.config.APIBaseURL + "/products/" + item

	for attempt := 1; ; attempt++ {
		body, status, err := c.do(ctx, http.MethodGet, url, nil)
		if err != nil {
			c.logger.Warn("Product detail fetch failed", zap.String("item", item), zap.Error(err))
			return nil, nil
		}
		if status >= 200 && status < 300 {
			var p productPayload
			if err := json.Unmarshal(body, &p); err != nil {
				c.logger.Warn("Product detail unmarshal failed", zap.String("item", item), zap.Error(err))
				return nil, nil
			}
			product := p.toDomain()
			return &product, nil
		}
		if !c.retry.ShouldRetry(attempt, status) {
			c.logger.Warn("Product detail unavailable",
				zap.String("item", item),
				zap.Int("status", status),
				zap.Int("attempts", attempt),
			)
			return nil, nil
		}
		if err := c.retry.Sleep(ctx, attempt); err != nil {
			return nil, err
		}
	}
}

// ---------------------------------------------------------------------------
// Suborder Operations
// ---------------------------------------------------------------------------

// GetSuborder checks whether a suborder exists for the PO number. A 404 is
// the normal "not yet submitted" outcome, not an error.
func (c *Client) GetSuborder(ctx context.Context, poNumber string) (bool, error) {
	_, status, err := c.do(ctx, http.MethodGet, c.config.APIBaseURL+"/suborders/"+poNumber, nil)
	if err != nil {
		return false, err
	}
	switch {
	case status == http.StatusNotFound:
		return false, nil
	case status >= 200 && status < 300:
		return true, nil
	default:
		return false, fmt.Errorf("%w: suborder lookup HTTP %d", dropship.ErrTransport, status)
	}
}

// GetDropshipRecord returns the dropship entries recorded against a PO
// number. found is false when the distributor has no record of the PO.
func (c *Client) GetDropshipRecord(ctx context.Context, poNumber string) (dropship.DropshipRecord, bool, error) {
	body, status, err := c.do(ctx, http.MethodGet, c.config.APIBaseURL+"/dropship/po/"+poNumber, nil)
	if err != nil {
		return dropship.DropshipRecord{}, false, err
	}
	switch {
	case status == http.StatusNotFound:
		return dropship.DropshipRecord{}, false, nil
	case status >= 200 && status < 300:
		var resp dropshipRecordResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return dropship.DropshipRecord{}, false, fmt.Errorf("%w: invalid dropship record: %v", dropship.ErrTransport, err)
		}
		record := dropship.DropshipRecord{Entries: make([]dropship.DropshipEntry, 0, len(resp.Results))}
		for _, e := range resp.Results {
			record.Entries = append(record.Entries, dropship.DropshipEntry{Suborder: e.Suborder, Status: e.Status})
		}
		return record, true, nil
	default:
		return dropship.DropshipRecord{}, false, fmt.Errorf("%w: dropship lookup HTTP %d", dropship.ErrTransport, status)
	}
}

// GetSuborderDetail returns shipment detail for a suborder. Absent suborders
// yield (nil, nil).
func (c *Client) GetSuborderDetail(ctx context.Context, suborderID string) (*dropship.SuborderDetail, error) {
	body, status, err := c.do(ctx, http.MethodGet, c.config.APIBaseURL+"/dropship/suborder/"+suborderID, nil)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound:
		return nil, nil
	case status >= 200 && status < 300:
		var resp suborderDetailResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("%w: invalid suborder detail: %v", dropship.ErrTransport, err)
		}
		detail := &dropship.SuborderDetail{Shipments: make([]dropship.Shipment, 0, len(resp.Shipments))}
		for _, s := range resp.Shipments {
			detail.Shipments = append(detail.Shipments, dropship.Shipment{
				Carrier:        s.Carrier,
				TrackingNumber: s.TrackingNumber,
				TrackingURL:    s.TrackingURL,
			})
		}
		return detail, nil
	default:
		return nil, fmt.Errorf("%w: suborder detail HTTP %d", dropship.ErrTransport, status)
	}
}

// CreateSuborder submits a dropship suborder for the order's PO number.
func (c *Client) CreateSuborder(ctx context.Context, req dropship.SuborderRequest) (dropship.SuborderResult, error) {
	payload, err := json.Marshal(newSuborderCreateRequest(req))
	if err != nil {
		return dropship.SuborderResult{}, fmt.Errorf("distributor: failed to encode suborder: %w", err)
	}

	body, status, err := c.do(ctx, http.MethodPost, c.config.APIBaseURL+"/suborders", payload)
	if err != nil {
		return dropship.SuborderResult{}, err
	}
	if status < 200 || status >= 300 {
		return dropship.SuborderResult{}, fmt.Errorf("%w: suborder submission HTTP %d", dropship.ErrTransport, status)
	}

	var resp suborderCreateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return dropship.SuborderResult{}, fmt.Errorf("%w: invalid suborder response: %v", dropship.ErrTransport, err)
	}

	c.logger.Info("Submitted suborder",
		zap.String("po_number", req.Suborder),
		zap.Int("lines", len(req.Lines)),
		zap.String("created", resp.Created),
	)
	return dropship.SuborderResult{Created: resp.Created}, nil
}

// CreateDropship issues the finalization call that releases a created
// suborder for fulfillment.
func (c *Client) CreateDropship(ctx context.Context, poNumber, comment string) error {
	payload, err := json.Marshal(dropshipCreateRequest{PO: poNumber, Comment: comment})
	if err != nil {
		return fmt.Errorf("distributor: failed to encode dropship request: %w", err)
	}

	_, status, err := c.do(ctx, http.MethodPost, c.config.APIBaseURL+"/dropship", payload)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("%w: dropship finalization HTTP %d", dropship.ErrTransport, status)
	}

	c.logger.Info("Finalized dropship order", zap.String("po_number", poNumber))
	return nil
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// get performs a GET expecting a 2xx response.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	body, status, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", dropship.ErrTransport, status)
	}
	return body, nil
}

// do performs an HTTP request and returns the body and status code.
// Network-level failures are wrapped as transport errors.
func (c *Client) do(ctx context.Context, method, url string, payload []byte) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("distributor: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "CosmoToken "+c.config.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", dropship.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to read response: %v", dropship.ErrTransport, err)
	}

	return body, resp.StatusCode, nil
}

// normalizeNextURL absolutizes the NextUrl cursor, which the listing returns
// without a scheme. An empty cursor ends the walk.
func normalizeNextURL(next string) string {
	if next == "" {
		return ""
	}
	if strings.HasPrefix(next, "http://") || strings.HasPrefix(next, "https://") {
		return next
	}
	return "https://" + next
}

// Ensure Client implements the DistributorGateway interface
var _ dropship.DistributorGateway = (*Client)(nil)
