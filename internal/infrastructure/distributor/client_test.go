package distributor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dropsync/backend/internal/domain/dropship"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	cfg := NewConfig("test_key")
	cfg.APIBaseURL = serverURL
	cfg.DetailRetryBaseDelay = time.Millisecond
	client, err := NewClient(cfg, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestConfig_Validate(t *testing.T) {
	t.Run("missing API key", func(t *testing.T) {
		cfg := &Config{}
		assert.ErrorIs(t, cfg.Validate(), ErrConfigMissingAPIKey)
	})

	t.Run("defaults applied", func(t *testing.T) {
		cfg := &Config{APIKey: "k"}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
		assert.Equal(t, "-A", cfg.ReservedSuffix)
		assert.Equal(t, 2*time.Second, cfg.DetailRetryBaseDelay)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
	})
}

func TestClient_ListProducts(t *testing.T) {
	t.Run("walks NextUrl pages and filters reserved variants", func(t *testing.T) {
		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "CosmoToken test_key", r.Header.Get("Authorization"))

			page := productListResponse{}
			if r.URL.Query().Get("page") == "2" {
				page.Results = []productPayload{
					{Item: "SKU3", Net: decimal.NewFromInt(10)},
				}
			} else {
				page.Results = []productPayload{
					{Item: "SKU1", Net: decimal.NewFromInt(10)},
					{Item: "SKU2-A", Net: decimal.NewFromInt(10)}, // reserved accessory
					{Item: "SKU2", Net: decimal.NewFromInt(10)},
				}
				page.NextUrl = strings.TrimPrefix(server.URL, "http://") + "/products?page=2"
			}
			json.NewEncoder(w).Encode(page)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		// NextUrl arrives schemeless and is normalized to https; point the
		// client at the test server by rewriting through its transport.
		client.httpClient.Transport = rewriteHost(server)

		products, err := client.ListProducts(context.Background())
		require.NoError(t, err)

		skus := make([]string, 0, len(products))
		for _, p := range products {
			skus = append(skus, p.Item)
		}
		assert.Equal(t, []string{"SKU1", "SKU2", "SKU3"}, skus)
	})

	t.Run("non-2xx aborts the walk", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		products, err := client.ListProducts(context.Background())
		assert.ErrorIs(t, err, dropship.ErrTransport)
		assert.Nil(t, products)
		assert.Equal(t, 1, calls)
	})

	t.Run("empty catalog", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(productListResponse{})
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		products, err := client.ListProducts(context.Background())
		require.NoError(t, err)
		assert.Empty(t, products)
	})
}

// rewriteHost redirects every request to the test server regardless of the
// URL scheme/host the client computed from NextUrl.
func rewriteHost(server *httptest.Server) http.RoundTripper {
	target := strings.TrimPrefix(server.URL, "http://")
	return roundTripFunc(func(req *http.Request) (*http.Response, error) {
		req.URL.Scheme = "http"
		req.URL.Host = target
		return http.DefaultTransport.RoundTrip(req)
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func TestClient_GetProductDetail(t *testing.T) {
	t.Run("retries transient server errors then succeeds", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			json.NewEncoder(w).Encode(productPayload{Item: "SKU1", Available: 7, Net: decimal.RequireFromString("12.50")})
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		product, err := client.GetProductDetail(context.Background(), "SKU1")
		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, "SKU1", product.Item)
		assert.Equal(t, 7, product.Available)
		assert.True(t, product.Net.Equal(decimal.RequireFromString("12.50")))
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausted retries degrade to nil", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		product, err := client.GetProductDetail(context.Background(), "SKU1")
		assert.NoError(t, err)
		assert.Nil(t, product)
		assert.Equal(t, 3, calls)
	})

	t.Run("non-transient failure short-circuits", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		product, err := client.GetProductDetail(context.Background(), "MISSING")
		assert.NoError(t, err)
		assert.Nil(t, product)
		assert.Equal(t, 1, calls)
	})
}

func TestClient_GetSuborder(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/suborders/1001", r.URL.Path)
			w.Write([]byte(`{"Suborder":"1001"}`))
		}))
		defer server.Close()

		found, err := newTestClient(t, server.URL).GetSuborder(context.Background(), "1001")
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("404 is a normal not-found outcome", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		found, err := newTestClient(t, server.URL).GetSuborder(context.Background(), "1001")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("server error is a transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := newTestClient(t, server.URL).GetSuborder(context.Background(), "1001")
		assert.ErrorIs(t, err, dropship.ErrTransport)
	})
}

func TestClient_GetDropshipRecord(t *testing.T) {
	t.Run("returns entries", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/dropship/po/1001", r.URL.Path)
			json.NewEncoder(w).Encode(dropshipRecordResponse{Results: []dropshipEntryPayload{
				{Suborder: "1001", Status: "Processed"},
			}})
		}))
		defer server.Close()

		record, found, err := newTestClient(t, server.URL).GetDropshipRecord(context.Background(), "1001")
		require.NoError(t, err)
		assert.True(t, found)
		assert.True(t, record.Processed("1001"))
	})

	t.Run("unknown PO", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, found, err := newTestClient(t, server.URL).GetDropshipRecord(context.Background(), "9999")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestClient_CreateSuborder(t *testing.T) {
	t.Run("submits wire payload", func(t *testing.T) {
		var received suborderCreateRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/suborders", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			json.NewEncoder(w).Encode(suborderCreateResponse{Created: "FULLY"})
		}))
		defer server.Close()

		req := dropship.SuborderRequest{
			Suborder: "1001",
			Comment:  "Dropship order from storefront",
			ShipTo:   dropship.ShipTo{Name: "Jane Doe", State: "NY", Residence: true},
			Lines: []dropship.SuborderLine{
				{SKU: "SKU1", Qty: 2, Net: "12.50", ItemDesc: "Eau de Parfum"},
			},
		}
		result, err := newTestClient(t, server.URL).CreateSuborder(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, result.Accepted())
		assert.Equal(t, "1001", received.Suborder)
		require.Len(t, received.Lines, 1)
		assert.Equal(t, 2, received.Lines[0].QTY)
		assert.Equal(t, "12.50", received.Lines[0].NET)
	})

	t.Run("rejection surfaces as transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))
		defer server.Close()

		_, err := newTestClient(t, server.URL).CreateSuborder(context.Background(), dropship.SuborderRequest{Suborder: "1001"})
		assert.ErrorIs(t, err, dropship.ErrTransport)
	})
}

func TestClient_CreateDropship(t *testing.T) {
	var received dropshipCreateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dropship", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	err := newTestClient(t, server.URL).CreateDropship(context.Background(), "1001", "Dropship order for PO# 1001")
	require.NoError(t, err)
	assert.Equal(t, "1001", received.PO)
	assert.Equal(t, "Dropship order for PO# 1001", received.Comment)
}

func TestClient_GetSuborderDetail(t *testing.T) {
	t.Run("with shipments", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/dropship/suborder/1001", r.URL.Path)
			json.NewEncoder(w).Encode(suborderDetailResponse{Shipments: []shipmentPayload{
				{Carrier: "UPS", TrackingNumber: "1Z999", TrackingURL: "https://track.example/1Z999"},
			}})
		}))
		defer server.Close()

		detail, err := newTestClient(t, server.URL).GetSuborderDetail(context.Background(), "1001")
		require.NoError(t, err)
		require.NotNil(t, detail)
		require.Len(t, detail.Shipments, 1)
		assert.Equal(t, "UPS", detail.Shipments[0].Carrier)
	})

	t.Run("absent suborder", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		detail, err := newTestClient(t, server.URL).GetSuborderDetail(context.Background(), "1001")
		require.NoError(t, err)
		assert.Nil(t, detail)
	})
}

func TestNormalizeNextURL(t *testing.T) {
	assert.Equal(t, "", normalizeNextURL(""))
	assert.Equal(t, "https://api.example.com/v1/products?page=2", normalizeNextURL("api.example.com/v1/products?page=2"))
	assert.Equal(t, "https://api.example.com/x", normalizeNextURL("https://api.example.com/x"))
	assert.Equal(t, "http://api.example.com/x", normalizeNextURL("http://api.example.com/x"))
}
