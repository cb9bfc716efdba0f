package storefront

import (
	"errors"
	"time"
)

// Default Admin API version for both REST and GraphQL calls.
const DefaultAPIVersion = "2024-04"

// Storefront adapter configuration errors
var (
	ErrConfigMissingStoreDomain = errors.New("storefront: store domain is required")
	ErrConfigMissingAccessToken = errors.New("storefront: access token is required")
)

// Config holds the storefront Admin API configuration.
type Config struct {
	// StoreDomain is the shop's admin domain, e.g. "example.myshopify.com"
	StoreDomain string
	// AccessToken is the Admin API access token
	AccessToken string
	// APIVersion selects the Admin API version
	APIVersion string
	// LocationID is the fulfillment location tracking is attached from
	LocationID int64
	// PageSize is the per-page limit for paginated listings (max 250)
	PageSize int
	// MinRequestInterval is the minimum spacing between paginated requests
	MinRequestInterval time.Duration
	// RateLimitRetryDelay is the fallback delay when a 429 response carries
	// no Retry-After header
	RateLimitRetryDelay time.Duration
	// Timeout is the per-request HTTP timeout
	Timeout time.Duration
}

// NewConfig creates a storefront configuration with sensible defaults.
func NewConfig(storeDomain, accessToken string) *Config {
	return &Config{
		StoreDomain:         storeDomain,
		AccessToken:         accessToken,
		APIVersion:          DefaultAPIVersion,
		PageSize:            250,
		MinRequestInterval:  time.Second,
		RateLimitRetryDelay: time.Second,
		Timeout:             30 * time.Second,
	}
}

// Validate checks required fields and applies defaults.
func (c *Config) Validate() error {
	if c.StoreDomain == "" {
		return ErrConfigMissingStoreDomain
	}
	if c.AccessToken == "" {
		return ErrConfigMissingAccessToken
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.PageSize <= 0 || c.PageSize > 250 {
		c.PageSize = 250
	}
	if c.MinRequestInterval <= 0 {
		c.MinRequestInterval = time.Second
	}
	if c.RateLimitRetryDelay <= 0 {
		c.RateLimitRetryDelay = time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}
