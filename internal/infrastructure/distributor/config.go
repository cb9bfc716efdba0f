package distributor

import (
	"errors"
	"time"
)

// DefaultAPIBaseURL is the production distributor API endpoint.
const DefaultAPIBaseURL = "https://api.cosmopolitanusa.com/v1"

// Errors for distributor configuration
var (
	ErrConfigMissingAPIKey = errors.New("distributor: API key is required")
)

// Config holds configuration for the distributor API integration.
type Config struct {
	// APIKey is the distributor-issued access key
	APIKey string
	// APIBaseURL is the base URL for the distributor API
	APIBaseURL string
	// ReservedSuffix marks non-sellable accessory item codes filtered out
	// of every catalog listing
	ReservedSuffix string
	// DetailRetryBaseDelay scales the linear backoff between detail-fetch
	// retries
	DetailRetryBaseDelay time.Duration
	// Timeout is the HTTP request timeout
	Timeout time.Duration
}

// NewConfig creates a distributor configuration with defaults.
func NewConfig(apiKey string) *Config {
	return &Config{
		APIKey:               apiKey,
		APIBaseURL:           DefaultAPIBaseURL,
		ReservedSuffix:       "-A",
		DetailRetryBaseDelay: 2 * time.Second,
		Timeout:              30 * time.Second,
	}
}

// Validate validates the configuration and fills defaults.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrConfigMissingAPIKey
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	if c.ReservedSuffix == "" {
		c.ReservedSuffix = "-A"
	}
	if c.DetailRetryBaseDelay <= 0 {
		c.DetailRetryBaseDelay = 2 * time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}
