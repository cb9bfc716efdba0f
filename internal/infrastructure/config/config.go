package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Storefront  StorefrontConfig
	Distributor DistributorConfig
	Mail        MailConfig
	Sync        SyncConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds keep-alive server settings
type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StorefrontConfig holds storefront Admin API settings
type StorefrontConfig struct {
	StoreDomain         string
	AccessToken         string
	APIVersion          string
	LocationID          int64
	PageSize            int
	MinRequestInterval  time.Duration
	RateLimitRetryDelay time.Duration
	Timeout             time.Duration
}

// DistributorConfig holds distributor API settings
type DistributorConfig struct {
	APIKey               string
	APIBaseURL           string
	ReservedSuffix       string
	DetailRetryBaseDelay time.Duration
	Timeout              time.Duration
}

// MailConfig holds SMTP notification settings. Notifications are disabled
// when Host is empty.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// SyncConfig holds reconciliation run settings
type SyncConfig struct {
	// SweepThreshold is the minimum distributor catalog size for the
	// sold-out sweep to run
	SweepThreshold int
}

// Load loads configuration from TOML file and environment variables
/// Priority (highest to lowest):
// 1. Environment variables with DROPSYNC_ prefix (e.g., DROPSYNC_DISTRIBUTOR_API_KEY)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("DROPSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Build config struct
	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			IdleTimeout:  v.GetDuration("http.idle_timeout"),
		},
		Storefront: StorefrontConfig{
			StoreDomain:         v.GetString("storefront.store_domain"),
			AccessToken:         v.GetString("storefront.access_token"),
			APIVersion:          v.GetString("storefront.api_version"),
			LocationID:          v.GetInt64("storefront.location_id"),
			PageSize:            v.GetInt("storefront.page_size"),
			MinRequestInterval:  v.GetDuration("storefront.min_request_interval"),
			RateLimitRetryDelay: v.GetDuration("storefront.rate_limit_retry_delay"),
			Timeout:             v.GetDuration("storefront.timeout"),
		},
		Distributor: DistributorConfig{
			APIKey:               v.GetString("distributor.api_key"),
			APIBaseURL:           v.GetString("distributor.api_base_url"),
			ReservedSuffix:       v.GetString("distributor.reserved_suffix"),
			DetailRetryBaseDelay: v.GetDuration("distributor.detail_retry_base_delay"),
			Timeout:              v.GetDuration("distributor.timeout"),
		},
		Mail: MailConfig{
			Host:     v.GetString("mail.host"),
			Port:     v.GetInt("mail.port"),
			Username: v.GetString("mail.username"),
			Password: v.GetString("mail.password"),
			From:     v.GetString("mail.from"),
			To:       v.GetString("mail.to"),
		},
		Sync: SyncConfig{
			SweepThreshold: v.GetInt("sync.sweep_threshold"),
		},
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "dropsync"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.Storefront.APIVersion == "" {
		cfg.Storefront.APIVersion = "2024-04"
	}
	if cfg.Storefront.PageSize == 0 {
		cfg.Storefront.PageSize = 250
	}
	if cfg.Storefront.MinRequestInterval == 0 {
		cfg.Storefront.MinRequestInterval = time.Second
	}
	if cfg.Storefront.RateLimitRetryDelay == 0 {
		cfg.Storefront.RateLimitRetryDelay = time.Second
	}
	if cfg.Storefront.Timeout == 0 {
		cfg.Storefront.Timeout = 30 * time.Second
	}
	if cfg.Distributor.APIBaseURL == "" {
		cfg.Distributor.APIBaseURL = "https://api.cosmopolitanusa.com/v1"
	}
	if cfg.Distributor.ReservedSuffix == "" {
		cfg.Distributor.ReservedSuffix = "-A"
	}
	if cfg.Distributor.DetailRetryBaseDelay == 0 {
		cfg.Distributor.DetailRetryBaseDelay = 2 * time.Second
	}
	if cfg.Distributor.Timeout == 0 {
		cfg.Distributor.Timeout = 30 * time.Second
	}
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = 587
	}
	if cfg.Sync.SweepThreshold == 0 {
		cfg.Sync.SweepThreshold = 2000
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Sync.SweepThreshold <= 0 {
		return fmt.Errorf("sync.sweep_threshold must be positive")
	}
	if c.Storefront.MinRequestInterval <= 0 {
		return fmt.Errorf("storefront.min_request_interval must be positive")
	}
	if c.Distributor.DetailRetryBaseDelay <= 0 {
		return fmt.Errorf("distributor.detail_retry_base_delay must be positive")
	}
	if c.Storefront.PageSize < 0 || c.Storefront.PageSize > 250 {
		return fmt.Errorf("storefront.page_size must be between 1 and 250")
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Storefront.StoreDomain == "" {
			return fmt.Errorf("storefront.store_domain is required in production")
		}
		if c.Storefront.AccessToken == "" {
			return fmt.Errorf("storefront.access_token is required in production")
		}
		if c.Distributor.APIKey == "" {
			return fmt.Errorf("distributor.api_key is required in production")
		}
	}

	// Mail is all-or-nothing: a partially configured notifier would fail
	// on first use instead of at startup
	if c.Mail.Host != "" {
		if c.Mail.From == "" || c.Mail.To == "" {
			return fmt.Errorf("mail.from and mail.to are required when mail.host is set")
		}
	}

	return nil
}

// MailEnabled reports whether SMTP notifications are configured.
func (c *Config) MailEnabled() bool {
	return c.Mail.Host != ""
}
