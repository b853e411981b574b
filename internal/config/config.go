package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/nyxieeee/aa2000-website/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Back office API
	BackOfficeURL string `env:"BACKOFFICE_URL" envDefault:"http://localhost:3001"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart TTL in hours (default: 7 days)
	CartTTL int `env:"CART_TTL_HOURS" envDefault:"168"`

	// Catalog background sync interval
	CatalogSyncInterval time.Duration `env:"CATALOG_SYNC_INTERVAL" envDefault:"30s"`

	// Delay between order confirmation and cart clear
	ConfirmationDelay time.Duration `env:"CHECKOUT_CONFIRMATION_DELAY" envDefault:"3s"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Tracing
	OTLPEndpoint string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	TraceSample  float64 `env:"TRACE_SAMPLE_RATIO" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.BackOfficeURL == "" {
		return fmt.Errorf("BACKOFFICE_URL is required")
	}
	if c.CatalogSyncInterval <= 0 {
		return fmt.Errorf("invalid catalog sync interval: %s", c.CatalogSyncInterval)
	}
	if c.ConfirmationDelay < 0 {
		return fmt.Errorf("invalid confirmation delay: %s", c.ConfirmationDelay)
	}
	return nil
}
