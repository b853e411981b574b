package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "http://localhost:3001", cfg.BackOfficeURL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 168, cfg.CartTTL)
	assert.Equal(t, 30*time.Second, cfg.CatalogSyncInterval)
	assert.Equal(t, 3*time.Second, cfg.ConfirmationDelay)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_PORT", "9090")
	t.Setenv("BACKOFFICE_URL", "http://backoffice:3001")
	t.Setenv("CHECKOUT_CONFIRMATION_DELAY", "500ms")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "http://backoffice:3001", cfg.BackOfficeURL)
	assert.Equal(t, 500*time.Millisecond, cfg.ConfirmationDelay)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_InvalidHTTPPort(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_PORT", "0")

	cfg, err := Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_InvalidSyncInterval(t *testing.T) {
	t.Setenv("CATALOG_SYNC_INTERVAL", "0s")

	cfg, err := Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "catalog sync interval")
}
