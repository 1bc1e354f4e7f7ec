package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PROVIDER_BASE_URL", "https://provider.example.com/api")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.AppAddr)
	require.Equal(t, time.Hour, cfg.InvoiceCacheTTL)
	require.Equal(t, 5*time.Minute, cfg.AdminCacheTTL)
	require.Equal(t, 5*time.Minute, cfg.QuoteCacheTTL)
	require.Equal(t, 20, cfg.PageSize)
	require.Equal(t, 2, cfg.PrefetchPages)
	require.Equal(t, "CLP", cfg.DisplayCurrency)
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PROVIDER_BASE_URL", "https://provider.example.com/api")
	t.Setenv("APP_ENV", "production")
	t.Setenv("INVOICE_CACHE_TTL", "30m")
	t.Setenv("DISPLAY_CURRENCY", "USD")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
	require.Equal(t, 30*time.Minute, cfg.InvoiceCacheTTL)
	require.Equal(t, "USD", cfg.DisplayCurrency)
}

func TestLoadConfigRequiresProviderURL(t *testing.T) {
	t.Setenv("PROVIDER_BASE_URL", "")
	_, err := LoadConfig()
	require.Error(t, err)
}
