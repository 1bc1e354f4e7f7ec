package app

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	ProviderBaseURL string        `envconfig:"PROVIDER_BASE_URL" required:"true"`
	ProviderTimeout time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"30s"`
	// ProviderServiceToken authenticates background jobs that run without a
	// user request, such as the admin cache warmup.
	ProviderServiceToken string `envconfig:"PROVIDER_SERVICE_TOKEN"`
	ProviderServiceUser  string `envconfig:"PROVIDER_SERVICE_USER" default:"cargoview-worker"`

	RedisAddr string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`

	InvoiceCacheTTL time.Duration `envconfig:"INVOICE_CACHE_TTL" default:"1h"`
	AdminCacheTTL   time.Duration `envconfig:"ADMIN_CACHE_TTL" default:"5m"`
	QuoteCacheTTL   time.Duration `envconfig:"QUOTE_CACHE_TTL" default:"5m"`
	PageSize        int           `envconfig:"PAGE_SIZE" default:"20"`
	PrefetchPages   int           `envconfig:"PREFETCH_PAGES" default:"2"`
	DisplayCurrency string        `envconfig:"DISPLAY_CURRENCY" default:"CLP"`

	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"100"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// LoadConfig reads configuration from the environment, honoring a local
// .env file when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.ProviderBaseURL == "" {
		return nil, errors.New("provider base URL must be provided")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
