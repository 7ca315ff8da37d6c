package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Checkout  CheckoutConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Pricing   PricingConfig
	Payment   PaymentConfig
	Orders    OrdersConfig
	RateLimit RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Pricing.GSTRateBasisPoints%2 != 0 {
		return nil, fmt.Errorf("gst rate must split into two equal components, got %d bps", cfg.Pricing.GSTRateBasisPoints)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VARDHMAN_APP_ENV" required:"true"`
	Port         string `envconfig:"VARDHMAN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VARDHMAN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VARDHMAN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type CheckoutConfig struct {
	SessionTTL       time.Duration `envconfig:"VARDHMAN_CHECKOUT_SESSION_TTL" default:"2h"`
	SnapshotDebounce time.Duration `envconfig:"VARDHMAN_CHECKOUT_SNAPSHOT_DEBOUNCE" default:"500ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VARDHMAN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VARDHMAN_REDIS_ADDR"`
	Password     string        `envconfig:"VARDHMAN_REDIS_PASSWORD"`
	DB           int           `envconfig:"VARDHMAN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VARDHMAN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VARDHMAN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VARDHMAN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VARDHMAN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VARDHMAN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"VARDHMAN_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"VARDHMAN_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"VARDHMAN_JWT_EXPIRATION_MINUTES" default:"120"`
}

// TokenTTL returns the session token lifetime configured in minutes.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PricingConfig struct {
	GSTRateBasisPoints  int   `envconfig:"VARDHMAN_GST_RATE_BPS" default:"1800"`
	GiftWrapFeePaise    int64 `envconfig:"VARDHMAN_GIFT_WRAP_FEE_PAISE" default:"5000"`
	CODHandlingFeePaise int64 `envconfig:"VARDHMAN_COD_HANDLING_FEE_PAISE" default:"4000"`
}

type PaymentConfig struct {
	UPIWaitWindow        time.Duration `envconfig:"VARDHMAN_PAYMENT_UPI_WAIT_WINDOW" default:"5m"`
	NetbankingWaitWindow time.Duration `envconfig:"VARDHMAN_PAYMENT_NETBANKING_WAIT_WINDOW" default:"10m"`
	WalletWaitWindow     time.Duration `envconfig:"VARDHMAN_PAYMENT_WALLET_WAIT_WINDOW" default:"5m"`
}

type OrdersConfig struct {
	SubmitURL     string        `envconfig:"VARDHMAN_ORDERS_SUBMIT_URL" required:"true"`
	SubmitTimeout time.Duration `envconfig:"VARDHMAN_ORDERS_SUBMIT_TIMEOUT" default:"15s"`
}

type RateLimitConfig struct {
	SessionCreateWindow  time.Duration `envconfig:"VARDHMAN_RATE_LIMIT_SESSION_WINDOW" default:"1m"`
	SessionCreateIPLimit int           `envconfig:"VARDHMAN_RATE_LIMIT_SESSION_IP_LIMIT" default:"10"`
}
