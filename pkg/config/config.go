package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	ShopAPI  ShopAPIConfig
	JWT      JWTConfig
	Persist  PersistConfig
	Pricing  PricingConfig
	Search   SearchConfig
	Features FeatureFlagsConfig
}

// JWTConfig holds the shared secret used to verify access tokens minted by
// the upstream shop API.
type JWTConfig struct {
	Secret string `envconfig:"STOREFRONT_JWT_SECRET"`
	Issuer string `envconfig:"STOREFRONT_JWT_ISSUER" default:"shop-api"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Persist.validate(); err != nil {
		return nil, err
	}
	// Development tolerates an empty secret so local runs work out of the
	// box; production must never verify tokens against it.
	if cfg.App.IsProd() && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("STOREFRONT_JWT_SECRET is required in production")
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"development"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"STOREFRONT_DB_DSN" default:"storefront.db"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// ShopAPIConfig points at the upstream shop API that owns products,
// orders and auth.
type ShopAPIConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_SHOP_API_URL" required:"true"`
	Timeout time.Duration `envconfig:"STOREFRONT_SHOP_API_TIMEOUT" default:"10s"`
}

// PersistConfig selects the backend for the cart and session slots.
type PersistConfig struct {
	Backend string `envconfig:"STOREFRONT_PERSIST_BACKEND" default:"db"`
}

const (
	PersistBackendDB    = "db"
	PersistBackendRedis = "redis"
)

func (p PersistConfig) validate() error {
	switch p.Backend {
	case PersistBackendDB, PersistBackendRedis:
		return nil
	}
	return fmt.Errorf("unknown persist backend %q", p.Backend)
}

// PricingConfig carries the delivery-fee policy. The defaults match the
// shop's published free-delivery threshold.
type PricingConfig struct {
	FreeDeliveryThreshold string `envconfig:"STOREFRONT_FREE_DELIVERY_THRESHOLD" default:"999"`
	DeliveryFee           string `envconfig:"STOREFRONT_DELIVERY_FEE" default:"50"`
}

// Threshold parses the configured free-delivery threshold.
func (p PricingConfig) Threshold() (decimal.Decimal, error) {
	return decimal.NewFromString(p.FreeDeliveryThreshold)
}

// Fee parses the configured flat delivery fee.
func (p PricingConfig) Fee() (decimal.Decimal, error) {
	return decimal.NewFromString(p.DeliveryFee)
}

type SearchConfig struct {
	MinQueryLength int           `envconfig:"STOREFRONT_SEARCH_MIN_QUERY_LEN" default:"3"`
	Debounce       time.Duration `envconfig:"STOREFRONT_SEARCH_DEBOUNCE" default:"300ms"`
}

type FeatureFlagsConfig struct {
	AutoMigrate  bool `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
	CacheCatalog bool `envconfig:"STOREFRONT_CACHE_CATALOG" default:"true"`
}
