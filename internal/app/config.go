package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/stockbridge/stockbridge/internal/mapping"
)

// Config holds runtime configuration for the relay.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// PGDSN enables the webhook audit journal when set.
	PGDSN string `envconfig:"PG_DSN" default:""`

	RedisAddr        string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	PendingStore     string        `envconfig:"PENDING_STORE" default:"redis"`
	PendingNamespace string        `envconfig:"PENDING_NAMESPACE" default:"stockbridge:pending"`
	PendingMoveTTL   time.Duration `envconfig:"PENDING_MOVE_TTL" default:"24h"`

	CompanyRequired      []string          `envconfig:"COMPANY_REQUIRED" default:"Surulere Store,Lekki Store"`
	LocationNameRequired []string          `envconfig:"LOCATION_NAME_REQUIRED" default:"Su-Sh/Stock,Le-Sh/Stock"`
	WarehouseIDMap       map[string]string `envconfig:"WAREHOUSE_ID_MAP" default:"Surulere Store:4167669000195495001,Lekki Store:4167669000000923299"`
	WarehouseERPLocation map[string]int64  `envconfig:"WAREHOUSE_ERP_LOCATION_MAP" default:"4167669000195495001:32,4167669000000923299:22"`

	InventoryAPIURL       string `envconfig:"INVENTORY_API_URL" default:"https://www.zohoapis.com/inventory/v1"`
	InventoryRefreshURL   string `envconfig:"INVENTORY_REFRESH_URL" default:"https://accounts.zoho.com/oauth/v2/token"`
	InventoryOrgID        string `envconfig:"INVENTORY_ORG_ID" required:"true"`
	InventoryClientID     string `envconfig:"INVENTORY_CLIENT_ID" required:"true"`
	InventoryClientSecret string `envconfig:"INVENTORY_CLIENT_SECRET" required:"true"`
	InventoryRefreshToken string `envconfig:"INVENTORY_REFRESH_TOKEN" required:"true"`
	InventoryAccessToken  string `envconfig:"INVENTORY_ACCESS_TOKEN" default:""`

	ERPURL      string `envconfig:"ERP_URL" required:"true"`
	ERPDatabase string `envconfig:"ERP_DATABASE" required:"true"`
	ERPUserID   int64  `envconfig:"ERP_USER_ID" required:"true"`
	ERPPassword string `envconfig:"ERP_PASSWORD" required:"true"`

	GatewayTimeout time.Duration `envconfig:"GATEWAY_TIMEOUT" default:"10s"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.PendingStore != "redis" && cfg.PendingStore != "memory" {
		return nil, errors.New("pending store must be redis or memory")
	}
	return &cfg, nil
}

// Tables builds the cross-system mapping tables from the raw config values.
func (c *Config) Tables() mapping.Tables {
	return mapping.New(c.CompanyRequired, c.LocationNameRequired, c.WarehouseIDMap, c.WarehouseERPLocation)
}

// IsProduction returns true when the relay runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
