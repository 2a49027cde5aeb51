package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Supported values for STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port            int    `envconfig:"PORT" default:"8080"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
	StoreDriver     string `envconfig:"STORE_DRIVER" default:"postgres"`
	DatabaseURL     string `envconfig:"DATABASE_URL" default:""`
	SQLitePath      string `envconfig:"SQLITE_PATH" default:"teams.db"`
	StorageRoot     string `envconfig:"STORAGE_ROOT" default:"./storage/app/public"`
	PublicBaseURL   string `envconfig:"PUBLIC_BASE_URL" default:"/storage"`
	AdminAPIKeyHash string `envconfig:"ADMIN_API_KEY_HASH" default:""`
	MaxUploadKB     int64  `envconfig:"MAX_UPLOAD_KB" default:"2000"`
	DefaultLocale   string `envconfig:"DEFAULT_LOCALE" default:"en"`
	Version         string `envconfig:"VERSION" default:"dev"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=%s", DriverPostgres)
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH is required when STORE_DRIVER=%s", DriverSQLite)
		}
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.MaxUploadKB < 1 {
		return nil, fmt.Errorf("MAX_UPLOAD_KB must be positive, got %d", cfg.MaxUploadKB)
	}

	return &cfg, nil
}
