package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	// DBConnString selects Postgres for the catalogue and coupons. Empty means
	// in-memory stores seeded with demo data.
	DBConnString           string   `envconfig:"DB_DSN"`
	ShutdownTimeoutSeconds int      `envconfig:"SHUTDOWN_TIMEOUT_SECONDS" default:"10"`
	CORSAllowedOrigins     []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	LogLevel               string   `envconfig:"LOG_LEVEL" default:"info"`
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse environment")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		return Config{}, errors.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be positive, got %d", cfg.ShutdownTimeoutSeconds)
	}
	return cfg, nil
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// UseDatabase reports whether a Postgres DSN is configured.
func (c Config) UseDatabase() bool {
	return c.DBConnString != ""
}
