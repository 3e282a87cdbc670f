package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration read from the environment.
type Config struct {
	// DBPath defaults to ~/.staircase/staircase.db when unset.
	DBPath        string `env:"STAIRCASE_DB"`
	LogLevel      string `env:"STAIRCASE_LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"STAIRCASE_LOG_FORMAT" envDefault:"console"`
	BusyTimeoutMs int    `env:"STAIRCASE_BUSY_TIMEOUT_MS" envDefault:"5000"`
	OTelEndpoint  string `env:"STAIRCASE_OTEL_ENDPOINT"`
	OTelEnabled   bool   `env:"STAIRCASE_OTEL_ENABLED" envDefault:"true"`
}

// Load parses the environment and fills in the default database path.
func Load() (*Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".staircase", "staircase.db")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("STAIRCASE_LOG_FORMAT: expected console or json, got %q", c.LogFormat)
	}
	if c.BusyTimeoutMs < 0 {
		return fmt.Errorf("STAIRCASE_BUSY_TIMEOUT_MS: must not be negative, got %d", c.BusyTimeoutMs)
	}
	return nil
}

// TracingEnabled reports whether spans should be exported.
func (c *Config) TracingEnabled() bool {
	return c.OTelEnabled && c.OTelEndpoint != ""
}
