// Package config resolves CLI defaults from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	DBPath   string `validate:"required"`
	Workers  int    `validate:"min=1,max=64"`
	LogLevel string `validate:"oneof=debug info warn error"`
}

// Load reads VBMETRICS_DB, VBMETRICS_WORKERS and VBMETRICS_LOG_LEVEL,
// falling back to defaults for unset or unparsable values.
func Load() Config {
	return Config{
		DBPath:   getEnv("VBMETRICS_DB", defaultDBPath()),
		Workers:  getEnvInt("VBMETRICS_WORKERS", 4),
		LogLevel: getEnv("VBMETRICS_LOG_LEVEL", "info"),
	}
}

var validate = validator.New()

// Validate checks the resolved values, typically after flags were applied.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".vbmetrics", "metrics.db")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
