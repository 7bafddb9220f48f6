// Package config loads runtime settings from the environment and an optional
// .env file, and owns the shared logger.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	EnvFees     = "MARCENARIA_FEES"
	EnvCatalog  = "MARCENARIA_CATALOG"
	EnvLogLevel = "LOG_LEVEL"

	defaultFees     = "10,5"
	defaultLogLevel = "info"
)

// Config holds the settings the app reads at startup.
type Config struct {
	// Fees are percentage charges (tax, commission) applied on top of cost
	// when a sale price is derived.
	Fees []decimal.Decimal
	// CatalogPath replaces the embedded default catalog when set.
	CatalogPath string
	LogLevel    string
}

func init() {
	// Load env from .env; a missing file is fine.
	godotenv.Load()
}

// Load reads the configuration from the environment and applies the log
// level to the shared logger.
func Load() (Config, error) {
	cfg := Config{
		CatalogPath: strings.TrimSpace(os.Getenv(EnvCatalog)),
		LogLevel:    getenv(EnvLogLevel, defaultLogLevel),
	}

	fees, err := ParseFees(getenv(EnvFees, defaultFees))
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", EnvFees, err)
	}
	cfg.Fees = fees

	if err := SetLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", EnvLogLevel, err)
	}
	return cfg, nil
}

// ParseFees reads a comma-separated list of percentages such as "10,5" or
// "8.5, 3". Blank entries are ignored; negative values are rejected.
func ParseFees(s string) ([]decimal.Decimal, error) {
	var out []decimal.Decimal
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := decimal.NewFromString(part)
		if err != nil {
			return nil, fmt.Errorf("bad fee %q: %w", part, err)
		}
		if d.IsNegative() {
			return nil, fmt.Errorf("negative fee %q", part)
		}
		out = append(out, d)
	}
	return out, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
