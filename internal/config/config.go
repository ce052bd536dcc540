// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers defaults, an optional YAML file and MCR_* env vars.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"strings"
)

// Share store drivers.
const (
	ShareDriverMemory   = "memory"
	ShareDriverSQLite   = "sqlite"
	ShareDriverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log output to JSON lines.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatasetPath points at the school data bundle (JSON).
	DatasetPath string `koanf:"dataset_path"`

	// ShareDriver selects the share store: memory, sqlite or postgres.
	ShareDriver string `koanf:"share_driver"`

	// ShareDSN is passed to the SQL driver. Empty uses the driver default.
	ShareDSN string `koanf:"share_dsn"`

	// ShareListDefault and ShareListMax bound GET /shares?limit.
	ShareListDefault int `koanf:"share_list_default"`
	ShareListMax     int `koanf:"share_list_max"`

	// RankDefaultLimit and MaxRankLimit bound GET /rank?limit.
	RankDefaultLimit int `koanf:"rank_default_limit"`
	MaxRankLimit     int `koanf:"max_rank_limit"`

	// MaxParamsLength is the longest share string the codec accepts.
	MaxParamsLength int `koanf:"max_params_length"`

	// DiagnosticsDedupeSize bounds how many distinct malformed share strings are remembered
	// so each is logged once.
	DiagnosticsDedupeSize int `koanf:"diagnostics_dedupe_size"`
}

// New creates a Config holding the defaults. The context is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		DatasetPath:           "data.json",
		ShareDriver:           ShareDriverMemory,
		ShareListDefault:      10,
		ShareListMax:          20,
		RankDefaultLimit:      50,
		MaxRankLimit:          500,
		MaxParamsLength:       4096,
		DiagnosticsDedupeSize: 1024,
	}
}

// Validate checks field consistency.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.DatasetPath) == "":
		return fmt.Errorf("%w: dataset_path must not be empty", ErrInvalidConfig)
	case c.ShareListDefault < 1 || c.ShareListMax < c.ShareListDefault:
		return fmt.Errorf("%w: need 1 <= share_list_default <= share_list_max", ErrInvalidConfig)
	case c.RankDefaultLimit < 1 || c.MaxRankLimit < c.RankDefaultLimit:
		return fmt.Errorf("%w: need 1 <= rank_default_limit <= max_rank_limit", ErrInvalidConfig)
	case c.MaxParamsLength < 1:
		return fmt.Errorf("%w: max_params_length must be positive", ErrInvalidConfig)
	}
	switch c.ShareDriver {
	case ShareDriverMemory, ShareDriverSQLite, ShareDriverPostgres:
	default:
		return fmt.Errorf("%w: unknown share_driver %q", ErrInvalidConfig, c.ShareDriver)
	}
	return nil
}
