// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"os"
	"path/filepath"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// SteamAPIKey authenticates calls to the Steam Web API.
	SteamAPIKey string `koanf:"steam_api_key"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MaxInFlight bounds simultaneous outstanding source lookups
	// across both sources combined.
	MaxInFlight int `koanf:"max_in_flight"`

	// RetryMaxAttempts bounds tries per degraded source lookup.
	RetryMaxAttempts int `koanf:"retry_max_attempts"`

	// RetryInitialBackoffMS seeds the exponential backoff between tries.
	RetryInitialBackoffMS int `koanf:"retry_initial_backoff_ms"`

	// HTTPTimeoutMS is the per-request timeout for all API clients.
	HTTPTimeoutMS int `koanf:"http_timeout_ms"`

	// CachePath locates the SQLite lookup cache.
	CachePath string `koanf:"cache_path"`

	// CacheTTLDays sets how long cached lookups stay valid.
	CacheTTLDays int `koanf:"cache_ttl_days"`

	// CacheDisabled turns the lookup cache off entirely.
	CacheDisabled bool `koanf:"cache_disabled"`

	// MetricsAddr, when set, serves Prometheus metrics during the run,
	// e.g. ":9090". Empty disables the listener.
	MetricsAddr string `koanf:"metrics_addr"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		MaxInFlight:           10,
		RetryMaxAttempts:      3,
		RetryInitialBackoffMS: 250,
		HTTPTimeoutMS:         10_000,
		CachePath:             defaultCachePath(),
		CacheTTLDays:          7,
	}
}

// defaultCachePath places the cache under the user config directory,
// next to where desktop tools keep theirs. Falls back to the working
// directory when the platform dir cannot be determined.
func defaultCachePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "deckcheck-cache.db"
	}
	return filepath.Join(dir, "deckcheck", "cache.db")
}
