package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if DECKCHECK_CONFIG is set
//  3. env (prefix DECKCHECK_), with a .env file honored first
func Load(_ context.Context) (*Config, error) {
	// Load .env if present so local runs can keep the API key out of
	// the shell history.
	_ = godotenv.Load()

	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("DECKCHECK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: DECKCHECK_STEAM_API_KEY, DECKCHECK_MAX_IN_FLIGHT, ...
	// Map env keys like DECKCHECK_MAX_IN_FLIGHT -> max_in_flight (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("DECKCHECK_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "deckcheck_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.MaxInFlight <= 0 {
		return nil, fmt.Errorf("%w: max_in_flight must be positive", ErrInvalidConfig)
	}
	if cfg.RetryMaxAttempts <= 0 {
		return nil, fmt.Errorf("%w: retry_max_attempts must be positive", ErrInvalidConfig)
	}
	if cfg.CacheTTLDays <= 0 {
		return nil, fmt.Errorf("%w: cache_ttl_days must be positive", ErrInvalidConfig)
	}
	if !cfg.CacheDisabled && cfg.CachePath == "" {
		return nil, fmt.Errorf("%w: cache_path must not be empty unless cache_disabled", ErrInvalidConfig)
	}
	return &cfg, nil
}
