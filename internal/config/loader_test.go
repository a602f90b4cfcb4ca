package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/deckcheck/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"DECKCHECK_CONFIG",
		"DECKCHECK_STEAM_API_KEY",
		"DECKCHECK_LOG_LEVEL",
		"DECKCHECK_MAX_IN_FLIGHT",
		"DECKCHECK_RETRY_MAX_ATTEMPTS",
		"DECKCHECK_RETRY_INITIAL_BACKOFF_MS",
		"DECKCHECK_HTTP_TIMEOUT_MS",
		"DECKCHECK_CACHE_PATH",
		"DECKCHECK_CACHE_TTL_DAYS",
		"DECKCHECK_CACHE_DISABLED",
		"DECKCHECK_METRICS_ADDR",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.MaxInFlight, convey.ShouldEqual, 10)
				convey.So(cfg.RetryMaxAttempts, convey.ShouldEqual, 3)
				convey.So(cfg.RetryInitialBackoffMS, convey.ShouldEqual, 250)
				convey.So(cfg.HTTPTimeoutMS, convey.ShouldEqual, 10_000)
				convey.So(cfg.CacheTTLDays, convey.ShouldEqual, 7)
				convey.So(cfg.CachePath, convey.ShouldNotBeEmpty)
				convey.So(cfg.MetricsAddr, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars()
			_ = os.Setenv("DECKCHECK_STEAM_API_KEY", "env-key")
			_ = os.Setenv("DECKCHECK_MAX_IN_FLIGHT", "4")
			_ = os.Setenv("DECKCHECK_RETRY_MAX_ATTEMPTS", "5")
			_ = os.Setenv("DECKCHECK_CACHE_TTL_DAYS", "2")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.SteamAPIKey, convey.ShouldEqual, "env-key")
				convey.So(cfg.MaxInFlight, convey.ShouldEqual, 4)
				convey.So(cfg.RetryMaxAttempts, convey.ShouldEqual, 5)
				convey.So(cfg.CacheTTLDays, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			clearConfigEnvVars()
			yamlContent := `
steam_api_key: "file-key"
log_level: "debug"
max_in_flight: 6
cache_disabled: true
`
			tmpFile := filepath.Join(t.TempDir(), "config.yaml")
			convey.So(os.WriteFile(tmpFile, []byte(yamlContent), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("DECKCHECK_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values layer over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.SteamAPIKey, convey.ShouldEqual, "file-key")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.MaxInFlight, convey.ShouldEqual, 6)
				convey.So(cfg.CacheDisabled, convey.ShouldBeTrue)
			})

			convey.Convey("And env vars take precedence over the file", func() {
				_ = os.Setenv("DECKCHECK_LOG_LEVEL", "error")

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "error")
				convey.So(cfg.SteamAPIKey, convey.ShouldEqual, "file-key")
			})
		})

		convey.Convey("When the config is invalid", func() {
			clearConfigEnvVars()
			_ = os.Setenv("DECKCHECK_MAX_IN_FLIGHT", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then the error is typed", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the config file is missing", func() {
			clearConfigEnvVars()
			_ = os.Setenv("DECKCHECK_CONFIG", "/nonexistent/config.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})
	})
}
