package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/deckcheck/internal/adapters/anticheat"
	"github.com/okian/deckcheck/internal/adapters/cache"
	"github.com/okian/deckcheck/internal/adapters/protondb"
	"github.com/okian/deckcheck/internal/adapters/steam"
	app "github.com/okian/deckcheck/internal/app"
	"github.com/okian/deckcheck/internal/config"
	"github.com/okian/deckcheck/internal/domain/enrich"
	"github.com/okian/deckcheck/internal/domain/identity"
	"github.com/okian/deckcheck/internal/domain/model"
	"github.com/okian/deckcheck/pkg/logger"
	"github.com/okian/deckcheck/pkg/metrics"
)

const usageText = `usage: deckcheck [flags] <steam id | vanity name | profile url>

Checks every game in a Steam library against ProtonDB and
AreWeAntiCheatYet and prints a compatibility summary.

flags:
`

const privateProfileHelp = `Your Steam account is currently private.

Please change your Steam profile privacy settings:

1. From Steam, click the user dropdown and select "View my profile"
2. Click the "Edit Profile" button
3. Click the "Privacy Settings" tab
4. Set "Game details" to Public
5. Uncheck the "Always keep my total playtime private" option`

func main() {
	clearCache := flag.Bool("clear-cache", false, "purge the lookup cache and exit")
	apiKey := flag.String("key", "", "Steam API key (overrides DECKCHECK_STEAM_API_KEY)")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usageText)
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *apiKey != "" {
		cfg.SteamAPIKey = *apiKey
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if *clearCache {
		if err := purgeCache(ctx, cfg); err != nil {
			os.Stderr.WriteString("failed to clear cache: " + err.Error() + "\n")
			os.Exit(1)
		}
		fmt.Println("cache cleared")
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if cfg.SteamAPIKey == "" {
		os.Stderr.WriteString("a Steam API key is required (-key or DECKCHECK_STEAM_API_KEY)\n")
		os.Exit(1)
	}

	// Optional metrics listener for the duration of the run.
	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, log, cfg.MetricsAddr)
	}

	report, err := runPipeline(ctx, cfg, flag.Arg(0))
	if err != nil {
		explainFailure(err)
		os.Exit(1)
	}

	renderReport(os.Stdout, report)
}

// runPipeline wires the adapters into the service and executes one run.
func runPipeline(ctx context.Context, cfg *config.Config, rawIdentity string) (*model.LibraryReport, error) {
	httpClient := &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutMS) * time.Millisecond}

	enrichOpts := []enrich.Option{
		enrich.WithMaxInFlight(cfg.MaxInFlight),
		enrich.WithRetryPolicy(cfg.RetryMaxAttempts, time.Duration(cfg.RetryInitialBackoffMS)*time.Millisecond),
	}

	if !cfg.CacheDisabled {
		store, cacheErr := cache.Open(cfg.CachePath,
			cache.WithTTL(time.Duration(cfg.CacheTTLDays)*24*time.Hour),
		)
		if cacheErr != nil {
			// The cache is an optional collaborator; a broken one only
			// costs latency.
			logger.Get().Warn(ctx, "lookup cache unavailable", logger.Error(cacheErr))
		} else {
			defer func() { _ = store.Close() }()
			enrichOpts = append(enrichOpts, enrich.WithCache(store))
		}
	}

	steamClient := steam.NewClient(cfg.SteamAPIKey, steam.WithHTTPClient(httpClient))
	resolver := identity.NewResolver(steamClient)
	enricher := enrich.New(
		protondb.NewClient(protondb.WithHTTPClient(httpClient)),
		anticheat.NewClient(),
		enrichOpts...,
	)

	svc := app.New(resolver, steamClient, enricher)
	return svc.Run(ctx, rawIdentity)
}

// purgeCache opens the store just long enough to drop every row.
func purgeCache(ctx context.Context, cfg *config.Config) error {
	store, err := cache.Open(cfg.CachePath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	return store.Purge(ctx)
}

// explainFailure prints an actionable reason for a fatal run failure.
func explainFailure(err error) {
	switch {
	case errors.Is(err, identity.ErrInvalidIdentity):
		os.Stderr.WriteString("that doesn't look like a Steam id, vanity name or profile URL\n")
	case errors.Is(err, identity.ErrResolutionFailed):
		os.Stderr.WriteString("could not resolve that vanity name to a Steam account\n")
	case errors.Is(err, steam.ErrUnauthorized):
		os.Stderr.WriteString("the Steam API rejected the API key\n")
	case errors.Is(err, steam.ErrPrivateProfile):
		os.Stderr.WriteString(privateProfileHelp + "\n")
	case errors.Is(err, context.Canceled):
		os.Stderr.WriteString("run cancelled\n")
	default:
		os.Stderr.WriteString("run failed: " + err.Error() + "\n")
	}
}

func serveMetrics(ctx context.Context, log logger.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warn(ctx, "metrics listener failed", logger.Error(err))
	}
}
