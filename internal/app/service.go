// Package app provides the core pipeline service: identity resolution,
// library retrieval, enrichment and aggregation, in that order.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/deckcheck/internal/adapters/steam"
	"github.com/okian/deckcheck/internal/domain/model"
	"github.com/okian/deckcheck/internal/domain/summary"
	"github.com/okian/deckcheck/pkg/logger"
	"github.com/okian/deckcheck/pkg/metrics"
)

// Library retrieves the full owned-games list for an account.
// Implemented by the Steam adapter.
type Library interface {
	OwnedGames(ctx context.Context, id model.AccountID) ([]model.LibraryEntry, error)
}

// Resolver normalizes raw identity input.
type Resolver interface {
	Resolve(ctx context.Context, raw string) (model.AccountID, error)
}

// Enricher applies the compatibility sources to a library.
type Enricher interface {
	Enrich(ctx context.Context, entries []model.LibraryEntry) ([]model.EnrichedGame, error)
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// Service runs the whole pipeline for one identity input.
type Service struct {
	resolver Resolver
	library  Library
	enricher Enricher
	logger   logger.Logger
}

// New constructs the pipeline service.
func New(resolver Resolver, library Library, enricher Enricher, opts ...Option) *Service {
	s := &Service{
		resolver: resolver,
		library:  library,
		enricher: enricher,
		logger:   logger.Get().Named("app"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one pipeline run. Resolution and library fetch are
// strictly sequential prerequisites; their failures are fatal and
// surfaced directly. Per-game source failures never are: the returned
// report always carries one record per owned game. An empty library is
// a success with zero entries.
func (s *Service) Run(ctx context.Context, rawIdentity string) (*model.LibraryReport, error) {
	runID := uuid.NewString()
	log := s.logger
	start := time.Now()
	defer func() {
		metrics.RecordRunDuration(float64(time.Since(start).Milliseconds()))
	}()

	log.Info(ctx, "pipeline run starting", logger.String("run_id", runID))

	accountID, err := s.resolver.Resolve(ctx, rawIdentity)
	if err != nil {
		metrics.RecordFatal("resolve")
		metrics.RecordRun(runResult(ctx, err))
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	entries, err := s.library.OwnedGames(ctx, accountID)
	if err != nil {
		if errors.Is(err, steam.ErrEmptyLibrary) {
			log.Info(ctx, "library is empty",
				logger.String("run_id", runID),
				logger.String("account_id", accountID.String()),
			)
			metrics.RecordRun("ok")
			return &model.LibraryReport{
				AccountID: accountID,
				Summary:   summary.Summarize(nil),
			}, nil
		}
		metrics.RecordFatal("library")
		metrics.RecordRun(runResult(ctx, err))
		return nil, fmt.Errorf("fetch library: %w", err)
	}

	games, err := s.enricher.Enrich(ctx, entries)
	if err != nil {
		metrics.RecordRun(runResult(ctx, err))
		return nil, fmt.Errorf("enrich library: %w", err)
	}

	report := &model.LibraryReport{
		AccountID: accountID,
		Games:     games,
		Summary:   summary.Summarize(games),
	}

	metrics.RecordRun("ok")
	log.Info(ctx, "pipeline run complete",
		logger.String("run_id", runID),
		logger.String("account_id", accountID.String()),
		logger.Int("games", report.Summary.GameCount),
		logger.Int("rated_games", report.Summary.RatedGameCount),
		logger.Float64("average_rating", report.Summary.AverageRating),
		logger.Any("duration", time.Since(start)),
	)
	return report, nil
}

func runResult(ctx context.Context, err error) string {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return "cancelled"
	}
	return "failed"
}
