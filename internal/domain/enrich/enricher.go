package enrich

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/okian/deckcheck/internal/domain/model"
	"github.com/okian/deckcheck/internal/domain/types"
	"github.com/okian/deckcheck/pkg/logger"
	"github.com/okian/deckcheck/pkg/metrics"
)

// Source names used for cache keys, logs and metric labels.
const (
	SourceRating    = "protondb"
	SourceAntiCheat = "anticheat"
)

// Default enrichment configuration constants.
const (
	defaultMaxInFlight    = 10
	defaultMaxAttempts    = 3
	defaultInitialBackoff = 250 * time.Millisecond
)

// RatingSource maps an app id to a compatibility tier.
// Absence from the dataset is signalled with ErrNotFound.
type RatingSource interface {
	Rating(ctx context.Context, id model.AppID) (types.Tier, error)
}

// AntiCheatSource maps an app id to an anti-cheat status.
// Absence from the dataset is signalled with ErrNotFound.
type AntiCheatSource interface {
	Status(ctx context.Context, id model.AppID) (types.AntiCheatStatus, error)
}

// Cache is the optional write-through lookup cache consulted before a
// source lookup is issued. Implementations store plain string values.
type Cache interface {
	Get(ctx context.Context, source string, id model.AppID) (string, bool, error)
	Put(ctx context.Context, source string, id model.AppID, value string) error
}

// Enricher applies both compatibility sources to every library entry
// under a bounded concurrency policy.
type Enricher struct {
	rating    RatingSource
	anticheat AntiCheatSource
	cache     Cache // optional, may be nil

	maxInFlight    int
	maxAttempts    int
	initialBackoff time.Duration

	logger logger.Logger
}

// New creates an enricher over the two sources.
func New(rating RatingSource, anticheat AntiCheatSource, opts ...Option) *Enricher {
	e := &Enricher{
		rating:         rating,
		anticheat:      anticheat,
		maxInFlight:    defaultMaxInFlight,
		maxAttempts:    defaultMaxAttempts,
		initialBackoff: defaultInitialBackoff,
		logger:         logger.Get().Named("enrich"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich produces exactly one EnrichedGame per entry, in input order.
// Per-game source failures degrade only the affected field; the batch
// itself only fails when ctx is cancelled, in which case no partial
// batch is returned.
func (e *Enricher) Enrich(ctx context.Context, entries []model.LibraryEntry) ([]model.EnrichedGame, error) {
	results := make([]model.EnrichedGame, len(entries))
	for i, entry := range entries {
		results[i] = model.EnrichedGame{
			LibraryEntry:     entry,
			Tier:             types.TierUnknown,
			TierOutcome:      types.OutcomeFailed,
			AntiCheat:        types.AntiCheatUnknown,
			AntiCheatOutcome: types.OutcomeFailed,
		}
	}

	// One semaphore bounds in-flight lookups across both sources.
	sem := make(chan struct{}, e.maxInFlight)
	var wg sync.WaitGroup

	for i := range entries {
		id := entries[i].AppID

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if !acquire(ctx, sem) {
				return
			}
			defer release(sem)
			// The two goroutines for one game write disjoint fields.
			results[i].Tier, results[i].TierOutcome = e.lookupTier(ctx, id)
		}(i)

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if !acquire(ctx, sem) {
				return
			}
			defer release(sem)
			results[i].AntiCheat, results[i].AntiCheatOutcome = e.lookupStatus(ctx, id)
		}(i)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("enrichment aborted: %w", err)
	}

	for i := range results {
		if results[i].TierOutcome == types.OutcomeFailed || results[i].AntiCheatOutcome == types.OutcomeFailed {
			metrics.RecordGameDegraded()
		}
	}

	return results, nil
}

func acquire(ctx context.Context, sem chan struct{}) bool {
	select {
	case sem <- struct{}{}:
		metrics.IncInFlight()
		return true
	case <-ctx.Done():
		return false
	}
}

func release(sem chan struct{}) {
	metrics.DecInFlight()
	<-sem
}

// lookupTier settles the rating field for one game.
func (e *Enricher) lookupTier(ctx context.Context, id model.AppID) (types.Tier, types.Outcome) {
	if value, ok := e.cacheGet(ctx, SourceRating, id); ok {
		if tier, known := types.TierFromString(value); known {
			metrics.RecordLookup(SourceRating, types.OutcomeFound.String())
			return tier, types.OutcomeFound
		}
	}

	start := time.Now()
	tier, err := retryLookup(ctx, e, SourceRating, func() (types.Tier, error) {
		return e.rating.Rating(ctx, id)
	})
	metrics.RecordLookupLatency(SourceRating, float64(time.Since(start).Milliseconds()))

	outcome := e.settle(ctx, SourceRating, id, err)
	if outcome != types.OutcomeFound {
		return types.TierUnknown, outcome
	}
	e.cachePut(ctx, SourceRating, id, string(tier))
	return tier, types.OutcomeFound
}

// lookupStatus settles the anti-cheat field for one game.
func (e *Enricher) lookupStatus(ctx context.Context, id model.AppID) (types.AntiCheatStatus, types.Outcome) {
	if value, ok := e.cacheGet(ctx, SourceAntiCheat, id); ok {
		if status, known := types.AntiCheatStatusFromString(value); known {
			metrics.RecordLookup(SourceAntiCheat, types.OutcomeFound.String())
			return status, types.OutcomeFound
		}
	}

	start := time.Now()
	status, err := retryLookup(ctx, e, SourceAntiCheat, func() (types.AntiCheatStatus, error) {
		return e.anticheat.Status(ctx, id)
	})
	metrics.RecordLookupLatency(SourceAntiCheat, float64(time.Since(start).Milliseconds()))

	outcome := e.settle(ctx, SourceAntiCheat, id, err)
	if outcome != types.OutcomeFound {
		return types.AntiCheatUnknown, outcome
	}
	e.cachePut(ctx, SourceAntiCheat, id, string(status))
	return status, types.OutcomeFound
}

// retryLookup runs one logical lookup with bounded exponential backoff.
// NotFound is terminal and returned immediately; transient errors retry
// up to the configured attempt bound.
func retryLookup[T any](ctx context.Context, e *Enricher, source string, fn func() (T, error)) (T, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = e.initialBackoff

	op := func() (T, error) {
		v, err := fn()
		if err != nil && errors.Is(err, ErrNotFound) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(e.maxAttempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			metrics.RecordLookupRetry(source)
			e.logger.Debug(ctx, "retrying lookup",
				logger.String("source", source),
				logger.Any("backoff", next),
				logger.Error(err),
			)
		}),
	)
}

// settle maps a lookup error to its outcome tag and records it.
func (e *Enricher) settle(ctx context.Context, source string, id model.AppID, err error) types.Outcome {
	outcome := types.OutcomeFound
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		outcome = types.OutcomeNotFound
	default:
		outcome = types.OutcomeFailed
		if ctx.Err() == nil {
			e.logger.Warn(ctx, "lookup degraded after retries",
				logger.String("source", source),
				logger.String("app_id", id.String()),
				logger.Error(err),
			)
		}
	}
	metrics.RecordLookup(source, outcome.String())
	return outcome
}

func (e *Enricher) cacheGet(ctx context.Context, source string, id model.AppID) (string, bool) {
	if e.cache == nil {
		return "", false
	}
	value, ok, err := e.cache.Get(ctx, source, id)
	if err != nil {
		e.logger.Warn(ctx, "cache read failed",
			logger.String("source", source),
			logger.String("app_id", id.String()),
			logger.Error(err),
		)
		return "", false
	}
	if ok {
		metrics.RecordCacheHit(source)
	} else {
		metrics.RecordCacheMiss(source)
	}
	return value, ok
}

func (e *Enricher) cachePut(ctx context.Context, source string, id model.AppID, value string) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Put(ctx, source, id, value); err != nil {
		e.logger.Warn(ctx, "cache write failed",
			logger.String("source", source),
			logger.String("app_id", id.String()),
			logger.Error(err),
		)
	}
}
