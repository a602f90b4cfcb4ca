// Package enrich fans library entries out across the compatibility
// sources and folds the results back into one batch.
package enrich

import (
	"time"

	"github.com/okian/deckcheck/pkg/logger"
)

// Option applies a configuration option to the Enricher.
type Option func(*Enricher)

// WithMaxInFlight bounds the number of simultaneous outstanding lookups
// across both sources combined.
func WithMaxInFlight(n int) Option {
	return func(e *Enricher) {
		if n > 0 {
			e.maxInFlight = n
		}
	}
}

// WithRetryPolicy sets the bounded retry policy for transient lookup
// failures: at most maxAttempts tries with exponential backoff starting
// at initialBackoff.
func WithRetryPolicy(maxAttempts int, initialBackoff time.Duration) Option {
	return func(e *Enricher) {
		if maxAttempts > 0 {
			e.maxAttempts = maxAttempts
		}
		if initialBackoff > 0 {
			e.initialBackoff = initialBackoff
		}
	}
}

// WithCache attaches a write-through lookup cache. Absence of a cache
// changes call volume, never correctness.
func WithCache(cache Cache) Option {
	return func(e *Enricher) {
		e.cache = cache
	}
}

// WithLogger sets a custom logger for the enricher.
func WithLogger(log logger.Logger) Option {
	return func(e *Enricher) {
		if log != nil {
			e.logger = log
		}
	}
}
