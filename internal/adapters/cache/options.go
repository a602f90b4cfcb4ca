// Package cache provides the SQLite-backed write-through lookup cache.
package cache

import (
	"time"

	"github.com/okian/deckcheck/pkg/logger"
)

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithTTL sets how long a cached lookup stays valid.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(log logger.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.logger = log
		}
	}
}
