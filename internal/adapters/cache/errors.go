package cache

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrClosed means the store was used after Close.
	ErrClosed = errors.New("cache store closed")
)
