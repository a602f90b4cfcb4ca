package enrich

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrNotFound is returned by a source when the game is absent from
	// its dataset. It is terminal: never retried, never fatal.
	ErrNotFound = errors.New("app not found in source dataset")
)
