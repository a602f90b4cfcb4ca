package identity

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrInvalidIdentity means the raw input matched none of the
	// accepted shapes (numeric id, vanity name, profile URL).
	ErrInvalidIdentity = errors.New("invalid identity")

	// ErrResolutionFailed means the vanity lookup found no match or the
	// resolution service errored.
	ErrResolutionFailed = errors.New("identity resolution failed")
)
