package steam

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrUnauthorized means the Steam API rejected the API key.
	ErrUnauthorized = errors.New("steam api key rejected")

	// ErrVanityNotFound means the vanity name resolved to no account.
	ErrVanityNotFound = errors.New("vanity name not found")

	// ErrPrivateProfile means the account's game details are
	// access-restricted.
	ErrPrivateProfile = errors.New("steam profile is private")

	// ErrEmptyLibrary means the account owns zero games. Success-shaped,
	// surfaced distinctly so presentation can say so.
	ErrEmptyLibrary = errors.New("steam library is empty")

	// ErrService covers network, HTTP and parse failures.
	ErrService = errors.New("steam service error")
)
