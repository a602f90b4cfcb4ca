// Package identity normalizes raw user input into a canonical Steam
// account id.
//
// Accepted shapes:
//   - a 17-digit numeric Steam id, resolved locally without a network call
//   - a steamcommunity.com profile URL (/profiles/<id> or /id/<vanity>)
//   - a vanity name, resolved through one lookup call
package identity

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/okian/deckcheck/internal/domain/model"
	"github.com/okian/deckcheck/pkg/logger"
)

// Steam identity shape constants.
const (
	accountIDLength = 17
	accountIDPrefix = "7656119"
	communityHost   = "steamcommunity.com"
)

// VanityResolver resolves a vanity name through the identity-resolution
// endpoint. Implemented by the Steam adapter.
type VanityResolver interface {
	ResolveVanity(ctx context.Context, name string) (model.AccountID, error)
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithLogger sets a custom logger for the resolver.
func WithLogger(log logger.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.logger = log
		}
	}
}

// Resolver turns raw identity input into a canonical AccountID.
type Resolver struct {
	vanity VanityResolver
	logger logger.Logger
}

// NewResolver creates a resolver backed by the given vanity lookup.
func NewResolver(vanity VanityResolver, opts ...Option) *Resolver {
	r := &Resolver{
		vanity: vanity,
		logger: logger.Get().Named("identity"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve normalizes raw input into an AccountID. Numeric ids and
// profile URLs containing one resolve without a network call; vanity
// names issue exactly one lookup. Resolution failures are not retried
// since they indicate user input error, not transient network failure.
func (r *Resolver) Resolve(ctx context.Context, raw string) (model.AccountID, error) {
	input := strings.TrimSpace(raw)
	if input == "" {
		return 0, fmt.Errorf("empty input: %w", ErrInvalidIdentity)
	}

	if seg, ok, err := communityURLSegment(input); err != nil {
		return 0, err
	} else if ok {
		input = seg
	}

	if id, ok := parseNumericID(input); ok {
		r.logger.Debug(ctx, "resolved numeric id locally", logger.String("account_id", id.String()))
		return id, nil
	}

	if !validVanityName(input) {
		return 0, fmt.Errorf("input %q: %w", raw, ErrInvalidIdentity)
	}

	id, err := r.vanity.ResolveVanity(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("vanity %q: %w: %w", input, ErrResolutionFailed, err)
	}
	r.logger.Debug(ctx, "resolved vanity name",
		logger.String("vanity", input),
		logger.String("account_id", id.String()),
	)
	return id, nil
}

// communityURLSegment extracts the trailing path segment from a
// steamcommunity.com profile URL. ok is false when the input is not a
// recognized URL shape at all.
func communityURLSegment(input string) (string, bool, error) {
	if !strings.Contains(input, communityHost) {
		return "", false, nil
	}
	u, err := url.Parse(input)
	if err != nil {
		return "", false, fmt.Errorf("profile url %q: %w", input, ErrInvalidIdentity)
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	if host != communityHost {
		return "", false, fmt.Errorf("profile url host %q: %w", u.Hostname(), ErrInvalidIdentity)
	}
	trimmed := strings.TrimSuffix(u.Path, "/")
	dir, seg := path.Split(trimmed)
	switch dir {
	case "/profiles/", "/id/":
		if seg == "" {
			return "", false, fmt.Errorf("profile url %q has no trailing segment: %w", input, ErrInvalidIdentity)
		}
		return seg, true, nil
	default:
		return "", false, fmt.Errorf("profile url path %q: %w", u.Path, ErrInvalidIdentity)
	}
}

// parseNumericID accepts the canonical 17-digit id shape.
func parseNumericID(input string) (model.AccountID, bool) {
	if len(input) != accountIDLength || !strings.HasPrefix(input, accountIDPrefix) {
		return 0, false
	}
	id, err := strconv.ParseUint(input, 10, 64)
	if err != nil {
		return 0, false
	}
	return model.AccountID(id), true
}

// validVanityName reports whether the input is shaped like a Steam
// vanity name (letters, digits, dashes and underscores).
func validVanityName(input string) bool {
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return len(input) > 0
}
