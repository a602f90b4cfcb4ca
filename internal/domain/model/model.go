// Package model contains domain models passed between layers.
package model

import (
	"strconv"

	"github.com/okian/deckcheck/internal/domain/types"
)

// AccountID is a canonical 64-bit Steam account identifier. Values are
// only ever produced by the identity resolver, never taken from raw
// user text downstream.
type AccountID uint64

// String formats the id the way the Steam API expects it.
func (a AccountID) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

// AppID identifies a Steam application.
type AppID uint32

// String formats the app id for URLs and cache keys.
func (a AppID) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

// LibraryEntry is one owned game as reported by the Steam API.
type LibraryEntry struct {
	AppID           AppID
	Name            string
	PlaytimeMinutes int
}

// EnrichedGame merges a library entry with the data from both
// compatibility sources. A failed or missing lookup degrades only its
// own field; the entry itself always survives.
type EnrichedGame struct {
	LibraryEntry

	Tier        types.Tier
	TierOutcome types.Outcome

	AntiCheat        types.AntiCheatStatus
	AntiCheatOutcome types.Outcome
}

// LibrarySummary holds the aggregate statistics for one enriched batch.
// It is recomputed fresh on every aggregation pass, never mutated
// incrementally.
type LibrarySummary struct {
	GameCount int

	// RatedGameCount is the number of games whose tier carries a score.
	// AverageRating is only meaningful when it is non-zero.
	RatedGameCount int
	AverageRating  float64

	TierDistribution      map[types.Tier]int
	AntiCheatDistribution map[types.AntiCheatStatus]int
}

// AverageTier expresses the rounded average rating as a tier name for
// one-line presentation. ok is false when no game carried a score.
func (s LibrarySummary) AverageTier() (types.Tier, bool) {
	if s.RatedGameCount == 0 {
		return types.TierUnknown, false
	}
	score := int(s.AverageRating + 0.5)
	return types.TierFromScore(score)
}

// LibraryReport is the immutable result of one pipeline run, handed to
// the presentation layer as a read-only batch.
type LibraryReport struct {
	AccountID AccountID
	Games     []EnrichedGame
	Summary   LibrarySummary
}
