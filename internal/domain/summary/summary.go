// Package summary reduces an enriched batch into library-level
// statistics. Pure computation, no I/O.
package summary

import (
	"github.com/okian/deckcheck/internal/domain/model"
	"github.com/okian/deckcheck/internal/domain/types"
)

// Summarize computes the LibrarySummary for one enriched batch.
//
// Distributions count every game, including Unknown and degraded
// entries. The average is taken over scored tiers only; games whose
// tier carries no score stay out of both numerator and denominator.
// An empty batch yields GameCount 0 and no average.
func Summarize(games []model.EnrichedGame) model.LibrarySummary {
	s := model.LibrarySummary{
		GameCount:             len(games),
		TierDistribution:      make(map[types.Tier]int, len(games)),
		AntiCheatDistribution: make(map[types.AntiCheatStatus]int, len(games)),
	}

	total := 0
	for _, g := range games {
		s.TierDistribution[g.Tier]++
		s.AntiCheatDistribution[g.AntiCheat]++
		if score, ok := g.Tier.Score(); ok {
			total += score
			s.RatedGameCount++
		}
	}

	if s.RatedGameCount > 0 {
		s.AverageRating = float64(total) / float64(s.RatedGameCount)
	}
	return s
}
