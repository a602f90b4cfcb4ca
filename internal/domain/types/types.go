// Package types contains common types used across the application.
package types

// Tier is a ProtonDB compatibility tier.
type Tier string

// Known compatibility tiers.
const (
	TierPlatinum Tier = "platinum"
	TierGold     Tier = "gold"
	TierSilver   Tier = "silver"
	TierBronze   Tier = "bronze"
	TierBorked   Tier = "borked"
	TierPending  Tier = "pending"
	TierUnknown  Tier = "unknown"
)

// tierScores maps each scored tier to its ordinal weight. Pending and
// Unknown carry no score and are excluded from averages.
var tierScores = map[Tier]int{
	TierPlatinum: 5,
	TierGold:     4,
	TierSilver:   3,
	TierBronze:   2,
	TierBorked:   1,
}

// Score returns the ordinal weight of the tier. The second return is
// false for tiers that do not participate in averaging.
func (t Tier) Score() (int, bool) {
	s, ok := tierScores[t]
	return s, ok
}

// TierFromString maps an upstream tier string to a Tier.
// Unrecognized values map to TierUnknown with ok=false.
func TierFromString(s string) (Tier, bool) {
	switch Tier(s) {
	case TierPlatinum, TierGold, TierSilver, TierBronze, TierBorked, TierPending:
		return Tier(s), true
	default:
		return TierUnknown, false
	}
}

// TierFromScore maps an ordinal weight back to its tier. Used to express
// a rounded library average as a tier name.
func TierFromScore(score int) (Tier, bool) {
	for tier, s := range tierScores {
		if s == score {
			return tier, true
		}
	}
	return TierUnknown, false
}

// AntiCheatStatus classifies whether a game's anti-cheat mechanism is
// known to function under the compatibility layer.
type AntiCheatStatus string

// Known anti-cheat statuses.
const (
	AntiCheatSupported AntiCheatStatus = "Supported"
	AntiCheatRunning   AntiCheatStatus = "Running"
	AntiCheatDenied    AntiCheatStatus = "Denied"
	AntiCheatPlanned   AntiCheatStatus = "Planned"
	AntiCheatUnknown   AntiCheatStatus = "Unknown"
)

// AntiCheatStatusFromString maps an upstream status string to an
// AntiCheatStatus. Unrecognized values map to AntiCheatUnknown with ok=false.
func AntiCheatStatusFromString(s string) (AntiCheatStatus, bool) {
	switch AntiCheatStatus(s) {
	case AntiCheatSupported, AntiCheatRunning, AntiCheatDenied, AntiCheatPlanned:
		return AntiCheatStatus(s), true
	default:
		return AntiCheatUnknown, false
	}
}

// Outcome tags how a source lookup settled.
type Outcome uint8

// Lookup outcomes.
const (
	// OutcomeFound means the source returned a datum.
	OutcomeFound Outcome = iota
	// OutcomeNotFound means the game is absent from the source dataset.
	OutcomeNotFound
	// OutcomeFailed means the lookup failed after bounded retries.
	OutcomeFailed
)

// String returns a stable label for the outcome, used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeFailed:
		return "failed"
	default:
		return "invalid"
	}
}
