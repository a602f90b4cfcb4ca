package types_test

import (
	"testing"

	"github.com/okian/deckcheck/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTierScores(t *testing.T) {
	Convey("Given the tier score table", t, func() {
		Convey("When reading the scored tiers", func() {
			cases := map[types.Tier]int{
				types.TierPlatinum: 5,
				types.TierGold:     4,
				types.TierSilver:   3,
				types.TierBronze:   2,
				types.TierBorked:   1,
			}
			for tier, want := range cases {
				score, ok := tier.Score()
				So(ok, ShouldBeTrue)
				So(score, ShouldEqual, want)
			}
		})

		Convey("When reading an unscored tier", func() {
			for _, tier := range []types.Tier{types.TierPending, types.TierUnknown} {
				_, ok := tier.Score()
				So(ok, ShouldBeFalse)
			}
		})

		Convey("When mapping a score back to a tier", func() {
			tier, ok := types.TierFromScore(5)
			So(ok, ShouldBeTrue)
			So(tier, ShouldEqual, types.TierPlatinum)

			_, ok = types.TierFromScore(0)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestTierFromString(t *testing.T) {
	Convey("Given upstream tier strings", t, func() {
		Convey("When the string is a known tier", func() {
			tier, ok := types.TierFromString("gold")
			So(ok, ShouldBeTrue)
			So(tier, ShouldEqual, types.TierGold)

			tier, ok = types.TierFromString("pending")
			So(ok, ShouldBeTrue)
			So(tier, ShouldEqual, types.TierPending)
		})

		Convey("When the string is unrecognized", func() {
			tier, ok := types.TierFromString("native")
			So(ok, ShouldBeFalse)
			So(tier, ShouldEqual, types.TierUnknown)

			tier, ok = types.TierFromString("")
			So(ok, ShouldBeFalse)
			So(tier, ShouldEqual, types.TierUnknown)
		})
	})
}

func TestAntiCheatStatusFromString(t *testing.T) {
	Convey("Given upstream anti-cheat status strings", t, func() {
		Convey("When the string is a known status", func() {
			for _, s := range []string{"Supported", "Running", "Denied", "Planned"} {
				status, ok := types.AntiCheatStatusFromString(s)
				So(ok, ShouldBeTrue)
				So(string(status), ShouldEqual, s)
			}
		})

		Convey("When the string is unrecognized", func() {
			for _, s := range []string{"Broken", "", "supported"} {
				status, ok := types.AntiCheatStatusFromString(s)
				So(ok, ShouldBeFalse)
				So(status, ShouldEqual, types.AntiCheatUnknown)
			}
		})
	})
}

func TestOutcomeString(t *testing.T) {
	Convey("Given lookup outcomes", t, func() {
		So(types.OutcomeFound.String(), ShouldEqual, "found")
		So(types.OutcomeNotFound.String(), ShouldEqual, "not_found")
		So(types.OutcomeFailed.String(), ShouldEqual, "failed")
		So(types.Outcome(42).String(), ShouldEqual, "invalid")
	})
}
