package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/okian/deckcheck/internal/domain/model"
	"github.com/okian/deckcheck/internal/domain/types"
)

// Tier display order for the summary, best first.
var tierOrder = []types.Tier{
	types.TierPlatinum,
	types.TierGold,
	types.TierSilver,
	types.TierBronze,
	types.TierBorked,
	types.TierPending,
	types.TierUnknown,
}

var antiCheatOrder = []types.AntiCheatStatus{
	types.AntiCheatSupported,
	types.AntiCheatRunning,
	types.AntiCheatPlanned,
	types.AntiCheatDenied,
	types.AntiCheatUnknown,
}

// renderReport writes the per-game table and the library summary.
func renderReport(w io.Writer, report *model.LibraryReport) {
	if report.Summary.GameCount == 0 {
		fmt.Fprintf(w, "Account %s owns no games.\n", report.AccountID)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GAME\tRATING\tANTI-CHEAT\tPLAYTIME")
	for _, game := range report.Games {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			game.Name,
			capitalize(string(game.Tier)),
			string(game.AntiCheat),
			formatPlaytime(game.PlaytimeMinutes),
		)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nGames: %d\n", report.Summary.GameCount)
	if tier, ok := report.Summary.AverageTier(); ok {
		fmt.Fprintf(w, "Average rating: %s (%.2f over %d rated games)\n",
			capitalize(string(tier)),
			report.Summary.AverageRating,
			report.Summary.RatedGameCount,
		)
	} else {
		fmt.Fprintln(w, "Average rating: no rated games")
	}

	fmt.Fprintf(w, "Ratings: %s\n", formatTierCounts(report.Summary.TierDistribution))
	fmt.Fprintf(w, "Anti-cheat: %s\n", formatAntiCheatCounts(report.Summary.AntiCheatDistribution))
}

func formatTierCounts(dist map[types.Tier]int) string {
	parts := make([]string, 0, len(dist))
	for _, tier := range tierOrder {
		if n, ok := dist[tier]; ok {
			parts = append(parts, fmt.Sprintf("%s %d", capitalize(string(tier)), n))
		}
	}
	return strings.Join(parts, ", ")
}

func formatAntiCheatCounts(dist map[types.AntiCheatStatus]int) string {
	parts := make([]string, 0, len(dist))
	for _, status := range antiCheatOrder {
		if n, ok := dist[status]; ok {
			parts = append(parts, fmt.Sprintf("%s %d", status, n))
		}
	}
	return strings.Join(parts, ", ")
}

func formatPlaytime(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%.1fh", float64(minutes)/60)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
