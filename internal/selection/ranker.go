package selection

import (
	"sort"

	"github.com/openclaw/stock/internal/contracts"
)

// Rank orders scored stocks by total score descending with symbol ascending
// as the tie-break, assigns 1-based ranks, and keeps at most topN entries.
// The input slice is not modified.
func Rank(stocks []contracts.SelectedStock, topN int) []contracts.SelectedStock {
	ranked := make([]contracts.SelectedStock, len(stocks))
	copy(ranked, stocks)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Breakdown.TotalScore != ranked[j].Breakdown.TotalScore {
			return ranked[i].Breakdown.TotalScore > ranked[j].Breakdown.TotalScore
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}
