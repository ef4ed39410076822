package stats

import (
	"sort"

	"github.com/verte-zerg/mindgym/internal/model"
)

// SlowestRounds returns the n rounds with the highest mean reaction time.
// Rounds that were never timed are skipped.
func SlowestRounds(aggs []model.RoundAggregate, n int) []model.RoundAggregate {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	timed := make([]model.RoundAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.ReactionCount > 0 {
			timed = append(timed, agg)
		}
	}
	sort.Slice(timed, func(i, j int) bool {
		ai, aj := avgReaction(timed[i]), avgReaction(timed[j])
		if ai == aj {
			return timed[i].RoundID < timed[j].RoundID
		}
		return ai > aj
	})
	return timed[:min(n, len(timed))]
}
