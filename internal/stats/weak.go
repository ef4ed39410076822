package stats

import (
	"sort"

	"github.com/verte-zerg/mindgym/internal/model"
)

// SelectWeakRounds returns up to top rounds with at least one miss, lowest accuracy first.
// A non-positive top keeps every missed round.
func SelectWeakRounds(aggs []model.RoundAggregate, top int) []model.RoundAggregate {
	candidates := make([]model.RoundAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Incorrect > 0 {
			candidates = append(candidates, agg)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return lessWeak(candidates[i], candidates[j]) })
	if top > 0 && top < len(candidates) {
		candidates = candidates[:top]
	}
	return candidates
}

func lessWeak(a, b model.RoundAggregate) bool {
	ai, bi := roundAccuracy(a), roundAccuracy(b)
	if ai != bi {
		return ai < bi
	}
	if a.Incorrect != b.Incorrect {
		return a.Incorrect > b.Incorrect
	}
	return a.RoundID < b.RoundID
}
