package guard

import (
	"strconv"

	"github.com/verte-zerg/mindgym/internal/content"
	apperrors "github.com/verte-zerg/mindgym/internal/errors"
)

// AssertIndexBias fails when the share of answers at position 0 exceeds maxShare.
// maxShare is taken as given, so 0 forbids any answer at position 0. Empty input passes.
func AssertIndexBias(indices []int, context string, maxShare float64) error {
	if len(indices) == 0 {
		return nil
	}
	first := 0
	for _, idx := range indices {
		if idx == 0 {
			first++
		}
	}
	share := float64(first) / float64(len(indices))
	if share > maxShare {
		return apperrors.WithMetadata(apperrors.CodeIndexBias, "answers cluster at the first option",
			map[string]string{
				"context":   context,
				"share":     strconv.FormatFloat(share, 'f', 2, 64),
				"max_share": strconv.FormatFloat(maxShare, 'f', 2, 64),
			})
	}
	return nil
}

// ChoiceIndices extracts correct indices.
func ChoiceIndices(rounds []content.ChoiceRound) []int {
	out := make([]int, len(rounds))
	for i, r := range rounds {
		out[i] = r.CorrectIndex
	}
	return out
}

// OddIndices extracts odd indices.
func OddIndices(rounds []content.OddOneOutRound) []int {
	out := make([]int, len(rounds))
	for i, r := range rounds {
		out[i] = r.OddIndex
	}
	return out
}
