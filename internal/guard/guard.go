package guard

import (
	"sort"
	"strconv"
	"strings"

	"github.com/verte-zerg/mindgym/internal/content"
	apperrors "github.com/verte-zerg/mindgym/internal/errors"
)

// DefaultMaxShare is the largest tolerated share of answers at position 0.
const DefaultMaxShare = 0.6

// AssertUniqueIDs fails when a round id repeats within rounds.
func AssertUniqueIDs(rounds []content.Round, context string) error {
	seen := make(map[string]struct{}, len(rounds))
	for _, r := range rounds {
		id := r.RoundID()
		if _, ok := seen[id]; ok {
			return apperrors.WithMetadata(apperrors.CodeDuplicateRoundIDs, "round id repeats",
				map[string]string{"context": context, "round": id})
		}
		seen[id] = struct{}{}
	}
	return nil
}

// AssertUniqueText fails when two rounds share a normalized textual signature.
// Rounds whose key is empty after normalization are skipped.
func AssertUniqueText(rounds []content.Round, extractKey func(content.Round) string, context string) error {
	seen := make(map[string]string, len(rounds))
	for _, r := range rounds {
		key := Normalize(extractKey(r))
		if key == "" {
			continue
		}
		if prev, ok := seen[key]; ok {
			return apperrors.WithMetadata(apperrors.CodeDuplicateRoundText, "round text repeats",
				map[string]string{"context": context, "round": r.RoundID(), "first": prev})
		}
		seen[key] = r.RoundID()
	}
	return nil
}

// AssertGlobalUniqueIDs fails when one round id is claimed by two exercises.
func AssertGlobalUniqueIDs(poolsByExercise map[string][]content.Round) error {
	exercises := make([]string, 0, len(poolsByExercise))
	for id := range poolsByExercise {
		exercises = append(exercises, id)
	}
	sort.Strings(exercises)

	owner := map[string]string{}
	for _, exID := range exercises {
		for _, r := range poolsByExercise[exID] {
			id := r.RoundID()
			if prev, ok := owner[id]; ok && prev != exID {
				return apperrors.WithMetadata(apperrors.CodeDuplicateRoundIDsAcrossExercises,
					"round id used by more than one exercise",
					map[string]string{"round": id, "exercise": exID, "first": prev})
			}
			owner[id] = exID
		}
	}
	return nil
}

// AssertValidChoiceRounds checks option count, option duplicates, and correct index range.
func AssertValidChoiceRounds(rounds []content.ChoiceRound, context string) error {
	for _, r := range rounds {
		if err := validateOptions(r.ID, r.Options, r.CorrectIndex, "correct", context); err != nil {
			return err
		}
	}
	return nil
}

// AssertValidOddOneOutRounds checks option count, option duplicates, and odd index range.
func AssertValidOddOneOutRounds(rounds []content.OddOneOutRound, context string) error {
	for _, r := range rounds {
		if err := validateOptions(r.ID, r.Options, r.OddIndex, "odd", context); err != nil {
			return err
		}
	}
	return nil
}

func validateOptions(id string, options []string, index int, indexName, context string) error {
	meta := func(reason string) map[string]string {
		return map[string]string{"context": context, "round": id, "reason": reason}
	}
	if len(options) < 2 {
		return apperrors.WithMetadata(apperrors.CodeInvalidRound, "round needs at least 2 options",
			meta("options="+strconv.Itoa(len(options))))
	}
	seen := make(map[string]int, len(options))
	for i, opt := range options {
		key := Normalize(opt)
		if prev, ok := seen[key]; ok {
			return apperrors.WithMetadata(apperrors.CodeInvalidRound, "round has duplicate options",
				meta("options "+strconv.Itoa(prev)+" and "+strconv.Itoa(i)))
		}
		seen[key] = i
	}
	if index < 0 || index >= len(options) {
		return apperrors.WithMetadata(apperrors.CodeInvalidRound, "round index out of range",
			meta(indexName+"="+strconv.Itoa(index)))
	}
	return nil
}

// AssertValidPairsRounds checks there are at least 2 pairs with non-empty, distinct sides.
func AssertValidPairsRounds(rounds []content.PairsRound, context string) error {
	for _, r := range rounds {
		meta := func(reason string) map[string]string {
			return map[string]string{"context": context, "round": r.ID, "reason": reason}
		}
		if len(r.Pairs) < 2 {
			return apperrors.WithMetadata(apperrors.CodeInvalidRound, "round needs at least 2 pairs",
				meta("pairs="+strconv.Itoa(len(r.Pairs))))
		}
		left := map[string]struct{}{}
		right := map[string]struct{}{}
		for i, p := range r.Pairs {
			a, b := Normalize(p.A), Normalize(p.B)
			if a == "" || b == "" {
				return apperrors.WithMetadata(apperrors.CodeInvalidRound, "pair side is empty",
					meta("pair="+strconv.Itoa(i)))
			}
			if _, ok := left[a]; ok {
				return apperrors.WithMetadata(apperrors.CodeInvalidRound, "pair side repeats",
					meta("a="+p.A))
			}
			if _, ok := right[b]; ok {
				return apperrors.WithMetadata(apperrors.CodeInvalidRound, "pair side repeats",
					meta("b="+p.B))
			}
			left[a] = struct{}{}
			right[b] = struct{}{}
		}
	}
	return nil
}

// AssertValidSequenceRounds checks at least 2 distinct items and a complete correct order.
func AssertValidSequenceRounds(rounds []content.SequenceRound, context string) error {
	for _, r := range rounds {
		meta := func(reason string) map[string]string {
			return map[string]string{"context": context, "round": r.ID, "reason": reason}
		}
		if len(r.Items) < 2 {
			return apperrors.WithMetadata(apperrors.CodeInvalidRound, "round needs at least 2 items",
				meta("items="+strconv.Itoa(len(r.Items))))
		}
		seenItems := map[string]struct{}{}
		for _, item := range r.Items {
			key := Normalize(item)
			if _, ok := seenItems[key]; ok {
				return apperrors.WithMetadata(apperrors.CodeInvalidRound, "round has duplicate items",
					meta("item="+item))
			}
			seenItems[key] = struct{}{}
		}
		if len(r.CorrectOrder) != len(r.Items) {
			return apperrors.WithMetadata(apperrors.CodeInvalidRound, "order length differs from items",
				meta("order="+strconv.Itoa(len(r.CorrectOrder))))
		}
		used := make([]bool, len(r.Items))
		for _, idx := range r.CorrectOrder {
			if idx < 0 || idx >= len(r.Items) || used[idx] {
				return apperrors.WithMetadata(apperrors.CodeInvalidRound, "order is not a permutation of items",
					meta("index="+strconv.Itoa(idx)))
			}
			used[idx] = true
		}
	}
	return nil
}

// AssertValidReactionRounds checks for stimuli, at least one target, and a positive pace.
func AssertValidReactionRounds(rounds []content.ReactionRound, context string) error {
	for _, r := range rounds {
		meta := func(reason string) map[string]string {
			return map[string]string{"context": context, "round": r.ID, "reason": reason}
		}
		if len(r.Stimuli) == 0 {
			return apperrors.WithMetadata(apperrors.CodeInvalidRound, "round has no stimuli", meta("stimuli=0"))
		}
		targets := 0
		for _, s := range r.Stimuli {
			if strings.TrimSpace(s.Label) == "" {
				return apperrors.WithMetadata(apperrors.CodeInvalidRound, "stimulus label is empty", meta("label"))
			}
			if s.IsTarget {
				targets++
			}
		}
		if targets == 0 {
			return apperrors.WithMetadata(apperrors.CodeInvalidRound, "round has no target stimulus", meta("targets=0"))
		}
		if r.Pace <= 0 {
			return apperrors.WithMetadata(apperrors.CodeInvalidRound, "round pace must be positive",
				meta("pace="+r.Pace.String()))
		}
	}
	return nil
}
