package guard

import (
	"strings"

	"github.com/verte-zerg/mindgym/internal/content"
)

// TextKey returns the textual signature used to spot duplicate rounds.
func TextKey(r content.Round) string {
	switch v := r.(type) {
	case content.ChoiceRound:
		return v.Prompt
	case content.OddOneOutRound:
		return v.Prompt + " | " + strings.Join(v.Options, " | ")
	case content.PairsRound:
		parts := make([]string, 0, len(v.Pairs))
		for _, p := range v.Pairs {
			parts = append(parts, p.A+"="+p.B)
		}
		return strings.Join(parts, " | ")
	case content.SequenceRound:
		return v.Prompt + " | " + strings.Join(v.Items, " | ")
	case content.ReactionRound:
		parts := make([]string, 0, len(v.Stimuli))
		for _, s := range v.Stimuli {
			mark := "-"
			if s.IsTarget {
				mark = "+"
			}
			parts = append(parts, mark+s.Label)
		}
		return v.InstructionRef + " | " + strings.Join(parts, " ")
	default:
		return ""
	}
}
