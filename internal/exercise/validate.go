package exercise

import (
	"github.com/verte-zerg/mindgym/internal/content"
	"github.com/verte-zerg/mindgym/internal/guard"
)

// validate runs the guards for tpl over a pool whose rounds all carry that template.
func (b *Builder) validate(exerciseID string, tpl content.Template, pool []content.Round) error {
	ctx := "exercise " + exerciseID
	if err := guard.AssertUniqueIDs(pool, ctx); err != nil {
		return err
	}
	if err := guard.AssertUniqueText(pool, guard.TextKey, ctx); err != nil {
		return err
	}
	switch tpl {
	case content.TemplateChoice:
		rounds := collect[content.ChoiceRound](pool)
		if err := guard.AssertValidChoiceRounds(rounds, ctx); err != nil {
			return err
		}
		return guard.AssertIndexBias(guard.ChoiceIndices(rounds), ctx, b.maxShare)
	case content.TemplateOddOneOut:
		rounds := collect[content.OddOneOutRound](pool)
		if err := guard.AssertValidOddOneOutRounds(rounds, ctx); err != nil {
			return err
		}
		return guard.AssertIndexBias(guard.OddIndices(rounds), ctx, b.maxShare)
	case content.TemplatePairs:
		return guard.AssertValidPairsRounds(collect[content.PairsRound](pool), ctx)
	case content.TemplateSequence:
		return guard.AssertValidSequenceRounds(collect[content.SequenceRound](pool), ctx)
	case content.TemplateReaction:
		return guard.AssertValidReactionRounds(collect[content.ReactionRound](pool), ctx)
	}
	return nil
}

func collect[T content.Round](pool []content.Round) []T {
	out := make([]T, 0, len(pool))
	for _, r := range pool {
		if v, ok := r.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
