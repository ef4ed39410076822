package exercise

import (
	"errors"
	"strings"
	"time"

	"github.com/verte-zerg/mindgym/internal/content"
	apperrors "github.com/verte-zerg/mindgym/internal/errors"
)

func (b *Builder) adapt(exerciseID string, bank content.Bank, items []content.Item) ([]content.Round, error) {
	pool := make([]content.Round, 0, len(items))
	for _, item := range items {
		r, err := b.adaptItem(bank, item)
		if err != nil {
			var e *apperrors.Error
			if errors.As(err, &e) && e.Metadata != nil {
				e.Metadata["exercise"] = exerciseID
			}
			return nil, err
		}
		pool = append(pool, r)
	}
	return pool, nil
}

func (b *Builder) adaptItem(bank content.Bank, item content.Item) (content.Round, error) {
	if strings.TrimSpace(item.ID) == "" {
		return nil, missingField(bank.ID, "", "id")
	}
	id := QualifyID(bank.ID, item.ID)
	switch bank.Template {
	case content.TemplateChoice:
		prompt, err := b.prompt(bank.ID, id, item)
		if err != nil {
			return nil, err
		}
		options, err := b.options(bank.ID, id, item)
		if err != nil {
			return nil, err
		}
		if item.CorrectIndex == nil {
			return nil, missingField(bank.ID, id, "correct")
		}
		return content.ChoiceRound{ID: id, Prompt: prompt, Options: options, CorrectIndex: *item.CorrectIndex}, nil
	case content.TemplateOddOneOut:
		prompt, err := b.prompt(bank.ID, id, item)
		if err != nil {
			return nil, err
		}
		options, err := b.options(bank.ID, id, item)
		if err != nil {
			return nil, err
		}
		if item.OddIndex == nil {
			return nil, missingField(bank.ID, id, "odd")
		}
		return content.OddOneOutRound{ID: id, Prompt: prompt, Options: options, OddIndex: *item.OddIndex}, nil
	case content.TemplatePairs:
		if len(item.Pairs) == 0 {
			return nil, missingField(bank.ID, id, "pairs")
		}
		prompt, _ := b.optionalPrompt(item)
		return content.PairsRound{ID: id, Prompt: prompt, Pairs: append([]content.Pair(nil), item.Pairs...)}, nil
	case content.TemplateSequence:
		prompt, err := b.prompt(bank.ID, id, item)
		if err != nil {
			return nil, err
		}
		if len(item.Items) == 0 {
			return nil, missingField(bank.ID, id, "items")
		}
		order := append([]int(nil), item.CorrectOrder...)
		if len(order) == 0 {
			// Items authored already in order.
			order = make([]int, len(item.Items))
			for i := range order {
				order[i] = i
			}
		}
		return content.SequenceRound{
			ID:           id,
			Prompt:       prompt,
			Items:        append([]string(nil), item.Items...),
			CorrectOrder: order,
		}, nil
	case content.TemplateReaction:
		if strings.TrimSpace(item.InstructionKey) == "" {
			return nil, missingField(bank.ID, id, "instruction_key")
		}
		if len(item.Stimuli) == 0 {
			return nil, missingField(bank.ID, id, "stimuli")
		}
		if item.PaceMs == 0 {
			return nil, missingField(bank.ID, id, "pace_ms")
		}
		return content.ReactionRound{
			ID:             id,
			InstructionRef: item.InstructionKey,
			Stimuli:        append([]content.Stimulus(nil), item.Stimuli...),
			Pace:           time.Duration(item.PaceMs) * time.Millisecond,
		}, nil
	default:
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidContent, "bank has unknown template",
			map[string]string{"bank": bank.ID, "template": string(bank.Template)})
	}
}

func (b *Builder) optionalPrompt(item content.Item) (string, bool) {
	if p := strings.TrimSpace(item.Prompt); p != "" {
		return p, true
	}
	if item.PromptKey != "" {
		if text, ok := b.catalog.Text(item.PromptKey); ok && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), true
		}
	}
	return "", false
}

func (b *Builder) prompt(bankID, id string, item content.Item) (string, error) {
	p, ok := b.optionalPrompt(item)
	if !ok {
		return "", missingField(bankID, id, "prompt")
	}
	return p, nil
}

func (b *Builder) options(bankID, id string, item content.Item) ([]string, error) {
	if len(item.Options) > 0 {
		return append([]string(nil), item.Options...), nil
	}
	if item.OptionsKey != "" {
		if list, ok := b.catalog.List(item.OptionsKey); ok && len(list) > 0 {
			return list, nil
		}
	}
	return nil, missingField(bankID, id, "options")
}

func missingField(bankID, id, field string) *apperrors.Error {
	return apperrors.WithMetadata(apperrors.CodeMissingRequiredField, "authored item lacks a required field",
		map[string]string{"bank": bankID, "round": id, "field": field})
}
