package exercise

import (
	"fmt"
	"testing"

	"github.com/verte-zerg/mindgym/internal/content"
	apperrors "github.com/verte-zerg/mindgym/internal/errors"
)

func intPtr(v int) *int { return &v }

func choiceBank(id string, n int) content.Bank {
	items := make([]content.Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, content.Item{
			ID:           fmt.Sprintf("q%02d", i+1),
			Prompt:       fmt.Sprintf("Question number %d?", i+1),
			Options:      []string{fmt.Sprintf("a%d", i), fmt.Sprintf("b%d", i), fmt.Sprintf("c%d", i), fmt.Sprintf("d%d", i)},
			CorrectIndex: intPtr(i % 4),
		})
	}
	return content.Bank{ID: id, Template: content.TemplateChoice, Items: items}
}

func TestBuildChoiceExercise(t *testing.T) {
	banks := map[string]content.Bank{"facts": choiceBank("facts", 12)}
	defs := map[string]Definition{
		"quiz": {Template: content.TemplateChoice, Selection: Selection{Bank: "facts", Take: 12}, RoundsTotal: 8},
	}
	snap, err := NewBuilder(banks).Build(defs)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	cfg, ok := snap.Get("quiz")
	if !ok {
		t.Fatalf("expected quiz config")
	}
	if len(cfg.Pool) != 12 || cfg.RoundsTotal != 8 {
		t.Fatalf("unexpected config sizes: pool=%d rounds=%d", len(cfg.Pool), cfg.RoundsTotal)
	}
	if cfg.Pool[0].RoundID() != "facts::q01" {
		t.Fatalf("expected qualified id, got %q", cfg.Pool[0].RoundID())
	}
	if _, ok := cfg.Pool[0].(content.ChoiceRound); !ok {
		t.Fatalf("expected choice round, got %T", cfg.Pool[0])
	}
}

func TestBuildExplicitIDsMissing(t *testing.T) {
	banks := map[string]content.Bank{"facts": choiceBank("facts", 6)}
	ids := []string{"q01", "q02", "q03", "q04", "q05", "q06", "q07", "q08"}
	defs := map[string]Definition{
		"quiz": {Selection: Selection{Bank: "facts", IDs: ids}, RoundsTotal: 8},
	}
	_, err := NewBuilder(banks).Build(defs)
	if !apperrors.HasCode(err, apperrors.CodeMissingBankItem) {
		t.Fatalf("expected missing bank item, got %v", err)
	}
}

func TestBuildExplicitIDsKeepOrder(t *testing.T) {
	banks := map[string]content.Bank{"facts": choiceBank("facts", 6)}
	defs := map[string]Definition{
		"quiz": {Selection: Selection{Bank: "facts", IDs: []string{"q05", "facts::q02", "q03"}}, RoundsTotal: 3},
	}
	snap, err := NewBuilder(banks).Build(defs)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	cfg, _ := snap.Get("quiz")
	want := []string{"facts::q05", "facts::q02", "facts::q03"}
	for i, r := range cfg.Pool {
		if r.RoundID() != want[i] {
			t.Fatalf("pool[%d] = %q, want %q", i, r.RoundID(), want[i])
		}
	}
}

func TestBuildOffsetWindow(t *testing.T) {
	banks := map[string]content.Bank{"facts": choiceBank("facts", 10)}
	defs := map[string]Definition{
		"quiz": {Selection: Selection{Bank: "facts", Offset: 4, Take: 4}, RoundsTotal: 4},
	}
	snap, err := NewBuilder(banks).Build(defs)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	cfg, _ := snap.Get("quiz")
	if cfg.Pool[0].RoundID() != "facts::q05" || cfg.Pool[3].RoundID() != "facts::q08" {
		t.Fatalf("unexpected window: %s..%s", cfg.Pool[0].RoundID(), cfg.Pool[3].RoundID())
	}

	defs["quiz"] = Definition{Selection: Selection{Bank: "facts", Offset: 8, Take: 4}, RoundsTotal: 4}
	_, err = NewBuilder(banks).Build(defs)
	if !apperrors.HasCode(err, apperrors.CodeInsufficientBankItems) {
		t.Fatalf("expected insufficient bank items, got %v", err)
	}
}

func TestBuildRoundsTotalExceedsPool(t *testing.T) {
	banks := map[string]content.Bank{"facts": choiceBank("facts", 5)}
	defs := map[string]Definition{
		"quiz": {Selection: Selection{Bank: "facts"}, RoundsTotal: 8},
	}
	_, err := NewBuilder(banks).Build(defs)
	if !apperrors.HasCode(err, apperrors.CodePoolTooSmall) {
		t.Fatalf("expected pool too small, got %v", err)
	}
}

func TestBuildMissingRequiredField(t *testing.T) {
	bank := choiceBank("facts", 4)
	bank.Items[2].Prompt = ""
	_, err := NewBuilder(map[string]content.Bank{"facts": bank}).Build(map[string]Definition{
		"quiz": {Selection: Selection{Bank: "facts"}},
	})
	if !apperrors.HasCode(err, apperrors.CodeMissingRequiredField) {
		t.Fatalf("expected missing required field, got %v", err)
	}
	if apperrors.CodeOf(err) != apperrors.CodeMissingRequiredField {
		t.Fatalf("unexpected code %s", apperrors.CodeOf(err))
	}
}

func TestBuildResolvesCatalogKeys(t *testing.T) {
	bank := choiceBank("facts", 4)
	bank.Items[0].Prompt = ""
	bank.Items[0].PromptKey = "facts.q01.prompt"
	bank.Items[0].Options = nil
	bank.Items[0].OptionsKey = "facts.q01.options"
	catalog := content.MapCatalog{
		Texts: map[string]string{"facts.q01.prompt": "Which planet is red?"},
		Lists: map[string][]string{"facts.q01.options": {"Mars", "Venus", "Earth"}},
	}
	snap, err := NewBuilder(map[string]content.Bank{"facts": bank}, WithCatalog(catalog)).Build(map[string]Definition{
		"quiz": {Selection: Selection{Bank: "facts"}},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	cfg, _ := snap.Get("quiz")
	first := cfg.Pool[0].(content.ChoiceRound)
	if first.Prompt != "Which planet is red?" || len(first.Options) != 3 {
		t.Fatalf("expected catalog-resolved round, got %+v", first)
	}
}

func TestBuildRejectsIndexBias(t *testing.T) {
	bank := choiceBank("facts", 5)
	for i := range bank.Items {
		bank.Items[i].CorrectIndex = intPtr(0)
	}
	_, err := NewBuilder(map[string]content.Bank{"facts": bank}).Build(map[string]Definition{
		"quiz": {Selection: Selection{Bank: "facts"}},
	})
	if !apperrors.HasCode(err, apperrors.CodeIndexBias) {
		t.Fatalf("expected index bias, got %v", err)
	}
}

func TestBuildIndexBiasBeforePoolSize(t *testing.T) {
	bank := choiceBank("facts", 2)
	for i := range bank.Items {
		bank.Items[i].CorrectIndex = intPtr(0)
	}
	_, err := NewBuilder(map[string]content.Bank{"facts": bank}).Build(map[string]Definition{
		"quiz": {Selection: Selection{Bank: "facts"}, RoundsTotal: 4},
	})
	if !apperrors.HasCode(err, apperrors.CodeIndexBias) {
		t.Fatalf("expected index bias to win over pool size, got %v", err)
	}
}

func TestBuildZeroMaxShare(t *testing.T) {
	banks := map[string]content.Bank{"facts": choiceBank("facts", 4)}
	defs := map[string]Definition{"quiz": {Selection: Selection{Bank: "facts"}}}
	if _, err := NewBuilder(banks).Build(defs); err != nil {
		t.Fatalf("expected default threshold to accept one answer in four at position 0, got %v", err)
	}
	_, err := NewBuilder(banks, WithMaxShare(0)).Build(defs)
	if !apperrors.HasCode(err, apperrors.CodeIndexBias) {
		t.Fatalf("expected zero max share to reject the pool, got %v", err)
	}
}

func TestBuildRejectsSharedRoundsAcrossExercises(t *testing.T) {
	banks := map[string]content.Bank{"facts": choiceBank("facts", 8)}
	defs := map[string]Definition{
		"quiz-a": {Selection: Selection{Bank: "facts", Take: 5}},
		"quiz-b": {Selection: Selection{Bank: "facts", Offset: 4, Take: 4}},
	}
	_, err := NewBuilder(banks).Build(defs)
	if !apperrors.HasCode(err, apperrors.CodeDuplicateRoundIDsAcrossExercises) {
		t.Fatalf("expected cross-exercise duplicate, got %v", err)
	}
}

func TestBuildUnknownBankAndTemplateMismatch(t *testing.T) {
	banks := map[string]content.Bank{"facts": choiceBank("facts", 4)}
	_, err := NewBuilder(banks).Build(map[string]Definition{"quiz": {Selection: Selection{Bank: "nope"}}})
	if !apperrors.HasCode(err, apperrors.CodeUnknownBank) {
		t.Fatalf("expected unknown bank, got %v", err)
	}
	_, err = NewBuilder(banks).Build(map[string]Definition{
		"quiz": {Template: content.TemplatePairs, Selection: Selection{Bank: "facts"}},
	})
	if !apperrors.HasCode(err, apperrors.CodeTemplateMismatch) {
		t.Fatalf("expected template mismatch, got %v", err)
	}
}

func TestBuildDoesNotMutateBanks(t *testing.T) {
	bank := choiceBank("facts", 4)
	banks := map[string]content.Bank{"facts": bank}
	defs := map[string]Definition{"quiz": {Selection: Selection{Bank: "facts"}}}
	first, err := NewBuilder(banks).Build(defs)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	second, err := NewBuilder(banks).Build(defs)
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	a, _ := first.Get("quiz")
	b, _ := second.Get("quiz")
	for i := range a.Pool {
		if a.Pool[i].RoundID() != b.Pool[i].RoundID() {
			t.Fatalf("expected idempotent builds")
		}
	}
	if banks["facts"].Items[0].ID != "q01" {
		t.Fatalf("bank item id was rewritten: %q", banks["facts"].Items[0].ID)
	}
	a.Pool[0] = content.ChoiceRound{ID: "tampered"}
	again, _ := first.Get("quiz")
	if again.Pool[0].RoundID() == "tampered" {
		t.Fatalf("snapshot pool was mutated through a copy")
	}
}

func TestBuildOtherTemplates(t *testing.T) {
	banks := map[string]content.Bank{
		"odd": {ID: "odd", Template: content.TemplateOddOneOut, Items: []content.Item{
			{ID: "q01", Prompt: "Odd one?", Options: []string{"cat", "dog", "car"}, OddIndex: intPtr(2)},
			{ID: "q02", Prompt: "Odd one?", Options: []string{"red", "blue", "seven"}, OddIndex: intPtr(2)},
		}},
		"match": {ID: "match", Template: content.TemplatePairs, Items: []content.Item{
			{ID: "q01", Pairs: []content.Pair{{A: "dog", B: "bark"}, {A: "cat", B: "meow"}}},
		}},
		"order": {ID: "order", Template: content.TemplateSequence, Items: []content.Item{
			{ID: "q01", Prompt: "Smallest first", Items: []string{"3", "1", "2"}, CorrectOrder: []int{1, 2, 0}},
			{ID: "q02", Prompt: "Alphabetical", Items: []string{"a", "b", "c"}},
		}},
		"react": {ID: "react", Template: content.TemplateReaction, Items: []content.Item{
			{ID: "q01", InstructionKey: "reaction.tap_x", PaceMs: 700, Stimuli: []content.Stimulus{{Label: "X", IsTarget: true}, {Label: "O"}}},
		}},
	}
	defs := map[string]Definition{
		"odd":   {Selection: Selection{Bank: "odd"}},
		"match": {Selection: Selection{Bank: "match"}},
		"order": {Selection: Selection{Bank: "order"}},
		"react": {Selection: Selection{Bank: "react"}},
	}
	snap, err := NewBuilder(banks).Build(defs)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if snap.Len() != 4 {
		t.Fatalf("expected 4 exercises, got %d", snap.Len())
	}
	order, _ := snap.Get("order")
	seq := order.Pool[1].(content.SequenceRound)
	if len(seq.CorrectOrder) != 3 || seq.CorrectOrder[2] != 2 {
		t.Fatalf("expected identity order for pre-ordered items, got %v", seq.CorrectOrder)
	}
	react, _ := snap.Get("react")
	if react.Pool[0].(content.ReactionRound).InstructionRef != "reaction.tap_x" {
		t.Fatalf("expected instruction ref passed through")
	}
	ids := snap.IDs()
	if ids[0] != "match" || ids[3] != "react" {
		t.Fatalf("expected sorted ids, got %v", ids)
	}
}
