package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/mindgym/internal/content"
	"github.com/verte-zerg/mindgym/internal/prng"
	"github.com/verte-zerg/mindgym/internal/session"
)

func TestDefaultRenderersCoverEveryTemplate(t *testing.T) {
	registry := DefaultRenderers()
	for _, tpl := range content.Templates() {
		if registry[tpl] == nil {
			t.Fatalf("no renderer registered for %s", tpl)
		}
	}
	if len(registry) != len(content.Templates()) {
		t.Fatalf("registry has %d entries for %d templates", len(registry), len(content.Templates()))
	}
}

func testEnv(clk *fakeClock) Env {
	return Env{Catalog: content.MapCatalog{Texts: map[string]string{"tap.x": "Press space for X"}}, Now: clk.Now, Token: 3}
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func TestPickRendererCursorAndDigits(t *testing.T) {
	clk := newClock()
	round := content.ChoiceRound{ID: "q", Prompt: "Pick z", Options: []string{"x", "y", "z"}, CorrectIndex: 2}
	r := newChoiceRenderer(session.Presentation{Round: round}, testEnv(clk))
	r.Init()

	if _, done, _ := r.Update(keyMsg("9")); done {
		t.Fatalf("expected out-of-range digit ignored")
	}
	r.Update(keyMsg("up"))
	if !strings.Contains(r.View(40), "> 3. z") {
		t.Fatalf("expected cursor to wrap to last option:\n%s", r.View(40))
	}
	clk.Advance(1500 * time.Millisecond)
	res, done, _ := r.Update(keyMsg("enter"))
	if !done || !res.Correct || res.Reaction != 1500*time.Millisecond {
		t.Fatalf("unexpected result %+v done=%v", res, done)
	}

	odd := content.OddOneOutRound{ID: "o", Prompt: "Odd?", Options: []string{"cat", "dog", "car"}, OddIndex: 2}
	r = newOddOneOutRenderer(session.Presentation{Round: odd}, testEnv(clk))
	r.Init()
	if res, done, _ := r.Update(keyMsg("1")); !done || res.Correct {
		t.Fatalf("expected wrong pick, got %+v done=%v", res, done)
	}
}

func TestPairsRenderer(t *testing.T) {
	round := content.PairsRound{ID: "p", Prompt: "Match", Pairs: []content.Pair{
		{A: "hot", B: "cold"},
		{A: "up", B: "down"},
		{A: "big", B: "small"},
	}}
	clk := newClock()
	r := newPairsRenderer(session.Presentation{Round: round, RendererSeed: 7}, testEnv(clk)).(*pairsRenderer)
	r.Init()
	indexOf := func(b string) string {
		for i, c := range r.choices {
			if c == b {
				return string(rune('1' + i))
			}
		}
		t.Fatalf("choice %q missing", b)
		return ""
	}

	r.Update(keyMsg(indexOf("down")))
	// A used choice cannot be picked twice.
	if _, done, _ := r.Update(keyMsg(indexOf("down"))); done || len(r.picked) != 1 {
		t.Fatalf("expected reused choice ignored")
	}
	r.Update(keyMsg("backspace"))
	if len(r.picked) != 0 {
		t.Fatalf("expected backspace to undo")
	}

	r.Update(keyMsg(indexOf("cold")))
	r.Update(keyMsg(indexOf("down")))
	res, done, _ := r.Update(keyMsg(indexOf("small")))
	if !done || !res.Correct {
		t.Fatalf("expected correct matching, got %+v done=%v", res, done)
	}

	r = newPairsRenderer(session.Presentation{Round: round, RendererSeed: 7}, testEnv(clk)).(*pairsRenderer)
	r.Update(keyMsg(indexOf("down")))
	r.Update(keyMsg(indexOf("cold")))
	res, done, _ = r.Update(keyMsg(indexOf("small")))
	if !done || res.Correct {
		t.Fatalf("expected wrong matching, got %+v done=%v", res, done)
	}
}

func TestPairsRendererShufflesWithRendererSeed(t *testing.T) {
	round := content.PairsRound{ID: "p", Prompt: "Match", Pairs: []content.Pair{
		{A: "a", B: "1"}, {A: "b", B: "2"}, {A: "c", B: "3"}, {A: "d", B: "4"}, {A: "e", B: "5"},
	}}
	r := newPairsRenderer(session.Presentation{Round: round, Seed: 3, RendererSeed: 11}, testEnv(newClock())).(*pairsRenderer)
	want := prng.Shuffle([]string{"1", "2", "3", "4", "5"}, 11)
	for i := range want {
		if r.choices[i] != want[i] {
			t.Fatalf("expected right column %v, got %v", want, r.choices)
		}
	}
}

func TestSequenceRenderer(t *testing.T) {
	round := content.SequenceRound{ID: "s", Prompt: "Order", Items: []string{"b", "a", "c"}, CorrectOrder: []int{1, 0, 2}}
	r := newSequenceRenderer(session.Presentation{Round: round}, testEnv(newClock()))
	r.Init()
	r.Update(keyMsg("2"))
	if _, done, _ := r.Update(keyMsg("2")); done {
		t.Fatalf("expected repeated item ignored")
	}
	r.Update(keyMsg("1"))
	if !strings.Contains(r.View(40), "1. a  2. b") {
		t.Fatalf("expected picked order in view:\n%s", r.View(40))
	}
	res, done, _ := r.Update(keyMsg("3"))
	if !done || !res.Correct {
		t.Fatalf("expected correct order, got %+v done=%v", res, done)
	}
}

func TestReactionRendererScoresRun(t *testing.T) {
	round := content.ReactionRound{
		ID:             "r",
		InstructionRef: "tap.x",
		Stimuli:        []content.Stimulus{{Label: "X", IsTarget: true}, {Label: "O"}, {Label: "X", IsTarget: true}},
		Pace:           100 * time.Millisecond,
	}
	clk := newClock()
	r := newReactionRenderer(session.Presentation{Round: round}, testEnv(clk))
	if r.Init() == nil {
		t.Fatalf("expected pacing tick")
	}
	if !strings.Contains(r.View(40), "Press space for X") {
		t.Fatalf("expected instruction from catalog:\n%s", r.View(40))
	}
	// Space before the first stimulus is ignored.
	r.Update(keyMsg(" "))

	if _, _, cmd := r.Update(stimulusMsg{token: 3, idx: 0}); cmd == nil {
		t.Fatalf("expected next tick")
	}
	clk.Advance(250 * time.Millisecond)
	r.Update(keyMsg(" "))
	r.Update(stimulusMsg{token: 2, idx: 1}) // stale round token
	r.Update(stimulusMsg{token: 3, idx: 1})
	r.Update(stimulusMsg{token: 3, idx: 2})
	clk.Advance(350 * time.Millisecond)
	r.Update(keyMsg(" "))
	res, done, _ := r.Update(stimulusMsg{token: 3, idx: 3})
	if !done || !res.Correct {
		t.Fatalf("expected clean run, got %+v done=%v", res, done)
	}
	if res.Reaction != 300*time.Millisecond {
		t.Fatalf("expected mean hit latency 300ms, got %v", res.Reaction)
	}
}

func TestReactionRendererFalseAlarm(t *testing.T) {
	round := content.ReactionRound{
		ID:             "r",
		InstructionRef: "missing.key",
		Stimuli:        []content.Stimulus{{Label: "O"}},
		Pace:           time.Second,
	}
	r := newReactionRenderer(session.Presentation{Round: round}, testEnv(newClock()))
	if !strings.Contains(r.View(40), "missing.key") {
		t.Fatalf("expected raw key when catalog has no text")
	}
	r.Update(stimulusMsg{token: 3, idx: 0})
	r.Update(keyMsg(" "))
	res, done, _ := r.Update(stimulusMsg{token: 3, idx: 1})
	if !done || res.Correct || res.Reaction != 0 {
		t.Fatalf("expected false alarm without latency, got %+v done=%v", res, done)
	}
}
