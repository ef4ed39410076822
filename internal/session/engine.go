// Package session drives one playthrough of an exercise round by round.
//
// An Engine is owned by a single session and is not safe for concurrent use.
// It never fails during play: answers outside the Playing state are ignored.
package session

import (
	"fmt"
	"math"
	"time"

	"github.com/verte-zerg/mindgym/internal/content"
	"github.com/verte-zerg/mindgym/internal/exercise"
	"github.com/verte-zerg/mindgym/internal/model"
	"github.com/verte-zerg/mindgym/internal/prng"
)

// State is the engine's lifecycle state.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// RoundResult is what a renderer reports for one round.
// Reaction is the response latency: time to answer for answer rounds, mean hit
// latency for go/no-go rounds. Zero means no latency was measured.
type RoundResult struct {
	Correct  bool
	Reaction time.Duration
}

// Clock returns the current time.
type Clock func() time.Time

// Option configures an Engine.
type Option func(*Engine)

// WithClock injects the time source.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.now = c
	}
}

// Engine is the template-agnostic round state machine.
type Engine struct {
	cfg exercise.Config
	now Clock

	state      State
	sessionKey string
	seedKey    string
	rounds     []Presentation
	outcomes   []model.RoundOutcome
	roundIndex int
	correct    int
	startedAt  time.Time
	finishedAt time.Time
}

// New returns an idle engine for cfg.
// It panics when cfg cannot supply RoundsTotal distinct rounds.
func New(cfg exercise.Config, opts ...Option) *Engine {
	if cfg.RoundsTotal <= 0 {
		panic(fmt.Sprintf("session: exercise %q has no rounds", cfg.ExerciseID))
	}
	if cfg.RoundsTotal > len(cfg.Pool) {
		panic(fmt.Sprintf("session: exercise %q wants %d rounds from a pool of %d", cfg.ExerciseID, cfg.RoundsTotal, len(cfg.Pool)))
	}
	e := &Engine{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start enters Playing at round 0. An empty seedKey falls back to the exercise's
// configured seed key, then to the exercise id.
func (e *Engine) Start(seedKey string) {
	if seedKey == "" {
		seedKey = e.cfg.SeedKey
	}
	if seedKey == "" {
		seedKey = e.cfg.ExerciseID
	}
	e.seedKey = seedKey
	e.sessionKey = prng.Key(e.cfg.ExerciseID, seedKey)

	picks, err := prng.PickUnique(len(e.cfg.Pool), e.cfg.RoundsTotal, prng.HashKey(e.sessionKey))
	if err != nil {
		// New already guarantees RoundsTotal <= len(Pool).
		panic(err)
	}
	e.rounds = make([]Presentation, len(picks))
	for n, idx := range picks {
		e.rounds[n] = present(e.cfg.Pool[idx], n, e.sessionKey)
	}
	e.outcomes = make([]model.RoundOutcome, 0, len(picks))
	e.roundIndex = 0
	e.correct = 0
	e.startedAt = e.now()
	e.finishedAt = time.Time{}
	e.state = StatePlaying
}

// Restart resets to Idle and starts again with seedKey.
// Passing the previous seed key reproduces the same rounds.
func (e *Engine) Restart(seedKey string) {
	e.Abandon()
	e.Start(seedKey)
}

// Abandon drops the current playthrough and returns to Idle.
func (e *Engine) Abandon() {
	e.state = StateIdle
	e.rounds = nil
	e.outcomes = nil
	e.roundIndex = 0
	e.correct = 0
	e.startedAt = time.Time{}
	e.finishedAt = time.Time{}
}

// Answer records the result of the current round and advances.
// It returns false, changing nothing, when no round is being played.
func (e *Engine) Answer(res RoundResult) bool {
	if e.state != StatePlaying {
		return false
	}
	if res.Correct {
		e.correct++
	}
	cur := e.rounds[e.roundIndex]
	e.outcomes = append(e.outcomes, model.RoundOutcome{
		Index:      e.roundIndex,
		RoundID:    cur.Round.RoundID(),
		Correct:    res.Correct,
		ReactionMs: res.Reaction.Milliseconds(),
	})
	if e.roundIndex+1 >= e.cfg.RoundsTotal {
		e.finishedAt = e.now()
		e.state = StateCompleted
		return true
	}
	e.roundIndex++
	return true
}

// Current returns the round being played.
func (e *Engine) Current() (Presentation, bool) {
	if e.state != StatePlaying {
		return Presentation{}, false
	}
	return e.rounds[e.roundIndex], true
}

// Rounds returns the sampled rounds of the current playthrough in play order.
func (e *Engine) Rounds() []Presentation {
	return append([]Presentation(nil), e.rounds...)
}

// Elapsed is the time spent so far; it stops at completion.
func (e *Engine) Elapsed() time.Duration {
	switch e.state {
	case StatePlaying:
		return e.now().Sub(e.startedAt)
	case StateCompleted:
		return e.finishedAt.Sub(e.startedAt)
	default:
		return 0
	}
}

// Summary returns the final summary once the session is completed.
func (e *Engine) Summary() (model.SessionSummary, bool) {
	if e.state != StateCompleted {
		return model.SessionSummary{}, false
	}
	var reactionSum int64
	var reactionCount int
	for _, o := range e.outcomes {
		if o.ReactionMs > 0 {
			reactionSum += o.ReactionMs
			reactionCount++
		}
	}
	avg := 0.0
	if reactionCount > 0 {
		avg = float64(reactionSum) / float64(reactionCount)
	}
	duration := e.finishedAt.Sub(e.startedAt)
	return model.SessionSummary{
		ExerciseID:    e.cfg.ExerciseID,
		Template:      string(e.cfg.Template),
		SeedKey:       e.seedKey,
		Rounds:        e.cfg.RoundsTotal,
		Correct:       e.correct,
		DurationSec:   int(math.Round(float64(duration.Milliseconds()) / 1000)),
		StartedAt:     e.startedAt,
		FinishedAt:    e.finishedAt,
		AvgReactionMs: avg,
	}, true
}

// Outcomes returns per-round outcomes recorded so far.
func (e *Engine) Outcomes() []model.RoundOutcome {
	return append([]model.RoundOutcome(nil), e.outcomes...)
}

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// RoundIndex returns the zero-based index of the current round.
func (e *Engine) RoundIndex() int { return e.roundIndex }

// Correct returns the number of correct answers so far.
func (e *Engine) Correct() int { return e.correct }

// RoundsTotal returns the configured number of rounds.
func (e *Engine) RoundsTotal() int { return e.cfg.RoundsTotal }

// Config returns the exercise configuration.
func (e *Engine) Config() exercise.Config { return e.cfg }

// SeedKey returns the seed key of the current playthrough.
func (e *Engine) SeedKey() string { return e.seedKey }

// Template is shorthand for the exercise template.
func (e *Engine) Template() content.Template { return e.cfg.Template }
