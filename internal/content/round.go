package content

import "time"

// Round is one resolved, playable round. The set of implementations is closed.
type Round interface {
	RoundID() string
	Template() Template
	isRound()
}

// ChoiceRound is a multiple-choice question.
type ChoiceRound struct {
	ID           string
	Prompt       string
	Options      []string
	CorrectIndex int
}

// OddOneOutRound asks for the option that does not belong.
type OddOneOutRound struct {
	ID       string
	Prompt   string
	Options  []string
	OddIndex int
}

// Pair is one matching pair.
type Pair struct {
	A string `toml:"a"`
	B string `toml:"b"`
}

// PairsRound asks the player to match every A with its B.
type PairsRound struct {
	ID     string
	Prompt string
	Pairs  []Pair
}

// SequenceRound asks the player to order Items.
// CorrectOrder lists indices into Items, first to last.
type SequenceRound struct {
	ID           string
	Prompt       string
	Items        []string
	CorrectOrder []int
}

// Stimulus is one go/no-go stimulus.
type Stimulus struct {
	Label    string `toml:"label"`
	IsTarget bool   `toml:"target"`
}

// ReactionRound is a go/no-go round. InstructionRef is an opaque localization key.
type ReactionRound struct {
	ID             string
	InstructionRef string
	Stimuli        []Stimulus
	Pace           time.Duration
}

func (r ChoiceRound) RoundID() string    { return r.ID }
func (r OddOneOutRound) RoundID() string { return r.ID }
func (r PairsRound) RoundID() string     { return r.ID }
func (r SequenceRound) RoundID() string  { return r.ID }
func (r ReactionRound) RoundID() string  { return r.ID }

func (ChoiceRound) Template() Template    { return TemplateChoice }
func (OddOneOutRound) Template() Template { return TemplateOddOneOut }
func (PairsRound) Template() Template     { return TemplatePairs }
func (SequenceRound) Template() Template  { return TemplateSequence }
func (ReactionRound) Template() Template  { return TemplateReaction }

func (ChoiceRound) isRound()    {}
func (OddOneOutRound) isRound() {}
func (PairsRound) isRound()     {}
func (SequenceRound) isRound()  {}
func (ReactionRound) isRound()  {}

// IsCorrect reports whether picking option i answers the round.
func (r ChoiceRound) IsCorrect(i int) bool {
	return i == r.CorrectIndex
}

// IsCorrect reports whether picking option i finds the odd one.
func (r OddOneOutRound) IsCorrect(i int) bool {
	return i == r.OddIndex
}

// IsCorrect reports whether order matches CorrectOrder exactly.
func (r SequenceRound) IsCorrect(order []int) bool {
	if len(order) != len(r.CorrectOrder) {
		return false
	}
	for i := range order {
		if order[i] != r.CorrectOrder[i] {
			return false
		}
	}
	return true
}

// IsCorrect reports whether every A was matched with its own B.
// matches maps a pair index to the B text the player chose for it.
func (r PairsRound) IsCorrect(matches map[int]string) bool {
	if len(matches) != len(r.Pairs) {
		return false
	}
	for i, p := range r.Pairs {
		if matches[i] != p.B {
			return false
		}
	}
	return true
}

// ReactionScore tallies a go/no-go run.
type ReactionScore struct {
	Hits        int
	Misses      int
	FalseAlarms int
}

// Correct reports a clean run: every target hit and no response to a non-target.
func (s ReactionScore) Correct() bool {
	return s.Misses == 0 && s.FalseAlarms == 0
}

// Score compares the per-stimulus responses with the stimuli targets.
// responded[i] is true when the player reacted while stimulus i was shown.
func (r ReactionRound) Score(responded []bool) ReactionScore {
	var s ReactionScore
	for i, st := range r.Stimuli {
		hit := i < len(responded) && responded[i]
		switch {
		case st.IsTarget && hit:
			s.Hits++
		case st.IsTarget:
			s.Misses++
		case hit:
			s.FalseAlarms++
		}
	}
	return s
}
