package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/mindgym/internal/content"
	"github.com/verte-zerg/mindgym/internal/session"
)

type stimulusMsg struct {
	token int
	idx   int
}

// reactionRenderer shows the instruction for one pace, then each stimulus for one pace.
// Space while a stimulus is shown counts as a response to it.
type reactionRenderer struct {
	round       content.ReactionRound
	instruction string
	token       int

	idx       int // -1 while the instruction is shown
	responded []bool
	shownAt   time.Time
	hitSum    time.Duration
	hitCount  int
	now       func() time.Time
}

func newReactionRenderer(p session.Presentation, env Env) Renderer {
	r := p.Round.(content.ReactionRound)
	instruction := r.InstructionRef
	if env.Catalog != nil {
		if text, ok := env.Catalog.Text(r.InstructionRef); ok {
			instruction = text
		}
	}
	return &reactionRenderer{
		round:       r,
		instruction: instruction,
		token:       env.Token,
		idx:         -1,
		responded:   make([]bool, len(r.Stimuli)),
		now:         env.Now,
	}
}

func (r *reactionRenderer) Init() tea.Cmd {
	return r.next(0)
}

func (r *reactionRenderer) next(idx int) tea.Cmd {
	token := r.token
	return tea.Tick(r.round.Pace, func(time.Time) tea.Msg {
		return stimulusMsg{token: token, idx: idx}
	})
}

func (r *reactionRenderer) Update(msg tea.Msg) (session.RoundResult, bool, tea.Cmd) {
	switch msg := msg.(type) {
	case stimulusMsg:
		if msg.token != r.token || msg.idx != r.idx+1 {
			return session.RoundResult{}, false, nil
		}
		if msg.idx >= len(r.round.Stimuli) {
			return r.result(), true, nil
		}
		r.idx = msg.idx
		r.shownAt = r.now()
		return session.RoundResult{}, false, r.next(msg.idx + 1)
	case tea.KeyMsg:
		if !isSpace(msg) || r.idx < 0 || r.responded[r.idx] {
			return session.RoundResult{}, false, nil
		}
		r.responded[r.idx] = true
		if r.round.Stimuli[r.idx].IsTarget {
			r.hitSum += since(r.now, r.shownAt)
			r.hitCount++
		}
	}
	return session.RoundResult{}, false, nil
}

func (r *reactionRenderer) result() session.RoundResult {
	res := session.RoundResult{Correct: r.round.Score(r.responded).Correct()}
	if r.hitCount > 0 {
		res.Reaction = r.hitSum / time.Duration(r.hitCount)
	}
	return res
}

func (r *reactionRenderer) View(width int) string {
	lines := wrapText(r.instruction, width)
	lines = append(lines, "")
	if r.idx < 0 {
		lines = append(lines, pendingStyle.Render("Get ready..."))
		return strings.Join(lines, "\n")
	}
	label := stimulusStyle.Render(r.round.Stimuli[r.idx].Label)
	if r.responded[r.idx] {
		label += currentStyle.Render("  *")
	}
	lines = append(lines, label, "", pendingStyle.Render(fmt.Sprintf("%d/%d", r.idx+1, len(r.round.Stimuli))))
	return strings.Join(lines, "\n")
}
