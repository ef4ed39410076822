package tui

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/mindgym/internal/content"
	"github.com/verte-zerg/mindgym/internal/session"
)

type sequenceRenderer struct {
	round content.SequenceRound

	order   []int
	placed  map[int]bool
	cursor  int
	now     func() time.Time
	shownAt time.Time
}

func newSequenceRenderer(p session.Presentation, env Env) Renderer {
	return &sequenceRenderer{
		round:  p.Round.(content.SequenceRound),
		placed: map[int]bool{},
		now:    env.Now,
	}
}

func (r *sequenceRenderer) Init() tea.Cmd {
	r.shownAt = r.now()
	return nil
}

func (r *sequenceRenderer) Update(msg tea.Msg) (session.RoundResult, bool, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return session.RoundResult{}, false, nil
	}
	n := len(r.round.Items)
	switch key.String() {
	case "up", "k":
		r.cursor = (r.cursor - 1 + n) % n
	case "down", "j":
		r.cursor = (r.cursor + 1) % n
	case "backspace":
		if l := len(r.order); l > 0 {
			delete(r.placed, r.order[l-1])
			r.order = r.order[:l-1]
		}
	case "enter":
		return r.place(r.cursor)
	default:
		if idx, ok := digitIndex(key.String()); ok {
			return r.place(idx)
		}
	}
	return session.RoundResult{}, false, nil
}

func (r *sequenceRenderer) place(idx int) (session.RoundResult, bool, tea.Cmd) {
	if idx < 0 || idx >= len(r.round.Items) || r.placed[idx] {
		return session.RoundResult{}, false, nil
	}
	r.placed[idx] = true
	r.order = append(r.order, idx)
	if len(r.order) < len(r.round.CorrectOrder) && len(r.order) < len(r.round.Items) {
		return session.RoundResult{}, false, nil
	}
	return session.RoundResult{Correct: r.round.IsCorrect(r.order), Reaction: since(r.now, r.shownAt)}, true, nil
}

func (r *sequenceRenderer) View(width int) string {
	lines := wrapText(r.round.Prompt, width)
	lines = append(lines, "")
	lines = append(lines, optionLines(r.round.Items, r.cursor, r.placed)...)
	picked := make([]string, len(r.order))
	for i, idx := range r.order {
		picked[i] = strconv.Itoa(i+1) + ". " + r.round.Items[idx]
	}
	lines = append(lines, "", currentStyle.Render("Your order: ")+strings.Join(picked, "  "))
	return strings.Join(lines, "\n")
}
