package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/mindgym/internal/content"
	"github.com/verte-zerg/mindgym/internal/prng"
	"github.com/verte-zerg/mindgym/internal/session"
)

// pairsRenderer walks the left column in order; each step picks a partner from the right column.
type pairsRenderer struct {
	round   content.PairsRound
	choices []string

	picked  []int // choice index picked for each left item so far
	used    map[int]bool
	cursor  int
	now     func() time.Time
	shownAt time.Time
}

func newPairsRenderer(p session.Presentation, env Env) Renderer {
	r := p.Round.(content.PairsRound)
	right := make([]string, len(r.Pairs))
	for i, pair := range r.Pairs {
		right[i] = pair.B
	}
	return &pairsRenderer{
		round:   r,
		choices: prng.Shuffle(right, p.RendererSeed),
		used:    map[int]bool{},
		now:     env.Now,
	}
}

func (r *pairsRenderer) Init() tea.Cmd {
	r.shownAt = r.now()
	return nil
}

func (r *pairsRenderer) Update(msg tea.Msg) (session.RoundResult, bool, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return session.RoundResult{}, false, nil
	}
	switch key.String() {
	case "up", "k":
		r.moveCursor(-1)
	case "down", "j":
		r.moveCursor(1)
	case "backspace":
		if n := len(r.picked); n > 0 {
			delete(r.used, r.picked[n-1])
			r.picked = r.picked[:n-1]
		}
	case "enter":
		return r.choose(r.cursor)
	default:
		if idx, ok := digitIndex(key.String()); ok {
			return r.choose(idx)
		}
	}
	return session.RoundResult{}, false, nil
}

func (r *pairsRenderer) moveCursor(delta int) {
	n := len(r.choices)
	for step := 1; step <= n; step++ {
		next := ((r.cursor+delta*step)%n + n) % n
		if !r.used[next] {
			r.cursor = next
			return
		}
	}
}

func (r *pairsRenderer) choose(idx int) (session.RoundResult, bool, tea.Cmd) {
	if idx < 0 || idx >= len(r.choices) || r.used[idx] {
		return session.RoundResult{}, false, nil
	}
	r.used[idx] = true
	r.picked = append(r.picked, idx)
	if len(r.picked) < len(r.round.Pairs) {
		r.moveCursor(1)
		return session.RoundResult{}, false, nil
	}
	matches := make(map[int]string, len(r.picked))
	for i, c := range r.picked {
		matches[i] = r.choices[c]
	}
	return session.RoundResult{Correct: r.round.IsCorrect(matches), Reaction: since(r.now, r.shownAt)}, true, nil
}

func (r *pairsRenderer) View(width int) string {
	lines := wrapText(r.round.Prompt, width)
	lines = append(lines, "")
	for i, pair := range r.round.Pairs {
		switch {
		case i < len(r.picked):
			lines = append(lines, fmt.Sprintf("  %s = %s", pair.A, r.choices[r.picked[i]]))
		case i == len(r.picked):
			lines = append(lines, currentStyle.Render(fmt.Sprintf("> %s = ?", pair.A)))
		default:
			lines = append(lines, pendingStyle.Render("  "+pair.A))
		}
	}
	lines = append(lines, "")
	lines = append(lines, optionLines(r.choices, r.cursor, r.used)...)
	return strings.Join(lines, "\n")
}
