package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/mindgym/internal/content"
	"github.com/verte-zerg/mindgym/internal/session"
)

// pickRenderer serves every template answered by picking one option.
type pickRenderer struct {
	prompt    string
	options   []string
	isCorrect func(int) bool

	cursor  int
	now     func() time.Time
	shownAt time.Time
}

func newChoiceRenderer(p session.Presentation, env Env) Renderer {
	r := p.Round.(content.ChoiceRound)
	return &pickRenderer{prompt: r.Prompt, options: r.Options, isCorrect: r.IsCorrect, now: env.Now}
}

func newOddOneOutRenderer(p session.Presentation, env Env) Renderer {
	r := p.Round.(content.OddOneOutRound)
	return &pickRenderer{prompt: r.Prompt, options: r.Options, isCorrect: r.IsCorrect, now: env.Now}
}

func (r *pickRenderer) Init() tea.Cmd {
	r.shownAt = r.now()
	return nil
}

func (r *pickRenderer) Update(msg tea.Msg) (session.RoundResult, bool, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return session.RoundResult{}, false, nil
	}
	switch key.String() {
	case "up", "k":
		r.cursor = (r.cursor - 1 + len(r.options)) % len(r.options)
	case "down", "j":
		r.cursor = (r.cursor + 1) % len(r.options)
	case "enter":
		return r.pick(r.cursor), true, nil
	default:
		if idx, ok := digitIndex(key.String()); ok && idx < len(r.options) {
			return r.pick(idx), true, nil
		}
	}
	return session.RoundResult{}, false, nil
}

func (r *pickRenderer) pick(idx int) session.RoundResult {
	r.cursor = idx
	return session.RoundResult{Correct: r.isCorrect(idx), Reaction: since(r.now, r.shownAt)}
}

func (r *pickRenderer) View(width int) string {
	lines := wrapText(r.prompt, width)
	lines = append(lines, "")
	lines = append(lines, optionLines(r.options, r.cursor, nil)...)
	return strings.Join(lines, "\n")
}

// optionLines numbers options and marks the cursor; dimmed entries are greyed out.
func optionLines(options []string, cursor int, dimmed map[int]bool) []string {
	out := make([]string, 0, len(options))
	for i, opt := range options {
		line := fmt.Sprintf("%d. %s", i+1, opt)
		switch {
		case dimmed[i]:
			out = append(out, "  "+pendingStyle.Render(line))
		case i == cursor:
			out = append(out, cursorStyle.Render("> "+line))
		default:
			out = append(out, "  "+optionStyle.Render(line))
		}
	}
	return out
}
