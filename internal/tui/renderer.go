package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/mindgym/internal/content"
	"github.com/verte-zerg/mindgym/internal/session"
)

// Renderer draws one round and turns key presses into a single result.
// Update reports done exactly once; the model drops the renderer afterwards.
type Renderer interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (res session.RoundResult, done bool, cmd tea.Cmd)
	View(width int) string
}

// Env is what a renderer may use besides its round.
type Env struct {
	Catalog content.Catalog
	Now     func() time.Time
	// Token identifies the round; timer messages carrying another token are stale.
	Token int
}

// Factory builds the renderer for one presented round.
type Factory func(p session.Presentation, env Env) Renderer

// DefaultRenderers returns a factory for every template.
func DefaultRenderers() map[content.Template]Factory {
	return map[content.Template]Factory{
		content.TemplateChoice:    newChoiceRenderer,
		content.TemplateOddOneOut: newOddOneOutRenderer,
		content.TemplatePairs:     newPairsRenderer,
		content.TemplateSequence:  newSequenceRenderer,
		content.TemplateReaction:  newReactionRenderer,
	}
}

// digitIndex maps keys 1..9 to option indices.
func digitIndex(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '1'), true
}

func isSpace(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeySpace || msg.String() == " "
}

func since(now func() time.Time, t time.Time) time.Duration {
	if t.IsZero() {
		return 0
	}
	return now().Sub(t)
}
