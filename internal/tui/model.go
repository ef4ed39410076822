// Package tui provides the Bubble Tea exercise interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/verte-zerg/mindgym/internal/content"
	"github.com/verte-zerg/mindgym/internal/exercise"
	"github.com/verte-zerg/mindgym/internal/model"
	"github.com/verte-zerg/mindgym/internal/session"
	statsPkg "github.com/verte-zerg/mindgym/internal/stats"
)

const feedbackDelay = 700 * time.Millisecond

var (
	optionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle    = currentStyle.Bold(true)
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	stimulusStyle  = lipgloss.NewStyle().Bold(true).Padding(1, 4).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#C89A3A"))
)

// Recorder persists completed sessions.
type Recorder interface {
	InsertSession(ctx context.Context, summary model.SessionSummary, outcomes []model.RoundOutcome) (int64, error)
}

type tickMsg struct{ run int }

type advanceMsg struct{ token int }

// Option configures a Model.
type Option func(*Model)

// WithRecorder stores every completed session.
func WithRecorder(r Recorder) Option { return func(m *Model) { m.recorder = r } }

// WithCatalog resolves instruction keys shown by renderers.
func WithCatalog(c content.Catalog) Option { return func(m *Model) { m.catalog = c } }

// WithClock injects the time source shared with the engine.
func WithClock(now func() time.Time) Option { return func(m *Model) { m.now = now } }

// WithRenderers replaces the renderer registry.
func WithRenderers(r map[content.Template]Factory) Option { return func(m *Model) { m.registry = r } }

// WithSeedKeys sets the generator used when the player asks for a fresh run.
func WithSeedKeys(next func() string) Option { return func(m *Model) { m.newSeedKey = next } }

// Model implements the Bubble Tea exercise UI around one session engine.
type Model struct {
	engine     *session.Engine
	registry   map[content.Template]Factory
	recorder   Recorder
	catalog    content.Catalog
	now        func() time.Time
	newSeedKey func() string

	renderer Renderer
	run      int // bumped on every (re)start so stale ticks are dropped
	token    int

	// answered is set once the current round produced a result; further input
	// is dropped until the engine advances.
	answered bool
	pending  session.RoundResult

	saveErr string
	saved   bool

	width  int
	height int
}

// NewModel starts cfg with seedKey and returns the UI model.
// It fails when no renderer is registered for the exercise template.
func NewModel(cfg exercise.Config, seedKey string, opts ...Option) (*Model, error) {
	m := &Model{
		registry:   DefaultRenderers(),
		now:        time.Now,
		newSeedKey: uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	if _, ok := m.registry[cfg.Template]; !ok {
		return nil, fmt.Errorf("no renderer for template %q", cfg.Template)
	}
	m.engine = session.New(cfg, session.WithClock(m.now))
	m.engine.Start(seedKey)
	m.nextRound()
	return m, nil
}

// Engine exposes the underlying session engine.
func (m *Model) Engine() *session.Engine { return m.engine }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.renderer.Init(), tick(m.run))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if msg.run != m.run || m.engine.State() != session.StatePlaying {
			return m, nil
		}
		return m, tick(m.run)
	case advanceMsg:
		if msg.token != m.token || !m.answered {
			return m, nil
		}
		return m, m.advance()
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyCtrlC, msg.Type == tea.KeyEsc:
			// Leaving mid-session drops the run unsaved.
			if m.engine.State() == session.StatePlaying {
				m.engine.Abandon()
				m.token++
			}
			return m, tea.Quit
		case m.engine.State() == session.StateCompleted:
			return m.updateCompleted(msg)
		}
	}
	if m.engine.State() != session.StatePlaying || m.answered {
		return m, nil
	}
	res, done, cmd := m.renderer.Update(msg)
	if !done {
		return m, cmd
	}
	m.answered = true
	m.pending = res
	token := m.token
	return m, tea.Batch(cmd, tea.Tick(feedbackDelay, func(time.Time) tea.Msg {
		return advanceMsg{token: token}
	}))
}

func (m *Model) updateCompleted(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		return m, m.restart(m.engine.SeedKey())
	case "n":
		return m, m.restart(m.newSeedKey())
	}
	return m, nil
}

func (m *Model) restart(seedKey string) tea.Cmd {
	m.engine.Restart(seedKey)
	m.run++
	m.saved = false
	m.saveErr = ""
	m.nextRound()
	return tea.Batch(m.renderer.Init(), tick(m.run))
}

// advance hands the pending result to the engine and moves to the next round.
func (m *Model) advance() tea.Cmd {
	m.engine.Answer(m.pending)
	if m.engine.State() == session.StateCompleted {
		m.record()
		return nil
	}
	m.nextRound()
	return m.renderer.Init()
}

func (m *Model) nextRound() {
	p, ok := m.engine.Current()
	if !ok {
		return
	}
	m.token++
	m.answered = false
	m.pending = session.RoundResult{}
	m.renderer = m.registry[m.engine.Template()](p, Env{Catalog: m.catalog, Now: m.now, Token: m.token})
}

func (m *Model) record() {
	if m.recorder == nil {
		return
	}
	summary, ok := m.engine.Summary()
	if !ok {
		return
	}
	if _, err := m.recorder.InsertSession(context.Background(), summary, m.engine.Outcomes()); err != nil {
		m.saveErr = err.Error()
		logErrf("failed to save session: %v\n", err)
		return
	}
	m.saved = true
}

func tick(run int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{run: run} })
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	if m.engine.State() == session.StateCompleted {
		body = m.renderSummary()
	} else {
		body = m.renderRound()
	}
	if m.width == 0 || m.height == 0 {
		return body + "\n" + m.renderFooter()
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	top := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, body)
	footer := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.renderFooter())
	return top + "\n" + footer
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 60
	}
	return max(int(float64(m.width)*0.70), 1)
}

func (m *Model) renderRound() string {
	cfg := m.engine.Config()
	title := cfg.Title
	if title == "" {
		title = cfg.ExerciseID
	}
	lines := []string{titleStyle.Render(title), "", m.renderer.View(m.contentWidth())}
	if m.answered {
		if m.pending.Correct {
			lines = append(lines, "", correctStyle.Render("Correct"))
		} else {
			lines = append(lines, "", incorrectStyle.Render("Wrong"))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderSummary() string {
	summary, _ := m.engine.Summary()
	lines := []string{
		titleStyle.Render("Session complete"),
		"",
		fmt.Sprintf("Score     %d/%d", summary.Correct, summary.Rounds),
		fmt.Sprintf("Accuracy  %.0f%%", statsPkg.SessionMetrics(summary.Correct, summary.Rounds)*100),
		fmt.Sprintf("Time      %s", formatClock(time.Duration(summary.DurationSec)*time.Second)),
	}
	if summary.AvgReactionMs > 0 {
		lines = append(lines, fmt.Sprintf("Response  %.0fms", summary.AvgReactionMs))
	}
	switch {
	case m.saveErr != "":
		lines = append(lines, "", incorrectStyle.Render("Not saved: "+m.saveErr))
	case m.saved:
		lines = append(lines, "", pendingStyle.Render("Saved"))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	if m.engine.State() == session.StateCompleted {
		return footerStyle.Render("r: replay  n: new run  q: quit")
	}
	segments := []string{
		fmt.Sprintf("Round %d/%d", m.engine.RoundIndex()+1, m.engine.RoundsTotal()),
		fmt.Sprintf("Score %d", m.engine.Correct()),
		formatClock(m.engine.Elapsed()),
		"esc: quit",
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func formatClock(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
