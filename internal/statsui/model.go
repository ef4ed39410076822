// Package statsui renders session history as a tabbed Bubble Tea viewer.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/mindgym/internal/model"
	"github.com/verte-zerg/mindgym/internal/stats"
	"github.com/verte-zerg/mindgym/internal/store"
)

const (
	tabOverview = iota
	tabRounds
	tabWeak
)

var tabTitles = [...]string{
	tabOverview: "Overview",
	tabRounds:   "Rounds",
	tabWeak:     "Weak Spots",
}

const plotHeight = 8

var (
	accent = lipgloss.Color("#5FAFD7")
	subtle = lipgloss.Color("#585858")
	bright = lipgloss.Color("#EEEEEE")

	tabStyle       = lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder(), true).BorderForeground(subtle).Foreground(lipgloss.Color("#A8A8A8"))
	activeTabStyle = tabStyle.BorderForeground(accent).Foreground(bright).Bold(true)
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#767676"))
	titleStyle     = lipgloss.NewStyle().Foreground(accent).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#D75F5F"))
	cardStyle      = lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.NormalBorder(), true).BorderForeground(subtle)
	cardLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
	cardValueStyle = lipgloss.NewStyle().Foreground(bright).Bold(true)
)

// Model is the stats viewer. It reloads the report from the store whenever
// the filter or the curve window changes.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report  stats.Report
	loadErr error

	active int
	pages  [len(tabTitles)]viewport.Model
	rounds table.Model
	form   filterForm

	width  int
	height int
}

// NewModel builds the viewer and loads the first report.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		form:  newFilterForm(),
		rounds: table.New(
			table.WithColumns(roundColumns()),
			table.WithHeight(1),
			table.WithStyles(roundTableStyles()),
		),
	}
	for i := range m.pages {
		m.pages[i] = viewport.New(0, 0)
	}
	m.reload()
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.fillPages()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.form.active {
			cfg, applied, cmd := m.form.update(msg, m.cfg)
			if applied {
				m.cfg = cfg
				m.reload()
				m.resize()
			}
			return m, cmd
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.switchTab(-1)
		return m, tea.ClearScreen
	case "right", "l", "tab":
		m.switchTab(1)
		return m, tea.ClearScreen
	case "=":
		m.setCurveWindow(nextCurveWindow(m.cfg.CurveWindow))
		return m, nil
	case "-":
		m.setCurveWindow(prevCurveWindow(m.cfg.CurveWindow))
		return m, nil
	case "/":
		cmd := m.form.open(m.cfg)
		m.resize()
		return m, cmd
	case "g", "home":
		if m.active == tabRounds {
			m.rounds.GotoTop()
		} else {
			m.pages[m.active].GotoTop()
		}
		return m, nil
	case "G", "end":
		if m.active == tabRounds {
			m.rounds.GotoBottom()
		} else {
			m.pages[m.active].GotoBottom()
		}
		return m, nil
	}
	var cmd tea.Cmd
	if m.active == tabRounds {
		m.rounds, cmd = m.rounds.Update(msg)
	} else {
		m.pages[m.active], cmd = m.pages[m.active].Update(msg)
	}
	return m, cmd
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	top, body, bottom := m.heights()
	return strings.Join([]string{
		fitLines(m.viewHeader(), m.width, top),
		fitLines(m.viewBody(), m.width, body),
		fitLines(m.viewFooter(), m.width, bottom),
	}, "\n")
}

func (m *Model) heights() (top, body, bottom int) {
	top = max(lipgloss.Height(activeTabStyle.Render("x")), 1) + 1
	bottom = 1
	if !m.form.active && m.loadErr != nil {
		bottom = 2
	}
	return top, max(m.height-top-bottom, 1), bottom
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, body, _ := m.heights()
	for i := range m.pages {
		m.pages[i].Width = m.width
		m.pages[i].Height = body
	}
	m.rounds.SetWidth(m.width)
	m.rounds.SetHeight(max(body-1, 1))
	m.form.resize(m.width)
}

func (m *Model) switchTab(delta int) {
	m.active = (m.active + delta + len(tabTitles)) % len(tabTitles)
	if m.active == tabRounds {
		m.rounds.Focus()
		return
	}
	m.rounds.Blur()
}

func (m *Model) setCurveWindow(n int) {
	m.cfg.CurveWindow = n
	m.reload()
}

func (m *Model) viewHeader() string {
	tabs := make([]string, len(tabTitles))
	for i, title := range tabTitles {
		style := tabStyle
		if i == m.active {
			style = activeTabStyle
		}
		tabs[i] = style.Render(title)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n" + hintStyle.Render(truncateLine(m.filterLine(), m.width))
}

func (m *Model) filterLine() string {
	exercise, since, last := "any", "any", "all"
	if m.cfg.ExerciseID != "" {
		exercise = m.cfg.ExerciseID
	}
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format(dateLayout)
	}
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	return fmt.Sprintf("exercise=%s  since=%s  last=%s  window=%d", exercise, since, last, m.cfg.CurveWindow)
}

func (m *Model) viewFooter() string {
	if m.form.active {
		return hintStyle.Render("tab/shift+tab: field  enter: apply  esc: cancel")
	}
	help := hintStyle.Render("left/right: tab  up/down: scroll  -/=: window  /: filter  q: quit")
	if m.loadErr != nil {
		return help + "\n" + errorStyle.Render(m.loadErr.Error())
	}
	return help
}

func (m *Model) viewBody() string {
	switch {
	case m.form.active:
		return m.form.view()
	case m.active != tabRounds:
		return m.pages[m.active].View()
	case len(m.report.RoundAggs) == 0:
		return "No round stats found."
	default:
		return m.rounds.View()
	}
}

func (m *Model) reload() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	m.loadErr = err
	if err != nil {
		m.fillPages()
		return
	}
	m.report = report
	m.rounds.SetRows(roundRows(report.RoundAggs))
	m.rounds.GotoTop()
	m.fillPages()
}

func (m *Model) fillPages() {
	if m.loadErr != nil {
		for i := range m.pages {
			m.pages[i].SetContent("Failed to load stats.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.pages[tabOverview].SetContent(renderOverview(m.report.Sessions, m.cfg.CurveWindow, width))
	m.pages[tabWeak].SetContent(renderWeak(m.report))
}

func renderOverview(sessions []model.SessionAggregate, window, width int) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}
	accs := make([]float64, len(sessions))
	var sum, best float64
	var seconds int
	for i, s := range sessions {
		acc := stats.SessionMetrics(s.Correct, s.Rounds)
		accs[i] = acc * 100
		sum += acc
		best = max(best, acc)
		seconds += s.DurationSec
	}
	n := float64(len(sessions))
	cards := []string{
		metricCard("Sessions", strconv.Itoa(len(sessions))),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", sum/n*100)),
		metricCard("Best Acc", fmt.Sprintf("%.1f%%", best*100)),
		metricCard("Avg Time", fmt.Sprintf("%.0fs", float64(seconds)/n)),
	}
	summary := strings.Join(cards, "\n")
	if width >= 80 {
		summary = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	var buf bytes.Buffer
	curve := stats.MovingAverage(accs, window)
	if err := stats.PlotBars(&buf, "Accuracy (moving average)", curve, stats.PlotWidthFor(width), plotHeight); err != nil {
		return fmt.Sprintf("Failed to render curve: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func renderWeak(report stats.Report) string {
	if len(report.Sessions) == 0 {
		return "No sessions found."
	}
	var buf bytes.Buffer
	buf.WriteString(titleStyle.Render("Most missed") + "\n")
	if len(report.Weak) == 0 {
		buf.WriteString("No missed rounds in this window.\n")
	} else if err := stats.RenderRoundTable(&buf, report.Weak); err != nil {
		return fmt.Sprintf("Failed to render weak rounds: %v", err)
	}
	if len(report.Slowest) > 0 {
		buf.WriteString("\n" + titleStyle.Render("Slowest") + "\n")
		if err := stats.RenderRoundTable(&buf, report.Slowest); err != nil {
			return fmt.Sprintf("Failed to render slowest rounds: %v", err)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardLabelStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func roundColumns() []table.Column {
	return []table.Column{
		{Title: "Round", Width: 24},
		{Title: "Accuracy", Width: 9},
		{Title: "Response", Width: 10},
		{Title: "Hits", Width: 6},
		{Title: "Misses", Width: 6},
	}
}

func roundRows(aggs []model.RoundAggregate) []table.Row {
	rows := make([]table.Row, len(aggs))
	for i, agg := range aggs {
		acc := 0.0
		if total := agg.Correct + agg.Incorrect; total > 0 {
			acc = float64(agg.Correct) / float64(total) * 100
		}
		reaction := "-"
		if agg.ReactionCount > 0 {
			reaction = fmt.Sprintf("%.0fms", float64(agg.ReactionSumMs)/float64(agg.ReactionCount))
		}
		rows[i] = table.Row{
			agg.RoundID,
			fmt.Sprintf("%.1f%%", acc),
			reaction,
			strconv.Itoa(agg.Correct),
			strconv.Itoa(agg.Incorrect),
		}
	}
	return rows
}

func roundTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		Bold(true).
		Foreground(accent).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(subtle)
	s.Selected = s.Selected.
		Foreground(bright).
		Background(lipgloss.Color("#303030")).
		Bold(false)
	return s
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	switch {
	case n <= 5:
		return 1
	case n%5 == 0:
		return n - 5
	default:
		return n / 5 * 5
	}
}

// fitLines clips s to height lines and pads each line to width cells.
func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	lines = lines[:min(len(lines), height)]
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		if pad := width - lipgloss.Width(line); pad > 0 {
			lines[i] = line + strings.Repeat(" ", pad)
		}
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
