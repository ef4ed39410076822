package statsui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/mindgym/internal/model"
)

const dateLayout = "2006-01-02"

const (
	fieldExercise = iota
	fieldSince
	fieldLast
	fieldWindow
)

var fieldPrompts = [...]string{
	fieldExercise: "Exercise: ",
	fieldSince:    "Since (YYYY-MM-DD): ",
	fieldLast:     "Last: ",
	fieldWindow:   "Curve window: ",
}

// filterForm replaces the tab body while the stats filter is being edited.
type filterForm struct {
	inputs []textinput.Model
	focus  int
	err    string
	active bool
}

func newFilterForm() filterForm {
	f := filterForm{inputs: make([]textinput.Model, len(fieldPrompts))}
	for i, prompt := range fieldPrompts {
		in := textinput.New()
		in.Prompt = prompt
		in.Cursor.SetMode(cursor.CursorBlink)
		f.inputs[i] = in
	}
	return f
}

// open seeds every field from cfg and focuses the first one.
func (f *filterForm) open(cfg model.StatsConfig) tea.Cmd {
	f.active = true
	f.err = ""
	since, last := "", ""
	if cfg.Since != nil {
		since = cfg.Since.Format(dateLayout)
	}
	if cfg.Last > 0 {
		last = strconv.Itoa(cfg.Last)
	}
	f.inputs[fieldExercise].SetValue(cfg.ExerciseID)
	f.inputs[fieldSince].SetValue(since)
	f.inputs[fieldLast].SetValue(last)
	f.inputs[fieldWindow].SetValue(strconv.Itoa(cfg.CurveWindow))
	return f.focusField(0)
}

func (f *filterForm) close() {
	f.active = false
	f.err = ""
}

// update handles one key while the form is open. applied is true once a
// valid filter was submitted; the form is closed at that point.
func (f *filterForm) update(msg tea.KeyMsg, base model.StatsConfig) (model.StatsConfig, bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		f.close()
		return base, false, nil
	case tea.KeyEnter:
		next, err := parseFilter(base, f.values())
		if err != nil {
			f.err = err.Error()
			return base, false, nil
		}
		f.close()
		return next, true, nil
	case tea.KeyTab, tea.KeyDown:
		return base, false, f.focusField(f.focus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return base, false, f.focusField(f.focus - 1)
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return base, false, cmd
}

func (f *filterForm) values() []string {
	values := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		values[i] = strings.TrimSpace(in.Value())
	}
	return values
}

func (f *filterForm) focusField(idx int) tea.Cmd {
	f.focus = (idx + len(f.inputs)) % len(f.inputs)
	var cmd tea.Cmd
	for i := range f.inputs {
		if i != f.focus {
			f.inputs[i].Blur()
			continue
		}
		cmd = f.inputs[i].Focus()
	}
	return cmd
}

func (f *filterForm) resize(width int) {
	for i := range f.inputs {
		f.inputs[i].Width = max(10, width-lipgloss.Width(f.inputs[i].Prompt)-2)
	}
}

func (f *filterForm) view() string {
	lines := make([]string, 0, len(f.inputs)+2)
	lines = append(lines, titleStyle.Render("Filter"))
	for _, in := range f.inputs {
		lines = append(lines, in.View())
	}
	if f.err != "" {
		lines = append(lines, errorStyle.Render(f.err))
	}
	return strings.Join(lines, "\n")
}

// parseFilter reads the form values, indexed by field, into a copy of base.
func parseFilter(base model.StatsConfig, values []string) (model.StatsConfig, error) {
	cfg := base
	cfg.ExerciseID = values[fieldExercise]
	cfg.Since = nil
	if v := values[fieldSince]; v != "" {
		day, err := time.ParseInLocation(dateLayout, v, time.Local)
		if err != nil {
			return base, fmt.Errorf("invalid since date %q (expected YYYY-MM-DD)", v)
		}
		cfg.Since = &day
	}
	cfg.Last = 0
	if v := values[fieldLast]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return base, fmt.Errorf("invalid last value %q (use 0 or a positive integer)", v)
		}
		cfg.Last = n
	}
	if v := values[fieldWindow]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return base, fmt.Errorf("invalid curve window %q (use an integer >= 1)", v)
		}
		cfg.CurveWindow = n
	}
	return cfg, nil
}
