package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type column struct {
	title string
	right bool
}

func left(title string) column  { return column{title: title} }
func right(title string) column { return column{title: title, right: true} }

// textTable lays out cells in columns measured in terminal cells, so wide
// glyphs in round IDs keep the grid aligned.
type textTable struct {
	cols []column
	rows [][]string
}

func newTable(cols ...column) *textTable {
	return &textTable{cols: cols}
}

// addRow appends one row. Missing cells render empty and extra cells are dropped.
func (t *textTable) addRow(cells ...string) {
	row := make([]string, len(t.cols))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

func (t *textTable) widths() []int {
	widths := make([]int, len(t.cols))
	for i, c := range t.cols {
		widths[i] = runewidth.StringWidth(c.title)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	return widths
}

func (t *textTable) lines() []string {
	if len(t.cols) == 0 {
		return nil
	}
	widths := t.widths()
	header := make([]string, len(t.cols))
	for i, c := range t.cols {
		header[i] = c.title
	}
	out := make([]string, 0, len(t.rows)+1)
	out = append(out, t.join(header, widths))
	for _, row := range t.rows {
		out = append(out, t.join(row, widths))
	}
	return out
}

func (t *textTable) join(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		if t.cols[i].right {
			parts[i] = runewidth.FillLeft(cell, widths[i])
		} else {
			parts[i] = runewidth.FillRight(cell, widths[i])
		}
	}
	return strings.Join(parts, " ")
}
