package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisLabelTop        = "100%"
	axisLabelBottom     = "0%"
	axisSeparator       = " │ "
	terminalWidthBackup = 80
)

// eighths of a cell, empty through full.
var barGlyphs = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// PlotBars renders percentages (0..100) as a vertical bar chart.
// A non-positive width uses the terminal width; a non-positive height uses the default.
func PlotBars(w io.Writer, title string, values []float64, width, height int) error {
	if len(values) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)
	cols := resample(values, width)

	lines := make([]string, 0, height+2)
	if title != "" {
		lines = append(lines, title)
	}
	labelWidth := runewidth.StringWidth(axisLabelTop)
	for row := height - 1; row >= 0; row-- {
		label := ""
		switch row {
		case height - 1:
			label = axisLabelTop
		case 0:
			label = axisLabelBottom
		}
		var b strings.Builder
		b.WriteString(fmt.Sprintf("%*s%s", labelWidth, label, axisSeparator))
		for _, v := range cols {
			b.WriteRune(barCell(v, row, height))
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return writeLines(w, append(lines, ""))
}

// barCell picks the glyph for one row of a column whose value is a percentage.
func barCell(value float64, row, height int) rune {
	filled := math.Max(0, math.Min(value, 100)) / 100 * float64(height*8)
	remaining := int(math.Round(filled)) - row*8
	full := len(barGlyphs) - 1
	return barGlyphs[max(0, min(remaining, full))]
}

// resample stretches or averages values into exactly width buckets.
func resample(values []float64, width int) []float64 {
	if len(values) <= width {
		return append([]float64(nil), values...)
	}
	out := make([]float64, width)
	for i := range out {
		start := i * len(values) / width
		end := max((i+1)*len(values)/width, start+1)
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// PlotWidthFor returns the number of plot columns that fit in totalWidth.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axis := runewidth.StringWidth(axisLabelTop) + runewidth.StringWidth(axisSeparator)
	return max(totalWidth-axis, minPlotWidth)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
