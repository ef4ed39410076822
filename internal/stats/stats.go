// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/mindgym/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics returns the share of correctly answered rounds.
func SessionMetrics(correct, rounds int) (accuracy float64) {
	if rounds <= 0 {
		return 0
	}
	return float64(correct) / float64(rounds)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := bounds(values)
	if math.Abs(hi-lo) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(last)))
		b.WriteByte(sparkChars[max(0, min(idx, last))])
	}
	return b.String()
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// RenderSummary prints aggregate totals for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalAcc, best float64
	var totalSec, reactionSessions int
	var totalReaction float64
	for _, s := range sessions {
		acc := SessionMetrics(s.Correct, s.Rounds)
		totalAcc += acc
		best = math.Max(best, acc)
		totalSec += s.DurationSec
		if s.AvgReactionMs > 0 {
			totalReaction += s.AvgReactionMs
			reactionSessions++
		}
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Avg Accuracy: %.2f%%", totalAcc/count*100),
		fmt.Sprintf("Best Accuracy: %.2f%%", best*100),
		fmt.Sprintf("Avg Duration: %.1fs", float64(totalSec)/count),
	}
	if reactionSessions > 0 {
		lines = append(lines, fmt.Sprintf("Avg Response: %.0fms", totalReaction/float64(reactionSessions)))
	}
	return writeLines(w, append(lines, ""))
}

// RenderHistory prints one row per session followed by a smoothed accuracy curve.
// A non-positive totalWidth sizes the curve to the terminal.
func RenderHistory(w io.Writer, sessions []model.SessionAggregate, window, totalWidth int) error {
	if len(sessions) == 0 {
		return nil
	}
	tbl := newTable(left("Finished"), left("Exercise"), right("Score"), right("Accuracy"), right("Duration"))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		accs[i] = SessionMetrics(s.Correct, s.Rounds) * 100
		tbl.addRow(
			s.FinishedAt.Local().Format("2006-01-02 15:04"),
			s.ExerciseID,
			fmt.Sprintf("%d/%d", s.Correct, s.Rounds),
			fmt.Sprintf("%.0f%%", accs[i]),
			fmt.Sprintf("%ds", s.DurationSec),
		)
	}
	lines := append([]string{"History"}, tbl.lines()...)
	smoothed := MovingAverage(accs, window)
	lines = append(lines, "", "Trend: "+Sparkline(smoothed), "")
	if err := writeLines(w, lines); err != nil {
		return err
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotBars(w, "Accuracy (moving average)", smoothed, width, 0)
}

// RenderRoundTable prints per-round aggregates, weakest first.
func RenderRoundTable(w io.Writer, aggs []model.RoundAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No round stats found.")
		return err
	}
	sorted := make([]model.RoundAggregate, len(aggs))
	copy(sorted, aggs)
	sort.SliceStable(sorted, func(i, j int) bool { return lessWeak(sorted[i], sorted[j]) })

	tbl := newTable(left("Round"), right("Accuracy"), right("Avg Response (ms)"), right("Correct"), right("Incorrect"))
	for _, agg := range sorted {
		reaction := "-"
		if agg.ReactionCount > 0 {
			reaction = fmt.Sprintf("%.1f", avgReaction(agg))
		}
		tbl.addRow(
			agg.RoundID,
			fmt.Sprintf("%.2f%%", roundAccuracy(agg)*100),
			reaction,
			fmt.Sprintf("%d", agg.Correct),
			fmt.Sprintf("%d", agg.Incorrect),
		)
	}
	lines := append([]string{"Per-Round (Windowed)"}, tbl.lines()...)
	return writeLines(w, append(lines, ""))
}

func roundAccuracy(agg model.RoundAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}

func avgReaction(agg model.RoundAggregate) float64 {
	if agg.ReactionCount == 0 {
		return 0
	}
	return float64(agg.ReactionSumMs) / float64(agg.ReactionCount)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
