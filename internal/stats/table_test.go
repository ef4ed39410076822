package stats

import "testing"

func TestTableAlignsColumns(t *testing.T) {
	tbl := newTable(left("Round"), right("Accuracy"), right("Correct"))
	tbl.addRow("q1", "97.50%", "12")
	tbl.addRow("capitals::q10", "8.00%", "3")

	lines := tbl.lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Round         Accuracy Correct" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "q1              97.50%      12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "capitals::q10    8.00%       3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestTableCountsWideRunes(t *testing.T) {
	tbl := newTable(left("Word"), left("N"))
	tbl.addRow("東京", "1")
	tbl.addRow("ab", "2")

	lines := tbl.lines()
	if lines[1] != "東京 1" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "ab   2" {
		t.Fatalf("expected padding to wide column, got %q", lines[2])
	}
}

func TestTableShortRowsPadEmpty(t *testing.T) {
	tbl := newTable(left("A"), right("B"))
	tbl.addRow("xy")
	tbl.addRow("z", "1", "dropped")

	lines := tbl.lines()
	if lines[1] != "xy  " {
		t.Fatalf("unexpected short row: %q", lines[1])
	}
	if lines[2] != "z  1" {
		t.Fatalf("unexpected long row: %q", lines[2])
	}
}

func TestEmptyTable(t *testing.T) {
	if lines := newTable().lines(); lines != nil {
		t.Fatalf("expected no lines, got %q", lines)
	}
}
