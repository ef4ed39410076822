package tui

import (
	"reflect"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestWrapTextBreaksOnSpaces(t *testing.T) {
	got := wrapText("which city is the capital of France", 12)
	want := []string{"which city", "is the", "capital of", "France"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextCollapsesWhitespace(t *testing.T) {
	got := wrapText("  a   b  ", 10)
	if !reflect.DeepEqual(got, []string{"a b"}) {
		t.Fatalf("unexpected wrap: %q", got)
	}
	if got := wrapText("", 10); !reflect.DeepEqual(got, []string{""}) {
		t.Fatalf("expected single empty line, got %q", got)
	}
}

func TestWrapTextCutsLongWords(t *testing.T) {
	got := wrapText("abcdefgh ij", 3)
	want := []string{"abc", "def", "gh", "ij"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextWideRunes(t *testing.T) {
	got := wrapText("東京 大阪 京都", 5)
	for _, line := range got {
		if w := runewidth.StringWidth(line); w > 5 {
			t.Fatalf("line %q is %d cells wide", line, w)
		}
	}
	want := []string{"東京", "大阪", "京都"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextNoWidth(t *testing.T) {
	if got := wrapText("a b", 0); !reflect.DeepEqual(got, []string{"a b"}) {
		t.Fatalf("unexpected wrap: %q", got)
	}
}
