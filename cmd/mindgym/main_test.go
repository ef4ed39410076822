package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/mindgym/internal/bank"
	"github.com/verte-zerg/mindgym/internal/config"
	"github.com/verte-zerg/mindgym/internal/exercise"
	"github.com/verte-zerg/mindgym/internal/prng"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("MINDGYM_CONTENT_DIR", "")
	t.Setenv("MINDGYM_DB_PATH", "")
	t.Setenv("MINDGYM_DAY", "")
	t.Setenv("MINDGYM_SEED_KEY", "")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveSeedKey(t *testing.T) {
	day := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
	cfg := exercise.Config{ExerciseID: "capitals"}
	if got := resolveSeedKey("", cfg, day); got != "2024-06-01" {
		t.Fatalf("expected day key, got %q", got)
	}
	if prng.Key(cfg.ExerciseID, resolveSeedKey("", cfg, day)) != prng.DayKey(cfg.ExerciseID, day) {
		t.Fatalf("expected session key to match the day key")
	}
	cfg.SeedKey = "fixed"
	if got := resolveSeedKey("", cfg, day); got != "fixed" {
		t.Fatalf("expected exercise seed key, got %q", got)
	}
	if got := resolveSeedKey("explicit", cfg, day); got != "explicit" {
		t.Fatalf("expected explicit seed key, got %q", got)
	}
}

func TestValidateDefaultContent(t *testing.T) {
	isolate(t)
	out, err := execute(t, "validate")
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	if !strings.HasPrefix(out, "ok: 5 exercises, 5 banks") {
		t.Fatalf("unexpected output %q", out)
	}
}

func writeContent(t *testing.T, exercises, bankData string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "banks"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "exercises.toml"), []byte(exercises), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "banks", "mini.toml"), []byte(bankData), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return dir
}

const miniExercises = "[exercises.quiz]\nrounds = 4\n\n[exercises.quiz.selection]\nbank = \"mini\"\n"

func TestValidateRejectsBrokenContent(t *testing.T) {
	isolate(t)
	bankData := "template = \"choice\"\n\n" +
		"[[items]]\nid = \"q1\"\nprompt = \"One?\"\noptions = [\"a\", \"b\"]\ncorrect = 1\n\n" +
		"[[items]]\nid = \"q2\"\nprompt = \"Two?\"\noptions = [\"c\", \"d\"]\ncorrect = 1\n"
	out, err := execute(t, "validate", "--content", writeContent(t, miniExercises, bankData))
	if err == nil {
		t.Fatalf("expected pool too small error, got output %q", out)
	}
	if !strings.Contains(err.Error(), "POOL_TOO_SMALL") {
		t.Fatalf("expected pool code in error, got %v", err)
	}
}

func TestValidateReportsIndexBiasFirst(t *testing.T) {
	isolate(t)
	bankData := "template = \"choice\"\n\n[[items]]\nid = \"q1\"\nprompt = \"One?\"\noptions = [\"a\", \"b\"]\ncorrect = 0\n"
	_, err := execute(t, "validate", "--content", writeContent(t, miniExercises, bankData))
	if err == nil || !strings.Contains(err.Error(), "INDEX_BIAS") {
		t.Fatalf("expected index bias ahead of pool size, got %v", err)
	}
	if strings.Contains(err.Error(), "POOL_TOO_SMALL") {
		t.Fatalf("expected only the first defect, got %v", err)
	}
}

func TestListExercises(t *testing.T) {
	lib, err := bank.Default()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	snap, err := lib.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var buf bytes.Buffer
	if err := writeExerciseList(&buf, snap); err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != snap.Len() {
		t.Fatalf("expected %d lines, got %d", snap.Len(), len(lines))
	}
	if !strings.HasPrefix(lines[0], "capitals  choice       8 rounds  World Capitals") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
}

func TestPlayRequiresKnownExercise(t *testing.T) {
	isolate(t)
	if _, err := execute(t, "nope"); err == nil || !strings.Contains(err.Error(), "unknown exercise") {
		t.Fatalf("expected unknown exercise error, got %v", err)
	}
	if _, err := execute(t, "capitals", "--day", "June 1"); err == nil || !strings.Contains(err.Error(), "invalid day") {
		t.Fatalf("expected invalid day error, got %v", err)
	}
}

func TestSummaryEmptyStore(t *testing.T) {
	isolate(t)
	out, err := execute(t, "summary", "--db", filepath.Join(t.TempDir(), "m.db"))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !strings.Contains(out, "No sessions found.") {
		t.Fatalf("unexpected summary output %q", out)
	}
	if _, err := execute(t, "summary", "--curve-window", "0"); err == nil {
		t.Fatalf("expected invalid window error")
	}
	if _, err := execute(t, "summary", "--exercise", "nope"); err == nil {
		t.Fatalf("expected unknown exercise error")
	}
}

func TestDefaultConfigTemplateParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := config.LoadConfig(path); err != nil {
		t.Fatalf("template does not parse: %v", err)
	}
}
