package bank

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/verte-zerg/mindgym/internal/content"
	apperrors "github.com/verte-zerg/mindgym/internal/errors"
)

func TestDefaultLibraryBuilds(t *testing.T) {
	lib, err := Default()
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	snap, err := lib.Build()
	if err != nil {
		t.Fatalf("build default: %v", err)
	}
	seen := map[content.Template]bool{}
	for _, id := range snap.IDs() {
		cfg, _ := snap.Get(id)
		if len(cfg.Pool) < cfg.RoundsTotal {
			t.Fatalf("%s: pool %d smaller than rounds %d", id, len(cfg.Pool), cfg.RoundsTotal)
		}
		seen[cfg.Template] = true
	}
	for _, tpl := range content.Templates() {
		if !seen[tpl] {
			t.Fatalf("default library has no %s exercise", tpl)
		}
	}
	capitals, ok := snap.Get("capitals")
	if !ok {
		t.Fatalf("expected capitals exercise")
	}
	first := capitals.Pool[0].(content.ChoiceRound)
	if first.Prompt != "What is the capital of France?" {
		t.Fatalf("expected prompt resolved from catalog, got %q", first.Prompt)
	}
}

const miniExercises = `
[exercises.quiz]
rounds = 2

[exercises.quiz.selection]
bank = "mini"
`

const miniBank = `
template = "choice"

[[items]]
id = "q01"
prompt = "One?"
options = ["a", "b"]
correct = 1

[[items]]
id = "q02"
prompt = "Two?"
options = ["c", "d"]
correct = 0
`

func TestLoadMapFS(t *testing.T) {
	fsys := fstest.MapFS{
		"exercises.toml":  {Data: []byte(miniExercises)},
		"banks/mini.toml": {Data: []byte(miniBank)},
	}
	lib, err := Load(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b, ok := lib.Banks["mini"]
	if !ok {
		t.Fatalf("expected bank id from file name")
	}
	if b.Template != content.TemplateChoice || len(b.Items) != 2 {
		t.Fatalf("unexpected bank %+v", b)
	}
	if b.Items[0].CorrectIndex == nil || *b.Items[0].CorrectIndex != 1 {
		t.Fatalf("expected correct index decoded")
	}
	snap, err := lib.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	cfg, _ := snap.Get("quiz")
	if cfg.Template != content.TemplateChoice || cfg.RoundsTotal != 2 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	fsys := fstest.MapFS{
		"exercises.toml":  {Data: []byte(miniExercises)},
		"banks/mini.toml": {Data: []byte(miniBank + "\n[[items]]\nid = \"q03\"\ncorect = 1\n")},
	}
	_, err := Load(fsys)
	if !apperrors.HasCode(err, apperrors.CodeInvalidContent) {
		t.Fatalf("expected invalid content for typo, got %v", err)
	}
}

func TestLoadRejectsBadTemplate(t *testing.T) {
	fsys := fstest.MapFS{
		"exercises.toml":  {Data: []byte(miniExercises)},
		"banks/mini.toml": {Data: []byte("template = \"crossword\"\n")},
	}
	if _, err := Load(fsys); !apperrors.HasCode(err, apperrors.CodeInvalidContent) {
		t.Fatalf("expected invalid content, got %v", err)
	}
}

func TestBuildFailsWhenIDsMissing(t *testing.T) {
	exercises := `
[exercises.quiz]
rounds = 8

[exercises.quiz.selection]
bank = "mini"
ids = ["q01", "q02", "q03", "q04", "q05", "q06", "q07", "q08"]
`
	fsys := fstest.MapFS{
		"exercises.toml":  {Data: []byte(exercises)},
		"banks/mini.toml": {Data: []byte(miniBank)},
	}
	lib, err := Load(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := lib.Build(); !apperrors.HasCode(err, apperrors.CodeMissingBankItem) {
		t.Fatalf("expected missing bank item, got %v", err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "banks"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "exercises.toml"), []byte(miniExercises), 0o644); err != nil {
		t.Fatalf("write exercises: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "banks", "mini.toml"), []byte(miniBank), 0o644); err != nil {
		t.Fatalf("write bank: %v", err)
	}
	lib, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if len(lib.Banks) != 1 || len(lib.Exercises) != 1 {
		t.Fatalf("unexpected library sizes: %d banks, %d exercises", len(lib.Banks), len(lib.Exercises))
	}
	if _, err := LoadDir(filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}
