// Package exercise resolves per-exercise selections against content banks into a
// validated, immutable runtime snapshot.
package exercise

import (
	"sort"

	"github.com/verte-zerg/mindgym/internal/content"
)

// Selection declares which bank items an exercise draws from.
// IDs, when set, take precedence over the Offset window.
type Selection struct {
	Bank   string   `toml:"bank"`
	Take   int      `toml:"take"`
	IDs    []string `toml:"ids"`
	Offset int      `toml:"offset"`
}

// Definition is the authored description of one exercise.
type Definition struct {
	Title       string           `toml:"title"`
	Template    content.Template `toml:"template"`
	Selection   Selection        `toml:"selection"`
	RoundsTotal int              `toml:"rounds"`
	SeedKey     string           `toml:"seed_key"`
}

// Config is the resolved, validated runtime configuration of one exercise.
// len(Pool) >= RoundsTotal always holds.
type Config struct {
	ExerciseID  string
	Title       string
	Template    content.Template
	Pool        []content.Round
	RoundsTotal int
	SeedKey     string
}

// Snapshot is an immutable set of runtime configs keyed by exercise id.
type Snapshot struct {
	configs map[string]Config
	ids     []string
}

func newSnapshot(configs map[string]Config) Snapshot {
	ids := make([]string, 0, len(configs))
	for id := range configs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return Snapshot{configs: configs, ids: ids}
}

// Get returns the config for an exercise. The returned pool is a copy.
func (s Snapshot) Get(id string) (Config, bool) {
	cfg, ok := s.configs[id]
	if !ok {
		return Config{}, false
	}
	cfg.Pool = append([]content.Round(nil), cfg.Pool...)
	return cfg, true
}

// IDs returns exercise ids in sorted order.
func (s Snapshot) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Len returns the number of exercises.
func (s Snapshot) Len() int {
	return len(s.ids)
}
