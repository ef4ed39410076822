// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Play    PlayConfig    `toml:"play"`
	Content ContentConfig `toml:"content"`
	Storage StorageConfig `toml:"storage"`
	Stats   StatsConfig   `toml:"stats"`
}

// PlayConfig maps play-related settings.
type PlayConfig struct {
	Day     *string `toml:"day"`
	SeedKey *string `toml:"seed-key"`
}

// ContentConfig points at an on-disk content library instead of the embedded one.
type ContentConfig struct {
	Dir *string `toml:"dir"`
}

// StorageConfig maps persistence settings.
type StorageConfig struct {
	DB *string `toml:"db"`
}

// StatsConfig maps reporting defaults.
type StatsConfig struct {
	CurveWindow *int `toml:"curve-window"`
	WeakTop     *int `toml:"weak-top"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}
