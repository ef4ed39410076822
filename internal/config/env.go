package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds overrides read from the environment.
type EnvConfig struct {
	ContentDir string `env:"MINDGYM_CONTENT_DIR"`
	DBPath     string `env:"MINDGYM_DB_PATH"`
	Day        string `env:"MINDGYM_DAY"`
	SeedKey    string `env:"MINDGYM_SEED_KEY"`
}

// ParseEnv loads overrides from environment variables.
func ParseEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
