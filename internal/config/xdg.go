package config

import (
	"os"
	"path/filepath"
)

const appName = "mindgym"

// xdgBase returns $envVar when set, otherwise the path under the user's home.
// Without a home directory it falls back to the working directory.
func xdgBase(envVar string, homeRel ...string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, homeRel...)...)
}

// XDGConfigHome resolves $XDG_CONFIG_HOME, defaulting to ~/.config.
func XDGConfigHome() string { return xdgBase("XDG_CONFIG_HOME", ".config") }

// XDGDataHome resolves $XDG_DATA_HOME, defaulting to ~/.local/share.
func XDGDataHome() string { return xdgBase("XDG_DATA_HOME", ".local", "share") }

// DefaultDBPath is where session history lives unless overridden.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appName, appName+".db")
}

func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}
