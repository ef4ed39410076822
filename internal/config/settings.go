package config

import (
	"fmt"
	"time"
)

const (
	DefaultCurveWindow = 20
	DefaultWeakTop     = 8

	dayLayout = "2006-01-02"
)

// Settings is the merged configuration before CLI flags are applied.
// An empty ContentDir selects the embedded library.
type Settings struct {
	Day         string
	SeedKey     string
	ContentDir  string
	DBPath      string
	CurveWindow int
	WeakTop     int
}

// Resolve layers environment overrides over the file over defaults.
func Resolve(file FileConfig, envCfg EnvConfig) Settings {
	s := Settings{
		DBPath:      DefaultDBPath(),
		CurveWindow: DefaultCurveWindow,
		WeakTop:     DefaultWeakTop,
	}
	applyString(&s.Day, file.Play.Day, envCfg.Day)
	applyString(&s.SeedKey, file.Play.SeedKey, envCfg.SeedKey)
	applyString(&s.ContentDir, file.Content.Dir, envCfg.ContentDir)
	applyString(&s.DBPath, file.Storage.DB, envCfg.DBPath)
	if file.Stats.CurveWindow != nil {
		s.CurveWindow = *file.Stats.CurveWindow
	}
	if file.Stats.WeakTop != nil {
		s.WeakTop = *file.Stats.WeakTop
	}
	return s
}

func applyString(target *string, fileValue *string, envValue string) {
	if fileValue != nil {
		*target = *fileValue
	}
	if envValue != "" {
		*target = envValue
	}
}

// ParseDay parses a YYYY-MM-DD day in local time. An empty string means today.
func ParseDay(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	day, err := time.ParseInLocation(dayLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q (expected YYYY-MM-DD)", s)
	}
	return day, nil
}
