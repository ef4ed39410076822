package prng

import (
	"hash/fnv"
	"strings"
	"time"
)

const (
	// KeySeparator joins the parts of a composite seed key.
	KeySeparator = "::"
	// DayLayout formats the calendar-day part of a seed key.
	DayLayout = "2006-01-02"
)

// HashKey converts a composite key into a 32-bit seed using FNV-1a.
func HashKey(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32()
}

// Key joins parts into a composite seed key such as "wordpuzzle::2024-06-01".
func Key(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

// DayKey builds the seed key for an exercise on a calendar day.
// Only the date of day is used, in day's own location.
func DayKey(exerciseID string, day time.Time) string {
	return Key(exerciseID, day.Format(DayLayout))
}
