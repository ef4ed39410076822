// Package model defines shared data structures.
package model

import "time"

// SessionSummary captures a completed playthrough.
type SessionSummary struct {
	ExerciseID    string
	Template      string
	SeedKey       string
	Rounds        int
	Correct       int
	DurationSec   int
	StartedAt     time.Time
	FinishedAt    time.Time
	AvgReactionMs float64
}

// RoundOutcome stores the result of one round in a session.
type RoundOutcome struct {
	Index      int
	RoundID    string
	Correct    bool
	ReactionMs int64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	ExerciseID  string
	Since       *time.Time
	Last        int
	CurveWindow int
	WeakTop     int
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID     int64
	UUID          string
	ExerciseID    string
	FinishedAt    time.Time
	Rounds        int
	Correct       int
	DurationSec   int
	AvgReactionMs float64
}

// RoundAggregate aggregates outcomes of one round id across sessions.
type RoundAggregate struct {
	RoundID       string
	Correct       int
	Incorrect     int
	ReactionSumMs int64
	ReactionCount int64
}
