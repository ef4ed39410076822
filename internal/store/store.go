// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/mindgym/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			uuid TEXT NOT NULL UNIQUE,
			exercise_id TEXT NOT NULL,
			template TEXT NOT NULL,
			seed_key TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			rounds INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			duration_sec INTEGER NOT NULL,
			avg_reaction_ms REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_rounds (
			session_id INTEGER NOT NULL,
			idx INTEGER NOT NULL,
			round_id TEXT NOT NULL,
			correct INTEGER NOT NULL,
			reaction_ms INTEGER NOT NULL,
			PRIMARY KEY (session_id, idx)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_finished_at ON sessions(finished_at);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_exercise ON sessions(exercise_id);`,
		`CREATE INDEX IF NOT EXISTS idx_session_rounds_round ON session_rounds(round_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a completed session and its per-round outcomes.
func (s *Store) InsertSession(ctx context.Context, summary model.SessionSummary, outcomes []model.RoundOutcome) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (uuid, exercise_id, template, seed_key, started_at, finished_at, rounds, correct, duration_sec, avg_reaction_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		summary.ExerciseID,
		summary.Template,
		summary.SeedKey,
		summary.StartedAt.UTC().Format(time.RFC3339Nano),
		summary.FinishedAt.UTC().Format(time.RFC3339Nano),
		summary.Rounds,
		summary.Correct,
		summary.DurationSec,
		summary.AvgReactionMs,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(outcomes) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO session_rounds (session_id, idx, round_id, correct, reaction_ms)
			 VALUES (?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, o := range outcomes {
			if _, err = stmt.ExecContext(ctx, id, o.Index, o.RoundID, boolInt(o.Correct), o.ReactionMs); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListSessions returns session aggregates filtered by stats config, oldest first.
// When cfg.Last is positive only the most recent cfg.Last sessions are returned.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.ExerciseID != "" {
		clauses = append(clauses, "exercise_id = ?")
		args = append(args, cfg.ExerciseID)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "finished_at >= ?")
		args = append(args, cfg.Since.UTC().Format(time.RFC3339Nano))
	}
	limit := -1
	if cfg.Last > 0 {
		limit = cfg.Last
	}
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT id, uuid, exercise_id, finished_at, rounds, correct, duration_sec, avg_reaction_ms
		FROM (
			SELECT * FROM sessions
			WHERE %s
			ORDER BY finished_at DESC, id DESC
			LIMIT ?
		)
		ORDER BY finished_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var finishedAt string
		if err := rows.Scan(&agg.SessionID, &agg.UUID, &agg.ExerciseID, &finishedAt,
			&agg.Rounds, &agg.Correct, &agg.DurationSec, &agg.AvgReactionMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, finishedAt)
		if err != nil {
			return nil, err
		}
		agg.FinishedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// RoundAggregates sums per-round outcomes over the most recent window sessions.
// An empty exerciseID spans every exercise.
func (s *Store) RoundAggregates(ctx context.Context, exerciseID string, window int) ([]model.RoundAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_sessions AS (
		SELECT id FROM sessions
		WHERE (? = '' OR exercise_id = ?)
		ORDER BY finished_at DESC, id DESC
		LIMIT ?
	)
	SELECT sr.round_id,
		SUM(sr.correct) AS correct,
		SUM(1 - sr.correct) AS incorrect,
		SUM(sr.reaction_ms) AS reaction_sum_ms,
		SUM(CASE WHEN sr.reaction_ms > 0 THEN 1 ELSE 0 END) AS reaction_count
	FROM session_rounds sr
	JOIN recent_sessions r ON r.id = sr.session_id
	GROUP BY sr.round_id
	ORDER BY sr.round_id`

	rows, err := s.db.QueryContext(ctx, query, exerciseID, exerciseID, window)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.RoundAggregate
	for rows.Next() {
		var agg model.RoundAggregate
		if err := rows.Scan(&agg.RoundID, &agg.Correct, &agg.Incorrect, &agg.ReactionSumMs, &agg.ReactionCount); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
