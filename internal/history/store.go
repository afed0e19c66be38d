// Package history keeps an append-only log of verification attempts in
// SQLite. It backs the stats command and is strictly observational: the
// tutor's durable progress lives in the progress dotfile, not here.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed verification log.
type Store struct {
	db *sql.DB
}

// Run is one recorded verification attempt.
type Run struct {
	ID         string
	Exercise   string
	Passed     bool
	Message    string
	Duration   time.Duration
	Mode       string // "full" or "simple"
	RecordedAt time.Time
}

// Summary aggregates the whole log.
type Summary struct {
	Attempts int
	Passes   int
}

// ExerciseStats aggregates attempts for one exercise.
type ExerciseStats struct {
	Exercise string
	Attempts int
	Passes   int
}

// Open creates (or opens) the history database at dsn and migrates it.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	// SQLite supports one writer; keep the pool at a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS verify_runs (
		id          TEXT PRIMARY KEY,
		exercise    TEXT NOT NULL,
		passed      INTEGER NOT NULL,
		message     TEXT NOT NULL DEFAULT '',
		duration_ms INTEGER NOT NULL,
		mode        TEXT NOT NULL,
		recorded_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_verify_runs_exercise ON verify_runs(exercise);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records one verification attempt.
func (s *Store) Append(ctx context.Context, run Run) error {
	if run.RecordedAt.IsZero() {
		run.RecordedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO verify_runs (id, exercise, passed, message, duration_ms, mode, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Exercise, boolToInt(run.Passed), run.Message,
		run.Duration.Milliseconds(), run.Mode, run.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("append verification run: %w", err)
	}
	return nil
}

// Totals returns attempts and passes across all exercises.
func (s *Store) Totals(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(passed), 0) FROM verify_runs`,
	).Scan(&sum.Attempts, &sum.Passes)
	if err != nil {
		return Summary{}, fmt.Errorf("query totals: %w", err)
	}
	return sum, nil
}

// PerExercise returns per-exercise attempt counts, most-attempted first.
func (s *Store) PerExercise(ctx context.Context) ([]ExerciseStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT exercise, COUNT(*), COALESCE(SUM(passed), 0)
		FROM verify_runs
		GROUP BY exercise
		ORDER BY COUNT(*) DESC, exercise`,
	)
	if err != nil {
		return nil, fmt.Errorf("query per-exercise stats: %w", err)
	}
	defer rows.Close()

	var out []ExerciseStats
	for rows.Next() {
		var es ExerciseStats
		if err := rows.Scan(&es.Exercise, &es.Attempts, &es.Passes); err != nil {
			return nil, fmt.Errorf("scan per-exercise stats: %w", err)
		}
		out = append(out, es)
	}
	return out, rows.Err()
}

// DefaultPath resolves the history database path in priority order:
// ZENLINGS_DB, then $XDG_DATA_HOME/zenlings/history.db, then
// ~/.local/share/zenlings/history.db.
func DefaultPath() (string, error) {
	if p := os.Getenv("ZENLINGS_DB"); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "zenlings", "history.db")
	return p, ensureDir(p)
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
