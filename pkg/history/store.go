package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"e2eharness/pkg/models"
)

//go:embed schema.sql
var schemaSQL string

// Store keeps a durable record of matrix runs and per-job outcomes, so
// flaky scenarios show up across invocations and not just in one run's
// summary. SQLite with WAL mode; one writer, which matches the strictly
// sequential run loop.
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at path. Idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragma: %w", err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun inserts the run row before any jobs execute.
func (s *Store) RecordRun(ctx context.Context, run models.Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at) VALUES (?, ?)`,
		run.ID.String(), run.StartedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// RecordOutcome appends one finished job to the run.
func (s *Store) RecordOutcome(ctx context.Context, run models.Run, o models.RunOutcome) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outcomes (run_id, scenario, mode, exit_code, duration_ms, artifact)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID.String(), o.Job.Scenario.Name, o.Job.Mode.String(),
		o.ExitCode, o.Duration.Milliseconds(), o.ArtifactPath)
	if err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}
	return nil
}

// FinishRun stores the final tally on the run row.
func (s *Store) FinishRun(ctx context.Context, run models.Run, sum models.Summary) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET total = ?, failed = ? WHERE id = ?`,
		sum.Total, sum.Failed, run.ID.String())
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// RunRecord is one historical run row.
type RunRecord struct {
	ID        string
	StartedAt time.Time
	Total     int
	Failed    int
}

// RecentRuns returns the latest runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, total, failed FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.Total, &r.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
