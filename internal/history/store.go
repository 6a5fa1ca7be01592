// Package history keeps a record of past builds in SQLite.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/specialistvlad/gridbuild/internal/executor"
	"github.com/specialistvlad/gridbuild/internal/metrics"
	_ "modernc.org/sqlite"
)

// ErrBuildNotFound is returned when a build id has no record.
var ErrBuildNotFound = errors.New("build not found")

// Build is one recorded build.
type Build struct {
	ID        string
	Started   time.Time
	Finished  time.Time
	Outcome   string
	Succeeded int
	Failed    int
	Skipped   int
}

// Duration is the wall time of the build.
func (b Build) Duration() time.Duration {
	return b.Finished.Sub(b.Started)
}

// ModuleRecord is one module's row of a recorded build.
type ModuleRecord struct {
	Module   string
	Status   executor.Status
	ExitCode int
	Detail   string
	Duration time.Duration
}

// SQLiteStore persists build reports.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens or creates the database at dbPath.
// Use ":memory:" for in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A pooled second connection to ":memory:" would see an empty database.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		build_id TEXT PRIMARY KEY,
		started INTEGER NOT NULL,
		finished INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		succeeded INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		skipped INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS module_results (
		build_id TEXT NOT NULL REFERENCES builds(build_id),
		module TEXT NOT NULL,
		status TEXT NOT NULL,
		exit_code INTEGER NOT NULL,
		detail TEXT,
		duration_ns INTEGER NOT NULL,
		PRIMARY KEY (build_id, module)
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save records a finished build and all of its module results.
func (s *SQLiteStore) Save(ctx context.Context, r *executor.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	succeeded, failed, skipped := r.Counts()
	_, err = tx.ExecContext(ctx,
		"INSERT INTO builds (build_id, started, finished, outcome, succeeded, failed, skipped) VALUES (?, ?, ?, ?, ?, ?, ?)",
		r.BuildID, r.Started.UnixNano(), r.Finished.UnixNano(), metrics.Outcome(r), succeeded, failed, skipped,
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}

	for _, res := range r.Results {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO module_results (build_id, module, status, exit_code, detail, duration_ns) VALUES (?, ?, ?, ?, ?, ?)",
			r.BuildID, res.Module, string(res.Status), res.ExitCode, res.Detail, int64(res.Duration),
		)
		if err != nil {
			return fmt.Errorf("insert result for %s: %w", res.Module, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Recent returns up to limit builds, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Build, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT build_id, started, finished, outcome, succeeded, failed, skipped FROM builds ORDER BY started DESC, build_id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		var b Build
		var started, finished int64
		if err := rows.Scan(&b.ID, &started, &finished, &b.Outcome, &b.Succeeded, &b.Failed, &b.Skipped); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		b.Started = time.Unix(0, started)
		b.Finished = time.Unix(0, finished)
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return builds, nil
}

// Modules returns the module results of one build, sorted by module.
func (s *SQLiteStore) Modules(ctx context.Context, buildID string) ([]ModuleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM builds WHERE build_id = ?", buildID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("query build: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrBuildNotFound, buildID)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT module, status, exit_code, detail, duration_ns FROM module_results WHERE build_id = ? ORDER BY module",
		buildID,
	)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []ModuleRecord
	for rows.Next() {
		var m ModuleRecord
		var status string
		var detail sql.NullString
		var dur int64
		if err := rows.Scan(&m.Module, &status, &m.ExitCode, &detail, &dur); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		m.Status = executor.Status(status)
		m.Detail = detail.String
		m.Duration = time.Duration(dur)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
