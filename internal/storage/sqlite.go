// Package storage provides the SQLite run journal: one record per finished
// stage attempt. Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for the run journal.
type Store struct {
	db *sql.DB
}

// Run is one finished stage attempt.
type Run struct {
	ID        int64
	Mode      string // "campaign" or "endless"
	Stage     int
	Cleared   bool
	Score     int
	Shots     int
	Popped    int
	Dropped   int
	Elapsed   time.Duration // Stored with second precision
	CreatedAt time.Time
}

// StageSummary aggregates the journal for one stage of one mode.
type StageSummary struct {
	Mode      string
	Stage     int
	Attempts  int
	Clears    int
	BestScore int
	AvgShots  float64
	Fastest   time.Duration // Fastest clear, 0 if never cleared
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			stage INTEGER NOT NULL,
			cleared INTEGER NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			shots INTEGER NOT NULL DEFAULT 0,
			popped INTEGER NOT NULL DEFAULT 0,
			dropped INTEGER NOT NULL DEFAULT 0,
			elapsed_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_mode_stage ON runs(mode, stage);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun appends a stage attempt to the journal.
// Returns the ID of the inserted record.
func (s *Store) RecordRun(ctx context.Context, r Run) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (mode, stage, cleared, score, shots, popped, dropped, elapsed_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Mode, r.Stage, r.Cleared, r.Score, r.Shots, r.Popped, r.Dropped, int64(r.Elapsed/time.Second),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentRuns retrieves the most recent runs, newest first. An empty mode
// matches every mode.
func (s *Store) RecentRuns(ctx context.Context, mode string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, stage, cleared, score, shots, popped, dropped, elapsed_secs, created_at
		 FROM runs
		 WHERE ? = '' OR mode = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		mode, mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var elapsed int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Mode, &r.Stage, &r.Cleared, &r.Score, &r.Shots,
			&r.Popped, &r.Dropped, &elapsed, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Elapsed = time.Duration(elapsed) * time.Second
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// StageSummaries aggregates the journal per stage for a mode, ordered by stage.
func (s *Store) StageSummaries(ctx context.Context, mode string) ([]StageSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT stage,
		        COUNT(*),
		        COALESCE(SUM(cleared), 0),
		        COALESCE(MAX(score), 0),
		        COALESCE(AVG(shots), 0),
		        COALESCE(MIN(CASE WHEN cleared THEN elapsed_secs END), 0)
		 FROM runs
		 WHERE mode = ?
		 GROUP BY stage
		 ORDER BY stage`,
		mode,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query stage summaries: %w", err)
	}
	defer rows.Close()

	var out []StageSummary
	for rows.Next() {
		sum := StageSummary{Mode: mode}
		var fastest int64
		if err := rows.Scan(&sum.Stage, &sum.Attempts, &sum.Clears, &sum.BestScore, &sum.AvgShots, &fastest); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sum.Fastest = time.Duration(fastest) * time.Second
		out = append(out, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// ClearRuns deletes the runs of the given mode and reports how many went.
// An empty mode clears the whole journal.
func (s *Store) ClearRuns(ctx context.Context, mode string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE ? = '' OR mode = ?", mode, mode)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return res.RowsAffected()
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
