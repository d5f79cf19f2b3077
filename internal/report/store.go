// Package report persists an audit trail of censoring runs in SQLite.
package report

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/elci-group/babymode/internal/segment"
)

// Store records runs and their censored segments.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the report database at path and migrates the
// schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			input TEXT NOT NULL,
			output TEXT NOT NULL,
			strategy TEXT NOT NULL,
			engine TEXT NOT NULL,
			detections INTEGER NOT NULL,
			segments INTEGER NOT NULL,
			censored_seconds REAL NOT NULL,
			audio_seconds REAL NOT NULL,
			success INTEGER NOT NULL,
			error TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS run_segments (
			run_id INTEGER NOT NULL,
			idx INTEGER NOT NULL,
			start REAL NOT NULL,
			end REAL NOT NULL,
			PRIMARY KEY (run_id, idx)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Run is one row of the audit trail.
type Run struct {
	Input           string
	Output          string
	Strategy        string
	Engine          string
	Detections      int
	Segments        int
	CensoredSeconds float64
	AudioSeconds    float64
	Success         bool
	Error           string
}

// RecordRun inserts a run and its segments in one transaction, returning the
// run ID.
func (s *Store) RecordRun(run Run, segments []segment.Segment) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (created_at, input, output, strategy, engine,
			detections, segments, censored_seconds, audio_seconds, success, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		run.Input, run.Output, run.Strategy, run.Engine,
		run.Detections, run.Segments, run.CensoredSeconds, run.AudioSeconds,
		boolToInt(run.Success), run.Error,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, seg := range segments {
		if _, err := tx.Exec(
			`INSERT INTO run_segments (run_id, idx, start, end) VALUES (?, ?, ?, ?)`,
			id, i, seg.Start, seg.End,
		); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// SegmentsForRun returns the censored segments recorded for a run, in plan
// order.
func (s *Store) SegmentsForRun(runID int64) ([]segment.Segment, error) {
	rows, err := s.db.Query(
		`SELECT start, end FROM run_segments WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var segments []segment.Segment
	for rows.Next() {
		var seg segment.Segment
		if err := rows.Scan(&seg.Start, &seg.End); err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

// RunCount returns the number of recorded runs.
func (s *Store) RunCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
