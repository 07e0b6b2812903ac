// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists a conversion ledger: one row per pipeline run per
// file, in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/driveconv/pkg/types"
)

// Store manages the ledger database. It implements pipeline.Recorder.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the ledger database at cfg.DBPath, creating the
// schema when absent.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			output TEXT,
			remote_id TEXT,
			state TEXT NOT NULL,
			error TEXT,
			finished_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_finished_at ON runs(finished_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends one finished run to the ledger.
func (s *Store) Record(ctx context.Context, rec types.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (source, output, remote_id, state, error, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Source, rec.Output, rec.RemoteID, string(rec.State), rec.Error,
		rec.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first. limit <= 0 falls back to
// the configured maximum.
func (s *Store) List(ctx context.Context, limit int) ([]types.Record, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT source, output, remote_id, state, error, finished_at
		 FROM runs ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var recs []types.Record
	for rows.Next() {
		var rec types.Record
		var state, finishedAt string
		if err := rows.Scan(&rec.Source, &rec.Output, &rec.RemoteID, &state, &rec.Error, &finishedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rec.State = types.JobState(state)
		if t, perr := time.Parse(time.RFC3339Nano, finishedAt); perr == nil {
			rec.FinishedAt = t
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// WriteYAML marshals records to w as a YAML document list.
func WriteYAML(w io.Writer, recs []types.Record) error {
	data, err := yaml.Marshal(recs)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteTable prints records as aligned columns, one run per line.
func WriteTable(w io.Writer, recs []types.Record) {
	for _, rec := range recs {
		line := fmt.Sprintf("%s  %-8s %s", rec.FinishedAt.Format(time.RFC3339), rec.State, rec.Source)
		if rec.Error != "" {
			line += " (" + rec.Error + ")"
		}
		fmt.Fprintln(w, line)
	}
}
