// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Ledger records which source files have been processed, keyed by path
// and modification time, so batch runs skip unchanged documents.
type Ledger struct {
	db *sql.DB
}

// OpenLedger opens or creates the SQLite ledger at path, creating the
// schema if needed.
func OpenLedger(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS processed (
		source_path TEXT PRIMARY KEY,
		file_mod_time TEXT NOT NULL,
		note_id TEXT,
		status TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Changed reports whether sourcePath is new or has a different
// modification time than the one recorded at its last processing.
func (l *Ledger) Changed(sourcePath string, modTime time.Time) (bool, error) {
	var stored string
	err := l.db.QueryRow(
		`SELECT file_mod_time FROM processed WHERE source_path = ?`, sourcePath,
	).Scan(&stored)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying ledger: %w", err)
	}
	return stored != modTime.UTC().Format(time.RFC3339Nano), nil
}

// Record upserts the processing outcome for sourcePath.
func (l *Ledger) Record(sourcePath string, modTime time.Time, noteID, status string) error {
	_, err := l.db.Exec(
		`INSERT INTO processed (source_path, file_mod_time, note_id, status)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(source_path) DO UPDATE SET
			file_mod_time=excluded.file_mod_time,
			note_id=excluded.note_id,
			status=excluded.status`,
		sourcePath, modTime.UTC().Format(time.RFC3339Nano), noteID, status,
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", sourcePath, err)
	}
	return nil
}
