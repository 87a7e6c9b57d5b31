// internal/output/sqlite.go
package output

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/valpere/StatHarvester/pkg/types"
)

// Archive keeps a history of scraping runs in a local SQLite database. Each
// run gets a row in `runs`; its records land in `records` as JSON documents
// with the provenance fields broken out for querying.
type Archive struct {
	db *sql.DB
}

const archiveSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	query TEXT NOT NULL,
	started_at DATETIME NOT NULL,
	duration_ms INTEGER NOT NULL,
	record_count INTEGER NOT NULL,
	table_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES runs(id),
	source_name TEXT,
	source_url TEXT,
	scrape_date TEXT,
	data TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id);
CREATE INDEX IF NOT EXISTS idx_records_source ON records(source_name);
`

// NewArchive opens or creates the archive database at path.
func NewArchive(path string) (*Archive, error) {
	if path == "" {
		return nil, fmt.Errorf("archive database path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping archive database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(archiveSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create archive schema: %w", err)
	}
	return &Archive{db: db}, nil
}

// Store persists one run and its records. The whole write is transactional:
// either the run and all its records land or nothing does.
func (a *Archive) Store(rs *types.ResultSet) error {
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO runs (query, started_at, duration_ms, record_count, table_count) VALUES (?, ?, ?, ?, ?)",
		rs.Query,
		rs.StartedAt.Format(time.RFC3339),
		rs.Duration.Milliseconds(),
		len(rs.Records),
		len(rs.Tables),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read run id: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO records (run_id, source_name, source_url, scrape_date, data) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range rs.Records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		if _, err := stmt.Exec(
			runID,
			rec[types.FieldSourceName],
			rec[types.FieldSourceURL],
			rec[types.FieldScrapeDate],
			string(data),
		); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	return tx.Commit()
}

// RunCount returns the number of archived runs.
func (a *Archive) RunCount() (int, error) {
	var n int
	if err := a.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return n, nil
}

// RecordCount returns the number of archived records across all runs.
func (a *Archive) RecordCount() (int, error) {
	var n int
	if err := a.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

// Close closes the archive database.
func (a *Archive) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}
