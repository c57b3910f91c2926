// Package sqlite implements the storage interface using SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	// Import SQLite driver
	_ "modernc.org/sqlite"
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
	closed atomic.Bool
}

// New creates a new SQLite storage backend
func New(path string) (*SQLiteStorage, error) {
	// Convert :memory: to shared memory URL for consistent behavior across
	// connections. SQLite creates separate in-memory databases for each
	// connection to ":memory:", but "file::memory:?cache=shared" creates a
	// shared in-memory database.
	dbPath := path
	if path == ":memory:" {
		dbPath = "file::memory:?cache=shared"
	}

	// Ensure directory exists (skip for memory databases)
	if !strings.Contains(dbPath, ":memory:") {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Open database with WAL mode for better concurrency and busy timeout
	// for parallel writes. foreign_keys(ON) enforces references, and
	// _time_format=sqlite parses DATETIME columns into time.Time.
	connStr := dbPath
	if strings.Contains(dbPath, "?") {
		connStr += "&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(30000)&_time_format=sqlite"
	} else {
		connStr += "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(30000)&_time_format=sqlite"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Migrate databases created before the audit trail existed
	if err := migrateEventsTable(db); err != nil {
		return nil, fmt.Errorf("failed to migrate events table: %w", err)
	}

	// Migrate databases created before resolution tracking existed
	if err := migrateResolvedAtColumn(db); err != nil {
		return nil, fmt.Errorf("failed to migrate resolved_at column: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: absPath,
	}, nil
}

// migrateEventsTable creates the events table if a pre-audit-trail database
// is missing it. Idempotent.
func migrateEventsTable(db *sql.DB) error {
	var name string
	err := db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='events'
	`).Scan(&name)

	if err == sql.ErrNoRows {
		_, err := db.Exec(`
			CREATE TABLE events (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				issue_id INTEGER NOT NULL,
				event_type TEXT NOT NULL,
				actor TEXT NOT NULL DEFAULT '',
				old_value TEXT,
				new_value TEXT,
				comment TEXT,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (issue_id) REFERENCES issues(id) ON DELETE CASCADE
			);
			CREATE INDEX idx_events_issue ON events(issue_id);
			CREATE INDEX idx_events_created_at ON events(created_at);
		`)
		if err != nil {
			return fmt.Errorf("failed to create events table: %w", err)
		}
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to check for events table: %w", err)
	}

	return nil
}

// migrateResolvedAtColumn adds the resolved_at column if missing and
// backfills it for already-resolved issues. Idempotent.
func migrateResolvedAtColumn(db *sql.DB) error {
	var columnExists bool
	err := db.QueryRow(`
		SELECT COUNT(*) > 0
		FROM pragma_table_info('issues')
		WHERE name = 'resolved_at'
	`).Scan(&columnExists)
	if err != nil {
		return fmt.Errorf("failed to check resolved_at column: %w", err)
	}

	if columnExists {
		return nil
	}

	if _, err := db.Exec(`ALTER TABLE issues ADD COLUMN resolved_at DATETIME`); err != nil {
		return fmt.Errorf("failed to add resolved_at column: %w", err)
	}

	// Best guess for rows resolved before the column existed
	_, err = db.Exec(`
		UPDATE issues
		SET resolved_at = COALESCE(updated_at, CURRENT_TIMESTAMP)
		WHERE status = 'resolved' AND resolved_at IS NULL
	`)
	if err != nil {
		return fmt.Errorf("failed to backfill resolved_at: %w", err)
	}

	return nil
}

// SetMetadata stores an internal key/value pair
func (s *SQLiteStorage) SetMetadata(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata %s: %w", key, err)
	}
	return nil
}

// GetMetadata retrieves an internal value; missing keys yield ""
func (s *SQLiteStorage) GetMetadata(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata %s: %w", key, err)
	}
	return value, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	s.closed.Store(true)
	return s.db.Close()
}

// Path returns the absolute path to the database file
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// IsClosed returns true if Close() has been called on this storage
func (s *SQLiteStorage) IsClosed() bool {
	return s.closed.Load()
}

// UnderlyingDB returns the underlying *sql.DB connection
func (s *SQLiteStorage) UnderlyingDB() *sql.DB {
	return s.db
}
