// Package trackd provides a minimal public API for embedding the tracker
// in other Go programs.
//
// Most integrations should use this package only to open the database and
// construct the mutation engine; everything else lives behind the tracker
// and storage interfaces.
package trackd

import (
	"os"
	"path/filepath"

	"github.com/trackd/trackd/internal/storage"
	"github.com/trackd/trackd/internal/storage/sqlite"
	"github.com/trackd/trackd/internal/tracker"
	"github.com/trackd/trackd/internal/types"
)

// Core types for working with issues
type (
	Issue       = types.Issue
	IssuePatch  = types.IssuePatch
	Label       = types.Label
	Comment     = types.Comment
	User        = types.User
	Actor       = types.Actor
	Status      = types.Status
	IssueFilter = types.IssueFilter
)

// Status constants
const (
	StatusOpen       = types.StatusOpen
	StatusInProgress = types.StatusInProgress
	StatusResolved   = types.StatusResolved
)

// ErrConflict is returned by guarded updates that lost the race
var ErrConflict = types.ErrConflict

// Storage is the backend interface the engine runs on
type Storage = storage.Storage

// Tracker is the mutation engine: validation, version guards, bulk
// transitions, and reports.
type Tracker = tracker.Tracker

// Open opens (or creates) a trackd SQLite database and returns the engine
// over it. Close the storage when done.
func Open(dbPath string) (*Tracker, Storage, error) {
	store, err := sqlite.New(dbPath)
	if err != nil {
		return nil, nil, err
	}
	return tracker.New(store), store, nil
}

// FindDatabasePath discovers the trackd database using the standard search
// order:
//  1. $TRACKD_DB environment variable
//  2. .trackd/issues.db in the current directory or an ancestor
//
// Returns empty string when neither yields a database.
func FindDatabasePath() string {
	if envDB := os.Getenv("TRACKD_DB"); envDB != "" {
		return envDB
	}

	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ".trackd", "issues.db")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
