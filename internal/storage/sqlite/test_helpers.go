package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/trackd/trackd/internal/types"
)

// newTestStore creates a SQLiteStorage backed by a temp file database
func newTestStore(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "trackd.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return store
}

// mustUser registers a user or fails the test
func mustUser(t *testing.T, store *SQLiteStorage, username string) *types.User {
	t.Helper()

	user, err := store.CreateUser(context.Background(), username)
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

// mustLabel creates a catalog label or fails the test
func mustLabel(t *testing.T, store *SQLiteStorage, name string) *types.Label {
	t.Helper()

	label, err := store.CreateLabel(context.Background(), name)
	if err != nil {
		t.Fatalf("Failed to create label %s: %v", name, err)
	}
	return label
}

// mustIssue creates an issue or fails the test
func mustIssue(t *testing.T, store *SQLiteStorage, title string, labelIDs []int64) *types.Issue {
	t.Helper()

	issue := &types.Issue{Title: title, Description: "description of " + title, Status: types.StatusOpen}
	if _, err := store.CreateIssue(context.Background(), issue, labelIDs, types.Actor{}); err != nil {
		t.Fatalf("Failed to create issue %s: %v", title, err)
	}
	return issue
}
