package trackd_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/trackd/trackd"
)

func TestOpenAndGuardedUpdate(t *testing.T) {
	trk, store, err := trackd.Open(filepath.Join(t.TempDir(), "issues.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	issue, err := trk.CreateIssue(ctx, &trackd.Issue{
		Title:       "Embedded use",
		Description: "created through the public API",
	}, nil, trackd.Actor{})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	status := trackd.StatusResolved
	updated, err := trk.UpdateIssue(ctx, issue.ID, issue.Version, trackd.IssuePatch{Status: &status}, trackd.Actor{})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Version != issue.Version+1 {
		t.Errorf("version = %d, want %d", updated.Version, issue.Version+1)
	}

	// Stale guard surfaces the public conflict error
	_, err = trk.UpdateIssue(ctx, issue.ID, issue.Version, trackd.IssuePatch{Status: &status}, trackd.Actor{})
	if !errors.Is(err, trackd.ErrConflict) {
		t.Errorf("want ErrConflict, got %v", err)
	}
}

func TestFindDatabasePath(t *testing.T) {
	t.Run("env var wins", func(t *testing.T) {
		t.Setenv("TRACKD_DB", "/tmp/override.db")
		if got := trackd.FindDatabasePath(); got != "/tmp/override.db" {
			t.Errorf("FindDatabasePath() = %q", got)
		}
	})

	t.Run("walks up to project database", func(t *testing.T) {
		t.Setenv("TRACKD_DB", "")
		root := t.TempDir()
		dbPath := filepath.Join(root, ".trackd", "issues.db")
		if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(dbPath, nil, 0600); err != nil {
			t.Fatal(err)
		}
		sub := filepath.Join(root, "a", "b")
		if err := os.MkdirAll(sub, 0750); err != nil {
			t.Fatal(err)
		}

		origDir, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		defer os.Chdir(origDir)
		if err := os.Chdir(sub); err != nil {
			t.Fatal(err)
		}

		got := trackd.FindDatabasePath()
		// TempDir may traverse symlinks; compare the suffix
		if filepath.Base(got) != "issues.db" || got == "" {
			t.Errorf("FindDatabasePath() = %q, want the project database", got)
		}
	})
}
