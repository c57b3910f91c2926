package tracker

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/trackd/trackd/internal/storage/sqlite"
	"github.com/trackd/trackd/internal/types"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "trackd.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return New(store)
}

func mustIssue(t *testing.T, tr *Tracker, title string, labelIDs []int64) *types.Issue {
	t.Helper()

	issue, err := tr.CreateIssue(context.Background(), &types.Issue{
		Title:       title,
		Description: "description of " + title,
	}, labelIDs, types.Actor{})
	if err != nil {
		t.Fatalf("Failed to create issue %s: %v", title, err)
	}
	return issue
}

func mustLabel(t *testing.T, tr *Tracker, name string) *types.Label {
	t.Helper()

	label, err := tr.CreateLabel(context.Background(), name)
	if err != nil {
		t.Fatalf("Failed to create label %s: %v", name, err)
	}
	return label
}

func mustUser(t *testing.T, tr *Tracker, username string) *types.User {
	t.Helper()

	user, err := tr.CreateUser(context.Background(), username)
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

func strptr(s string) *string { return &s }

func isValidation(err error) *types.ValidationError {
	var ve *types.ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

func TestCreateIssue(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults status to open", func(t *testing.T) {
		tr := newTestTracker(t)
		issue, err := tr.CreateIssue(ctx, &types.Issue{Title: "Plain", Description: "d"}, nil, types.Actor{})
		if err != nil {
			t.Fatal(err)
		}
		if issue.Status != types.StatusOpen {
			t.Errorf("status = %s, want open", issue.Status)
		}
		if issue.Version != 1 {
			t.Errorf("version = %d, want 1", issue.Version)
		}
	})

	t.Run("rejects missing labels with full list", func(t *testing.T) {
		tr := newTestTracker(t)
		bug := mustLabel(t, tr, "bug")

		_, err := tr.CreateIssue(ctx, &types.Issue{Title: "Labeled", Description: "d"}, []int64{bug.ID, 404, 405}, types.Actor{})
		ve := isValidation(err)
		if ve == nil {
			t.Fatalf("want ValidationError, got %v", err)
		}
		if len(ve.MissingLabels) != 2 || ve.MissingLabels[0] != 404 || ve.MissingLabels[1] != 405 {
			t.Errorf("missing labels = %v, want [404 405]", ve.MissingLabels)
		}
	})

	t.Run("rejects unknown assignee", func(t *testing.T) {
		tr := newTestTracker(t)
		ghost := int64(77)
		_, err := tr.CreateIssue(ctx, &types.Issue{Title: "Assigned", Description: "d", Assignee: &ghost}, nil, types.Actor{})
		if isValidation(err) == nil {
			t.Fatalf("want ValidationError, got %v", err)
		}
	})

	t.Run("rejects deactivated assignee", func(t *testing.T) {
		tr := newTestTracker(t)
		u := mustUser(t, tr, "leaver")
		if err := tr.DeactivateUser(ctx, u.ID); err != nil {
			t.Fatal(err)
		}
		_, err := tr.CreateIssue(ctx, &types.Issue{Title: "Assigned", Description: "d", Assignee: &u.ID}, nil, types.Actor{})
		if isValidation(err) == nil {
			t.Fatalf("want ValidationError, got %v", err)
		}
	})
}

func TestUpdateIssue(t *testing.T) {
	ctx := context.Background()

	t.Run("applies patch and bumps version", func(t *testing.T) {
		tr := newTestTracker(t)
		issue := mustIssue(t, tr, "Original", nil)

		status := types.StatusInProgress
		updated, err := tr.UpdateIssue(ctx, issue.ID, 1, types.IssuePatch{
			Title:  strptr("Renamed"),
			Status: &status,
		}, types.Actor{})
		if err != nil {
			t.Fatal(err)
		}
		if updated.Title != "Renamed" || updated.Status != types.StatusInProgress {
			t.Errorf("patch not applied: %+v", updated)
		}
		if updated.Version != 2 {
			t.Errorf("version = %d, want 2", updated.Version)
		}
	})

	t.Run("stale version surfaces conflict", func(t *testing.T) {
		tr := newTestTracker(t)
		issue := mustIssue(t, tr, "Contended", nil)

		if _, err := tr.UpdateIssue(ctx, issue.ID, 1, types.IssuePatch{Title: strptr("First")}, types.Actor{}); err != nil {
			t.Fatal(err)
		}
		_, err := tr.UpdateIssue(ctx, issue.ID, 1, types.IssuePatch{Title: strptr("Second")}, types.Actor{})
		if !errors.Is(err, types.ErrConflict) {
			t.Fatalf("want ErrConflict, got %v", err)
		}

		got, _ := tr.GetIssue(ctx, issue.ID)
		if got.Title != "First" {
			t.Errorf("losing update leaked through: %q", got.Title)
		}
	})

	t.Run("empty patch is rejected", func(t *testing.T) {
		tr := newTestTracker(t)
		issue := mustIssue(t, tr, "Untouched", nil)

		_, err := tr.UpdateIssue(ctx, issue.ID, 1, types.IssuePatch{}, types.Actor{})
		if isValidation(err) == nil {
			t.Fatalf("want ValidationError, got %v", err)
		}
	})

	t.Run("invalid references rejected before any write", func(t *testing.T) {
		tr := newTestTracker(t)
		issue := mustIssue(t, tr, "Checked", nil)

		_, err := tr.UpdateIssue(ctx, issue.ID, 1, types.IssuePatch{
			Labels:    []int64{999},
			HasLabels: true,
		}, types.Actor{})
		ve := isValidation(err)
		if ve == nil || len(ve.MissingLabels) != 1 {
			t.Fatalf("want missing-label ValidationError, got %v", err)
		}

		got, _ := tr.GetIssue(ctx, issue.ID)
		if got.Version != 1 {
			t.Errorf("rejected update must not bump version, got %d", got.Version)
		}
	})

	t.Run("clearing assignee", func(t *testing.T) {
		tr := newTestTracker(t)
		u := mustUser(t, tr, "alice")
		issue, err := tr.CreateIssue(ctx, &types.Issue{Title: "Owned", Description: "d", Assignee: &u.ID}, nil, types.Actor{})
		if err != nil {
			t.Fatal(err)
		}

		updated, err := tr.UpdateIssue(ctx, issue.ID, 1, types.IssuePatch{ClearAssignee: true}, types.Actor{})
		if err != nil {
			t.Fatal(err)
		}
		if updated.Assignee != nil {
			t.Errorf("assignee = %v, want nil", updated.Assignee)
		}
	})

	t.Run("clearing labels with empty set", func(t *testing.T) {
		tr := newTestTracker(t)
		bug := mustLabel(t, tr, "bug")
		issue := mustIssue(t, tr, "Labeled", []int64{bug.ID})

		updated, err := tr.UpdateIssue(ctx, issue.ID, 1, types.IssuePatch{Labels: []int64{}, HasLabels: true}, types.Actor{})
		if err != nil {
			t.Fatal(err)
		}
		if len(updated.Labels) != 0 {
			t.Errorf("labels = %v, want empty", updated.Labels)
		}
		if updated.Version != 2 {
			t.Errorf("label-only change must bump version, got %d", updated.Version)
		}
	})

	t.Run("rejects zero expected version", func(t *testing.T) {
		tr := newTestTracker(t)
		issue := mustIssue(t, tr, "Versioned", nil)
		_, err := tr.UpdateIssue(ctx, issue.ID, 0, types.IssuePatch{Title: strptr("x")}, types.Actor{})
		if isValidation(err) == nil {
			t.Fatalf("want ValidationError, got %v", err)
		}
	})
}

func TestBulkStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("transitions all issues", func(t *testing.T) {
		tr := newTestTracker(t)
		a := mustIssue(t, tr, "A", nil)
		b := mustIssue(t, tr, "B", nil)

		count, err := tr.BulkStatus(ctx, []int64{a.ID, b.ID}, types.StatusResolved, types.Actor{})
		if err != nil {
			t.Fatal(err)
		}
		if count != 2 {
			t.Errorf("count = %d, want 2", count)
		}
		got, _ := tr.GetIssue(ctx, a.ID)
		if got.Status != types.StatusResolved || got.ResolvedAt == nil {
			t.Errorf("bulk resolve incomplete: %+v", got)
		}
	})

	t.Run("any missing id rejects the whole batch", func(t *testing.T) {
		tr := newTestTracker(t)
		a := mustIssue(t, tr, "Kept", nil)
		gone := mustIssue(t, tr, "Gone", nil)
		if err := tr.DeleteIssue(ctx, gone.ID, types.Actor{}); err != nil {
			t.Fatal(err)
		}

		_, err := tr.BulkStatus(ctx, []int64{a.ID, gone.ID, 999}, types.StatusResolved, types.Actor{})
		ve := isValidation(err)
		if ve == nil {
			t.Fatalf("want ValidationError, got %v", err)
		}
		if len(ve.MissingIssues) != 2 {
			t.Errorf("missing = %v, want both bad ids", ve.MissingIssues)
		}

		got, _ := tr.GetIssue(ctx, a.ID)
		if got.Status != types.StatusOpen {
			t.Errorf("valid issue must be untouched on rejection, got %s", got.Status)
		}
	})

	t.Run("empty id set is rejected", func(t *testing.T) {
		tr := newTestTracker(t)
		if _, err := tr.BulkStatus(ctx, nil, types.StatusOpen, types.Actor{}); isValidation(err) == nil {
			t.Fatal("want ValidationError for empty ids")
		}
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		tr := newTestTracker(t)
		issue := mustIssue(t, tr, "Typo", nil)
		if _, err := tr.BulkStatus(ctx, []int64{issue.ID}, "closed", types.Actor{}); isValidation(err) == nil {
			t.Fatal("want ValidationError for invalid status")
		}
	})
}

func TestReports(t *testing.T) {
	ctx := context.Background()

	t.Run("latency rounds to two decimals", func(t *testing.T) {
		tr := newTestTracker(t)
		issue := mustIssue(t, tr, "Quick", nil)
		status := types.StatusResolved
		if _, err := tr.UpdateIssue(ctx, issue.ID, 1, types.IssuePatch{Status: &status}, types.Actor{}); err != nil {
			t.Fatal(err)
		}

		avg, err := tr.AverageResolutionMinutes(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if avg == nil {
			t.Fatal("want an average")
		}
		if *avg != math.Round(*avg*100)/100 {
			t.Errorf("average %v not rounded to 2 decimals", *avg)
		}
	})

	t.Run("latency is nil with nothing resolved", func(t *testing.T) {
		tr := newTestTracker(t)
		mustIssue(t, tr, "Open forever", nil)

		avg, err := tr.AverageResolutionMinutes(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if avg != nil {
			t.Errorf("want nil, got %v", *avg)
		}
	})

	t.Run("top assignees defaults to ten", func(t *testing.T) {
		tr := newTestTracker(t)
		for i := 0; i < 12; i++ {
			u := mustUser(t, tr, string(rune('a'+i))+"user")
			if _, err := tr.CreateIssue(ctx, &types.Issue{Title: "T", Description: "d", Assignee: &u.ID}, nil, types.Actor{}); err != nil {
				t.Fatal(err)
			}
		}
		counts, err := tr.TopAssignees(ctx, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(counts) != DefaultTopAssignees {
			t.Errorf("want %d rows, got %d", DefaultTopAssignees, len(counts))
		}
	})
}

func TestLabelCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate name rejected", func(t *testing.T) {
		tr := newTestTracker(t)
		mustLabel(t, tr, "bug")
		if _, err := tr.CreateLabel(ctx, "BUG"); isValidation(err) == nil {
			t.Fatal("want ValidationError for duplicate name")
		}
	})

	t.Run("deleted label reserves its name", func(t *testing.T) {
		tr := newTestTracker(t)
		old := mustLabel(t, tr, "legacy")
		if err := tr.DeleteLabel(ctx, old.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := tr.CreateLabel(ctx, "legacy"); isValidation(err) == nil {
			t.Fatal("want ValidationError, name still reserved")
		}
	})

	t.Run("rename collision rejected, self-rename allowed", func(t *testing.T) {
		tr := newTestTracker(t)
		bug := mustLabel(t, tr, "bug")
		mustLabel(t, tr, "ui")

		if _, err := tr.RenameLabel(ctx, bug.ID, "UI"); isValidation(err) == nil {
			t.Fatal("want ValidationError for colliding rename")
		}
		if _, err := tr.RenameLabel(ctx, bug.ID, "BUG"); err != nil {
			t.Fatalf("self-rename should pass, got %v", err)
		}
	})
}

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	alice := mustUser(t, tr, "alice")
	if _, err := tr.CreateUser(ctx, "ALICE"); isValidation(err) == nil {
		t.Fatal("want ValidationError for duplicate username")
	}

	resolved, err := tr.ResolveUser(ctx, "Alice")
	if err != nil {
		t.Fatal(err)
	}
	if resolved.ID != alice.ID {
		t.Errorf("resolved wrong user: %+v", resolved)
	}

	if _, err := tr.ResolveUser(ctx, "nobody"); isValidation(err) == nil {
		t.Fatal("want ValidationError for unknown user")
	}
}
