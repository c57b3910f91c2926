package sqlite

import (
	"context"
	"testing"

	"github.com/trackd/trackd/internal/types"
)

func TestComments(t *testing.T) {
	ctx := context.Background()

	t.Run("add and list newest first", func(t *testing.T) {
		s := newTestStore(t)
		alice := mustUser(t, s, "alice")
		issue := mustIssue(t, s, "Discussed", nil)
		actor := types.Actor{UserID: alice.ID, Username: "alice"}

		first, err := s.AddComment(ctx, issue.ID, "first note", actor)
		if err != nil {
			t.Fatal(err)
		}
		if first.Author == nil || *first.Author != alice.ID {
			t.Errorf("author = %v, want %d", first.Author, alice.ID)
		}
		if _, err := s.AddComment(ctx, issue.ID, "second note", actor); err != nil {
			t.Fatal(err)
		}

		comments, err := s.GetComments(ctx, issue.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(comments) != 2 {
			t.Fatalf("want 2 comments, got %d", len(comments))
		}
		if comments[0].Comment != "second note" {
			t.Errorf("newest first expected, got %q", comments[0].Comment)
		}
	})

	t.Run("rejects empty text", func(t *testing.T) {
		s := newTestStore(t)
		issue := mustIssue(t, s, "Silent", nil)
		if _, err := s.AddComment(ctx, issue.ID, "   ", types.Actor{}); err == nil {
			t.Error("expected error for blank comment")
		}
	})

	t.Run("rejects unknown issue", func(t *testing.T) {
		s := newTestStore(t)
		if _, err := s.AddComment(ctx, 404, "hello", types.Actor{}); err == nil {
			t.Error("expected error for missing issue")
		}
	})

	t.Run("soft-deleted comment disappears from reads", func(t *testing.T) {
		s := newTestStore(t)
		issue := mustIssue(t, s, "Moderated", nil)
		c, err := s.AddComment(ctx, issue.ID, "remove me", types.Actor{})
		if err != nil {
			t.Fatal(err)
		}

		if err := s.DeleteComment(ctx, c.ID); err != nil {
			t.Fatal(err)
		}
		comments, err := s.GetComments(ctx, issue.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(comments) != 0 {
			t.Errorf("want no comments, got %d", len(comments))
		}

		if err := s.DeleteComment(ctx, c.ID); err == nil {
			t.Error("double delete should report not found")
		}
	})
}

func TestUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("create and look up", func(t *testing.T) {
		s := newTestStore(t)
		alice := mustUser(t, s, "Alice")

		got, err := s.GetUserByName(ctx, "alice")
		if err != nil {
			t.Fatal(err)
		}
		if got == nil || got.ID != alice.ID {
			t.Errorf("case-insensitive lookup failed: %v", got)
		}
		if !got.IsActive {
			t.Error("new user should be active")
		}
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		s := newTestStore(t)
		mustUser(t, s, "bob")
		if _, err := s.CreateUser(ctx, "BOB"); err == nil {
			t.Error("duplicate username should fail")
		}
	})

	t.Run("deactivated user stops resolving", func(t *testing.T) {
		s := newTestStore(t)
		carol := mustUser(t, s, "carol")

		active, err := s.UserActive(ctx, carol.ID)
		if err != nil {
			t.Fatal(err)
		}
		if !active {
			t.Fatal("expected active user")
		}

		if err := s.DeactivateUser(ctx, carol.ID); err != nil {
			t.Fatal(err)
		}
		active, err = s.UserActive(ctx, carol.ID)
		if err != nil {
			t.Fatal(err)
		}
		if active {
			t.Error("deactivated user should not count")
		}

		got, err := s.GetUserByName(ctx, "carol")
		if err != nil {
			t.Fatal(err)
		}
		if got != nil {
			t.Error("deactivated user should not resolve by name")
		}

		byName, err := s.ActiveUsersByName(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := byName["carol"]; ok {
			t.Error("deactivated user must not appear in active map")
		}
	})
}
