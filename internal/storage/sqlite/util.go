package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/trackd/trackd/internal/types"
)

// execer covers *sql.DB, *sql.Tx, and *sql.Conn
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// buildInClause builds an "IN (?, ?, ...)" fragment and its args
func buildInClause(ids []int64) (string, []interface{}) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return "(" + strings.Join(placeholders, ", ") + ")", args
}

// nullableID converts an optional user reference for binding
func nullableID(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

// recordEvent appends an audit trail entry inside the caller's transaction
func recordEvent(ctx context.Context, e execer, issueID int64, eventType types.EventType, actor string, oldValue, newValue, comment *string) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO events (issue_id, event_type, actor, old_value, new_value, comment)
		VALUES (?, ?, ?, ?, ?, ?)
	`, issueID, eventType, actor, oldValue, newValue, comment)
	return err
}

// strptr is a shorthand for event payload fields
func strptr(s string) *string {
	return &s
}
