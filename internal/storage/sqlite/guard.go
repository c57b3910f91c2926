package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/trackd/trackd/internal/types"
)

// Allowed fields for a guarded update, to prevent SQL injection and to keep
// the mutable column set explicit
var allowedUpdateFields = map[string]bool{
	"title":       true,
	"description": true,
	"status":      true,
	"assignee":    true,
}

// validateFieldUpdate rejects values that would violate column constraints
func validateFieldUpdate(key string, value interface{}) error {
	switch key {
	case "title":
		if title, ok := value.(string); ok {
			if strings.TrimSpace(title) == "" || len(title) > 255 {
				return fmt.Errorf("title must be 1-255 characters")
			}
		}
	case "description":
		if desc, ok := value.(string); ok {
			if strings.TrimSpace(desc) == "" {
				return fmt.Errorf("description cannot be empty")
			}
		}
	case "status":
		if status, ok := value.(string); ok {
			if !types.Status(status).IsValid() {
				return fmt.Errorf("invalid status: %s", status)
			}
		}
	}
	return nil
}

// UpdateIssueVersioned applies field changes to one issue with an optimistic
// version check. The whole operation is a single transaction:
//
//	UPDATE issues SET ..., version = version + 1
//	WHERE id = ? AND is_deleted = 0 AND version = ?
//
// Zero matched rows mean the issue is absent, tombstoned, or was modified
// concurrently; types.ErrConflict is returned and nothing is written. The
// two causes are deliberately not distinguished. When replaceLabels is
// non-nil, the label set swap rides in the same transaction, so labels never
// change without the version bump succeeding, and vice versa.
func (s *SQLiteStorage) UpdateIssueVersioned(ctx context.Context, id int64, expectedVersion int, updates map[string]interface{}, replaceLabels []int64, actor types.Actor) (int, error) {
	if expectedVersion < 1 {
		return 0, fmt.Errorf("expected version must be >= 1 (got %d)", expectedVersion)
	}

	now := time.Now()
	setClauses := []string{"updated_at = ?", "updated_by = ?", "version = version + 1"}
	args := []interface{}{now, nullableID(actor.Ref())}

	statusResolved := false
	for key, value := range updates {
		if !allowedUpdateFields[key] {
			return 0, fmt.Errorf("invalid field for update: %s", key)
		}
		if err := validateFieldUpdate(key, value); err != nil {
			return 0, err
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = ?", key))
		args = append(args, value)

		if key == "status" {
			if sv, ok := value.(string); ok && types.Status(sv) == types.StatusResolved {
				statusResolved = true
			}
			if sv, ok := value.(types.Status); ok && sv == types.StatusResolved {
				statusResolved = true
			}
		}
	}

	// First resolution wins; re-resolving keeps the original stamp
	if statusResolved {
		setClauses = append(setClauses, "resolved_at = COALESCE(resolved_at, ?)")
		args = append(args, now)
	}

	args = append(args, id, expectedVersion)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(
		"UPDATE issues SET %s WHERE id = ? AND is_deleted = 0 AND version = ?",
		strings.Join(setClauses, ", "),
	)
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update issue: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return 0, types.ErrConflict
	}

	if replaceLabels != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM issue_labels WHERE issue_id = ?`, id); err != nil {
			return 0, fmt.Errorf("failed to clear labels: %w", err)
		}
		for _, labelID := range replaceLabels {
			if _, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO issue_labels (issue_id, label_id) VALUES (?, ?)
			`, id, labelID); err != nil {
				return 0, fmt.Errorf("failed to attach label %d: %w", labelID, err)
			}
		}
	}

	eventType := types.EventUpdated
	if _, hasStatus := updates["status"]; hasStatus {
		eventType = types.EventStatusChanged
		if statusResolved {
			eventType = types.EventResolved
		}
	} else if len(updates) == 0 && replaceLabels != nil {
		eventType = types.EventLabelsChanged
	}

	newData, err := json.Marshal(updates)
	if err != nil {
		newData = []byte(`{}`)
	}
	if err := recordEvent(ctx, tx, id, eventType, actor.Username, nil, strptr(string(newData)), nil); err != nil {
		return 0, fmt.Errorf("failed to record event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return expectedVersion + 1, nil
}
