package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/trackd/trackd/internal/types"
)

// BulkUpdateStatus sets status on every given active issue in one
// transaction and returns the number of rows updated. When the new status is
// resolved, resolved_at is stamped to the current time for every affected
// row. This write is unconditional: it carries no version check, so it can
// interleave with a concurrent guarded update and overwrite its status.
// Callers pre-validate the id set; ids with no active row are simply not
// counted here.
func (s *SQLiteStorage) BulkUpdateStatus(ctx context.Context, ids []int64, status types.Status, actor types.Actor) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if !status.IsValid() {
		return 0, fmt.Errorf("invalid status: %s", status)
	}

	now := time.Now()
	inClause, inArgs := buildInClause(ids)

	setClause := "status = ?, updated_at = ?, updated_by = ?"
	args := []interface{}{status, now, nullableID(actor.Ref())}
	if status == types.StatusResolved {
		setClause += ", resolved_at = ?"
		args = append(args, now)
	}
	args = append(args, inArgs...)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE issues SET `+setClause+`
		WHERE is_deleted = 0 AND id IN `+inClause, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (issue_id, event_type, actor, new_value)
		SELECT id, ?, ?, ? FROM issues WHERE id = ? AND is_deleted = 0
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare event statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	newValue := fmt.Sprintf(`{"status":%q}`, status)
	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, types.EventBulkStatus, actor.Username, newValue, id); err != nil {
			return 0, fmt.Errorf("failed to record event for issue %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return int(affected), nil
}
