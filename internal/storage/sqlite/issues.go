package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/trackd/trackd/internal/types"
)

// prepareIssues validates all issues in a batch and fills in store-managed
// fields (timestamps, initial version, resolved_at for pre-resolved rows)
func prepareIssues(issues []*types.Issue) error {
	now := time.Now()
	for i, issue := range issues {
		if issue == nil {
			return fmt.Errorf("issue %d is nil", i)
		}

		if issue.Status == "" {
			issue.Status = types.StatusOpen
		}
		if issue.CreatedAt.IsZero() {
			issue.CreatedAt = now
		}
		if issue.UpdatedAt.IsZero() {
			issue.UpdatedAt = now
		}
		if issue.Version == 0 {
			issue.Version = 1
		}
		if issue.Status == types.StatusResolved && issue.ResolvedAt == nil {
			t := now
			issue.ResolvedAt = &t
		}

		if err := issue.Validate(); err != nil {
			return fmt.Errorf("validation failed for issue %d: %w", i, err)
		}
	}
	return nil
}

// CreateIssue creates a single issue, attaching the given label ids in the
// same transaction. Label and assignee references must already be validated.
func (s *SQLiteStorage) CreateIssue(ctx context.Context, issue *types.Issue, labelIDs []int64, actor types.Actor) (int64, error) {
	ids, err := s.CreateIssues(ctx, []*types.Issue{issue}, [][]int64{labelIDs}, actor)
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// CreateIssues creates multiple issues atomically in a single transaction.
// labelIDs is parallel to issues; entry i is attached to issue i. All issues
// are validated before any database change occurs, and the whole batch rolls
// back on any error. Returns the generated ids in input order.
func (s *SQLiteStorage) CreateIssues(ctx context.Context, issues []*types.Issue, labelIDs [][]int64, actor types.Actor) ([]int64, error) {
	if len(issues) == 0 {
		return nil, nil
	}
	if labelIDs != nil && len(labelIDs) != len(issues) {
		return nil, fmt.Errorf("labelIDs length %d does not match issues length %d", len(labelIDs), len(issues))
	}

	if err := prepareIssues(issues); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO issues (
			title, description, status, assignee, created_by, updated_by,
			created_at, updated_at, resolved_at, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	ids := make([]int64, 0, len(issues))
	for i, issue := range issues {
		res, err := stmt.ExecContext(ctx,
			issue.Title, issue.Description, issue.Status,
			nullableID(issue.Assignee), nullableID(actor.Ref()), nullableID(actor.Ref()),
			issue.CreatedAt, issue.UpdatedAt, issue.ResolvedAt, issue.Version,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert issue %d: %w", i, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to get issue id: %w", err)
		}
		issue.ID = id
		ids = append(ids, id)
	}

	if labelIDs != nil {
		labelStmt, err := tx.PrepareContext(ctx, `
			INSERT OR IGNORE INTO issue_labels (issue_id, label_id) VALUES (?, ?)
		`)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare label statement: %w", err)
		}
		defer func() { _ = labelStmt.Close() }()

		for i, labels := range labelIDs {
			for _, labelID := range labels {
				if _, err := labelStmt.ExecContext(ctx, ids[i], labelID); err != nil {
					return nil, fmt.Errorf("failed to attach label %d to issue %d: %w", labelID, ids[i], err)
				}
			}
		}
	}

	for _, issue := range issues {
		eventData, err := json.Marshal(issue)
		if err != nil {
			eventData = []byte(fmt.Sprintf(`{"id":%d,"title":%q}`, issue.ID, issue.Title))
		}
		if err := recordEvent(ctx, tx, issue.ID, types.EventCreated, actor.Username, nil, strptr(string(eventData)), nil); err != nil {
			return nil, fmt.Errorf("failed to record event for issue %d: %w", issue.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return ids, nil
}

const issueColumns = `id, title, description, status, assignee, created_by, updated_by,
       created_at, updated_at, resolved_at, is_deleted, version`

// scanIssue reads one issue row from a row scanner
func scanIssue(scan func(dest ...interface{}) error) (*types.Issue, error) {
	var issue types.Issue
	var assignee, createdBy, updatedBy sql.NullInt64
	var resolvedAt sql.NullTime

	err := scan(
		&issue.ID, &issue.Title, &issue.Description, &issue.Status,
		&assignee, &createdBy, &updatedBy,
		&issue.CreatedAt, &issue.UpdatedAt, &resolvedAt,
		&issue.IsDeleted, &issue.Version,
	)
	if err != nil {
		return nil, err
	}

	if assignee.Valid {
		issue.Assignee = &assignee.Int64
	}
	if createdBy.Valid {
		issue.CreatedBy = &createdBy.Int64
	}
	if updatedBy.Valid {
		issue.UpdatedBy = &updatedBy.Int64
	}
	if resolvedAt.Valid {
		issue.ResolvedAt = &resolvedAt.Time
	}
	return &issue, nil
}

// GetIssue returns an active issue with its labels, or nil if not found
func (s *SQLiteStorage) GetIssue(ctx context.Context, id int64) (*types.Issue, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+issueColumns+`
		FROM active_issues
		WHERE id = ?
	`, id)

	issue, err := scanIssue(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}

	labels, err := s.GetIssueLabels(ctx, issue.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get labels: %w", err)
	}
	issue.Labels = labels

	return issue, nil
}

// SearchIssues returns active issues matching the filter, newest first
func (s *SQLiteStorage) SearchIssues(ctx context.Context, filter types.IssueFilter) ([]*types.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM active_issues WHERE 1=1`
	var args []interface{}

	if filter.ID != nil {
		query += ` AND id = ?`
		args = append(args, *filter.ID)
	}
	if filter.Keyword != "" {
		query += ` AND (title LIKE ? OR description LIKE ?)`
		kw := "%" + filter.Keyword + "%"
		args = append(args, kw, kw)
	}
	if filter.Status != nil {
		query += ` AND status = ?`
		args = append(args, *filter.Status)
	}
	if filter.Assignee != nil {
		query += ` AND assignee = ?`
		args = append(args, *filter.Assignee)
	}
	if filter.Label != "" {
		query += ` AND id IN (
			SELECT il.issue_id FROM issue_labels il
			JOIN active_labels l ON l.id = il.label_id
			WHERE l.name = ? COLLATE NOCASE
		)`
		args = append(args, strings.TrimSpace(filter.Label))
	}

	query += ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var issues []*types.Issue
	for rows.Next() {
		issue, err := scanIssue(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating issues: %w", err)
	}

	return issues, nil
}

// DeleteIssue tombstones an active issue. The row stays in place; every
// read, existence check, and mutation stops seeing it.
func (s *SQLiteStorage) DeleteIssue(ctx context.Context, id int64, actor types.Actor) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE issues
		SET is_deleted = 1, updated_at = ?, updated_by = ?
		WHERE id = ? AND is_deleted = 0
	`, time.Now(), nullableID(actor.Ref()), id)
	if err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("issue %d not found", id)
	}

	if err := recordEvent(ctx, tx, id, types.EventDeleted, actor.Username, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	return tx.Commit()
}

// MissingIssueIDs returns the subset of ids with no active issue row,
// preserving input order and dropping duplicates
func (s *SQLiteStorage) MissingIssueIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	inClause, args := buildInClause(ids)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM active_issues WHERE id IN `+inClause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to check issue ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	existing := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan issue id: %w", err)
		}
		existing[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating issue ids: %w", err)
	}

	var missing []int64
	seen := make(map[int64]bool)
	for _, id := range ids {
		if !existing[id] && !seen[id] {
			missing = append(missing, id)
			seen[id] = true
		}
	}
	return missing, nil
}

// GetEvents returns the audit trail for an issue, newest first
func (s *SQLiteStorage) GetEvents(ctx context.Context, issueID int64, limit int) ([]*types.Event, error) {
	query := `
		SELECT id, issue_id, event_type, actor, old_value, new_value, comment, created_at
		FROM events
		WHERE issue_id = ?
		ORDER BY id DESC`
	args := []interface{}{issueID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []*types.Event
	for rows.Next() {
		var ev types.Event
		var oldValue, newValue, comment sql.NullString
		if err := rows.Scan(&ev.ID, &ev.IssueID, &ev.EventType, &ev.Actor, &oldValue, &newValue, &comment, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if oldValue.Valid {
			ev.OldValue = &oldValue.String
		}
		if newValue.Valid {
			ev.NewValue = &newValue.String
		}
		if comment.Valid {
			ev.Comment = &comment.String
		}
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}
