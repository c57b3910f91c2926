package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/trackd/trackd/internal/types"
)

const commentColumns = `id, issue_id, author, comment, created_at, updated_at, is_deleted`

func scanComment(scan func(dest ...interface{}) error) (*types.Comment, error) {
	var c types.Comment
	var author sql.NullInt64
	err := scan(&c.ID, &c.IssueID, &author, &c.Comment, &c.CreatedAt, &c.UpdatedAt, &c.IsDeleted)
	if err != nil {
		return nil, err
	}
	if author.Valid {
		c.Author = &author.Int64
	}
	return &c, nil
}

// AddComment attaches a comment to an active issue
func (s *SQLiteStorage) AddComment(ctx context.Context, issueID int64, text string, actor types.Actor) (*types.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("comment text is required")
	}

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM active_issues WHERE id = ?)
	`, issueID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check issue existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("issue %d not found", issueID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO comments (issue_id, author, comment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, issueID, nullableID(actor.Ref()), text, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}
	commentID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get comment id: %w", err)
	}

	if err := recordEvent(ctx, tx, issueID, types.EventCommented, actor.Username, nil, nil, strptr(text)); err != nil {
		return nil, fmt.Errorf("failed to record event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+commentColumns+` FROM comments WHERE id = ?
	`, commentID)
	comment, err := scanComment(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comment: %w", err)
	}
	return comment, nil
}

// GetComments returns active comments for an issue, newest first
func (s *SQLiteStorage) GetComments(ctx context.Context, issueID int64) ([]*types.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+commentColumns+`
		FROM active_comments
		WHERE issue_id = ?
		ORDER BY id DESC
	`, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var comments []*types.Comment
	for rows.Next() {
		comment, err := scanComment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return comments, nil
}

// DeleteComment tombstones an active comment
func (s *SQLiteStorage) DeleteComment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE comments SET is_deleted = 1, updated_at = ?
		WHERE id = ? AND is_deleted = 0
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("comment %d not found", id)
	}
	return nil
}
