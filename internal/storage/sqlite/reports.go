package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/trackd/trackd/internal/types"
)

// TopAssignees groups active issues with an assignee by assignee and counts
// them, most-loaded first. Ties break on ascending assignee id so the
// ordering is deterministic.
func (s *SQLiteStorage) TopAssignees(ctx context.Context, limit int) ([]types.AssigneeCount, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT i.assignee, u.username, COUNT(*) AS issue_count
		FROM active_issues i
		JOIN users u ON u.id = i.assignee
		WHERE i.assignee IS NOT NULL
		GROUP BY i.assignee
		ORDER BY issue_count DESC, i.assignee ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top assignees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []types.AssigneeCount
	for rows.Next() {
		var ac types.AssigneeCount
		if err := rows.Scan(&ac.AssigneeID, &ac.Username, &ac.Count); err != nil {
			return nil, fmt.Errorf("failed to scan assignee count: %w", err)
		}
		counts = append(counts, ac)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignee counts: %w", err)
	}
	return counts, nil
}

// AverageResolutionMinutes returns the mean minutes from creation to
// resolution over active resolved issues with a resolution stamp, or nil
// when no issue qualifies. Rounding is the caller's concern.
func (s *SQLiteStorage) AverageResolutionMinutes(ctx context.Context) (*float64, error) {
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT AVG((julianday(resolved_at) - julianday(created_at)) * 1440.0)
		FROM active_issues
		WHERE status = 'resolved' AND resolved_at IS NOT NULL
	`).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("failed to compute resolution latency: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}
