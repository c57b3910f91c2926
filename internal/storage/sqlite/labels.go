package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/trackd/trackd/internal/types"
)

const labelColumns = `id, name, is_deleted, created_at, updated_at`

func scanLabel(scan func(dest ...interface{}) error) (*types.Label, error) {
	var label types.Label
	err := scan(&label.ID, &label.Name, &label.IsDeleted, &label.CreatedAt, &label.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &label, nil
}

// CreateLabel inserts a new catalog label. The name is stored capitalized;
// callers check LabelNameExists first for a friendly duplicate error, the
// case-insensitive unique index is the backstop.
func (s *SQLiteStorage) CreateLabel(ctx context.Context, name string) (*types.Label, error) {
	name = types.CapitalizeLabel(name)
	if name == "" {
		return nil, fmt.Errorf("label name is required")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO labels (name) VALUES (?)
	`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create label: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get label id: %w", err)
	}

	return s.getLabel(ctx, id)
}

func (s *SQLiteStorage) getLabel(ctx context.Context, id int64) (*types.Label, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+labelColumns+` FROM active_labels WHERE id = ?
	`, id)
	label, err := scanLabel(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get label: %w", err)
	}
	return label, nil
}

// UpdateLabel renames an active label, keeping the stored-capitalized form
func (s *SQLiteStorage) UpdateLabel(ctx context.Context, id int64, name string) (*types.Label, error) {
	name = types.CapitalizeLabel(name)
	if name == "" {
		return nil, fmt.Errorf("label name is required")
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE labels SET name = ?, updated_at = ?
		WHERE id = ? AND is_deleted = 0
	`, name, time.Now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update label: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("label %d not found", id)
	}

	return s.getLabel(ctx, id)
}

// DeleteLabel tombstones an active label. Existing attachments stay in
// place; the label stops counting for reads and reference validation.
func (s *SQLiteStorage) DeleteLabel(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE labels SET is_deleted = 1, updated_at = ?
		WHERE id = ? AND is_deleted = 0
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete label: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("label %d not found", id)
	}
	return nil
}

// ListLabels returns active labels, optionally filtered by name substring
func (s *SQLiteStorage) ListLabels(ctx context.Context, keyword string) ([]*types.Label, error) {
	query := `SELECT ` + labelColumns + ` FROM active_labels`
	var args []interface{}
	if keyword != "" {
		query += ` WHERE name LIKE ?`
		args = append(args, "%"+keyword+"%")
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var labels []*types.Label
	for rows.Next() {
		label, err := scanLabel(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating labels: %w", err)
	}
	return labels, nil
}

// LabelNameExists reports whether any label row (deleted included) holds the
// name, case-insensitively. Deleted labels keep their name reserved.
func (s *SQLiteStorage) LabelNameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM labels WHERE name = ? COLLATE NOCASE)
	`, strings.TrimSpace(name)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check label name: %w", err)
	}
	return exists, nil
}

// MissingLabelIDs returns the subset of ids with no active label row
func (s *SQLiteStorage) MissingLabelIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	inClause, args := buildInClause(ids)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM active_labels WHERE id IN `+inClause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to check label ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	existing := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan label id: %w", err)
		}
		existing[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating label ids: %w", err)
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

// ActiveLabelsByName returns active labels keyed by case-folded name,
// for resolving imported label names to ids
func (s *SQLiteStorage) ActiveLabelsByName(ctx context.Context) (map[string]*types.Label, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+labelColumns+` FROM active_labels`)
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}
	defer func() { _ = rows.Close() }()

	byName := make(map[string]*types.Label)
	for rows.Next() {
		label, err := scanLabel(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		byName[strings.ToLower(label.Name)] = label
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating labels: %w", err)
	}
	return byName, nil
}

// GetIssueLabels returns the active labels attached to an issue
func (s *SQLiteStorage) GetIssueLabels(ctx context.Context, issueID int64) ([]types.Label, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.name, l.is_deleted, l.created_at, l.updated_at
		FROM issue_labels il
		JOIN active_labels l ON l.id = il.label_id
		WHERE il.issue_id = ?
		ORDER BY l.id
	`, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get issue labels: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var labels []types.Label
	for rows.Next() {
		label, err := scanLabel(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels = append(labels, *label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating issue labels: %w", err)
	}
	return labels, nil
}
