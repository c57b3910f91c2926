package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/trackd/trackd/internal/types"
)

const userColumns = `id, username, is_active, created_at`

func scanUser(scan func(dest ...interface{}) error) (*types.User, error) {
	var u types.User
	err := scan(&u.ID, &u.Username, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser registers an identity row. Usernames are unique
// case-insensitively; credential handling lives outside this system.
func (s *SQLiteStorage) CreateUser(ctx context.Context, username string) (*types.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username) VALUES (?)
	`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user id: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row.Scan)
}

// GetUserByName returns an active user by username, or nil if not found
func (s *SQLiteStorage) GetUserByName(ctx context.Context, username string) (*types.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM active_users WHERE username = ? COLLATE NOCASE
	`, strings.TrimSpace(username))
	user, err := scanUser(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListUsers returns every user, active and deactivated
func (s *SQLiteStorage) ListUsers(ctx context.Context) ([]*types.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []*types.User
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// DeactivateUser marks a user inactive; they stop counting as a valid
// assignee but existing references remain
func (s *SQLiteStorage) DeactivateUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET is_active = 0 WHERE id = ? AND is_active = 1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d not found", id)
	}
	return nil
}

// UserActive reports whether an active user with the id exists
func (s *SQLiteStorage) UserActive(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM active_users WHERE id = ?)
	`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}

// ActiveUsersByName returns active users keyed by case-folded username,
// for resolving imported assignee names to ids
func (s *SQLiteStorage) ActiveUsersByName(ctx context.Context) (map[string]*types.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM active_users`)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	byName := make(map[string]*types.User)
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		byName[strings.ToLower(user.Username)] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return byName, nil
}
