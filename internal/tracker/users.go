package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/trackd/trackd/internal/types"
)

// CreateUser registers a username so issues and comments can reference it
func (t *Tracker) CreateUser(ctx context.Context, username string) (*types.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, types.Validationf("username is required")
	}
	existing, err := t.store.GetUserByName(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, types.Validationf("user %q already exists", username)
	}
	return t.store.CreateUser(ctx, username)
}

// ResolveUser looks up an active user by name. Unknown names are a
// validation error so CLI actor resolution fails loudly.
func (t *Tracker) ResolveUser(ctx context.Context, username string) (*types.User, error) {
	user, err := t.store.GetUserByName(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, types.Validationf("user %q does not exist", username)
	}
	return user, nil
}

// ListUsers returns every user, active or not
func (t *Tracker) ListUsers(ctx context.Context) ([]*types.User, error) {
	return t.store.ListUsers(ctx)
}

// DeactivateUser marks a user inactive. Existing references stay valid;
// the user just cannot be assigned anything new.
func (t *Tracker) DeactivateUser(ctx context.Context, id int64) error {
	return t.store.DeactivateUser(ctx, id)
}
