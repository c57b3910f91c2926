package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/trackd/trackd/internal/types"
)

// CreateLabel adds a label to the catalog. Names are normalized to
// capitalized form and are unique case-insensitively; a soft-deleted label
// keeps its name reserved.
func (t *Tracker) CreateLabel(ctx context.Context, name string) (*types.Label, error) {
	normalized := types.CapitalizeLabel(name)
	if normalized == "" {
		return nil, types.Validationf("label name is required")
	}
	exists, err := t.store.LabelNameExists(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to check label name: %w", err)
	}
	if exists {
		return nil, types.Validationf("label %q already exists", normalized)
	}
	return t.store.CreateLabel(ctx, normalized)
}

// RenameLabel changes a label's name, keeping the uniqueness rule.
// Renaming a label to a different casing of its own name is allowed.
func (t *Tracker) RenameLabel(ctx context.Context, id int64, name string) (*types.Label, error) {
	normalized := types.CapitalizeLabel(name)
	if normalized == "" {
		return nil, types.Validationf("label name is required")
	}

	byName, err := t.store.ActiveLabelsByName(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check label name: %w", err)
	}
	if existing, ok := byName[strings.ToLower(normalized)]; ok {
		if existing.ID != id {
			return nil, types.Validationf("label %q already exists", normalized)
		}
	} else {
		exists, err := t.store.LabelNameExists(ctx, normalized)
		if err != nil {
			return nil, fmt.Errorf("failed to check label name: %w", err)
		}
		if exists {
			// A soft-deleted label holds the name
			return nil, types.Validationf("label %q already exists", normalized)
		}
	}
	return t.store.UpdateLabel(ctx, id, normalized)
}

// DeleteLabel soft-deletes a catalog label. Issues carrying it simply stop
// showing it; the attachment rows stay for a possible future restore.
func (t *Tracker) DeleteLabel(ctx context.Context, id int64) error {
	return t.store.DeleteLabel(ctx, id)
}

// ListLabels returns active labels, optionally filtered by a keyword
func (t *Tracker) ListLabels(ctx context.Context, keyword string) ([]*types.Label, error) {
	return t.store.ListLabels(ctx, keyword)
}
