package tracker

import (
	"context"
	"fmt"

	"github.com/trackd/trackd/internal/types"
)

// ValidateLabels checks that every referenced label exists and is active.
// The returned error lists all missing ids, not just the first.
func (t *Tracker) ValidateLabels(ctx context.Context, labelIDs []int64) error {
	if len(labelIDs) == 0 {
		return nil
	}
	missing, err := t.store.MissingLabelIDs(ctx, labelIDs)
	if err != nil {
		return fmt.Errorf("failed to validate labels: %w", err)
	}
	if len(missing) > 0 {
		return &types.ValidationError{MissingLabels: missing}
	}
	return nil
}

// ValidateIssues checks that every referenced issue exists and is active
func (t *Tracker) ValidateIssues(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	missing, err := t.store.MissingIssueIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to validate issues: %w", err)
	}
	if len(missing) > 0 {
		return &types.ValidationError{MissingIssues: missing}
	}
	return nil
}

func (t *Tracker) validateAssignee(ctx context.Context, userID int64) error {
	active, err := t.store.UserActive(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to validate assignee: %w", err)
	}
	if !active {
		return types.Validationf("assignee %d does not exist", userID)
	}
	return nil
}
