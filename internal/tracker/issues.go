package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/trackd/trackd/internal/types"
)

// CreateIssue validates references and creates a single issue.
// An empty status defaults to open.
func (t *Tracker) CreateIssue(ctx context.Context, issue *types.Issue, labelIDs []int64, actor types.Actor) (*types.Issue, error) {
	if issue.Status == "" {
		issue.Status = types.StatusOpen
	}
	if err := issue.Validate(); err != nil {
		return nil, types.Validationf("%s", err.Error())
	}
	if issue.Assignee != nil {
		if err := t.validateAssignee(ctx, *issue.Assignee); err != nil {
			return nil, err
		}
	}
	if err := t.ValidateLabels(ctx, labelIDs); err != nil {
		return nil, err
	}

	id, err := t.store.CreateIssue(ctx, issue, labelIDs, actor)
	if err != nil {
		return nil, err
	}
	return t.store.GetIssue(ctx, id)
}

// GetIssue returns an active issue, or nil if it does not exist
func (t *Tracker) GetIssue(ctx context.Context, id int64) (*types.Issue, error) {
	return t.store.GetIssue(ctx, id)
}

// SearchIssues returns active issues matching the filter
func (t *Tracker) SearchIssues(ctx context.Context, filter types.IssueFilter) ([]*types.Issue, error) {
	return t.store.SearchIssues(ctx, filter)
}

// DeleteIssue soft-deletes an issue
func (t *Tracker) DeleteIssue(ctx context.Context, id int64, actor types.Actor) error {
	return t.store.DeleteIssue(ctx, id, actor)
}

// UpdateIssue applies a version-guarded update. The patch's references are
// validated first; the compare-and-swap itself happens in the store, so a
// concurrent writer surfaces as types.ErrConflict, never as a lost update.
// On success the updated issue is returned with its new version.
func (t *Tracker) UpdateIssue(ctx context.Context, id int64, expectedVersion int, patch types.IssuePatch, actor types.Actor) (*types.Issue, error) {
	if expectedVersion < 1 {
		return nil, types.Validationf("expected version must be at least 1, got %d", expectedVersion)
	}
	if patch.IsEmpty() {
		return nil, types.Validationf("no fields to update")
	}

	updates := make(map[string]interface{})
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, types.Validationf("title is required")
		}
		if len(title) > 255 {
			return nil, types.Validationf("title must be 255 characters or less (got %d)", len(title))
		}
		updates["title"] = title
	}
	if patch.Description != nil {
		if strings.TrimSpace(*patch.Description) == "" {
			return nil, types.Validationf("description is required")
		}
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return nil, types.Validationf("invalid status %q (valid: %v)", *patch.Status, types.AllStatuses())
		}
		updates["status"] = string(*patch.Status)
	}
	if patch.ClearAssignee {
		updates["assignee"] = nil
	} else if patch.Assignee != nil {
		if err := t.validateAssignee(ctx, *patch.Assignee); err != nil {
			return nil, err
		}
		updates["assignee"] = *patch.Assignee
	}

	var replaceLabels []int64
	if patch.HasLabels {
		if err := t.ValidateLabels(ctx, patch.Labels); err != nil {
			return nil, err
		}
		replaceLabels = patch.Labels
		if replaceLabels == nil {
			replaceLabels = []int64{}
		}
	}

	if _, err := t.store.UpdateIssueVersioned(ctx, id, expectedVersion, updates, replaceLabels, actor); err != nil {
		return nil, err
	}

	updated, err := t.store.GetIssue(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("issue %d vanished after update", id)
	}
	return updated, nil
}
