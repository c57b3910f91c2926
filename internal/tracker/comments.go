package tracker

import (
	"context"
	"strings"

	"github.com/trackd/trackd/internal/types"
)

// AddComment attaches a comment to an active issue
func (t *Tracker) AddComment(ctx context.Context, issueID int64, text string, actor types.Actor) (*types.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, types.Validationf("comment text is required")
	}
	return t.store.AddComment(ctx, issueID, text, actor)
}

// GetComments returns an issue's active comments, newest first
func (t *Tracker) GetComments(ctx context.Context, issueID int64) ([]*types.Comment, error) {
	return t.store.GetComments(ctx, issueID)
}

// DeleteComment soft-deletes a comment
func (t *Tracker) DeleteComment(ctx context.Context, id int64) error {
	return t.store.DeleteComment(ctx, id)
}
