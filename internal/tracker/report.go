package tracker

import (
	"context"
	"math"

	"github.com/trackd/trackd/internal/types"
)

// DefaultTopAssignees is the report size when the caller asks for no limit
const DefaultTopAssignees = 10

// TopAssignees returns the busiest assignees by active issue count,
// most-loaded first with ascending user id breaking ties.
func (t *Tracker) TopAssignees(ctx context.Context, limit int) ([]types.AssigneeCount, error) {
	if limit <= 0 {
		limit = DefaultTopAssignees
	}
	return t.store.TopAssignees(ctx, limit)
}

// AverageResolutionMinutes returns the mean creation-to-resolution latency
// in minutes, rounded to two decimal places, or nil when no active issue
// has been resolved.
func (t *Tracker) AverageResolutionMinutes(ctx context.Context) (*float64, error) {
	avg, err := t.store.AverageResolutionMinutes(ctx)
	if err != nil || avg == nil {
		return nil, err
	}
	rounded := math.Round(*avg*100) / 100
	return &rounded, nil
}
