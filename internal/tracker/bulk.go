package tracker

import (
	"context"

	"github.com/trackd/trackd/internal/types"
)

// BulkStatus transitions every given issue to the target status in one
// atomic operation. The id set is validated up front: if any id is missing
// or soft-deleted the whole request is rejected with the full missing list
// and no issue changes. Versions are not consulted and not bumped.
func (t *Tracker) BulkStatus(ctx context.Context, ids []int64, status types.Status, actor types.Actor) (int, error) {
	if len(ids) == 0 {
		return 0, types.Validationf("no issue ids given")
	}
	if !status.IsValid() {
		return 0, types.Validationf("invalid status %q (valid: %v)", status, types.AllStatuses())
	}
	if err := t.ValidateIssues(ctx, ids); err != nil {
		return 0, err
	}
	return t.store.BulkUpdateStatus(ctx, ids, status, actor)
}
