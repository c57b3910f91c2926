// Package tracker implements the mutation engine on top of a storage
// backend: referential validation before any write, version-guarded
// updates, bulk status transitions, and reporting.
//
// The split of responsibilities is deliberate. This package decides
// whether a mutation is allowed; the storage layer only executes it.
// Every rejection here is a *types.ValidationError and guarantees that
// nothing was written.
package tracker

import (
	"context"

	"github.com/trackd/trackd/internal/storage"
	"github.com/trackd/trackd/internal/types"
)

// Tracker coordinates validation and mutations against a storage backend
type Tracker struct {
	store storage.Storage
}

// New creates a Tracker backed by the given store
func New(store storage.Storage) *Tracker {
	return &Tracker{store: store}
}

// Store exposes the underlying storage backend for callers that need
// read-only access beyond the tracker's surface.
func (t *Tracker) Store() storage.Storage {
	return t.store
}

// GetEvents returns the audit trail for an issue, newest first
func (t *Tracker) GetEvents(ctx context.Context, issueID int64, limit int) ([]*types.Event, error) {
	return t.store.GetEvents(ctx, issueID, limit)
}
