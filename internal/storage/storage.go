// Package storage defines the interface for issue storage backends.
package storage

import (
	"context"
	"database/sql"

	"github.com/trackd/trackd/internal/types"
)

// Storage defines the interface for issue storage backends.
//
// Soft-deleted rows are invisible through every method here: reads skip
// them, existence checks do not count them, and mutations never match them.
type Storage interface {
	// Issues
	CreateIssue(ctx context.Context, issue *types.Issue, labelIDs []int64, actor types.Actor) (int64, error)
	CreateIssues(ctx context.Context, issues []*types.Issue, labelIDs [][]int64, actor types.Actor) ([]int64, error)
	GetIssue(ctx context.Context, id int64) (*types.Issue, error)
	SearchIssues(ctx context.Context, filter types.IssueFilter) ([]*types.Issue, error)
	DeleteIssue(ctx context.Context, id int64, actor types.Actor) error
	MissingIssueIDs(ctx context.Context, ids []int64) ([]int64, error)

	// UpdateIssueVersioned applies a conditional compare-and-swap update:
	// the row must exist, be active, and carry exactly expectedVersion.
	// On success the stored version is expectedVersion+1 and is returned.
	// Zero matched rows yield types.ErrConflict. replaceLabels != nil
	// swaps the label set inside the same transaction.
	UpdateIssueVersioned(ctx context.Context, id int64, expectedVersion int, updates map[string]interface{}, replaceLabels []int64, actor types.Actor) (int, error)

	// BulkUpdateStatus sets status on every given id in one transaction,
	// stamping resolved_at when the new status is resolved. It performs no
	// existence or version checks; callers validate the id set first.
	BulkUpdateStatus(ctx context.Context, ids []int64, status types.Status, actor types.Actor) (int, error)

	// Labels (catalog)
	CreateLabel(ctx context.Context, name string) (*types.Label, error)
	UpdateLabel(ctx context.Context, id int64, name string) (*types.Label, error)
	DeleteLabel(ctx context.Context, id int64) error
	ListLabels(ctx context.Context, keyword string) ([]*types.Label, error)
	LabelNameExists(ctx context.Context, name string) (bool, error)
	MissingLabelIDs(ctx context.Context, ids []int64) ([]int64, error)
	ActiveLabelsByName(ctx context.Context) (map[string]*types.Label, error)
	GetIssueLabels(ctx context.Context, issueID int64) ([]types.Label, error)

	// Comments
	AddComment(ctx context.Context, issueID int64, text string, actor types.Actor) (*types.Comment, error)
	GetComments(ctx context.Context, issueID int64) ([]*types.Comment, error)
	DeleteComment(ctx context.Context, id int64) error

	// Users
	CreateUser(ctx context.Context, username string) (*types.User, error)
	GetUserByName(ctx context.Context, username string) (*types.User, error)
	ListUsers(ctx context.Context) ([]*types.User, error)
	DeactivateUser(ctx context.Context, id int64) error
	UserActive(ctx context.Context, id int64) (bool, error)
	ActiveUsersByName(ctx context.Context) (map[string]*types.User, error)

	// Reports
	TopAssignees(ctx context.Context, limit int) ([]types.AssigneeCount, error)
	AverageResolutionMinutes(ctx context.Context) (*float64, error)

	// Events
	GetEvents(ctx context.Context, issueID int64, limit int) ([]*types.Event, error)

	// Metadata (internal state like app version and import batch ids)
	SetMetadata(ctx context.Context, key, value string) error
	GetMetadata(ctx context.Context, key string) (string, error)

	// Lifecycle
	Close() error
	Path() string

	// UnderlyingDB returns the underlying *sql.DB connection for extensions
	// that need their own tables in the same database. Direct access
	// bypasses the soft-delete filtering this interface guarantees.
	UnderlyingDB() *sql.DB
}
