package types

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Issue represents a trackable work item
type Issue struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Assignee    *int64     `json:"assignee,omitempty"`
	Labels      []Label    `json:"labels,omitempty"`
	CreatedBy   *int64     `json:"created_by,omitempty"`
	UpdatedBy   *int64     `json:"updated_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	IsDeleted   bool       `json:"is_deleted,omitempty"`
	Version     int        `json:"version"`
}

// Validate checks if the issue has valid field values
func (i *Issue) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(i.Title) > 255 {
		return fmt.Errorf("title must be 255 characters or less (got %d)", len(i.Title))
	}
	if strings.TrimSpace(i.Description) == "" {
		return fmt.Errorf("description is required")
	}
	if !i.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", i.Status)
	}
	return nil
}

// Status represents the current state of an issue
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
)

// IsValid checks if the status value is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// AllStatuses returns every valid status value, for error messages and help text
func AllStatuses() []Status {
	return []Status{StatusOpen, StatusInProgress, StatusResolved}
}

// Label represents a tag in the label catalog
type Label struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IsDeleted bool      `json:"is_deleted,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CapitalizeLabel normalizes a label name to stored form:
// first rune upper-cased, the rest lower-cased.
func CapitalizeLabel(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + strings.ToLower(name[size:])
}

// Comment represents a note attached to an issue
type Comment struct {
	ID        int64     `json:"id"`
	IssueID   int64     `json:"issue_id"`
	Author    *int64    `json:"author,omitempty"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsDeleted bool      `json:"is_deleted,omitempty"`
}

// User is an identity row referenced by assignee, author, and actor fields.
// Credential authentication happens outside this system; users exist here
// only so references to them can be validated.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Actor identifies who performed a mutation. The zero value means unknown;
// created_by/updated_by are then left NULL and events record an empty actor.
type Actor struct {
	UserID   int64
	Username string
}

// Ref returns the actor's user ID as a nullable reference
func (a Actor) Ref() *int64 {
	if a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}

// IssuePatch is the allow-listed field set for a guarded update.
// Nil pointer fields are left unchanged. Labels == nil leaves the label set
// unchanged; an empty non-nil slice clears it.
type IssuePatch struct {
	Title         *string
	Description   *string
	Status        *Status
	Assignee      *int64
	ClearAssignee bool
	Labels        []int64
	HasLabels     bool
}

// IsEmpty reports whether the patch changes nothing
func (p *IssuePatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Assignee == nil && !p.ClearAssignee && !p.HasLabels
}

// Event represents an audit trail entry
type Event struct {
	ID        int64     `json:"id"`
	IssueID   int64     `json:"issue_id"`
	EventType EventType `json:"event_type"`
	Actor     string    `json:"actor"`
	OldValue  *string   `json:"old_value,omitempty"`
	NewValue  *string   `json:"new_value,omitempty"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EventType categorizes audit trail events
type EventType string

const (
	EventCreated       EventType = "created"
	EventUpdated       EventType = "updated"
	EventStatusChanged EventType = "status_changed"
	EventResolved      EventType = "resolved"
	EventCommented     EventType = "commented"
	EventDeleted       EventType = "deleted"
	EventImported      EventType = "imported"
	EventBulkStatus    EventType = "bulk_status"
	EventLabelsChanged EventType = "labels_changed"
)

// AssigneeCount is one row of the top-assignees report
type AssigneeCount struct {
	AssigneeID int64  `json:"assignee_id"`
	Username   string `json:"username"`
	Count      int    `json:"count"`
}

// IssueFilter is used to filter issue queries
type IssueFilter struct {
	ID       *int64
	Keyword  string
	Status   *Status
	Assignee *int64
	Label    string
	Limit    int
}
