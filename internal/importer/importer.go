// Package importer loads batches of issues from external files.
//
// A batch is all-or-nothing: every row is validated against the current
// label catalog and user list first, every failure is collected, and only
// a fully clean batch reaches the database, in a single transaction.
package importer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trackd/trackd/internal/storage"
	"github.com/trackd/trackd/internal/types"
)

// Row is one issue from an import file, still in source form. Labels is a
// comma-separated list of label names and must name at least one label;
// Assignee is a username or empty.
type Row struct {
	Title       string
	Description string
	Status      string
	Labels      string
	Assignee    string
}

// Result describes a committed batch
type Result struct {
	BatchID  string  `json:"batch_id"`
	IssueIDs []int64 `json:"issue_ids"`
}

// Importer reconciles import rows against the live catalog
type Importer struct {
	store storage.Storage
}

// New creates an Importer backed by the given store
func New(store storage.Storage) *Importer {
	return &Importer{store: store}
}

// Import validates every row and, only if all pass, creates the whole batch
// in one transaction. On any failure it returns a *types.BatchError carrying
// every row error and writes nothing. Row numbers in errors are 1-based.
func (im *Importer) Import(ctx context.Context, rows []Row, actor types.Actor) (*Result, error) {
	if len(rows) == 0 {
		return nil, types.Validationf("import batch is empty")
	}

	// Snapshot the catalogs once; rows resolve against the same view
	labelsByName, err := im.store.ActiveLabelsByName(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load label catalog: %w", err)
	}
	usersByName, err := im.store.ActiveUsersByName(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	var rowErrs []types.RowError
	issues := make([]*types.Issue, 0, len(rows))
	labelIDs := make([][]int64, 0, len(rows))

	for i, row := range rows {
		n := i + 1
		rowOK := true
		fail := func(field, msg string) {
			rowErrs = append(rowErrs, types.RowError{Row: n, Field: field, Msg: msg})
			rowOK = false
		}

		title := strings.TrimSpace(row.Title)
		switch {
		case title == "":
			fail("title", "is required")
		case len(title) > 255:
			fail("title", fmt.Sprintf("must be 255 characters or less (got %d)", len(title)))
		}
		if strings.TrimSpace(row.Description) == "" {
			fail("description", "is required")
		}

		// Unlike interactive creation, import rows carry no defaults: a
		// missing status is a row error, not an open issue.
		status := types.Status(strings.TrimSpace(row.Status))
		if status == "" {
			fail("status", "is required")
		} else if !status.IsValid() {
			fail("status", fmt.Sprintf("invalid value %q (valid: %v)", row.Status, types.AllStatuses()))
		}

		ids, labelErrs := resolveLabels(row.Labels, labelsByName)
		for _, msg := range labelErrs {
			fail("labels", msg)
		}
		if len(ids) == 0 && len(labelErrs) == 0 {
			fail("labels", "at least one label is required")
		}

		var assignee *int64
		if name := strings.TrimSpace(row.Assignee); name != "" {
			user, ok := usersByName[strings.ToLower(name)]
			if !ok {
				fail("assignee", fmt.Sprintf("unknown user %q", name))
			} else {
				assignee = &user.ID
			}
		}

		if !rowOK {
			continue
		}
		issues = append(issues, &types.Issue{
			Title:       title,
			Description: row.Description,
			Status:      status,
			Assignee:    assignee,
		})
		labelIDs = append(labelIDs, ids)
	}

	if len(rowErrs) > 0 {
		return nil, &types.BatchError{RowErrors: rowErrs}
	}

	ids, err := im.store.CreateIssues(ctx, issues, labelIDs, actor)
	if err != nil {
		return nil, err
	}

	// The issues are committed at this point. Batch bookkeeping is best
	// effort; a metadata failure must not turn a durable import into an
	// error for the caller.
	batchID := uuid.NewString()
	_ = im.store.SetMetadata(ctx, "import."+batchID,
		fmt.Sprintf("%s count=%s", time.Now().UTC().Format(time.RFC3339), strconv.Itoa(len(ids))))
	_ = im.store.SetMetadata(ctx, "last_import_batch", batchID)

	return &Result{BatchID: batchID, IssueIDs: ids}, nil
}

// resolveLabels maps a comma-separated name list onto catalog ids.
// Matching is case-insensitive; duplicates collapse to one attachment.
func resolveLabels(raw string, byName map[string]*types.Label) ([]int64, []string) {
	var ids []int64
	var errs []string
	seen := make(map[int64]bool)

	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		label, ok := byName[strings.ToLower(name)]
		if !ok {
			errs = append(errs, fmt.Sprintf("unknown label %q", name))
			continue
		}
		if !seen[label.ID] {
			seen[label.ID] = true
			ids = append(ids, label.ID)
		}
	}
	return ids, errs
}
