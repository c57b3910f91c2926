package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrConflict is returned when a guarded update matches zero rows: the issue
// is absent, soft-deleted, or its version is stale. The caller must re-read
// and resubmit with the current version; the engine never retries.
var ErrConflict = errors.New("version conflict: issue missing, deleted, or modified concurrently")

// ValidationError reports a rejected mutation. No writes have happened when
// one is returned.
type ValidationError struct {
	Msg           string
	MissingLabels []int64
	MissingIssues []int64
}

func (e *ValidationError) Error() string {
	var parts []string
	if e.Msg != "" {
		parts = append(parts, e.Msg)
	}
	if len(e.MissingLabels) > 0 {
		parts = append(parts, fmt.Sprintf("labels with ids %v do not exist", e.MissingLabels))
	}
	if len(e.MissingIssues) > 0 {
		parts = append(parts, fmt.Sprintf("issues with ids %v do not exist", e.MissingIssues))
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return strings.Join(parts, "; ")
}

// Validationf builds a ValidationError from a format string
func Validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// RowError is a single failed row in an import batch. Row is 1-based to
// match what the operator sees in the source file.
type RowError struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Msg   string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Msg)
}

// BatchError aggregates every row error from an import batch so the caller
// can fix all of them in one pass. Zero rows were written.
type BatchError struct {
	RowErrors []RowError
}

func (e *BatchError) Error() string {
	if len(e.RowErrors) == 0 {
		return "import batch invalid"
	}
	sorted := make([]RowError, len(e.RowErrors))
	copy(sorted, e.RowErrors)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Row < sorted[j].Row })

	msgs := make([]string, len(sorted))
	for i, re := range sorted {
		msgs[i] = re.Error()
	}
	return fmt.Sprintf("import batch invalid (%d errors): %s", len(sorted), strings.Join(msgs, "; "))
}
