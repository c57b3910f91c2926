package types

import (
	"errors"
	"strings"
	"testing"
)

func TestIssueValidate(t *testing.T) {
	tests := []struct {
		name    string
		issue   Issue
		wantErr string
	}{
		{
			name:  "valid issue",
			issue: Issue{Title: "Fix login", Description: "Session expires early", Status: StatusOpen},
		},
		{
			name:    "empty title",
			issue:   Issue{Title: "", Description: "desc", Status: StatusOpen},
			wantErr: "title is required",
		},
		{
			name:    "whitespace title",
			issue:   Issue{Title: "   ", Description: "desc", Status: StatusOpen},
			wantErr: "title is required",
		},
		{
			name:    "title too long",
			issue:   Issue{Title: strings.Repeat("x", 256), Description: "desc", Status: StatusOpen},
			wantErr: "255 characters",
		},
		{
			name:    "empty description",
			issue:   Issue{Title: "t", Description: "", Status: StatusOpen},
			wantErr: "description is required",
		},
		{
			name:    "invalid status",
			issue:   Issue{Title: "t", Description: "d", Status: "closed"},
			wantErr: "invalid status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.issue.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range AllStatuses() {
		if !s.IsValid() {
			t.Errorf("status %s should be valid", s)
		}
	}
	for _, s := range []Status{"", "closed", "OPEN", "done"} {
		if s.IsValid() {
			t.Errorf("status %q should be invalid", s)
		}
	}
}

func TestCapitalizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"bug", "Bug"},
		{"BUG", "Bug"},
		{"  backend  ", "Backend"},
		{"uI", "Ui"},
		{"", ""},
		{"x", "X"},
	}
	for _, tt := range tests {
		if got := CapitalizeLabel(tt.in); got != tt.want {
			t.Errorf("CapitalizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestActorRef(t *testing.T) {
	if (Actor{}).Ref() != nil {
		t.Error("zero actor should have nil ref")
	}
	ref := Actor{UserID: 7, Username: "amira"}.Ref()
	if ref == nil || *ref != 7 {
		t.Errorf("want ref 7, got %v", ref)
	}
}

func TestIssuePatchIsEmpty(t *testing.T) {
	empty := &IssuePatch{}
	if !empty.IsEmpty() {
		t.Error("zero patch should be empty")
	}
	title := "t"
	if (&IssuePatch{Title: &title}).IsEmpty() {
		t.Error("patch with title should not be empty")
	}
	if (&IssuePatch{HasLabels: true, Labels: []int64{}}).IsEmpty() {
		t.Error("patch clearing labels should not be empty")
	}
	if (&IssuePatch{ClearAssignee: true}).IsEmpty() {
		t.Error("patch clearing assignee should not be empty")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{MissingLabels: []int64{3, 9}}
	if !strings.Contains(err.Error(), "[3 9]") {
		t.Errorf("unexpected message: %v", err)
	}

	err = &ValidationError{Msg: "ids are required", MissingIssues: []int64{999}}
	if !strings.Contains(err.Error(), "ids are required") || !strings.Contains(err.Error(), "[999]") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestBatchErrorOrdersRows(t *testing.T) {
	err := &BatchError{RowErrors: []RowError{
		{Row: 3, Field: "labels", Msg: "unknown label: Zzz"},
		{Row: 1, Field: "title", Msg: "required"},
	}}
	msg := err.Error()
	if !strings.Contains(msg, "2 errors") {
		t.Errorf("expected error count in message: %s", msg)
	}
	if strings.Index(msg, "row 1") > strings.Index(msg, "row 3") {
		t.Errorf("row errors not ordered: %s", msg)
	}
}

func TestErrConflictIs(t *testing.T) {
	wrapped := errors.Join(errors.New("outer"), ErrConflict)
	if !errors.Is(wrapped, ErrConflict) {
		t.Error("wrapped conflict should match ErrConflict")
	}
}
