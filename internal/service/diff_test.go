package service_test

import (
	"testing"
	"time"

	"github.com/rmoretto/taskboard/internal/domain"
	"github.com/rmoretto/taskboard/internal/service"
)

func TestDiffTask_NoChanges(t *testing.T) {
	due := time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC)
	old := &domain.Task{Title: "t", Description: "d", DueDate: &due, Status: "pending"}

	sameDue := due
	changes := service.DiffTask(old, service.TaskUpdate{
		Title: "t", Description: "d", DueDate: &sameDue, Status: "pending",
	})
	if len(changes) != 0 {
		t.Fatalf("expected no changes, got %v", changes)
	}
}

func TestDiffTask_FixedOrder(t *testing.T) {
	old := &domain.Task{Title: "old", Description: "old", Status: "pending"}
	due := time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC)

	changes := service.DiffTask(old, service.TaskUpdate{
		Title: "new", Description: "new", DueDate: &due, Status: "completed",
	})
	if len(changes) != 4 {
		t.Fatalf("expected 4 changes, got %d", len(changes))
	}

	wantFields := []string{"status", "title", "description", "due_date"}
	for i, want := range wantFields {
		if changes[i].Field != want {
			t.Fatalf("change %d: expected field %q, got %q", i, want, changes[i].Field)
		}
	}
}

func TestDiffTask_DueDateComparedByInstant(t *testing.T) {
	utc := time.Date(2030, 3, 1, 12, 0, 0, 0, time.UTC)
	elsewhere := utc.In(time.FixedZone("X", 3*3600))
	old := &domain.Task{Title: "t", Status: "pending", DueDate: &utc}

	changes := service.DiffTask(old, service.TaskUpdate{Title: "t", Status: "pending", DueDate: &elsewhere})
	if len(changes) != 0 {
		t.Fatalf("expected same instant to produce no change, got %v", changes)
	}
}

func TestFieldChange_Description(t *testing.T) {
	cases := []struct {
		change service.FieldChange
		want   string
	}{
		{service.FieldChange{Field: "status", From: "pending", To: "completed"}, "Status changed from 'pending' to 'completed'"},
		{service.FieldChange{Field: "title", From: "a", To: "b"}, "Title changed from 'a' to 'b'"},
		{service.FieldChange{Field: "description", From: "secret", To: "secret2"}, "Description changed."},
		{service.FieldChange{Field: "due_date", From: "none", To: "2030-03-01"}, "Due date changed from 'none' to '2030-03-01'"},
	}
	for _, tc := range cases {
		if got := tc.change.Description(); got != tc.want {
			t.Fatalf("Description(%s): expected %q, got %q", tc.change.Field, tc.want, got)
		}
	}
}
