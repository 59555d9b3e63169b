package service

import (
	"fmt"
	"time"

	"github.com/rmoretto/taskboard/internal/domain"
)

// FieldChange records one observed difference between a stored task and the
// requested update. Changes are turned into history entries by TaskService;
// the diff itself knows nothing about persistence.
type FieldChange struct {
	Field string
	From  string
	To    string
}

// Description renders the change as the human-readable text stored in the
// task history. The description field logs no values, only the fact that it
// changed.
func (c FieldChange) Description() string {
	if c.Field == "description" {
		return "Description changed."
	}
	return fmt.Sprintf("%s changed from '%s' to '%s'", fieldLabels[c.Field], c.From, c.To)
}

var fieldLabels = map[string]string{
	"status":   "Status",
	"title":    "Title",
	"due_date": "Due date",
}

// DiffTask compares the stored task against the requested update and returns
// one FieldChange per differing field, in a fixed order: status, title,
// description, due date. Equal fields produce nothing, so applying the same
// update twice yields an empty diff the second time.
func DiffTask(old *domain.Task, in TaskUpdate) []FieldChange {
	var changes []FieldChange

	if old.Status != in.Status {
		changes = append(changes, FieldChange{Field: "status", From: old.Status, To: in.Status})
	}
	if old.Title != in.Title {
		changes = append(changes, FieldChange{Field: "title", From: old.Title, To: in.Title})
	}
	if old.Description != in.Description {
		changes = append(changes, FieldChange{Field: "description"})
	}
	if !equalDueDates(old.DueDate, in.DueDate) {
		changes = append(changes, FieldChange{
			Field: "due_date",
			From:  formatDueDate(old.DueDate),
			To:    formatDueDate(in.DueDate),
		})
	}

	return changes
}

// equalDueDates compares by instant, not by pointer.
func equalDueDates(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func formatDueDate(t *time.Time) string {
	if t == nil {
		return "none"
	}
	return t.UTC().Format("2006-01-02")
}
