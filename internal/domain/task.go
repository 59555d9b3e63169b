package domain

import (
	"context"
	"strings"
	"time"
)

// TaskStatus is the lifecycle state of a task. No transition graph is
// enforced between the declared states; any status may move to any other.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// TaskPriority is fixed at creation and immutable afterwards.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// MaxTasksPerProject is the cap on tasks a single project may own.
const MaxTasksPerProject = 20

// ParseTaskStatus normalizes and validates a status value, case-insensitively.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, true
	case StatusInProgress:
		return StatusInProgress, true
	case StatusCompleted:
		return StatusCompleted, true
	}
	return "", false
}

// ParseTaskPriority normalizes and validates a priority value,
// case-insensitively. The empty string is not a valid priority.
func ParseTaskPriority(s string) (TaskPriority, bool) {
	switch TaskPriority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityHigh:
		return PriorityHigh, true
	}
	return "", false
}

// Task is a unit of work owned by a project and assigned to a user.
//
// Status is stored as a free string: creation validates membership in the
// declared set, but updates accept any value so historical data with
// out-of-set statuses keeps round-tripping.
type Task struct {
	ID          int64
	ProjectID   int64
	UserID      int64
	Title       string
	Description string
	DueDate     *time.Time
	Status      string
	Priority    string
	CreatedAt   time.Time
}

// HistoryEntry is an immutable audit record of one change to one task.
// Entries are appended by the task service and never mutated; they are
// removed only by cascade when their task is deleted.
type HistoryEntry struct {
	ID          int64
	TaskID      int64
	UserID      int64
	Description string
	ChangedAt   time.Time
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	GetByID(ctx context.Context, id int64) (*Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]Task, error)
	CountByProject(ctx context.Context, projectID int64) (int, error)
	// CountCompletedSince counts tasks with status "completed" created at
	// or after the given instant. Used by the performance report.
	CountCompletedSince(ctx context.Context, since time.Time) (int, error)
	Add(ctx context.Context, task *Task) error
	Update(ctx context.Context, task *Task) error
	Remove(ctx context.Context, id int64) error
}

// HistoryRepository defines persistence operations for task history.
// History is append-only: there is no update or remove.
type HistoryRepository interface {
	ListByTask(ctx context.Context, taskID int64) ([]HistoryEntry, error)
	Add(ctx context.Context, entry *HistoryEntry) error
}
