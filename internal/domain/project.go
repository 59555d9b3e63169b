package domain

import (
	"context"
	"time"
)

// Project groups tasks under an owning user. Deleting a project cascades to
// its tasks; deletion is blocked while any owned task is still pending.
type Project struct {
	ID          int64
	UserID      int64
	Name        string
	Description string
	CreatedAt   time.Time
}

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	GetByID(ctx context.Context, id int64) (*Project, error)
	ListByUser(ctx context.Context, userID int64) ([]Project, error)
	// HasPendingTasks reports whether any task owned by the project has
	// status "pending". A missing project simply has none.
	HasPendingTasks(ctx context.Context, projectID int64) (bool, error)
	Add(ctx context.Context, project *Project) error
	Update(ctx context.Context, project *Project) error
	Remove(ctx context.Context, id int64) error
}
