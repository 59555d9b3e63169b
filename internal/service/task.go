package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rmoretto/taskboard/internal/domain"
)

// TaskService owns the task lifecycle: creation checks, the immutable
// priority rule, and the change audit trail. It is the only component that
// constructs history entries.
type TaskService struct {
	store domain.Store
}

// NewTaskService creates a new TaskService.
func NewTaskService(store domain.Store) *TaskService {
	return &TaskService{store: store}
}

// TaskInput carries the fields for task creation.
type TaskInput struct {
	ResponsibleUserID int64
	Title             string
	Description       string
	DueDate           *time.Time
	Status            string
	Priority          string
}

// TaskUpdate carries the fields for a task update. Priority must restate the
// task's current priority; any other value is rejected.
type TaskUpdate struct {
	Title       string
	Description string
	DueDate     *time.Time
	Status      string
	Priority    string
}

// Create validates and persists a new task under the given project.
//
// Checks run in order: field limits, responsible user existence, status and
// priority enumeration membership, then the per-project quota. No history
// entry is recorded for creation.
func (s *TaskService) Create(ctx context.Context, projectID int64, in TaskInput) (*domain.Task, error) {
	if err := validateTaskFields(in.Title, in.Description, in.DueDate); err != nil {
		return nil, err
	}

	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Rollback()

	if _, err := uow.Users().GetByID(ctx, in.ResponsibleUserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: responsible user does not exist", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get responsible user: %w", err)
	}

	status, ok := domain.ParseTaskStatus(in.Status)
	if !ok {
		return nil, fmt.Errorf("%w: status must be one of pending, in-progress, completed", domain.ErrInvalidInput)
	}

	priority, ok := domain.ParseTaskPriority(in.Priority)
	if !ok {
		return nil, fmt.Errorf("%w: priority must be one of low, medium, high", domain.ErrInvalidInput)
	}

	count, err := uow.Tasks().CountByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("count project tasks: %w", err)
	}
	if count >= domain.MaxTasksPerProject {
		return nil, fmt.Errorf("%w: project already has %d tasks", domain.ErrQuotaExceeded, domain.MaxTasksPerProject)
	}

	task := &domain.Task{
		ProjectID:   projectID,
		UserID:      in.ResponsibleUserID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Status:      string(status),
		Priority:    string(priority),
	}
	if err := uow.Tasks().Add(ctx, task); err != nil {
		return nil, fmt.Errorf("add task: %w", err)
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return task, nil
}

// Update applies the given field values to a task, recording one history
// entry per field that actually changed, attributed to the acting user. The
// task mutation and its history entries commit together or not at all.
//
// Priority is immutable: a differing priority rejects the whole update
// before any field is touched. Status is deliberately not re-validated
// against the enumeration here, and no transition ordering is enforced.
func (s *TaskService) Update(ctx context.Context, taskID, actingUserID int64, in TaskUpdate) error {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Rollback()

	task, err := uow.Tasks().GetByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}

	if normalizePriority(in.Priority) != task.Priority {
		return fmt.Errorf("%w: task priority cannot be changed", domain.ErrInvalidOperation)
	}

	changes := DiffTask(task, in)
	now := time.Now().UTC()
	for _, change := range changes {
		entry := &domain.HistoryEntry{
			TaskID:      task.ID,
			UserID:      actingUserID,
			Description: change.Description(),
			ChangedAt:   now,
		}
		if err := uow.History().Add(ctx, entry); err != nil {
			return fmt.Errorf("add history entry: %w", err)
		}
	}

	task.Title = in.Title
	task.Description = in.Description
	task.DueDate = in.DueDate
	task.Status = in.Status
	if err := uow.Tasks().Update(ctx, task); err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	return uow.Commit(ctx)
}

// Delete removes a task. Its history entries go with it via cascade.
func (s *TaskService) Delete(ctx context.Context, taskID int64) error {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Rollback()

	if _, err := uow.Tasks().GetByID(ctx, taskID); err != nil {
		return fmt.Errorf("get task: %w", err)
	}

	if err := uow.Tasks().Remove(ctx, taskID); err != nil {
		return fmt.Errorf("remove task: %w", err)
	}

	return uow.Commit(ctx)
}

// ListByProject returns all tasks owned by the project.
func (s *TaskService) ListByProject(ctx context.Context, projectID int64) ([]domain.Task, error) {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Rollback()

	return uow.Tasks().ListByProject(ctx, projectID)
}

// GetByID returns a single task.
func (s *TaskService) GetByID(ctx context.Context, taskID int64) (*domain.Task, error) {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Rollback()

	return uow.Tasks().GetByID(ctx, taskID)
}

// History returns the task's audit trail in change order.
func (s *TaskService) History(ctx context.Context, taskID int64) ([]domain.HistoryEntry, error) {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Rollback()

	if _, err := uow.Tasks().GetByID(ctx, taskID); err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	return uow.History().ListByTask(ctx, taskID)
}

// AddComment appends a free-text comment to the task's history, attributed
// to the acting user.
func (s *TaskService) AddComment(ctx context.Context, taskID, actingUserID int64, comment string) error {
	if strings.TrimSpace(comment) == "" {
		return fmt.Errorf("%w: comment is required", domain.ErrInvalidInput)
	}

	uow, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Rollback()

	if _, err := uow.Tasks().GetByID(ctx, taskID); err != nil {
		return fmt.Errorf("get task: %w", err)
	}

	entry := &domain.HistoryEntry{
		TaskID:      taskID,
		UserID:      actingUserID,
		Description: "Comment added: " + comment,
		ChangedAt:   time.Now().UTC(),
	}
	if err := uow.History().Add(ctx, entry); err != nil {
		return fmt.Errorf("add history entry: %w", err)
	}

	return uow.Commit(ctx)
}

const (
	maxTitleLen       = 100
	maxDescriptionLen = 500
)

func validateTaskFields(title, description string, dueDate *time.Time) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if len(title) > maxTitleLen {
		return fmt.Errorf("%w: title must be %d characters or fewer", domain.ErrInvalidInput, maxTitleLen)
	}
	if len(description) > maxDescriptionLen {
		return fmt.Errorf("%w: description must be %d characters or fewer", domain.ErrInvalidInput, maxDescriptionLen)
	}
	if dueDate != nil {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		if dueDate.Before(today) {
			return fmt.Errorf("%w: due date cannot be in the past", domain.ErrInvalidInput)
		}
	}
	return nil
}

func normalizePriority(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}
