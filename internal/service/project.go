package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rmoretto/taskboard/internal/domain"
)

// ProjectService handles project CRUD and the deletion guard for projects
// with unfinished work.
type ProjectService struct {
	store domain.Store
}

// NewProjectService creates a new ProjectService.
func NewProjectService(store domain.Store) *ProjectService {
	return &ProjectService{store: store}
}

// Create persists a new project after verifying the owning user exists.
func (s *ProjectService) Create(ctx context.Context, ownerUserID int64, name, description string) (*domain.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: project name is required", domain.ErrInvalidInput)
	}

	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Rollback()

	if _, err := uow.Users().GetByID(ctx, ownerUserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: owner user does not exist", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get owner user: %w", err)
	}

	project := &domain.Project{
		UserID:      ownerUserID,
		Name:        name,
		Description: description,
	}
	if err := uow.Projects().Add(ctx, project); err != nil {
		return nil, fmt.Errorf("add project: %w", err)
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return project, nil
}

// GetByID returns a project by ID.
func (s *ProjectService) GetByID(ctx context.Context, projectID int64) (*domain.Project, error) {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Rollback()

	return uow.Projects().GetByID(ctx, projectID)
}

// ListByUser returns all projects owned by the user.
func (s *ProjectService) ListByUser(ctx context.Context, userID int64) ([]domain.Project, error) {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Rollback()

	return uow.Projects().ListByUser(ctx, userID)
}

// Update overwrites the project's name and description. Project changes
// keep no audit trail; only tasks do.
func (s *ProjectService) Update(ctx context.Context, projectID int64, name, description string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: project name is required", domain.ErrInvalidInput)
	}

	uow, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Rollback()

	project, err := uow.Projects().GetByID(ctx, projectID)
	if err != nil {
		return fmt.Errorf("get project: %w", err)
	}

	project.Name = name
	project.Description = description
	if err := uow.Projects().Update(ctx, project); err != nil {
		return fmt.Errorf("update project: %w", err)
	}

	return uow.Commit(ctx)
}

// Delete removes a project and, via cascade, its tasks and their history.
//
// The pending-task check runs before the existence check: a project with
// pending tasks is rejected even if a concurrent delete also made it
// missing.
func (s *ProjectService) Delete(ctx context.Context, projectID int64) error {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Rollback()

	pending, err := uow.Projects().HasPendingTasks(ctx, projectID)
	if err != nil {
		return fmt.Errorf("check pending tasks: %w", err)
	}
	if pending {
		return fmt.Errorf("%w: project has pending tasks", domain.ErrInvalidOperation)
	}

	if _, err := uow.Projects().GetByID(ctx, projectID); err != nil {
		return fmt.Errorf("get project: %w", err)
	}

	if err := uow.Projects().Remove(ctx, projectID); err != nil {
		return fmt.Errorf("remove project: %w", err)
	}

	return uow.Commit(ctx)
}
