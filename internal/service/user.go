package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rmoretto/taskboard/internal/domain"
)

// UserService handles user lookup and maintenance. Registration and
// credentials live on AuthService.
type UserService struct {
	store domain.Store
}

// NewUserService creates a new UserService.
func NewUserService(store domain.Store) *UserService {
	return &UserService{store: store}
}

// GetByID returns a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Rollback()

	return uow.Users().GetByID(ctx, id)
}

// GetByEmail returns a user by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Rollback()

	return uow.Users().GetByEmail(ctx, email)
}

// Update changes a user's name and email. Email stays unique across users.
func (s *UserService) Update(ctx context.Context, id int64, name, email string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: name and email are required", domain.ErrInvalidInput)
	}

	uow, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.Users().GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	user.Name = name
	user.Email = email
	if err := uow.Users().Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return uow.Commit(ctx)
}

// Delete removes a user. Deletion is restricted while the user still owns
// projects, is responsible for tasks, or is referenced by task history.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Rollback()

	if _, err := uow.Users().GetByID(ctx, id); err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if err := uow.Users().Remove(ctx, id); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
