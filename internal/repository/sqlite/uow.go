package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rmoretto/taskboard/internal/domain"
)

// unitOfWork implements domain.UnitOfWork over one *sql.Tx. Repositories are
// built lazily and all share the transaction, so reads within the unit of
// work observe staged writes and Commit applies everything or nothing.
type unitOfWork struct {
	tx *sql.Tx

	users    *UserRepository
	projects *ProjectRepository
	tasks    *TaskRepository
	history  *HistoryRepository
}

func (u *unitOfWork) Users() domain.UserRepository {
	if u.users == nil {
		u.users = &UserRepository{tx: u.tx}
	}
	return u.users
}

func (u *unitOfWork) Projects() domain.ProjectRepository {
	if u.projects == nil {
		u.projects = &ProjectRepository{tx: u.tx}
	}
	return u.projects
}

func (u *unitOfWork) Tasks() domain.TaskRepository {
	if u.tasks == nil {
		u.tasks = &TaskRepository{tx: u.tx}
	}
	return u.tasks
}

func (u *unitOfWork) History() domain.HistoryRepository {
	if u.history == nil {
		u.history = &HistoryRepository{tx: u.tx}
	}
	return u.history
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if err := u.tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (u *unitOfWork) Rollback() error {
	if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// isUniqueConstraintError checks if the error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyError checks if the error is a SQLite foreign key violation,
// which surfaces when a restricted row is removed while still referenced.
func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
