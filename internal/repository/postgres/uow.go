package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rmoretto/taskboard/internal/domain"
)

// unitOfWork implements domain.UnitOfWork over one pgx.Tx.
type unitOfWork struct {
	tx pgx.Tx

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
	if err := u.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (u *unitOfWork) Rollback() error {
	err := u.tx.Rollback(context.Background())
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// PostgreSQL error codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isUniqueConstraintError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
