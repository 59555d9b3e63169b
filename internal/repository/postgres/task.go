package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rmoretto/taskboard/internal/domain"
)

// TaskRepository implements domain.TaskRepository using PostgreSQL.
type TaskRepository struct {
	tx pgx.Tx
}

const taskColumns = `id, project_id, user_id, title, description, due_date, status, priority, created_at`

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	t := &domain.Task{}
	err := r.tx.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id,
	).Scan(&t.ID, &t.ProjectID, &t.UserID, &t.Title, &t.Description,
		&t.DueDate, &t.Status, &t.Priority, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query task by id: %w", err)
	}
	return t, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID int64) ([]domain.Task, error) {
	rows, err := r.tx.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = $1 ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.UserID, &t.Title, &t.Description,
			&t.DueDate, &t.Status, &t.Priority, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) CountByProject(ctx context.Context, projectID int64) (int, error) {
	var count int
	err := r.tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE project_id = $1`, projectID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return count, nil
}

func (r *TaskRepository) CountCompletedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE status = $1 AND created_at >= $2`,
		string(domain.StatusCompleted), since.UTC(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count completed tasks: %w", err)
	}
	return count, nil
}

func (r *TaskRepository) Add(ctx context.Context, task *domain.Task) error {
	now := time.Now().UTC()
	err := r.tx.QueryRow(ctx,
		`INSERT INTO tasks (project_id, user_id, title, description, due_date, status, priority, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		task.ProjectID, task.UserID, task.Title, task.Description,
		task.DueDate, task.Status, task.Priority, now,
	).Scan(&task.ID)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	task.CreatedAt = now
	return nil
}

// Update persists the mutable task fields. Priority is immutable after
// creation and is deliberately absent from the statement.
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	tag, err := r.tx.Exec(ctx,
		`UPDATE tasks SET title = $1, description = $2, due_date = $3, status = $4 WHERE id = $5`,
		task.Title, task.Description, task.DueDate, task.Status, task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Remove(ctx context.Context, id int64) error {
	tag, err := r.tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
