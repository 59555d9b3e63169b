package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rmoretto/taskboard/internal/domain"
)

// TaskRepository implements domain.TaskRepository using SQLite.
type TaskRepository struct {
	tx *sql.Tx
}

const taskColumns = `id, project_id, user_id, title, description, due_date, status, priority, created_at`

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	t := &domain.Task{}
	var due sql.NullTime
	err := r.tx.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id,
	).Scan(&t.ID, &t.ProjectID, &t.UserID, &t.Title, &t.Description,
		&due, &t.Status, &t.Priority, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query task by id: %w", err)
	}
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	return t, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID int64) ([]domain.Task, error) {
	rows, err := r.tx.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var t domain.Task
		var due sql.NullTime
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.UserID, &t.Title, &t.Description,
			&due, &t.Status, &t.Priority, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if due.Valid {
			d := due.Time
			t.DueDate = &d
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) CountByProject(ctx context.Context, projectID int64) (int, error) {
	var count int
	err := r.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE project_id = ?`, projectID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return count, nil
}

func (r *TaskRepository) CountCompletedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE status = ? AND created_at >= ?`,
		string(domain.StatusCompleted), since.UTC(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count completed tasks: %w", err)
	}
	return count, nil
}

func (r *TaskRepository) Add(ctx context.Context, task *domain.Task) error {
	now := time.Now().UTC()
	result, err := r.tx.ExecContext(ctx,
		`INSERT INTO tasks (project_id, user_id, title, description, due_date, status, priority, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ProjectID, task.UserID, task.Title, task.Description,
		nullTime(task.DueDate), task.Status, task.Priority, now,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	task.ID = id
	task.CreatedAt = now
	return nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	result, err := r.tx.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, due_date = ?, status = ? WHERE id = ?`,
		task.Title, task.Description, nullTime(task.DueDate), task.Status, task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return requireRow(result)
}

func (r *TaskRepository) Remove(ctx context.Context, id int64) error {
	result, err := r.tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return requireRow(result)
}
