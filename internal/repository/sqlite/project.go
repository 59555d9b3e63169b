package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rmoretto/taskboard/internal/domain"
)

// ProjectRepository implements domain.ProjectRepository using SQLite.
type ProjectRepository struct {
	tx *sql.Tx
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	p := &domain.Project{}
	err := r.tx.QueryRowContext(ctx,
		`SELECT id, user_id, name, description, created_at FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query project by id: %w", err)
	}
	return p, nil
}

func (r *ProjectRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Project, error) {
	rows, err := r.tx.QueryContext(ctx,
		`SELECT id, user_id, name, description, created_at
		 FROM projects WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) HasPendingTasks(ctx context.Context, projectID int64) (bool, error) {
	var count int
	err := r.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE project_id = ? AND status = ?`,
		projectID, string(domain.StatusPending),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count pending tasks: %w", err)
	}
	return count > 0, nil
}

func (r *ProjectRepository) Add(ctx context.Context, project *domain.Project) error {
	now := time.Now().UTC()
	result, err := r.tx.ExecContext(ctx,
		`INSERT INTO projects (user_id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		project.UserID, project.Name, project.Description, now,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	project.ID = id
	project.CreatedAt = now
	return nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	result, err := r.tx.ExecContext(ctx,
		`UPDATE projects SET name = ?, description = ? WHERE id = ?`,
		project.Name, project.Description, project.ID,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return requireRow(result)
}

func (r *ProjectRepository) Remove(ctx context.Context, id int64) error {
	result, err := r.tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return requireRow(result)
}
