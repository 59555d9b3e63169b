package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rmoretto/taskboard/internal/domain"
)

// ProjectRepository implements domain.ProjectRepository using PostgreSQL.
type ProjectRepository struct {
	tx pgx.Tx
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	p := &domain.Project{}
	err := r.tx.QueryRow(ctx,
		`SELECT id, user_id, name, description, created_at FROM projects WHERE id = $1`, id,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query project by id: %w", err)
	}
	return p, nil
}

func (r *ProjectRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Project, error) {
	rows, err := r.tx.Query(ctx,
		`SELECT id, user_id, name, description, created_at
		 FROM projects WHERE user_id = $1 ORDER BY created_at, id`, userID)
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
	var exists bool
	err := r.tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM tasks WHERE project_id = $1 AND status = $2)`,
		projectID, string(domain.StatusPending),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check pending tasks: %w", err)
	}
	return exists, nil
}

func (r *ProjectRepository) Add(ctx context.Context, project *domain.Project) error {
	now := time.Now().UTC()
	err := r.tx.QueryRow(ctx,
		`INSERT INTO projects (user_id, name, description, created_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		project.UserID, project.Name, project.Description, now,
	).Scan(&project.ID)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	project.CreatedAt = now
	return nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	tag, err := r.tx.Exec(ctx,
		`UPDATE projects SET name = $1, description = $2 WHERE id = $3`,
		project.Name, project.Description, project.ID,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) Remove(ctx context.Context, id int64) error {
	tag, err := r.tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
