package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rmoretto/taskboard/internal/domain"
)

// HistoryRepository implements domain.HistoryRepository using PostgreSQL.
// Rows are append-only; deletion happens only via the task cascade.
type HistoryRepository struct {
	tx pgx.Tx
}

func (r *HistoryRepository) ListByTask(ctx context.Context, taskID int64) ([]domain.HistoryEntry, error) {
	rows, err := r.tx.Query(ctx,
		`SELECT id, task_id, user_id, description, changed_at
		 FROM task_history WHERE task_id = $1 ORDER BY changed_at, id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		if err := rows.Scan(&e.ID, &e.TaskID, &e.UserID, &e.Description, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *HistoryRepository) Add(ctx context.Context, entry *domain.HistoryEntry) error {
	err := r.tx.QueryRow(ctx,
		`INSERT INTO task_history (task_id, user_id, description, changed_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		entry.TaskID, entry.UserID, entry.Description, entry.ChangedAt.UTC(),
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}
