package domain

import "context"

// Store defines lifecycle operations for the underlying database.
// Each implementation (SQLite, Postgres) owns its own migration files and
// strategy, ensuring the entire backend is swappable.
type Store interface {
	// Begin opens a unit of work. Every staged change is applied
	// atomically by Commit; Rollback discards anything uncommitted.
	Begin(ctx context.Context) (UnitOfWork, error)
	Migrate(ctx context.Context) error
	Close() error
}

// UnitOfWork scopes one logical operation. All repository calls obtained
// from the same unit of work share one transaction: reads observe staged
// writes, and nothing becomes durable until Commit.
//
// Rollback after a successful Commit is a no-op, so callers can
// `defer uow.Rollback()` unconditionally.
type UnitOfWork interface {
	Users() UserRepository
	Projects() ProjectRepository
	Tasks() TaskRepository
	History() HistoryRepository

	Commit(ctx context.Context) error
	Rollback() error
}
