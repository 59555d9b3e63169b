// Package repository selects and opens the configured storage backend.
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/rmoretto/taskboard/internal/domain"
	"github.com/rmoretto/taskboard/internal/repository/postgres"
	"github.com/rmoretto/taskboard/internal/repository/sqlite"
)

// Config describes which backend to open and how to reach it.
type Config struct {
	// Backend is "sqlite" (default when empty) or "postgres".
	Backend string
	// SQLitePath is the database file path for the sqlite backend.
	SQLitePath string
	// PostgresURL is the connection string for the postgres backend.
	PostgresURL string
}

// Open opens the configured storage backend.
func Open(ctx context.Context, cfg Config) (domain.Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = "sqlite"
	}

	switch backend {
	case "sqlite":
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite backend requires a database path")
		}
		return sqlite.New(cfg.SQLitePath)

	case "postgres":
		if cfg.PostgresURL == "" {
			return nil, fmt.Errorf("postgres backend requires a connection string")
		}
		return postgres.New(ctx, cfg.PostgresURL)

	default:
		return nil, fmt.Errorf("unknown storage backend: %q. Expected 'sqlite' or 'postgres'", cfg.Backend)
	}
}
