package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rmoretto/taskboard/internal/domain"
)

// UserRepository implements domain.UserRepository using PostgreSQL.
type UserRepository struct {
	tx pgx.Tx
}

const userColumns = `id, name, email, password_hash, role, recovery_token, recovery_token_expires_at, created_at`

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.tx.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.tx.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) GetByRecoveryToken(ctx context.Context, token string) (*domain.User, error) {
	return scanUser(r.tx.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE recovery_token = $1`, token))
}

func (r *UserRepository) Add(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	err := r.tx.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, role, recovery_token, recovery_token_expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		user.Name, user.Email, user.PasswordHash, user.Role,
		user.RecoveryToken, user.RecoveryTokenExpiresAt, now,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.CreatedAt = now
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	tag, err := r.tx.Exec(ctx,
		`UPDATE users SET name = $1, email = $2, password_hash = $3, role = $4, recovery_token = $5, recovery_token_expires_at = $6
		 WHERE id = $7`,
		user.Name, user.Email, user.PasswordHash, user.Role,
		user.RecoveryToken, user.RecoveryTokenExpiresAt, user.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Remove(ctx context.Context, id int64) error {
	tag, err := r.tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("%w: user is still referenced", domain.ErrInvalidOperation)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Role, &user.RecoveryToken, &user.RecoveryTokenExpiresAt, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}
