package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rmoretto/taskboard/internal/domain"
)

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	tx *sql.Tx
}

const userColumns = `id, name, email, password_hash, role, recovery_token, recovery_token_expires_at, created_at`

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.tx.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.tx.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *UserRepository) GetByRecoveryToken(ctx context.Context, token string) (*domain.User, error) {
	row := r.tx.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE recovery_token = ?`, token)
	return scanUser(row)
}

func (r *UserRepository) Add(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	result, err := r.tx.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, role, recovery_token, recovery_token_expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.Name, user.Email, user.PasswordHash, user.Role,
		user.RecoveryToken, nullTime(user.RecoveryTokenExpiresAt), now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	result, err := r.tx.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, password_hash = ?, role = ?, recovery_token = ?, recovery_token_expires_at = ?
		 WHERE id = ?`,
		user.Name, user.Email, user.PasswordHash, user.Role,
		user.RecoveryToken, nullTime(user.RecoveryTokenExpiresAt), user.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(result)
}

func (r *UserRepository) Remove(ctx context.Context, id int64) error {
	result, err := r.tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("%w: user is still referenced", domain.ErrInvalidOperation)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRow(result)
}

func scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	var token sql.NullString
	var expires sql.NullTime
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Role, &token, &expires, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if token.Valid {
		user.RecoveryToken = &token.String
	}
	if expires.Valid {
		t := expires.Time
		user.RecoveryTokenExpiresAt = &t
	}
	return user, nil
}

// requireRow maps a zero-row write to ErrNotFound.
func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
