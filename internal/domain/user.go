package domain

import (
	"context"
	"time"
)

// Roles a user may hold. Reports are restricted to managers.
const (
	RoleMember  = "member"
	RoleManager = "manager"
)

// User represents a registered user of the application.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string

	// RecoveryToken holds a pending password-recovery token and its
	// expiry. Both are nil when no recovery is in progress.
	RecoveryToken          *string
	RecoveryTokenExpiresAt *time.Time

	CreatedAt time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByRecoveryToken(ctx context.Context, token string) (*User, error)
	Add(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Remove(ctx context.Context, id int64) error
}
