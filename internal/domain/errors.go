package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidOperation = errors.New("operation not allowed")
	ErrQuotaExceeded    = errors.New("task quota exceeded")
	ErrDuplicateEmail   = errors.New("email already exists")
	ErrUnauthorized     = errors.New("unauthorized")
)
