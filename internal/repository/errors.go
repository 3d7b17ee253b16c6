package repository

import "errors"

var (
	// ErrNotFound is returned when a requested row doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write collides with a unique constraint
	ErrConflict = errors.New("conflict: unique constraint violated")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrInvalidInput is returned when a check constraint rejects a row
	ErrInvalidInput = errors.New("invalid input")
)
