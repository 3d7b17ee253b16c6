package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/maerl/reporting/internal/repository"
)

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23514"
	}
	return strings.Contains(err.Error(), "CHECK constraint failed")
}

// writeError classifies a failed write. The driver's message is kept.
func writeError(op string, err error) error {
	switch {
	case isForeignKeyViolation(err):
		return fmt.Errorf("failed to %s: %w: %w", op, repository.ErrForeignKeyViolation, err)
	case isUniqueViolation(err):
		return fmt.Errorf("failed to %s: %w: %w", op, repository.ErrConflict, err)
	case isCheckViolation(err):
		return fmt.Errorf("failed to %s: %w: %w", op, repository.ErrInvalidInput, err)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
