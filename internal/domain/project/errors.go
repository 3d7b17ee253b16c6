package project

import (
	"fmt"

	"github.com/maerl/reporting/internal/domain/errs"
)

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = fmt.Errorf("project %w", errs.ErrNotFound)
)
