package logframe

import (
	"fmt"

	"github.com/maerl/reporting/internal/domain/errs"
)

var (
	// ErrProjectNotFound indicates no project matches the requested id or slug.
	ErrProjectNotFound = fmt.Errorf("project %w", errs.ErrNotFound)
)
