package update

import (
	"strings"

	"github.com/maerl/reporting/internal/domain/errs"
)

// ValidateNewUpdate checks the fields required to record an update.
func ValidateNewUpdate(in NewUpdate) error {
	if in.ProjectID == 0 {
		return errs.Missing("project_id")
	}
	if in.OutputMeasurableID == 0 {
		return errs.Missing("output_measurable_id")
	}
	if in.Type == "" {
		return errs.Missing("type")
	}
	if !in.Type.Valid() {
		return errs.Invalid("type")
	}
	if in.Date.IsZero() {
		return errs.Missing("date")
	}
	if strings.TrimSpace(in.Description) == "" {
		return errs.Missing("description")
	}
	if in.Type == TypeProgress && in.Value != nil {
		return errs.Invalid("value")
	}
	return nil
}
