package logframe

import (
	"strings"

	"github.com/maerl/reporting/internal/domain/errs"
)

// ValidateImpact checks the fields required to write an impact.
func ValidateImpact(impact Impact) error {
	if impact.ProjectID == 0 {
		return errs.Missing("project_id")
	}
	if strings.TrimSpace(impact.Title) == "" {
		return errs.Missing("title")
	}
	return nil
}

// ValidateOutcome checks an outcome and every supplied child measurable.
// Children are checked without an outcome id since the write stamps it.
func ValidateOutcome(in OutcomeInput) error {
	if in.ProjectID == 0 {
		return errs.Missing("project_id")
	}
	if strings.TrimSpace(in.Code) == "" {
		return errs.Missing("code")
	}
	if strings.TrimSpace(in.Description) == "" {
		return errs.Missing("description")
	}
	for _, m := range in.Measurables {
		if strings.TrimSpace(m.Description) == "" {
			return errs.Missing("outcome_measurables.description")
		}
		if strings.TrimSpace(m.Code) == "" {
			return errs.Missing("outcome_measurables.code")
		}
	}
	return nil
}

// ValidateOutcomeMeasurable checks the fields required to write an outcome measurable.
func ValidateOutcomeMeasurable(m OutcomeMeasurable) error {
	if m.OutcomeID == 0 {
		return errs.Missing("outcome_id")
	}
	if strings.TrimSpace(m.Description) == "" {
		return errs.Missing("description")
	}
	if strings.TrimSpace(m.Code) == "" {
		return errs.Missing("code")
	}
	return nil
}

// ValidateOutput checks the fields required to write an output.
func ValidateOutput(out Output) error {
	if out.OutcomeMeasurableID == nil || *out.OutcomeMeasurableID == 0 {
		return errs.Missing("outcome_measurable_id")
	}
	if strings.TrimSpace(out.Description) == "" {
		return errs.Missing("description")
	}
	if strings.TrimSpace(out.Code) == "" {
		return errs.Missing("code")
	}
	return nil
}

// ValidateOutputMeasurable checks the fields required to write an output measurable.
func ValidateOutputMeasurable(m OutputMeasurable) error {
	if m.OutputID == 0 {
		return errs.Missing("output_id")
	}
	if strings.TrimSpace(m.Code) == "" {
		return errs.Missing("code")
	}
	if strings.TrimSpace(m.Description) == "" {
		return errs.Missing("description")
	}
	return nil
}
