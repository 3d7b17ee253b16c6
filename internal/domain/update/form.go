package update

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/maerl/reporting/internal/domain/errs"
)

// FormMeasurable is an output measurable that updates can be recorded against.
type FormMeasurable struct {
	ID                int64  `json:"id"`
	Code              string `json:"code"`
	Description       string `json:"description"`
	ImpactIndicatorID *int64 `json:"impact_indicator_id,omitempty"`
}

// FormOutput is an output and its measurables.
type FormOutput struct {
	ID          int64            `json:"id"`
	Code        string           `json:"code"`
	Description string           `json:"description"`
	Measurables []FormMeasurable `json:"measurables"`
}

// ProjectOutputs is a project with the outputs the entry form offers for it.
type ProjectOutputs struct {
	ID      int64        `json:"id"`
	Name    string       `json:"name"`
	Outputs []FormOutput `json:"outputs"`
}

// Option is a select option.
type Option struct {
	Value int64  `json:"value"`
	Label string `json:"label"`
	// IndicatorID is set on measurable options tagged with an impact indicator.
	IndicatorID *int64 `json:"impact_indicator_id,omitempty"`
}

// OutputGroup groups measurable options under their output.
type OutputGroup struct {
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Measurables []Option `json:"measurables"`
}

// EntryForm is the view model of the update entry form.
type EntryForm struct {
	Projects    []Option      `json:"projects"`
	ProjectID   int64         `json:"project_id"`
	Outputs     []OutputGroup `json:"outputs"`
	Types       []Type        `json:"types"`
	DefaultType Type          `json:"default_type"`
	DefaultDate string        `json:"default_date"`
}

// BuildEntryForm builds the entry form. projectParam is the numeric project
// id from the query string; when empty or unmatched the first project is the
// target.
func BuildEntryForm(projects []ProjectOutputs, projectParam string, now time.Time) (EntryForm, error) {
	form := EntryForm{
		Projects:    make([]Option, 0, len(projects)),
		Outputs:     []OutputGroup{},
		Types:       []Type{TypeImpact, TypeProgress},
		DefaultType: TypeImpact,
		DefaultDate: now.Format(ExportDateLayout),
	}

	var wanted int64
	if p := strings.TrimSpace(projectParam); p != "" {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return EntryForm{}, errs.Invalid("project")
		}
		wanted = id
	}

	var target *ProjectOutputs
	for i := range projects {
		p := &projects[i]
		form.Projects = append(form.Projects, Option{Value: p.ID, Label: p.Name})
		if p.ID == wanted && target == nil {
			target = p
		}
	}
	if target == nil && len(projects) > 0 {
		target = &projects[0]
	}
	if target == nil {
		return form, nil
	}

	form.ProjectID = target.ID
	for _, out := range target.Outputs {
		group := OutputGroup{
			Code:        out.Code,
			Description: out.Description,
			Measurables: make([]Option, 0, len(out.Measurables)),
		}
		for _, m := range out.Measurables {
			group.Measurables = append(group.Measurables, Option{
				Value:       m.ID,
				Label:       fmt.Sprintf("%s: %s", m.Code, m.Description),
				IndicatorID: m.ImpactIndicatorID,
			})
		}
		form.Outputs = append(form.Outputs, group)
	}
	return form, nil
}
