package mcp

import (
	"github.com/maerl/reporting/internal/domain/indicator"
	"github.com/maerl/reporting/internal/domain/project"
	"github.com/maerl/reporting/internal/domain/update"
)

type ListProjectsParams struct{}

type ListProjectsResult struct {
	Projects []project.Project `json:"projects"`
}

type GetLogframeParams struct {
	Identifier string `json:"identifier" jsonschema:"project id or slug"`
}

// TableParams selects a view of the updates table.
type TableParams struct {
	From    string            `json:"from,omitempty" jsonschema:"inclusive start date, YYYY-MM-DD"`
	To      string            `json:"to,omitempty" jsonschema:"inclusive end date, YYYY-MM-DD"`
	Sort    string            `json:"sort,omitempty" jsonschema:"column to sort by, prefix with - for descending"`
	Filters map[string]string `json:"filters,omitempty" jsonschema:"exact match per column: project, date, output, impact_indicator, type, value, description"`
}

type ListUpdatesResult struct {
	Rows     []update.Row            `json:"rows"`
	Projects []update.ProjectSummary `json:"projects"`
	Count    int                     `json:"count"`
}

type ExportUpdatesResult struct {
	CSV   string `json:"csv"`
	Count int    `json:"count"`
}

type ListIndicatorsParams struct{}

type ListIndicatorsResult struct {
	Indicators []indicator.Indicator `json:"indicators"`
}

type SummariesParams struct {
	From string `json:"from,omitempty" jsonschema:"inclusive start date, YYYY-MM-DD"`
	To   string `json:"to,omitempty" jsonschema:"inclusive end date, YYYY-MM-DD"`
}

type SummariesResult struct {
	Summaries []indicator.Summary `json:"summaries"`
}
