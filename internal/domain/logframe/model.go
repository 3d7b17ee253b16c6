package logframe

// Impact is the broadest level of a project's results chain.
type Impact struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"project_id"`
	Title     string `json:"title"`
}

// Outcome belongs to a project and groups outcome measurables.
type Outcome struct {
	ID          int64  `json:"id"`
	ProjectID   int64  `json:"project_id"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// OutcomeMeasurable is an indicator used to assess an outcome.
type OutcomeMeasurable struct {
	ID           int64  `json:"id"`
	OutcomeID    int64  `json:"outcome_id"`
	Code         string `json:"code"`
	Description  string `json:"description"`
	Verification string `json:"verification"`
	Assumptions  string `json:"assumptions"`
}

// Output hangs off an outcome measurable and also records its project.
type Output struct {
	ID                  int64  `json:"id"`
	OutcomeMeasurableID *int64 `json:"outcome_measurable_id,omitempty"`
	ProjectID           int64  `json:"project_id"`
	Code                string `json:"code"`
	Description         string `json:"description"`
}

// OutputMeasurable is an indicator used to assess an output.
type OutputMeasurable struct {
	ID                int64         `json:"id"`
	OutputID          int64         `json:"output_id"`
	Code              string        `json:"code"`
	Description       string        `json:"description"`
	Verification      string        `json:"verification"`
	Assumptions       string        `json:"assumptions"`
	Target            string        `json:"target"`
	ImpactIndicatorID *int64        `json:"impact_indicator_id,omitempty"`
	ImpactIndicator   *IndicatorRef `json:"impact_indicator,omitempty"`
}

// IndicatorRef is the slice of an impact indicator shown next to a measurable.
type IndicatorRef struct {
	ID    int64  `json:"id"`
	Code  string `json:"code"`
	Title string `json:"title"`
}

// MeasurableRecord is an outcome measurable with its nested outputs as
// returned by the store.
type MeasurableRecord struct {
	OutcomeMeasurable
	Outputs []Output `json:"outputs"`
}

// OutcomeRecord is an outcome with its nested measurables as returned by the
// store.
type OutcomeRecord struct {
	Outcome
	Measurables []MeasurableRecord `json:"outcome_measurables"`
}

// ProjectRecord is one denormalized project row with every logframe relation
// expanded. Outputs is the flat, project-scoped output list.
type ProjectRecord struct {
	ID       int64           `json:"id"`
	Slug     string          `json:"slug"`
	Name     string          `json:"name"`
	Impacts  []Impact        `json:"impacts"`
	Outcomes []OutcomeRecord `json:"outcomes"`
	Outputs  []Output        `json:"outputs"`
}

// ProjectHeader identifies the project a tree was built for.
type ProjectHeader struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// MeasurableNode is an outcome measurable and the outputs under it.
type MeasurableNode struct {
	OutcomeMeasurable
	Outputs []Output `json:"outputs"`
}

// OutcomeNode is an outcome and its measurables.
type OutcomeNode struct {
	Outcome
	Measurables []MeasurableNode `json:"measurables"`
}

// Tree is the hierarchical logframe view model.
type Tree struct {
	Project    ProjectHeader `json:"project"`
	Impacts    []Impact      `json:"impacts"`
	Outcomes   []OutcomeNode `json:"outcomes"`
	Unassigned []Output      `json:"unassigned_outputs"`
}

// WarningKind classifies a non-fatal finding of the tree builder.
type WarningKind string

const (
	WarningOrphanOutput    WarningKind = "OrphanOutput"
	WarningProjectMismatch WarningKind = "ProjectMismatch"
	WarningMultipleImpacts WarningKind = "MultipleImpacts"
)

// Warning is attached to a built tree; it never fails the build.
type Warning struct {
	Kind     WarningKind `json:"kind"`
	OutputID int64       `json:"output_id,omitempty"`
	Message  string      `json:"message"`
}

// OutcomeInput is an outcome upsert with optional child measurables. A nil
// Measurables slice means no children were supplied.
type OutcomeInput struct {
	Outcome
	Measurables []OutcomeMeasurable `json:"outcome_measurables,omitempty"`
}
