package update

import "time"

// Type distinguishes impact updates, which may carry a value, from progress notes.
type Type string

const (
	TypeImpact   Type = "Impact"
	TypeProgress Type = "Progress"
)

// Valid reports whether t is one of the known update types.
func (t Type) Valid() bool {
	return t == TypeImpact || t == TypeProgress
}

// ProjectRef is the project data embedded in an update row.
type ProjectRef struct {
	ID             int64  `json:"id"`
	Slug           string `json:"slug"`
	Name           string `json:"name"`
	HighlightColor string `json:"highlight_color"`
}

// MeasurableRef is the output measurable data embedded in an update row.
type MeasurableRef struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// IndicatorRef is the impact indicator data embedded in an update row.
type IndicatorRef struct {
	ID    int64  `json:"id"`
	Code  string `json:"code"`
	Title string `json:"title"`
	Unit  string `json:"unit"`
}

// Update is a dated event recorded against an output measurable.
type Update struct {
	ID                 int64          `json:"id"`
	ProjectID          int64          `json:"project_id"`
	OutputMeasurableID int64          `json:"output_measurable_id"`
	Type               Type           `json:"type"`
	Value              *float64       `json:"value,omitempty"`
	Description        string         `json:"description"`
	Link               string         `json:"link,omitempty"`
	Date               time.Time      `json:"date"`
	CreatedAt          time.Time      `json:"created_at"`
	Project            *ProjectRef    `json:"project,omitempty"`
	OutputMeasurable   *MeasurableRef `json:"output_measurable,omitempty"`
	ImpactIndicator    *IndicatorRef  `json:"impact_indicator,omitempty"`
}

// ProjectSummary is a distinct project referenced by a list of updates.
type ProjectSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// NewUpdate holds the fields accepted when recording an update.
type NewUpdate struct {
	ProjectID          int64     `json:"project_id"`
	OutputMeasurableID int64     `json:"output_measurable_id"`
	ImpactIndicatorID  *int64    `json:"impact_indicator_id,omitempty"`
	Type               Type      `json:"type"`
	Value              *float64  `json:"value,omitempty"`
	Description        string    `json:"description"`
	Link               string    `json:"link,omitempty"`
	Date               time.Time `json:"date"`
}

// ListOptions narrows a store query for updates.
type ListOptions struct {
	Range DateRange
	Limit int
}
