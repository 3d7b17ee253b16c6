package logframe

import "context"

// Repository reads and writes logframe rows.
type Repository interface {
	FetchProjectRecord(ctx context.Context, identifier string) (*ProjectRecord, error)
	UpsertImpact(ctx context.Context, impact Impact) (*Impact, error)
	UpsertOutcome(ctx context.Context, outcome Outcome) (*Outcome, error)
	UpsertOutcomeMeasurables(ctx context.Context, measurables []OutcomeMeasurable) ([]OutcomeMeasurable, error)
	UpsertOutput(ctx context.Context, output Output) (*Output, error)
	UpsertOutputMeasurable(ctx context.Context, measurable OutputMeasurable) (*OutputMeasurable, error)
	MeasurableProjectID(ctx context.Context, outcomeMeasurableID int64) (int64, error)
	ListOutputMeasurables(ctx context.Context, outputID int64) ([]OutputMeasurable, error)
}
