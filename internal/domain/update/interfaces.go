package update

import "context"

// Repository provides persistence for updates.
type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]Update, error)
	Create(ctx context.Context, u *Update) error
	// MeasurableIndicatorID returns the indicator linked to an output
	// measurable, or nil.
	MeasurableIndicatorID(ctx context.Context, outputMeasurableID int64) (*int64, error)
	ProjectOutputs(ctx context.Context) ([]ProjectOutputs, error)
}
