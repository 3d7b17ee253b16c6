package indicator

import (
	"context"

	"github.com/maerl/reporting/internal/domain/update"
)

// Repository provides read access to impact indicators.
type Repository interface {
	List(ctx context.Context) ([]Indicator, error)
	Summaries(ctx context.Context, r update.DateRange) ([]Summary, error)
}
