package project

import (
	"context"

	"github.com/maerl/reporting/internal/domain/update"
)

// Repository provides persistence for projects.
type Repository interface {
	// Get looks a project up by numeric id or slug.
	Get(ctx context.Context, identifier string) (*Project, error)
	List(ctx context.Context) ([]Project, error)
}

// Feed supplies the newest updates for the dashboard.
type Feed interface {
	Latest(ctx context.Context, limit int) ([]update.Update, error)
}
