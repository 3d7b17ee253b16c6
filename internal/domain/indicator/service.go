package indicator

import (
	"context"
	"log/slog"
	"strings"

	"github.com/maerl/reporting/internal/domain/errs"
	"github.com/maerl/reporting/internal/domain/update"
)

// Service handles impact indicator reads.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new indicator service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// List returns all indicators ordered by id.
func (s *Service) List(ctx context.Context) ([]Indicator, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, errs.Store("list impact indicators", err)
	}
	return items, nil
}

// Summaries totals impact updates per indicator within r.
func (s *Service) Summaries(ctx context.Context, r update.DateRange) ([]Summary, error) {
	items, err := s.repo.Summaries(ctx, r)
	if err != nil {
		return nil, errs.Store("summarize impact indicators", err)
	}
	for i := range items {
		items[i].Display = displayTotal(items[i])
	}
	s.logger.Debug("impact indicator summaries", "count", len(items),
		"from", r.FromString(), "to", r.ToString())
	return items, nil
}

func displayTotal(sum Summary) string {
	v := update.FormatValue(sum.Total)
	if unit := strings.TrimSpace(sum.Unit); unit != "" {
		return v + " " + unit
	}
	return v
}
