package update

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/maerl/reporting/internal/domain/errs"
	"github.com/maerl/reporting/internal/repository"
)

// DefaultFeedLimit is the number of updates shown on the dashboard feed.
const DefaultFeedLimit = 15

// Service handles update operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new update service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// List returns the updates within r, newest first.
func (s *Service) List(ctx context.Context, r DateRange) ([]Update, error) {
	updates, err := s.repo.List(ctx, ListOptions{Range: r})
	if err != nil {
		return nil, errs.Store("list updates", err)
	}
	return updates, nil
}

// Latest returns the newest updates. A non-positive limit uses DefaultFeedLimit.
func (s *Service) Latest(ctx context.Context, limit int) ([]Update, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	updates, err := s.repo.List(ctx, ListOptions{Limit: limit})
	if err != nil {
		return nil, errs.Store("list latest updates", err)
	}
	return updates, nil
}

// Create records a new update.
func (s *Service) Create(ctx context.Context, in NewUpdate) (*Update, error) {
	if err := ValidateNewUpdate(in); err != nil {
		return nil, err
	}
	if in.Type == TypeImpact && in.Value != nil && in.ImpactIndicatorID == nil {
		if err := s.requireIndicator(ctx, in.OutputMeasurableID); err != nil {
			return nil, err
		}
	}

	u := &Update{
		ProjectID:          in.ProjectID,
		OutputMeasurableID: in.OutputMeasurableID,
		Type:               in.Type,
		Value:              in.Value,
		Description:        in.Description,
		Link:               in.Link,
		Date:               in.Date,
		CreatedAt:          s.now().UTC(),
	}
	if in.ImpactIndicatorID != nil {
		u.ImpactIndicator = &IndicatorRef{ID: *in.ImpactIndicatorID}
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, errs.Store("create update", err)
	}
	s.logger.Info("update recorded", "id", u.ID, "project_id", u.ProjectID, "type", u.Type)
	return u, nil
}

// requireIndicator rejects a valued impact update whose measurable has no
// indicator to carry the value.
func (s *Service) requireIndicator(ctx context.Context, outputMeasurableID int64) error {
	id, err := s.repo.MeasurableIndicatorID(ctx, outputMeasurableID)
	if errors.Is(err, repository.ErrNotFound) {
		return &errs.ValidationError{Kind: errs.InconsistentReference, Field: "output_measurable_id"}
	}
	if err != nil {
		return errs.Store("get measurable indicator", err)
	}
	if id == nil {
		return errs.Invalid("value")
	}
	return nil
}

// EntryForm loads every project's outputs and builds the entry form.
func (s *Service) EntryForm(ctx context.Context, projectParam string, now time.Time) (EntryForm, error) {
	projects, err := s.repo.ProjectOutputs(ctx)
	if err != nil {
		return EntryForm{}, errs.Store("load entry form", err)
	}
	return BuildEntryForm(projects, projectParam, now)
}
