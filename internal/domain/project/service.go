package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maerl/reporting/internal/domain/errs"
	"github.com/maerl/reporting/internal/domain/update"
	"github.com/maerl/reporting/internal/repository"
)

// Service handles project operations.
type Service struct {
	repo      Repository
	feed      Feed
	feedLimit int
	logger    *slog.Logger
}

// NewService creates a new project service. feedLimit caps the dashboard
// feed; zero uses update.DefaultFeedLimit.
func NewService(repo Repository, feed Feed, feedLimit int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if feedLimit <= 0 {
		feedLimit = update.DefaultFeedLimit
	}
	return &Service{repo: repo, feed: feed, feedLimit: feedLimit, logger: logger}
}

// Get fetches a project by id or slug.
func (s *Service) Get(ctx context.Context, identifier string) (*Project, error) {
	proj, err := s.repo.Get(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, identifier)
		}
		return nil, errs.Store("get project", err)
	}
	return proj, nil
}

// List returns all projects ordered by id.
func (s *Service) List(ctx context.Context) ([]Project, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, errs.Store("list projects", err)
	}
	return projects, nil
}

// Dashboard builds the overview from the latest updates.
func (s *Service) Dashboard(ctx context.Context, now time.Time) (*Dashboard, error) {
	updates, err := s.feed.Latest(ctx, s.feedLimit)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Projects: update.DedupeProjects(updates),
		Updates:  update.Rows(updates, now),
	}, nil
}
