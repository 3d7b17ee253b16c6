package logframe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maerl/reporting/internal/domain/errs"
	"github.com/maerl/reporting/internal/repository"
)

// Service loads logframes and writes their rows.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new logframe service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// Logframe is a built tree with the warnings found while building it.
type Logframe struct {
	Tree     Tree      `json:"tree"`
	Warnings []Warning `json:"warnings"`
}

// Get fetches the project identified by a numeric id or a slug and builds its tree.
func (s *Service) Get(ctx context.Context, identifier string) (*Logframe, error) {
	rec, err := s.repo.FetchProjectRecord(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, identifier)
		}
		return nil, errs.Store("fetch logframe", err)
	}

	tree, warnings, err := Build(*rec)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		s.logger.Warn("logframe warning", "project", rec.Slug, "kind", w.Kind, "output_id", w.OutputID)
	}
	if warnings == nil {
		warnings = []Warning{}
	}
	return &Logframe{Tree: tree, Warnings: warnings}, nil
}

// UpsertImpact creates or updates an impact.
func (s *Service) UpsertImpact(ctx context.Context, impact Impact) (*Impact, error) {
	if err := ValidateImpact(impact); err != nil {
		return nil, err
	}
	out, err := s.repo.UpsertImpact(ctx, impact)
	if err != nil {
		return nil, errs.Store("upsert impact", err)
	}
	return out, nil
}

// UpsertOutcome writes the outcome row and then, when measurables were
// supplied, writes all of them in one batch stamped with the outcome id.
//
// The two writes are not atomic. If the batch fails the outcome stays
// committed and a *errs.PartialWriteError carrying it is returned.
func (s *Service) UpsertOutcome(ctx context.Context, in OutcomeInput) (*Outcome, error) {
	if err := ValidateOutcome(in); err != nil {
		return nil, err
	}

	outcome, err := s.repo.UpsertOutcome(ctx, in.Outcome)
	if err != nil {
		return nil, errs.Store("upsert outcome", err)
	}

	if in.Measurables == nil {
		return outcome, nil
	}

	children := make([]OutcomeMeasurable, len(in.Measurables))
	for i, m := range in.Measurables {
		m.OutcomeID = outcome.ID
		children[i] = m
	}
	if _, err := s.repo.UpsertOutcomeMeasurables(ctx, children); err != nil {
		s.logger.Error("outcome committed but measurables failed",
			"outcome_id", outcome.ID, "measurables", len(children), "error", err)
		return outcome, &errs.PartialWriteError{
			Committed: *outcome,
			Err:       errs.Store("upsert outcome measurables", err),
		}
	}
	return outcome, nil
}

// UpsertOutcomeMeasurable creates or updates a single outcome measurable.
func (s *Service) UpsertOutcomeMeasurable(ctx context.Context, m OutcomeMeasurable) (*OutcomeMeasurable, error) {
	if err := ValidateOutcomeMeasurable(m); err != nil {
		return nil, err
	}
	out, err := s.repo.UpsertOutcomeMeasurables(ctx, []OutcomeMeasurable{m})
	if err != nil {
		return nil, errs.Store("upsert outcome measurable", err)
	}
	if len(out) == 0 {
		return nil, errs.Store("upsert outcome measurable", errors.New("no row returned"))
	}
	return &out[0], nil
}

// UpsertOutput creates or updates an output. An unset project id is taken
// from the parent measurable's outcome; a different one is rejected.
func (s *Service) UpsertOutput(ctx context.Context, out Output) (*Output, error) {
	if err := ValidateOutput(out); err != nil {
		return nil, err
	}

	projectID, err := s.repo.MeasurableProjectID(ctx, *out.OutcomeMeasurableID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &errs.ValidationError{Kind: errs.InconsistentReference, Field: "outcome_measurable_id"}
		}
		return nil, errs.Store("lookup outcome measurable", err)
	}
	switch {
	case out.ProjectID == 0:
		out.ProjectID = projectID
	case out.ProjectID != projectID:
		return nil, &errs.ValidationError{Kind: errs.InconsistentReference, Field: "project_id"}
	}

	written, err := s.repo.UpsertOutput(ctx, out)
	if err != nil {
		return nil, errs.Store("upsert output", err)
	}
	return written, nil
}

// UpsertOutputMeasurable creates or updates an output measurable.
func (s *Service) UpsertOutputMeasurable(ctx context.Context, m OutputMeasurable) (*OutputMeasurable, error) {
	if err := ValidateOutputMeasurable(m); err != nil {
		return nil, err
	}
	out, err := s.repo.UpsertOutputMeasurable(ctx, m)
	if err != nil {
		return nil, errs.Store("upsert output measurable", err)
	}
	return out, nil
}

// OutputMeasurables lists an output's measurables with the code the next one
// should take.
func (s *Service) OutputMeasurables(ctx context.Context, outputID int64) ([]OutputMeasurable, string, error) {
	items, err := s.repo.ListOutputMeasurables(ctx, outputID)
	if err != nil {
		return nil, "", errs.Store("list output measurables", err)
	}
	return items, NextOutputMeasurableCode(items), nil
}
