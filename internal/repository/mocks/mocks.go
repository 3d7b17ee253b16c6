package mocks

import (
	"context"

	"github.com/maerl/reporting/internal/domain/indicator"
	"github.com/maerl/reporting/internal/domain/logframe"
	"github.com/maerl/reporting/internal/domain/project"
	"github.com/maerl/reporting/internal/domain/update"
	"github.com/stretchr/testify/mock"
)

var (
	_ project.Repository   = (*ProjectRepository)(nil)
	_ logframe.Repository  = (*LogframeRepository)(nil)
	_ update.Repository    = (*UpdateRepository)(nil)
	_ indicator.Repository = (*IndicatorRepository)(nil)
	_ project.Feed         = (*Feed)(nil)
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Get(ctx context.Context, identifier string) (*project.Project, error) {
	args := m.Called(ctx, identifier)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// LogframeRepository is a mock for logframe.Repository.
type LogframeRepository struct {
	mock.Mock
}

func (m *LogframeRepository) FetchProjectRecord(ctx context.Context, identifier string) (*logframe.ProjectRecord, error) {
	args := m.Called(ctx, identifier)
	if rec, ok := args.Get(0).(*logframe.ProjectRecord); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LogframeRepository) UpsertImpact(ctx context.Context, impact logframe.Impact) (*logframe.Impact, error) {
	args := m.Called(ctx, impact)
	if out, ok := args.Get(0).(*logframe.Impact); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LogframeRepository) UpsertOutcome(ctx context.Context, outcome logframe.Outcome) (*logframe.Outcome, error) {
	args := m.Called(ctx, outcome)
	if out, ok := args.Get(0).(*logframe.Outcome); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LogframeRepository) UpsertOutcomeMeasurables(ctx context.Context, items []logframe.OutcomeMeasurable) ([]logframe.OutcomeMeasurable, error) {
	args := m.Called(ctx, items)
	if out, ok := args.Get(0).([]logframe.OutcomeMeasurable); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LogframeRepository) UpsertOutput(ctx context.Context, output logframe.Output) (*logframe.Output, error) {
	args := m.Called(ctx, output)
	if out, ok := args.Get(0).(*logframe.Output); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LogframeRepository) UpsertOutputMeasurable(ctx context.Context, item logframe.OutputMeasurable) (*logframe.OutputMeasurable, error) {
	args := m.Called(ctx, item)
	if out, ok := args.Get(0).(*logframe.OutputMeasurable); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LogframeRepository) MeasurableProjectID(ctx context.Context, outcomeMeasurableID int64) (int64, error) {
	args := m.Called(ctx, outcomeMeasurableID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *LogframeRepository) ListOutputMeasurables(ctx context.Context, outputID int64) ([]logframe.OutputMeasurable, error) {
	args := m.Called(ctx, outputID)
	if out, ok := args.Get(0).([]logframe.OutputMeasurable); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateRepository is a mock for update.Repository.
type UpdateRepository struct {
	mock.Mock
}

func (m *UpdateRepository) List(ctx context.Context, opts update.ListOptions) ([]update.Update, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]update.Update); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UpdateRepository) Create(ctx context.Context, u *update.Update) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UpdateRepository) MeasurableIndicatorID(ctx context.Context, outputMeasurableID int64) (*int64, error) {
	args := m.Called(ctx, outputMeasurableID)
	if id, ok := args.Get(0).(*int64); ok {
		return id, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UpdateRepository) ProjectOutputs(ctx context.Context) ([]update.ProjectOutputs, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]update.ProjectOutputs); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// IndicatorRepository is a mock for indicator.Repository.
type IndicatorRepository struct {
	mock.Mock
}

func (m *IndicatorRepository) List(ctx context.Context) ([]indicator.Indicator, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]indicator.Indicator); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *IndicatorRepository) Summaries(ctx context.Context, r update.DateRange) ([]indicator.Summary, error) {
	args := m.Called(ctx, r)
	if list, ok := args.Get(0).([]indicator.Summary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Feed is a mock for project.Feed.
type Feed struct {
	mock.Mock
}

func (m *Feed) Latest(ctx context.Context, limit int) ([]update.Update, error) {
	args := m.Called(ctx, limit)
	if list, ok := args.Get(0).([]update.Update); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
