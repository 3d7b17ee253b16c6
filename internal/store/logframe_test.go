package store

import (
	"context"
	"testing"

	"github.com/maerl/reporting/internal/domain/logframe"
	"github.com/maerl/reporting/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestLogframeRepository_FetchProjectRecord(t *testing.T) {
	db := NewTestDB(t)
	f := seed(t, db)
	repo := NewLogframeRepository(db)

	rec, err := repo.FetchProjectRecord(context.Background(), "acme")
	require.NoError(t, err)

	require.Equal(t, f.acme.ID, rec.ID)
	require.Equal(t, []logframe.Impact{f.impact}, rec.Impacts)
	require.Len(t, rec.Outcomes, 1)
	require.Equal(t, f.outcome, rec.Outcomes[0].Outcome)
	require.Len(t, rec.Outcomes[0].Measurables, 1)
	require.Equal(t, []logframe.Output{f.output}, rec.Outcomes[0].Measurables[0].Outputs)
	require.Equal(t, []logframe.Output{f.output, f.orphan}, rec.Outputs)

	tree, warnings, err := logframe.Build(*rec)
	require.NoError(t, err)
	require.Equal(t, []logframe.Output{f.orphan}, tree.Unassigned)
	require.Len(t, warnings, 1)
}

func TestLogframeRepository_FetchProjectRecordNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewLogframeRepository(db)

	_, err := repo.FetchProjectRecord(context.Background(), "404")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLogframeRepository_UpsertUpdatesInPlace(t *testing.T) {
	db := NewTestDB(t)
	f := seed(t, db)
	repo := NewLogframeRepository(db)
	ctx := context.Background()

	f.impact.Title = "Resilient watersheds"
	updated, err := repo.UpsertImpact(ctx, f.impact)
	require.NoError(t, err)
	require.Equal(t, f.impact, *updated)

	f.measurable.Verification = "Satellite survey"
	ms, err := repo.UpsertOutcomeMeasurables(ctx, []logframe.OutcomeMeasurable{
		f.measurable,
		{OutcomeID: f.outcome.ID, Code: "OC1.2", Description: "Species count"},
	})
	require.NoError(t, err)
	require.Len(t, ms, 2)
	require.Equal(t, f.measurable, ms[0])
	require.NotZero(t, ms[1].ID)

	rec, err := repo.FetchProjectRecord(ctx, "acme")
	require.NoError(t, err)
	require.Equal(t, "Resilient watersheds", rec.Impacts[0].Title)
	require.Len(t, rec.Impacts, 1)
	require.Len(t, rec.Outcomes[0].Measurables, 2)
}

func TestLogframeRepository_BatchIsAtomic(t *testing.T) {
	db := NewTestDB(t)
	f := seed(t, db)
	repo := NewLogframeRepository(db)
	ctx := context.Background()

	_, err := repo.UpsertOutcomeMeasurables(ctx, []logframe.OutcomeMeasurable{
		{OutcomeID: f.outcome.ID, Code: "OC1.2", Description: "ok"},
		{OutcomeID: 9999, Code: "OC1.3", Description: "bad parent"},
	})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM outcome_measurables`).Scan(&count))
	require.Equal(t, 1, count)
}

func TestLogframeRepository_MeasurableProjectID(t *testing.T) {
	db := NewTestDB(t)
	f := seed(t, db)
	repo := NewLogframeRepository(db)
	ctx := context.Background()

	projectID, err := repo.MeasurableProjectID(ctx, f.measurable.ID)
	require.NoError(t, err)
	require.Equal(t, f.acme.ID, projectID)

	_, err = repo.MeasurableProjectID(ctx, 9999)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLogframeRepository_ListOutputMeasurables(t *testing.T) {
	db := NewTestDB(t)
	f := seed(t, db)
	repo := NewLogframeRepository(db)

	items, err := repo.ListOutputMeasurables(context.Background(), f.output.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "OP0.1", items[0].Code)
	require.Equal(t, "10000", items[0].Target)
	require.Equal(t, &logframe.IndicatorRef{ID: f.trees.ID, Code: "II1", Title: "Trees planted"}, items[0].ImpactIndicator)
	require.Nil(t, items[1].ImpactIndicator)
	require.Equal(t, "OP0.3", logframe.NextOutputMeasurableCode(items))
}
