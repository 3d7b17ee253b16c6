package store

import (
	"context"
	"testing"

	"github.com/maerl/reporting/internal/domain/indicator"
	"github.com/maerl/reporting/internal/domain/logframe"
	"github.com/maerl/reporting/internal/domain/project"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	acme, birch    project.Project
	trees          indicator.Indicator
	impact         logframe.Impact
	outcome        logframe.Outcome
	measurable     logframe.OutcomeMeasurable
	output, orphan logframe.Output
	saplings       logframe.OutputMeasurable
	workshops      logframe.OutputMeasurable
}

func seed(t *testing.T, db *DB) fixture {
	t.Helper()
	ctx := context.Background()
	lf := NewLogframeRepository(db)
	projects := NewProjectRepository(db)
	indicators := NewIndicatorRepository(db)

	f := fixture{
		acme:  project.Project{Slug: "acme", Name: "Acme", HighlightColor: "#ff0000"},
		birch: project.Project{Slug: "birch", Name: "Birch", HighlightColor: "#00ff00"},
		trees: indicator.Indicator{Code: "II1", Title: "Trees planted", Unit: "trees"},
	}
	require.NoError(t, projects.Create(ctx, &f.acme))
	require.NoError(t, projects.Create(ctx, &f.birch))
	require.NoError(t, indicators.Create(ctx, &f.trees))

	impact, err := lf.UpsertImpact(ctx, logframe.Impact{ProjectID: f.acme.ID, Title: "Healthier watersheds"})
	require.NoError(t, err)
	f.impact = *impact

	outcome, err := lf.UpsertOutcome(ctx, logframe.Outcome{ProjectID: f.acme.ID, Code: "OC1", Description: "Forest cover"})
	require.NoError(t, err)
	f.outcome = *outcome

	ms, err := lf.UpsertOutcomeMeasurables(ctx, []logframe.OutcomeMeasurable{
		{OutcomeID: outcome.ID, Code: "OC1.1", Description: "Hectares restored"},
	})
	require.NoError(t, err)
	f.measurable = ms[0]

	output, err := lf.UpsertOutput(ctx, logframe.Output{
		OutcomeMeasurableID: &f.measurable.ID, ProjectID: f.acme.ID, Code: "OP1", Description: "Nursery",
	})
	require.NoError(t, err)
	f.output = *output

	orphan, err := lf.UpsertOutput(ctx, logframe.Output{
		OutcomeMeasurableID: nil, ProjectID: f.acme.ID, Code: "OP9", Description: "Unlinked",
	})
	require.NoError(t, err)
	f.orphan = *orphan

	saplings, err := lf.UpsertOutputMeasurable(ctx, logframe.OutputMeasurable{
		OutputID: output.ID, Code: "OP0.1", Description: "Saplings", Target: "10000", ImpactIndicatorID: &f.trees.ID,
	})
	require.NoError(t, err)
	f.saplings = *saplings

	workshops, err := lf.UpsertOutputMeasurable(ctx, logframe.OutputMeasurable{
		OutputID: output.ID, Code: "OP0.2", Description: "Workshops",
	})
	require.NoError(t, err)
	f.workshops = *workshops

	return f
}
