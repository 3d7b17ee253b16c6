package testserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/maerl/reporting/internal/domain/errs"
	"github.com/maerl/reporting/internal/domain/indicator"
	"github.com/maerl/reporting/internal/domain/logframe"
	"github.com/maerl/reporting/internal/domain/project"
	"github.com/maerl/reporting/internal/domain/update"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

func TestEndToEnd_LogframeAndUpdates(t *testing.T) {
	ts := New(t, now)
	acme := ts.AddProject(t, "acme", "Acme", "#ff0000")
	trees := ts.AddIndicator(t, "IND1", "Trees planted", "trees")

	status, impact := Post[logframe.Impact](t, ts, "/api/impacts", map[string]any{
		"project_id": acme.ID, "title": "Healthier forests",
	})
	require.Equal(t, http.StatusOK, status)
	require.NotZero(t, impact.Data.ID)

	status, outcome := Post[logframe.Outcome](t, ts, "/api/outcomes", map[string]any{
		"project_id": acme.ID, "code": "OC1", "description": "Canopy restored",
		"outcome_measurables": []map[string]any{{"code": "OM1.1", "description": "Hectares replanted"}},
	})
	require.Equal(t, http.StatusOK, status)

	_, lf := Get[logframe.Logframe](t, ts, "/api/projects/acme/logframe")
	require.Len(t, lf.Data.Tree.Outcomes, 1)
	require.Equal(t, outcome.Data.ID, lf.Data.Tree.Outcomes[0].ID)
	require.Len(t, lf.Data.Tree.Outcomes[0].Measurables, 1)
	omID := lf.Data.Tree.Outcomes[0].Measurables[0].ID

	status, output := Post[logframe.Output](t, ts, "/api/outputs", map[string]any{
		"outcome_measurable_id": omID, "code": "OP1", "description": "Nursery built",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, acme.ID, output.Data.ProjectID)

	status, measurable := Post[logframe.OutputMeasurable](t, ts, "/api/output-measurables", map[string]any{
		"output_id": output.Data.ID, "code": "OP0.1", "description": "Saplings raised",
		"impact_indicator_id": trees.ID,
	})
	require.Equal(t, http.StatusOK, status)

	status, created := Post[update.Update](t, ts, "/api/updates", map[string]any{
		"project_id": acme.ID, "output_measurable_id": measurable.Data.ID,
		"type": "Impact", "value": 120000, "description": "Spring planting", "date": "2024-06-07",
	})
	require.Equal(t, http.StatusCreated, status, created.Error)
	_, _ = Post[update.Update](t, ts, "/api/updates", map[string]any{
		"project_id": acme.ID, "output_measurable_id": measurable.Data.ID,
		"type": "Progress", "description": "Fencing done", "date": "2024-05-01",
	})

	type updatesView struct {
		Rows     []update.Row            `json:"rows"`
		Projects []update.ProjectSummary `json:"projects"`
		Count    int                     `json:"count"`
	}
	_, view := Get[updatesView](t, ts, "/api/updates?from=2024-06-01")
	require.Equal(t, 1, view.Data.Count)
	require.Equal(t, "120,000 trees", view.Data.Rows[0].Display.Badge.Label)
	require.Equal(t, "3 days ago", view.Data.Rows[0].Display.RelativeDate)
	require.Equal(t, []update.ProjectSummary{{ID: acme.ID, Name: "Acme", Color: "#ff0000"}}, view.Data.Projects)

	_, summaries := Get[[]indicator.Summary](t, ts, "/api/impact-indicators/summaries")
	require.Len(t, summaries.Data, 1)
	require.Equal(t, 120000.0, summaries.Data[0].Total)

	_, dash := Get[project.Dashboard](t, ts, "/api/dashboard")
	require.Len(t, dash.Data.Updates, 2)

	resp, err := http.Get(ts.Server.URL + "/api/updates.csv?sort=date")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[1], "Acme,2024-05-01,OP0.1,IND1,Progress,,Fencing done"), lines[1])
}

func TestEndToEnd_OutcomeMeasurableWithoutOutcomeID(t *testing.T) {
	ts := New(t, now)

	status, got := Post[logframe.OutcomeMeasurable](t, ts, "/api/outcome-measurables", map[string]any{
		"code": "OM1.1", "description": "Hectares replanted",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, errs.MissingRequiredField, got.Error.Kind)
	require.Equal(t, "outcome_id", got.Error.Field)

	var count int
	require.NoError(t, ts.DB.QueryRow(`SELECT COUNT(*) FROM outcome_measurables`).Scan(&count))
	require.Zero(t, count)
}

func TestEndToEnd_OutputProjectMismatch(t *testing.T) {
	ts := New(t, now)
	acme := ts.AddProject(t, "acme", "Acme", "#ff0000")
	birch := ts.AddProject(t, "birch", "Birch", "#00ff00")

	_, _ = Post[logframe.Outcome](t, ts, "/api/outcomes", map[string]any{
		"project_id": acme.ID, "code": "OC1", "description": "Canopy restored",
		"outcome_measurables": []map[string]any{{"code": "OM1.1", "description": "Hectares"}},
	})
	_, lf := Get[logframe.Logframe](t, ts, "/api/projects/acme/logframe")
	omID := lf.Data.Tree.Outcomes[0].Measurables[0].ID

	status, got := Post[logframe.Output](t, ts, "/api/outputs", map[string]any{
		"outcome_measurable_id": omID, "project_id": birch.ID, "code": "OP1", "description": "Nursery",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, errs.InconsistentReference, got.Error.Kind)
	require.Equal(t, "project_id", got.Error.Field)
}

func TestEndToEnd_MCPOverHTTP(t *testing.T) {
	ts := New(t, now)
	ts.AddProject(t, "acme", "Acme", "#ff0000")

	ctx := context.Background()
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "e2e", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{Endpoint: ts.Server.URL + "/mcp"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	res, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{Name: "list_projects", Arguments: map[string]any{}})
	require.NoError(t, err)
	require.False(t, res.IsError)

	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	var got struct {
		Projects []project.Project `json:"projects"`
	}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &got))
	require.Len(t, got.Projects, 1)
	require.Equal(t, "acme", got.Projects[0].Slug)
}
