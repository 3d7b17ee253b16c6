package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/maerl/reporting/internal/domain/errs"
	"github.com/maerl/reporting/internal/domain/indicator"
	"github.com/maerl/reporting/internal/domain/logframe"
	"github.com/maerl/reporting/internal/domain/project"
	"github.com/maerl/reporting/internal/domain/update"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

type fakeServices struct {
	projects []project.Project
	updates  []update.Update
	lf       *logframe.Logframe
	err      error

	gotRange   update.DateRange
	created    update.NewUpdate
	gotOutcome logframe.OutcomeInput
}

func (f *fakeServices) Get(_ context.Context, identifier string) (*project.Project, error) {
	for _, p := range f.projects {
		if p.Slug == identifier {
			return &p, nil
		}
	}
	return nil, project.ErrProjectNotFound
}

func (f *fakeServices) List(_ context.Context) ([]project.Project, error) {
	return f.projects, f.err
}

func (f *fakeServices) Dashboard(_ context.Context, now time.Time) (*project.Dashboard, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &project.Dashboard{
		Projects: update.DedupeProjects(f.updates),
		Updates:  update.Rows(f.updates, now),
	}, nil
}

type fakeLogframes struct{ *fakeServices }

func (f fakeLogframes) Get(_ context.Context, identifier string) (*logframe.Logframe, error) {
	if f.lf == nil {
		return nil, logframe.ErrProjectNotFound
	}
	return f.lf, nil
}

func (f fakeLogframes) UpsertImpact(_ context.Context, impact logframe.Impact) (*logframe.Impact, error) {
	if err := logframe.ValidateImpact(impact); err != nil {
		return nil, err
	}
	impact.ID = 1
	return &impact, nil
}

func (f fakeLogframes) UpsertOutcome(_ context.Context, in logframe.OutcomeInput) (*logframe.Outcome, error) {
	f.gotOutcome = in
	if f.err != nil {
		committed := in.Outcome
		committed.ID = 9
		return &committed, &errs.PartialWriteError{Committed: committed, Err: errs.Store("batch", f.err)}
	}
	out := in.Outcome
	out.ID = 9
	return &out, nil
}

func (f fakeLogframes) UpsertOutcomeMeasurable(_ context.Context, m logframe.OutcomeMeasurable) (*logframe.OutcomeMeasurable, error) {
	return &m, nil
}

func (f fakeLogframes) UpsertOutput(_ context.Context, out logframe.Output) (*logframe.Output, error) {
	return &out, nil
}

func (f fakeLogframes) UpsertOutputMeasurable(_ context.Context, m logframe.OutputMeasurable) (*logframe.OutputMeasurable, error) {
	return &m, nil
}

func (f fakeLogframes) OutputMeasurables(_ context.Context, outputID int64) ([]logframe.OutputMeasurable, string, error) {
	items := []logframe.OutputMeasurable{{ID: 1, OutputID: outputID, Code: "OP1.1"}}
	return items, logframe.NextOutputMeasurableCode(items), nil
}

type fakeUpdates struct{ *fakeServices }

func (f fakeUpdates) List(_ context.Context, r update.DateRange) ([]update.Update, error) {
	f.gotRange = r
	return f.updates, f.err
}

func (f fakeUpdates) Create(_ context.Context, in update.NewUpdate) (*update.Update, error) {
	f.created = in
	if err := update.ValidateNewUpdate(in); err != nil {
		return nil, err
	}
	return &update.Update{ID: 10, ProjectID: in.ProjectID, Type: in.Type, Date: in.Date, Description: in.Description}, nil
}

func (f fakeUpdates) EntryForm(_ context.Context, projectParam string, now time.Time) (update.EntryForm, error) {
	return update.BuildEntryForm([]update.ProjectOutputs{{ID: 1, Name: "Acme"}}, projectParam, now)
}

type fakeIndicators struct{ *fakeServices }

func (f fakeIndicators) List(_ context.Context) ([]indicator.Indicator, error) {
	return []indicator.Indicator{{ID: 1, Code: "IND1", Title: "Trees planted", Unit: "trees"}}, nil
}

func (f fakeIndicators) Summaries(_ context.Context, r update.DateRange) ([]indicator.Summary, error) {
	f.gotRange = r
	return []indicator.Summary{}, nil
}

func newTestServer(t *testing.T, f *fakeServices, mcp http.Handler) *httptest.Server {
	t.Helper()
	handler := NewServer(Config{
		Services: Services{
			Projects:   f,
			Logframes:  fakeLogframes{f},
			Updates:    fakeUpdates{f},
			Indicators: fakeIndicators{f},
		},
		MCP: mcp,
		Now: func() time.Time { return fixedNow },
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func ptr[T any](v T) *T { return &v }

func sampleUpdates() []update.Update {
	acme := &update.ProjectRef{ID: 1, Slug: "acme", Name: "Acme", HighlightColor: "#ff0000"}
	birch := &update.ProjectRef{ID: 2, Slug: "birch", Name: "Birch", HighlightColor: "#00ff00"}
	trees := &update.IndicatorRef{ID: 1, Code: "IND1", Title: "Trees planted", Unit: "trees"}
	return []update.Update{
		{ID: 1, ProjectID: 1, Type: update.TypeImpact, Value: ptr(1200.0), Description: "planted",
			Date: time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), Project: acme, ImpactIndicator: trees},
		{ID: 2, ProjectID: 2, Type: update.TypeProgress, Description: "workshop",
			Date: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC), Project: birch},
		{ID: 3, ProjectID: 1, Type: update.TypeProgress, Description: "survey",
			Date: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), Project: acme},
	}
}

func getJSON(t *testing.T, url string, dst any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	return resp.StatusCode
}

func postJSON(t *testing.T, url, body string, dst any) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	return resp.StatusCode
}

type envelope[T any] struct {
	Data  T      `json:"data"`
	Error *Error `json:"error"`
}

func TestHTTPServer_Health(t *testing.T) {
	server := newTestServer(t, &fakeServices{}, nil)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestHTTPServer_EchoesRequestID(t *testing.T) {
	server := newTestServer(t, &fakeServices{}, nil)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "req-42")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "req-42", resp.Header.Get(RequestIDHeader))
}

func TestHTTPServer_MountsMCP(t *testing.T) {
	var hit bool
	mcp := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hit = true
		w.WriteHeader(http.StatusAccepted)
	})
	server := newTestServer(t, &fakeServices{}, mcp)

	resp, err := http.Post(server.URL+"/mcp", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.True(t, hit)
}

func TestHTTPServer_ProjectNotFound(t *testing.T) {
	server := newTestServer(t, &fakeServices{projects: []project.Project{{ID: 1, Slug: "acme", Name: "Acme"}}}, nil)

	var ok envelope[project.Project]
	require.Equal(t, http.StatusOK, getJSON(t, server.URL+"/api/projects/acme", &ok))
	require.Equal(t, "Acme", ok.Data.Name)

	var missing envelope[project.Project]
	require.Equal(t, http.StatusNotFound, getJSON(t, server.URL+"/api/projects/nope", &missing))
	require.Equal(t, errs.NotFound, missing.Error.Kind)
}

func TestHTTPServer_Logframe(t *testing.T) {
	f := &fakeServices{lf: &logframe.Logframe{
		Tree:     logframe.Tree{Project: logframe.ProjectHeader{ID: 1, Slug: "acme", Name: "Acme"}},
		Warnings: []logframe.Warning{{Kind: logframe.WarningOrphanOutput, OutputID: 43, Message: "orphan"}},
	}}
	server := newTestServer(t, f, nil)

	var got envelope[logframe.Logframe]
	require.Equal(t, http.StatusOK, getJSON(t, server.URL+"/api/projects/acme/logframe", &got))
	require.Equal(t, "acme", got.Data.Tree.Project.Slug)
	require.Len(t, got.Data.Warnings, 1)
	require.Equal(t, logframe.WarningOrphanOutput, got.Data.Warnings[0].Kind)
}

func TestHTTPServer_UpsertImpactValidation(t *testing.T) {
	server := newTestServer(t, &fakeServices{}, nil)

	var got envelope[logframe.Impact]
	status := postJSON(t, server.URL+"/api/impacts", `{"title":"More forest"}`, &got)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, errs.MissingRequiredField, got.Error.Kind)
	require.Equal(t, "project_id", got.Error.Field)
}

func TestHTTPServer_RejectsUnknownFields(t *testing.T) {
	server := newTestServer(t, &fakeServices{}, nil)

	var got envelope[logframe.Impact]
	status := postJSON(t, server.URL+"/api/impacts", `{"project_id":1,"title":"x","colour":"red"}`, &got)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, errs.InvalidValue, got.Error.Kind)
	require.Equal(t, "body", got.Error.Field)
}

func TestHTTPServer_OutcomePartialWrite(t *testing.T) {
	f := &fakeServices{err: errors.New("constraint failed")}
	server := newTestServer(t, f, nil)

	var got envelope[logframe.Outcome]
	body := `{"project_id":1,"code":"OC1","description":"d","outcome_measurables":[{"code":"OM1.1"}]}`
	status := postJSON(t, server.URL+"/api/outcomes", body, &got)
	require.Equal(t, http.StatusInternalServerError, status)
	require.True(t, got.Error.Partial)
	require.Equal(t, errs.StoreFailure, got.Error.Kind)
	require.Equal(t, "constraint failed", strings.TrimPrefix(got.Error.Message, "partial write: parent committed, children failed: "))
	require.Len(t, f.gotOutcome.Measurables, 1)
}

func TestHTTPServer_OutputMeasurables(t *testing.T) {
	server := newTestServer(t, &fakeServices{}, nil)

	var got envelope[outputMeasurablesResponse]
	require.Equal(t, http.StatusOK, getJSON(t, server.URL+"/api/outputs/5/measurables", &got))
	require.Len(t, got.Data.Items, 1)
	require.Equal(t, "OP0.2", got.Data.NextCode)

	var bad envelope[outputMeasurablesResponse]
	require.Equal(t, http.StatusBadRequest, getJSON(t, server.URL+"/api/outputs/abc/measurables", &bad))
	require.Equal(t, "id", bad.Error.Field)
}

func TestHTTPServer_ListUpdatesAppliesTableState(t *testing.T) {
	f := &fakeServices{updates: sampleUpdates()}
	server := newTestServer(t, f, nil)

	var got envelope[updatesResponse]
	status := getJSON(t, server.URL+"/api/updates?from=2024-03-01&sort=-date&filter_project=Acme", &got)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 2, got.Data.Count)
	require.Equal(t, int64(1), got.Data.Rows[0].ID)
	require.Equal(t, int64(3), got.Data.Rows[1].ID)
	require.Equal(t, "3 days ago", got.Data.Rows[0].Display.RelativeDate)
	require.Equal(t, []update.ProjectSummary{{ID: 1, Name: "Acme", Color: "#ff0000"}}, got.Data.Projects)
	require.Equal(t, "2024-03-01", f.gotRange.FromString())
	require.Contains(t, got.Data.Query, "sort=-date")
}

func TestHTTPServer_ListUpdatesRejectsBadState(t *testing.T) {
	server := newTestServer(t, &fakeServices{}, nil)

	var got envelope[updatesResponse]
	require.Equal(t, http.StatusBadRequest, getJSON(t, server.URL+"/api/updates?sort=colour", &got))
	require.Equal(t, "sort", got.Error.Field)

	require.Equal(t, http.StatusBadRequest, getJSON(t, server.URL+"/api/updates?from=2024-05-01&to=2024-04-01", &got))
	require.Equal(t, "to", got.Error.Field)
}

func TestHTTPServer_ExportUpdatesCSV(t *testing.T) {
	server := newTestServer(t, &fakeServices{updates: sampleUpdates()}, nil)

	resp, err := http.Get(server.URL + "/api/updates.csv?filter_type=Impact")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	require.Contains(t, resp.Header.Get("Content-Disposition"), "updates.csv")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, strings.Join(update.ExportHeader, ","), strings.TrimSpace(lines[0]))
	require.Contains(t, lines[1], "2024-05-17")
	require.Contains(t, lines[1], "1200")
}

func TestHTTPServer_CreateUpdate(t *testing.T) {
	f := &fakeServices{}
	server := newTestServer(t, f, nil)

	var got envelope[update.Update]
	body := `{"project_id":1,"output_measurable_id":2,"type":"Impact","value":50,"description":"planted","date":"2024-05-18"}`
	require.Equal(t, http.StatusCreated, postJSON(t, server.URL+"/api/updates", body, &got))
	require.Equal(t, int64(10), got.Data.ID)
	require.Equal(t, time.Date(2024, 5, 18, 0, 0, 0, 0, time.UTC), f.created.Date)
	require.Equal(t, 50.0, *f.created.Value)
}

func TestHTTPServer_CreateUpdateBadDate(t *testing.T) {
	server := newTestServer(t, &fakeServices{}, nil)

	var got envelope[update.Update]
	body := `{"project_id":1,"output_measurable_id":2,"type":"Progress","description":"x","date":"18/05/2024"}`
	require.Equal(t, http.StatusBadRequest, postJSON(t, server.URL+"/api/updates", body, &got))
	require.Equal(t, "date", got.Error.Field)
}

func TestHTTPServer_EntryForm(t *testing.T) {
	server := newTestServer(t, &fakeServices{}, nil)

	var got envelope[update.EntryForm]
	require.Equal(t, http.StatusOK, getJSON(t, server.URL+"/api/updates/form?project=1", &got))
	require.Equal(t, int64(1), got.Data.ProjectID)

	var bad envelope[update.EntryForm]
	require.Equal(t, http.StatusBadRequest, getJSON(t, server.URL+"/api/updates/form?project=acme", &bad))
	require.Equal(t, "project", bad.Error.Field)
}

func TestHTTPServer_Dashboard(t *testing.T) {
	server := newTestServer(t, &fakeServices{updates: sampleUpdates()}, nil)

	var got envelope[project.Dashboard]
	require.Equal(t, http.StatusOK, getJSON(t, server.URL+"/api/dashboard", &got))
	require.Len(t, got.Data.Projects, 2)
	require.Len(t, got.Data.Updates, 3)
}

func TestHTTPServer_StoreErrorMessageVerbatim(t *testing.T) {
	server := newTestServer(t, &fakeServices{err: errs.Store("list", errors.New("database is locked"))}, nil)

	var got envelope[[]project.Project]
	require.Equal(t, http.StatusInternalServerError, getJSON(t, server.URL+"/api/projects", &got))
	require.Equal(t, "database is locked", got.Error.Message)
	require.Equal(t, errs.StoreFailure, got.Error.Kind)
}

func TestHTTPServer_IndicatorSummaries(t *testing.T) {
	f := &fakeServices{}
	server := newTestServer(t, f, nil)

	var got envelope[[]indicator.Summary]
	require.Equal(t, http.StatusOK, getJSON(t, server.URL+"/api/impact-indicators/summaries?from=2024-01-01&to=2024-12-31", &got))
	require.Equal(t, "2024-12-31", f.gotRange.ToString())

	var bad envelope[[]indicator.Summary]
	require.Equal(t, http.StatusBadRequest, getJSON(t, server.URL+"/api/impact-indicators/summaries?from=soon", &bad))
	require.Equal(t, "from", bad.Error.Field)
}
