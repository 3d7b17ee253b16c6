// Package testserver runs the full HTTP and MCP stack against an in-memory
// SQLite store for end-to-end tests.
package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/maerl/reporting/internal/domain/indicator"
	"github.com/maerl/reporting/internal/domain/logframe"
	"github.com/maerl/reporting/internal/domain/project"
	"github.com/maerl/reporting/internal/domain/update"
	"github.com/maerl/reporting/internal/mcp"
	"github.com/maerl/reporting/internal/store"
	"github.com/maerl/reporting/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server *httptest.Server
	DB     *store.DB

	projects   *store.ProjectRepository
	indicators *store.IndicatorRepository
}

// New starts a server whose clock is fixed at now.
func New(t *testing.T, now time.Time) *TestServer {
	t.Helper()

	db, err := store.Open(store.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(context.Background()))

	projectRepo := store.NewProjectRepository(db)
	indicatorRepo := store.NewIndicatorRepository(db)

	updateSvc := update.NewService(store.NewUpdateRepository(db), nil)
	projectSvc := project.NewService(projectRepo, updateSvc, 0, nil)
	logframeSvc := logframe.NewService(store.NewLogframeRepository(db), nil)
	indicatorSvc := indicator.NewService(indicatorRepo, nil)
	clock := func() time.Time { return now }

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects:   projectSvc,
			Logframes:  logframeSvc,
			Updates:    updateSvc,
			Indicators: indicatorSvc,
		},
		Now: clock,
	})

	server := httptest.NewServer(transport.NewServer(transport.Config{
		Services: transport.Services{
			Projects:   projectSvc,
			Logframes:  logframeSvc,
			Updates:    updateSvc,
			Indicators: indicatorSvc,
		},
		MCP: mcp.NewHTTPHandler(mcpServer),
		Now: clock,
	}))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:     server,
		DB:         db,
		projects:   projectRepo,
		indicators: indicatorRepo,
	}
}

// AddProject inserts a project directly; the API has no project write route.
func (ts *TestServer) AddProject(t *testing.T, slug, name, color string) project.Project {
	t.Helper()
	p := project.Project{Slug: slug, Name: name, HighlightColor: color}
	require.NoError(t, ts.projects.Create(context.Background(), &p))
	return p
}

// AddIndicator inserts an impact indicator directly.
func (ts *TestServer) AddIndicator(t *testing.T, code, title, unit string) indicator.Indicator {
	t.Helper()
	it := indicator.Indicator{Code: code, Title: title, Unit: unit}
	require.NoError(t, ts.indicators.Create(context.Background(), &it))
	return it
}

// Envelope mirrors the JSON response body of the API.
type Envelope[T any] struct {
	Data  T                `json:"data"`
	Error *transport.Error `json:"error"`
}

// Post sends body as JSON and decodes the response into an envelope.
func Post[T any](t *testing.T, ts *TestServer, path string, body any) (int, Envelope[T]) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(ts.Server.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env Envelope[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

// Get fetches path and decodes the response into an envelope.
func Get[T any](t *testing.T, ts *TestServer, path string) (int, Envelope[T]) {
	t.Helper()
	resp, err := http.Get(ts.Server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env Envelope[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}
