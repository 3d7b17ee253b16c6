package transport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/maerl/reporting/internal/domain/errs"
	"github.com/maerl/reporting/internal/domain/indicator"
	"github.com/maerl/reporting/internal/domain/logframe"
	"github.com/maerl/reporting/internal/domain/project"
	"github.com/maerl/reporting/internal/domain/update"
)

// ProjectService is the project behaviour the API exposes.
type ProjectService interface {
	Get(ctx context.Context, identifier string) (*project.Project, error)
	List(ctx context.Context) ([]project.Project, error)
	Dashboard(ctx context.Context, now time.Time) (*project.Dashboard, error)
}

// LogframeService is the logframe behaviour the API exposes.
type LogframeService interface {
	Get(ctx context.Context, identifier string) (*logframe.Logframe, error)
	UpsertImpact(ctx context.Context, impact logframe.Impact) (*logframe.Impact, error)
	UpsertOutcome(ctx context.Context, in logframe.OutcomeInput) (*logframe.Outcome, error)
	UpsertOutcomeMeasurable(ctx context.Context, m logframe.OutcomeMeasurable) (*logframe.OutcomeMeasurable, error)
	UpsertOutput(ctx context.Context, out logframe.Output) (*logframe.Output, error)
	UpsertOutputMeasurable(ctx context.Context, m logframe.OutputMeasurable) (*logframe.OutputMeasurable, error)
	OutputMeasurables(ctx context.Context, outputID int64) ([]logframe.OutputMeasurable, string, error)
}

// UpdateService is the update behaviour the API exposes.
type UpdateService interface {
	List(ctx context.Context, r update.DateRange) ([]update.Update, error)
	Create(ctx context.Context, in update.NewUpdate) (*update.Update, error)
	EntryForm(ctx context.Context, projectParam string, now time.Time) (update.EntryForm, error)
}

// IndicatorService is the impact indicator behaviour the API exposes.
type IndicatorService interface {
	List(ctx context.Context) ([]indicator.Indicator, error)
	Summaries(ctx context.Context, r update.DateRange) ([]indicator.Summary, error)
}

// Services groups the domain services behind the API.
type Services struct {
	Projects   ProjectService
	Logframes  LogframeService
	Updates    UpdateService
	Indicators IndicatorService
}

// Config wires the HTTP server.
type Config struct {
	Services Services
	// MCP, when set, is mounted at /mcp.
	MCP    http.Handler
	Logger *slog.Logger
	Now    func() time.Time
}

// Server holds the handlers of the reporting API.
type Server struct {
	svc    Services
	logger *slog.Logger
	now    func() time.Time
}

// NewServer creates an HTTP server router with middleware.
func NewServer(cfg Config) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	srv := &Server{svc: cfg.Services, logger: logger, now: now}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(AccessLogMiddleware(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)
	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
		r.Handle("/mcp/*", cfg.MCP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", srv.handleDashboard)

		r.Get("/projects", srv.handleListProjects)
		r.Get("/projects/{identifier}", srv.handleGetProject)
		r.Get("/projects/{identifier}/logframe", srv.handleGetLogframe)

		r.Post("/impacts", srv.handleUpsertImpact)
		r.Post("/outcomes", srv.handleUpsertOutcome)
		r.Post("/outcome-measurables", srv.handleUpsertOutcomeMeasurable)
		r.Post("/outputs", srv.handleUpsertOutput)
		r.Get("/outputs/{id}/measurables", srv.handleListOutputMeasurables)
		r.Post("/output-measurables", srv.handleUpsertOutputMeasurable)

		r.Get("/updates", srv.handleListUpdates)
		r.Get("/updates.csv", srv.handleExportUpdates)
		r.Get("/updates/form", srv.handleEntryForm)
		r.Post("/updates", srv.handleCreateUpdate)

		r.Get("/impact-indicators", srv.handleListIndicators)
		r.Get("/impact-indicators/summaries", srv.handleIndicatorSummaries)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	WriteError(w, s.logger, err)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := s.svc.Projects.Dashboard(r.Context(), s.now())
	if err != nil {
		s.fail(w, err)
		return
	}
	WriteData(w, http.StatusOK, dash)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.svc.Projects.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	WriteData(w, http.StatusOK, projects)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	proj, err := s.svc.Projects.Get(r.Context(), chi.URLParam(r, "identifier"))
	if err != nil {
		s.fail(w, err)
		return
	}
	WriteData(w, http.StatusOK, proj)
}

func (s *Server) handleGetLogframe(w http.ResponseWriter, r *http.Request) {
	lf, err := s.svc.Logframes.Get(r.Context(), chi.URLParam(r, "identifier"))
	if err != nil {
		s.fail(w, err)
		return
	}
	WriteData(w, http.StatusOK, lf)
}

// upsert decodes a body of type In, runs write and answers with its result.
func upsert[In, Out any](s *Server, w http.ResponseWriter, r *http.Request, write func(context.Context, In) (*Out, error)) {
	var in In
	if err := DecodeBody(r.Body, &in); err != nil {
		s.fail(w, err)
		return
	}
	out, err := write(r.Context(), in)
	if err != nil {
		s.fail(w, err)
		return
	}
	WriteData(w, http.StatusOK, out)
}

func (s *Server) handleUpsertImpact(w http.ResponseWriter, r *http.Request) {
	upsert(s, w, r, s.svc.Logframes.UpsertImpact)
}

func (s *Server) handleUpsertOutcome(w http.ResponseWriter, r *http.Request) {
	upsert(s, w, r, s.svc.Logframes.UpsertOutcome)
}

func (s *Server) handleUpsertOutcomeMeasurable(w http.ResponseWriter, r *http.Request) {
	upsert(s, w, r, s.svc.Logframes.UpsertOutcomeMeasurable)
}

func (s *Server) handleUpsertOutput(w http.ResponseWriter, r *http.Request) {
	upsert(s, w, r, s.svc.Logframes.UpsertOutput)
}

func (s *Server) handleUpsertOutputMeasurable(w http.ResponseWriter, r *http.Request) {
	upsert(s, w, r, s.svc.Logframes.UpsertOutputMeasurable)
}

type outputMeasurablesResponse struct {
	Items    []logframe.OutputMeasurable `json:"items"`
	NextCode string                      `json:"next_code"`
}

func (s *Server) handleListOutputMeasurables(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.fail(w, errs.Invalid("id"))
		return
	}
	items, next, err := s.svc.Logframes.OutputMeasurables(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	WriteData(w, http.StatusOK, outputMeasurablesResponse{Items: items, NextCode: next})
}

type updatesResponse struct {
	Rows     []update.Row            `json:"rows"`
	Projects []update.ProjectSummary `json:"projects"`
	Count    int                     `json:"count"`
	State    update.TableState       `json:"state"`
	Query    string                  `json:"query"`
}

// tableView loads the updates in the requested range and applies the table
// state in the query string.
func (s *Server) tableView(r *http.Request) (update.TableState, []update.Update, error) {
	state, err := update.ParseTableState(r.URL.Query())
	if err != nil {
		return update.TableState{}, nil, err
	}
	updates, err := s.svc.Updates.List(r.Context(), state.Range)
	if err != nil {
		return update.TableState{}, nil, err
	}
	return state, state.Apply(updates), nil
}

func (s *Server) handleListUpdates(w http.ResponseWriter, r *http.Request) {
	state, visible, err := s.tableView(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	WriteData(w, http.StatusOK, updatesResponse{
		Rows:     update.Rows(visible, s.now()),
		Projects: update.DedupeProjects(visible),
		Count:    len(visible),
		State:    state,
		Query:    state.Query().Encode(),
	})
}

func (s *Server) handleExportUpdates(w http.ResponseWriter, r *http.Request) {
	_, visible, err := s.tableView(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="updates.csv"`)
	if err := update.WriteCSV(w, update.FlattenForExport(visible)); err != nil {
		s.logger.Error("csv export failed", "error", err)
	}
}

func (s *Server) handleEntryForm(w http.ResponseWriter, r *http.Request) {
	form, err := s.svc.Updates.EntryForm(r.Context(), r.URL.Query().Get("project"), s.now())
	if err != nil {
		s.fail(w, err)
		return
	}
	WriteData(w, http.StatusOK, form)
}

type createUpdateRequest struct {
	ProjectID          int64       `json:"project_id"`
	OutputMeasurableID int64       `json:"output_measurable_id"`
	ImpactIndicatorID  *int64      `json:"impact_indicator_id,omitempty"`
	Type               update.Type `json:"type"`
	Value              *float64    `json:"value,omitempty"`
	Description        string      `json:"description"`
	Link               string      `json:"link,omitempty"`
	Date               string      `json:"date"`
}

func (req createUpdateRequest) toNewUpdate() (update.NewUpdate, error) {
	in := update.NewUpdate{
		ProjectID:          req.ProjectID,
		OutputMeasurableID: req.OutputMeasurableID,
		ImpactIndicatorID:  req.ImpactIndicatorID,
		Type:               req.Type,
		Value:              req.Value,
		Description:        req.Description,
		Link:               strings.TrimSpace(req.Link),
	}
	if d := strings.TrimSpace(req.Date); d != "" {
		parsed, err := time.Parse(update.ExportDateLayout, d)
		if err != nil {
			return update.NewUpdate{}, errs.Invalid("date")
		}
		in.Date = parsed
	}
	return in, nil
}

func (s *Server) handleCreateUpdate(w http.ResponseWriter, r *http.Request) {
	var req createUpdateRequest
	if err := DecodeBody(r.Body, &req); err != nil {
		s.fail(w, err)
		return
	}
	in, err := req.toNewUpdate()
	if err != nil {
		s.fail(w, err)
		return
	}
	created, err := s.svc.Updates.Create(r.Context(), in)
	if err != nil {
		s.fail(w, err)
		return
	}
	WriteData(w, http.StatusCreated, created)
}

func (s *Server) handleListIndicators(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Indicators.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	WriteData(w, http.StatusOK, items)
}

func (s *Server) handleIndicatorSummaries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, err := update.ParseDateRange(q.Get("from"), q.Get("to"))
	if err != nil {
		s.fail(w, err)
		return
	}
	items, err := s.svc.Indicators.Summaries(r.Context(), rng)
	if err != nil {
		s.fail(w, err)
		return
	}
	WriteData(w, http.StatusOK, items)
}
