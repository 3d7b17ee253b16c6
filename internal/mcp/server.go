package mcp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/maerl/reporting/internal/domain/indicator"
	"github.com/maerl/reporting/internal/domain/logframe"
	"github.com/maerl/reporting/internal/domain/project"
	"github.com/maerl/reporting/internal/domain/update"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context) ([]project.Project, error)
}

// LogframeService defines logframe operations needed by MCP.
type LogframeService interface {
	Get(ctx context.Context, identifier string) (*logframe.Logframe, error)
}

// UpdateService defines update operations needed by MCP.
type UpdateService interface {
	List(ctx context.Context, r update.DateRange) ([]update.Update, error)
}

// IndicatorService defines impact indicator operations needed by MCP.
type IndicatorService interface {
	List(ctx context.Context) ([]indicator.Indicator, error)
	Summaries(ctx context.Context, r update.DateRange) ([]indicator.Summary, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects   ProjectService
	Logframes  LogframeService
	Updates    UpdateService
	Indicators IndicatorService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
	// Now is the clock used for relative dates. Defaults to time.Now.
	Now func() time.Time
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "maerl",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(recoverMiddleware(logger))
	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	registerTools(server, cfg.Services, now)

	return server
}

// NewHTTPHandler serves server over the streamable HTTP transport.
func NewHTTPHandler(server *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)
}
