package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/maerl/reporting/internal/domain/update"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *sdkmcp.Server, svc Services, now func() time.Time) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List all projects with their slugs and highlight colors",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListProjectsParams) (*sdkmcp.CallToolResult, any, error) {
		projects, err := svc.Projects.List(ctx)
		if err != nil {
			return nil, nil, toolError(err)
		}
		return jsonResult(ListProjectsResult{Projects: projects})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_logframe",
		Description: "Get the logframe tree of a project (impacts, outcomes, measurables, outputs) with builder warnings",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetLogframeParams) (*sdkmcp.CallToolResult, any, error) {
		lf, err := svc.Logframes.Get(ctx, in.Identifier)
		if err != nil {
			return nil, nil, toolError(err)
		}
		return jsonResult(lf)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_updates",
		Description: "List updates with display fields, filtered and sorted like the updates table",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in TableParams) (*sdkmcp.CallToolResult, any, error) {
		visible, err := tableView(ctx, svc.Updates, in)
		if err != nil {
			return nil, nil, toolError(err)
		}
		return jsonResult(ListUpdatesResult{
			Rows:     update.Rows(visible, now()),
			Projects: update.DedupeProjects(visible),
			Count:    len(visible),
		})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_updates",
		Description: "Export the filtered and sorted updates table as CSV",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in TableParams) (*sdkmcp.CallToolResult, any, error) {
		visible, err := tableView(ctx, svc.Updates, in)
		if err != nil {
			return nil, nil, toolError(err)
		}
		var buf bytes.Buffer
		if err := update.WriteCSV(&buf, update.FlattenForExport(visible)); err != nil {
			return nil, nil, toolError(err)
		}
		return jsonResult(ExportUpdatesResult{CSV: buf.String(), Count: len(visible)})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_impact_indicators",
		Description: "List the impact indicators updates can report against",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListIndicatorsParams) (*sdkmcp.CallToolResult, any, error) {
		items, err := svc.Indicators.List(ctx)
		if err != nil {
			return nil, nil, toolError(err)
		}
		return jsonResult(ListIndicatorsResult{Indicators: items})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "impact_indicator_summaries",
		Description: "Total the values of impact updates per indicator within an optional date range",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in SummariesParams) (*sdkmcp.CallToolResult, any, error) {
		r, err := update.ParseDateRange(in.From, in.To)
		if err != nil {
			return nil, nil, toolError(err)
		}
		items, err := svc.Indicators.Summaries(ctx, r)
		if err != nil {
			return nil, nil, toolError(err)
		}
		return jsonResult(SummariesResult{Summaries: items})
	})
}

// tableView resolves table params the same way the HTTP query string is
// parsed, then loads and applies them.
func tableView(ctx context.Context, updates UpdateService, in TableParams) ([]update.Update, error) {
	q := url.Values{}
	if in.From != "" {
		q.Set("from", in.From)
	}
	if in.To != "" {
		q.Set("to", in.To)
	}
	if in.Sort != "" {
		q.Set("sort", in.Sort)
	}
	for col, v := range in.Filters {
		q.Set("filter_"+col, v)
	}
	state, err := update.ParseTableState(q)
	if err != nil {
		return nil, err
	}
	all, err := updates.List(ctx, state.Range)
	if err != nil {
		return nil, err
	}
	return state.Apply(all), nil
}

func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
