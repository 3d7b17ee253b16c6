package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `maerl reports on project logframes and the updates recorded against them.

Core concepts:
- Project: identified by numeric id or slug.
- Logframe: Impact, then Outcomes, then Outcome measurables, then Outputs, then Output measurables.
- Update: a dated Impact (optionally valued against an impact indicator) or Progress note on an output measurable.

Workflow:
1) Orient: call list_projects.
2) Structure: call get_logframe with a slug or id. Warnings list outputs not linked to any outcome measurable.
3) Activity: call list_updates with from/to (YYYY-MM-DD, inclusive), sort and filters; export_updates returns the same view as CSV.
4) Totals: call impact_indicator_summaries for per-indicator sums of impact values.

Docs:
- maerl://docs/glossary
- maerl://docs/updates-table
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "maerl://docs/glossary",
		Name:        "docs_glossary",
		Title:       "Logframe glossary",
		Description: "Terms used by the logframe and update tools.",
		Content: `# Glossary

- **Logframe**: a results chain from broad impact down to concrete outputs.
- **Impact**: the broadest result of a project. Usually one per project; extra impacts are kept and flagged.
- **Outcome**: a medium-term result, coded OC1, OC2 and so on.
- **Outcome measurable**: how an outcome is assessed. Outputs hang off these.
- **Output**: a concrete deliverable. An output not linked to any outcome measurable is listed under unassigned_outputs.
- **Output measurable**: how an output is assessed. New codes follow OP0.<n>.
- **Impact indicator**: a cross-project metric with a unit. Impact updates may carry a value against one.
`,
	},
	{
		URI:         "maerl://docs/updates-table",
		Name:        "docs_updates_table",
		Title:       "Updates table parameters",
		Description: "How sort, filters and date ranges combine in list_updates and export_updates.",
		Content: `# Updates table

- Columns: project, date, output, impact_indicator, type, value, description.
- sort: a column name, prefixed with - for descending. Sorting is stable.
- filters: exact match on the displayed text of a column. All filters and the date range must match.
- from/to: inclusive calendar days. Either may be omitted.

Export columns: Project, Date, Output Code, Impact Indicator Code, Type, Value, Description, Link.
Missing values are empty strings.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
