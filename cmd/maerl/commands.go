package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/maerl/reporting/internal/domain/update"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, stderrSink(cmd))
			if err != nil {
				return err
			}
			defer a.Close()
			a.logger.Info("migrations applied", "driver", a.db.Driver())
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write updates as CSV to stdout",
		Long: `Write the updates table as CSV, filtered and sorted like the web view.

Examples:
  # Everything in the first quarter
  maerl export --from 2024-01-01 --to 2024-03-31

  # Impact updates for one project, newest first
  maerl export --filter project=Acme --filter type=Impact --sort -date
`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}
	cmd.Flags().String("from", "", "Inclusive start date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Inclusive end date (YYYY-MM-DD)")
	cmd.Flags().StringArray("filter", nil, "Column filter as column=value, repeatable")
	cmd.Flags().String("sort", "", "Sort column, prefix with - for descending")
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	sort, _ := cmd.Flags().GetString("sort")
	filters, _ := cmd.Flags().GetStringArray("filter")

	q, err := tableQuery(from, to, sort, filters)
	if err != nil {
		return err
	}
	state, err := update.ParseTableState(q)
	if err != nil {
		return err
	}

	a, err := openApp(cmd, stderrSink(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	updates, err := a.updates.List(cmd.Context(), state.Range)
	if err != nil {
		return err
	}
	return update.WriteCSV(cmd.OutOrStdout(), update.FlattenForExport(state.Apply(updates)))
}

// tableQuery renders export flags as the query parameters the updates table
// accepts.
func tableQuery(from, to, sort string, filters []string) (url.Values, error) {
	q := url.Values{}
	if from != "" {
		q.Set("from", from)
	}
	if to != "" {
		q.Set("to", to)
	}
	if sort != "" {
		q.Set("sort", sort)
	}
	for _, f := range filters {
		col, value, ok := strings.Cut(f, "=")
		if !ok || strings.TrimSpace(col) == "" {
			return nil, fmt.Errorf("invalid filter %q: want column=value", f)
		}
		q.Set("filter_"+strings.TrimSpace(col), value)
	}
	return q, nil
}

func newLogframeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logframe <identifier>",
		Short: "Print a project's logframe tree as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, stderrSink(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			lf, err := a.logframes.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(lf)
		},
	}
}
