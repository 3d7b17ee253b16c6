package update

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ExportDateLayout is the ISO date layout used in exported rows.
const ExportDateLayout = "2006-01-02"

// ExportHeader is the fixed column order of exported rows.
var ExportHeader = []string{
	"Project", "Date", "Output Code", "Impact Indicator Code",
	"Type", "Value", "Description", "Link",
}

// ExportRow is one update flattened to scalar columns.
type ExportRow struct {
	Project             string `json:"project"`
	Date                string `json:"date"`
	OutputCode          string `json:"output_code"`
	ImpactIndicatorCode string `json:"impact_indicator_code"`
	Type                string `json:"type"`
	Value               string `json:"value"`
	Description         string `json:"description"`
	Link                string `json:"link"`
}

// Values returns the columns in ExportHeader order.
func (r ExportRow) Values() []string {
	return []string{
		r.Project, r.Date, r.OutputCode, r.ImpactIndicatorCode,
		r.Type, r.Value, r.Description, r.Link,
	}
}

// FlattenForExport maps each update to an ExportRow. Missing sub-records
// become empty strings; no update is dropped.
func FlattenForExport(updates []Update) []ExportRow {
	rows := make([]ExportRow, len(updates))
	for i, u := range updates {
		row := ExportRow{
			Type:        string(u.Type),
			Description: u.Description,
			Link:        u.Link,
		}
		if u.Project != nil {
			row.Project = u.Project.Name
		}
		if !u.Date.IsZero() {
			row.Date = u.Date.Format(ExportDateLayout)
		}
		if u.OutputMeasurable != nil {
			row.OutputCode = u.OutputMeasurable.Code
		}
		if u.ImpactIndicator != nil {
			row.ImpactIndicatorCode = u.ImpactIndicator.Code
		}
		if u.Value != nil {
			row.Value = strconv.FormatFloat(*u.Value, 'f', -1, 64)
		}
		rows[i] = row
	}
	return rows
}

// WriteCSV writes the header and rows to w.
func WriteCSV(w io.Writer, rows []ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row.Values()); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
