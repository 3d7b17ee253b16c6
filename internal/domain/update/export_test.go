package update_test

import (
	"bytes"
	"testing"

	"github.com/maerl/reporting/internal/domain/update"
	"github.com/stretchr/testify/require"
)

func TestFlattenForExport(t *testing.T) {
	rows := update.FlattenForExport(sample[:2])
	require.Equal(t, []update.ExportRow{
		{Project: "Acme", Date: "2024-01-10", OutputCode: "OP1.1", ImpactIndicatorCode: "II1", Type: "Impact", Value: "120000", Description: "Planted"},
		{Project: "Birch", Date: "2024-01-20", OutputCode: "OP2.1", Type: "Progress", Description: "Workshop held", Link: "https://example.org/w"},
	}, rows)
}

func TestFlattenForExport_KeepsIncompleteRecords(t *testing.T) {
	rows := update.FlattenForExport([]update.Update{{Type: update.TypeProgress}, sample[0]})
	require.Len(t, rows, 2)
	for _, r := range rows {
		require.Len(t, r.Values(), len(update.ExportHeader))
	}
	require.Equal(t, []string{"", "", "", "", "Progress", "", "", ""}, rows[0].Values())
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := update.WriteCSV(&buf, update.FlattenForExport([]update.Update{sample[2]}))
	require.NoError(t, err)
	require.Equal(t,
		"Project,Date,Output Code,Impact Indicator Code,Type,Value,Description,Link\n"+
			"Acme,2024-02-05,OP1.1,,Progress,,\"Nursery, phase 2\",\n",
		buf.String())
}
