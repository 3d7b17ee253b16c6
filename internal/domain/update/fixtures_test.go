package update_test

import (
	"time"

	"github.com/maerl/reporting/internal/domain/update"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func value(v float64) *float64 { return &v }

var (
	acme   = &update.ProjectRef{ID: 1, Slug: "acme", Name: "Acme", HighlightColor: "#ff0000"}
	birch  = &update.ProjectRef{ID: 2, Slug: "birch", Name: "Birch", HighlightColor: "#00ff00"}
	trees  = &update.IndicatorRef{ID: 7, Code: "II1", Title: "Trees planted", Unit: "trees"}
	op11   = &update.MeasurableRef{ID: 11, Code: "OP1.1", Description: "Saplings"}
	op21   = &update.MeasurableRef{ID: 21, Code: "OP2.1", Description: "Workshops"}
	sample = []update.Update{
		{ID: 1, ProjectID: 1, Type: update.TypeImpact, Value: value(120000), Description: "Planted", Date: day("2024-01-10"), Project: acme, OutputMeasurable: op11, ImpactIndicator: trees},
		{ID: 2, ProjectID: 2, Type: update.TypeProgress, Description: "Workshop held", Link: "https://example.org/w", Date: day("2024-01-20"), Project: birch, OutputMeasurable: op21},
		{ID: 3, ProjectID: 1, Type: update.TypeProgress, Description: "Nursery, phase 2", Date: day("2024-02-05"), Project: acme, OutputMeasurable: op11},
		{ID: 4, ProjectID: 1, Type: update.TypeImpact, Value: value(500), Description: "More trees", Date: day("2023-12-31"), Project: acme, OutputMeasurable: op11, ImpactIndicator: trees},
	}
)
