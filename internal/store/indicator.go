package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/maerl/reporting/internal/domain/indicator"
	"github.com/maerl/reporting/internal/domain/update"
)

// IndicatorRepository implements indicator.Repository
type IndicatorRepository struct {
	db *DB
}

// NewIndicatorRepository creates a new IndicatorRepository
func NewIndicatorRepository(db *DB) *IndicatorRepository {
	return &IndicatorRepository{db: db}
}

// List returns all impact indicators ordered by id
func (r *IndicatorRepository) List(ctx context.Context) ([]indicator.Indicator, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, code, title, unit FROM impact_indicators ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list impact indicators: %w", err)
	}
	defer rows.Close()

	items := []indicator.Indicator{}
	for rows.Next() {
		var it indicator.Indicator
		if err := rows.Scan(&it.ID, &it.Code, &it.Title, &it.Unit); err != nil {
			return nil, fmt.Errorf("failed to scan impact indicator: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list impact indicators: %w", err)
	}
	return items, nil
}

// Summaries totals the values of Impact updates per indicator within r.
// Indicators without updates are included with zero totals.
func (r *IndicatorRepository) Summaries(ctx context.Context, rng update.DateRange) ([]indicator.Summary, error) {
	conditions, args := dateConditions("u.date", rng, []string{"u.type = 'Impact'"}, nil)
	query := `
		SELECT ii.id, ii.code, ii.title, ii.unit, COALESCE(SUM(t.value), 0), COUNT(t.id)
		FROM impact_indicators ii
		LEFT JOIN (
			SELECT u.id, u.value, COALESCE(u.impact_indicator_id, om.impact_indicator_id) AS indicator_id
			FROM updates u
			JOIN output_measurables om ON om.id = u.output_measurable_id
			WHERE ` + strings.Join(conditions, " AND ") + `
		) t ON t.indicator_id = ii.id
		GROUP BY ii.id, ii.code, ii.title, ii.unit
		ORDER BY ii.id ASC
	`

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize impact indicators: %w", err)
	}
	defer rows.Close()

	items := []indicator.Summary{}
	for rows.Next() {
		var s indicator.Summary
		if err := rows.Scan(&s.ID, &s.Code, &s.Title, &s.Unit, &s.Total, &s.Updates); err != nil {
			return nil, fmt.Errorf("failed to scan impact indicator summary: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to summarize impact indicators: %w", err)
	}
	return items, nil
}

// Create inserts an impact indicator and sets its id
func (r *IndicatorRepository) Create(ctx context.Context, it *indicator.Indicator) error {
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
		INSERT INTO impact_indicators (code, title, unit) VALUES (?, ?, ?) RETURNING id
	`), it.Code, it.Title, it.Unit).Scan(&it.ID)
	if err != nil {
		return writeError("create impact indicator", err)
	}
	return nil
}
