package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maerl/reporting/internal/domain/logframe"
	"github.com/maerl/reporting/internal/repository"
)

// LogframeRepository implements logframe.Repository
type LogframeRepository struct {
	db *DB
}

// NewLogframeRepository creates a new LogframeRepository
func NewLogframeRepository(db *DB) *LogframeRepository {
	return &LogframeRepository{db: db}
}

// FetchProjectRecord loads a project with its impacts, outcomes, outcome
// measurables, nested outputs and flat output list. Rows come back in id
// order, which is the order they were authored in.
func (r *LogframeRepository) FetchProjectRecord(ctx context.Context, identifier string) (*logframe.ProjectRecord, error) {
	where, arg := identifierClause("", identifier)
	var rec logframe.ProjectRecord
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT id, slug, name FROM projects WHERE `+where), arg).
		Scan(&rec.ID, &rec.Slug, &rec.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if rec.Impacts, err = r.impacts(ctx, rec.ID); err != nil {
		return nil, err
	}
	outcomes, err := r.outcomes(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	measurables, err := r.outcomeMeasurables(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	nested, err := r.outputs(ctx, `
		SELECT op.id, op.outcome_measurable_id, op.project_id, op.code, op.description
		FROM outputs op
		JOIN outcome_measurables om ON om.id = op.outcome_measurable_id
		JOIN outcomes oc ON oc.id = om.outcome_id
		WHERE oc.project_id = ?
		ORDER BY op.id ASC
	`, rec.ID)
	if err != nil {
		return nil, err
	}
	if rec.Outputs, err = r.outputs(ctx, `
		SELECT id, outcome_measurable_id, project_id, code, description
		FROM outputs
		WHERE project_id = ?
		ORDER BY id ASC
	`, rec.ID); err != nil {
		return nil, err
	}

	byMeasurable := make(map[int64][]logframe.Output)
	for _, out := range nested {
		byMeasurable[*out.OutcomeMeasurableID] = append(byMeasurable[*out.OutcomeMeasurableID], out)
	}
	byOutcome := make(map[int64][]logframe.MeasurableRecord)
	for _, m := range measurables {
		byOutcome[m.OutcomeID] = append(byOutcome[m.OutcomeID], logframe.MeasurableRecord{
			OutcomeMeasurable: m,
			Outputs:           byMeasurable[m.ID],
		})
	}
	rec.Outcomes = make([]logframe.OutcomeRecord, 0, len(outcomes))
	for _, oc := range outcomes {
		rec.Outcomes = append(rec.Outcomes, logframe.OutcomeRecord{
			Outcome:     oc,
			Measurables: byOutcome[oc.ID],
		})
	}

	return &rec, nil
}

func (r *LogframeRepository) impacts(ctx context.Context, projectID int64) ([]logframe.Impact, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT id, project_id, title FROM impacts WHERE project_id = ? ORDER BY id ASC
	`), projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list impacts: %w", err)
	}
	defer rows.Close()

	items := []logframe.Impact{}
	for rows.Next() {
		var it logframe.Impact
		if err := rows.Scan(&it.ID, &it.ProjectID, &it.Title); err != nil {
			return nil, fmt.Errorf("failed to scan impact: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *LogframeRepository) outcomes(ctx context.Context, projectID int64) ([]logframe.Outcome, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT id, project_id, code, description FROM outcomes WHERE project_id = ? ORDER BY id ASC
	`), projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}
	defer rows.Close()

	items := []logframe.Outcome{}
	for rows.Next() {
		var it logframe.Outcome
		if err := rows.Scan(&it.ID, &it.ProjectID, &it.Code, &it.Description); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *LogframeRepository) outcomeMeasurables(ctx context.Context, projectID int64) ([]logframe.OutcomeMeasurable, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT om.id, om.outcome_id, om.code, om.description, om.verification, om.assumptions
		FROM outcome_measurables om
		JOIN outcomes oc ON oc.id = om.outcome_id
		WHERE oc.project_id = ?
		ORDER BY om.id ASC
	`), projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcome measurables: %w", err)
	}
	defer rows.Close()

	items := []logframe.OutcomeMeasurable{}
	for rows.Next() {
		var it logframe.OutcomeMeasurable
		if err := rows.Scan(&it.ID, &it.OutcomeID, &it.Code, &it.Description, &it.Verification, &it.Assumptions); err != nil {
			return nil, fmt.Errorf("failed to scan outcome measurable: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *LogframeRepository) outputs(ctx context.Context, query string, args ...any) ([]logframe.Output, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list outputs: %w", err)
	}
	defer rows.Close()

	items := []logframe.Output{}
	for rows.Next() {
		var it logframe.Output
		var measurableID sql.NullInt64
		if err := rows.Scan(&it.ID, &measurableID, &it.ProjectID, &it.Code, &it.Description); err != nil {
			return nil, fmt.Errorf("failed to scan output: %w", err)
		}
		it.OutcomeMeasurableID = int64Ptr(measurableID.Int64, measurableID.Valid)
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpsertImpact inserts an impact when its id is zero and updates it otherwise
func (r *LogframeRepository) UpsertImpact(ctx context.Context, in logframe.Impact) (*logframe.Impact, error) {
	var query string
	var args []any
	if in.ID == 0 {
		query = `INSERT INTO impacts (project_id, title) VALUES (?, ?)`
		args = []any{in.ProjectID, in.Title}
	} else {
		query = `
			INSERT INTO impacts (id, project_id, title) VALUES (?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET project_id = excluded.project_id, title = excluded.title`
		args = []any{in.ID, in.ProjectID, in.Title}
	}
	query += ` RETURNING id, project_id, title`

	var out logframe.Impact
	if err := r.db.QueryRowContext(ctx, r.db.Rebind(query), args...).Scan(&out.ID, &out.ProjectID, &out.Title); err != nil {
		return nil, writeError("upsert impact", err)
	}
	return &out, nil
}

// UpsertOutcome inserts or updates an outcome row
func (r *LogframeRepository) UpsertOutcome(ctx context.Context, in logframe.Outcome) (*logframe.Outcome, error) {
	var query string
	var args []any
	if in.ID == 0 {
		query = `INSERT INTO outcomes (project_id, code, description) VALUES (?, ?, ?)`
		args = []any{in.ProjectID, in.Code, in.Description}
	} else {
		query = `
			INSERT INTO outcomes (id, project_id, code, description) VALUES (?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				project_id = excluded.project_id,
				code = excluded.code,
				description = excluded.description`
		args = []any{in.ID, in.ProjectID, in.Code, in.Description}
	}
	query += ` RETURNING id, project_id, code, description`

	var out logframe.Outcome
	if err := r.db.QueryRowContext(ctx, r.db.Rebind(query), args...).
		Scan(&out.ID, &out.ProjectID, &out.Code, &out.Description); err != nil {
		return nil, writeError("upsert outcome", err)
	}
	return &out, nil
}

// UpsertOutcomeMeasurables writes a batch of outcome measurables in one
// transaction; either every row is written or none is.
func (r *LogframeRepository) UpsertOutcomeMeasurables(ctx context.Context, items []logframe.OutcomeMeasurable) ([]logframe.OutcomeMeasurable, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	written := make([]logframe.OutcomeMeasurable, 0, len(items))
	for _, in := range items {
		var query string
		var args []any
		if in.ID == 0 {
			query = `
				INSERT INTO outcome_measurables (outcome_id, code, description, verification, assumptions)
				VALUES (?, ?, ?, ?, ?)`
			args = []any{in.OutcomeID, in.Code, in.Description, in.Verification, in.Assumptions}
		} else {
			query = `
				INSERT INTO outcome_measurables (id, outcome_id, code, description, verification, assumptions)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT (id) DO UPDATE SET
					outcome_id = excluded.outcome_id,
					code = excluded.code,
					description = excluded.description,
					verification = excluded.verification,
					assumptions = excluded.assumptions`
			args = []any{in.ID, in.OutcomeID, in.Code, in.Description, in.Verification, in.Assumptions}
		}
		query += ` RETURNING id, outcome_id, code, description, verification, assumptions`

		var out logframe.OutcomeMeasurable
		if err := tx.QueryRowContext(ctx, r.db.Rebind(query), args...).
			Scan(&out.ID, &out.OutcomeID, &out.Code, &out.Description, &out.Verification, &out.Assumptions); err != nil {
			return nil, writeError("upsert outcome measurable", err)
		}
		written = append(written, out)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit outcome measurables: %w", err)
	}
	return written, nil
}

// UpsertOutput inserts or updates an output row
func (r *LogframeRepository) UpsertOutput(ctx context.Context, in logframe.Output) (*logframe.Output, error) {
	var query string
	var args []any
	if in.ID == 0 {
		query = `INSERT INTO outputs (outcome_measurable_id, project_id, code, description) VALUES (?, ?, ?, ?)`
		args = []any{in.OutcomeMeasurableID, in.ProjectID, in.Code, in.Description}
	} else {
		query = `
			INSERT INTO outputs (id, outcome_measurable_id, project_id, code, description)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				outcome_measurable_id = excluded.outcome_measurable_id,
				project_id = excluded.project_id,
				code = excluded.code,
				description = excluded.description`
		args = []any{in.ID, in.OutcomeMeasurableID, in.ProjectID, in.Code, in.Description}
	}
	query += ` RETURNING id, outcome_measurable_id, project_id, code, description`

	var out logframe.Output
	var measurableID sql.NullInt64
	if err := r.db.QueryRowContext(ctx, r.db.Rebind(query), args...).
		Scan(&out.ID, &measurableID, &out.ProjectID, &out.Code, &out.Description); err != nil {
		return nil, writeError("upsert output", err)
	}
	out.OutcomeMeasurableID = int64Ptr(measurableID.Int64, measurableID.Valid)
	return &out, nil
}

// UpsertOutputMeasurable inserts or updates an output measurable row
func (r *LogframeRepository) UpsertOutputMeasurable(ctx context.Context, in logframe.OutputMeasurable) (*logframe.OutputMeasurable, error) {
	var query string
	var args []any
	if in.ID == 0 {
		query = `
			INSERT INTO output_measurables
				(output_id, code, description, verification, assumptions, target, impact_indicator_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)`
		args = []any{in.OutputID, in.Code, in.Description, in.Verification, in.Assumptions, in.Target, in.ImpactIndicatorID}
	} else {
		query = `
			INSERT INTO output_measurables
				(id, output_id, code, description, verification, assumptions, target, impact_indicator_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				output_id = excluded.output_id,
				code = excluded.code,
				description = excluded.description,
				verification = excluded.verification,
				assumptions = excluded.assumptions,
				target = excluded.target,
				impact_indicator_id = excluded.impact_indicator_id`
		args = []any{in.ID, in.OutputID, in.Code, in.Description, in.Verification, in.Assumptions, in.Target, in.ImpactIndicatorID}
	}
	query += ` RETURNING id, output_id, code, description, verification, assumptions, target, impact_indicator_id`

	var out logframe.OutputMeasurable
	var indicatorID sql.NullInt64
	if err := r.db.QueryRowContext(ctx, r.db.Rebind(query), args...).Scan(
		&out.ID, &out.OutputID, &out.Code, &out.Description,
		&out.Verification, &out.Assumptions, &out.Target, &indicatorID,
	); err != nil {
		return nil, writeError("upsert output measurable", err)
	}
	out.ImpactIndicatorID = int64Ptr(indicatorID.Int64, indicatorID.Valid)
	return &out, nil
}

// MeasurableProjectID returns the project owning an outcome measurable's outcome
func (r *LogframeRepository) MeasurableProjectID(ctx context.Context, outcomeMeasurableID int64) (int64, error) {
	var projectID int64
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT oc.project_id
		FROM outcome_measurables om
		JOIN outcomes oc ON oc.id = om.outcome_id
		WHERE om.id = ?
	`), outcomeMeasurableID).Scan(&projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get measurable project: %w", err)
	}
	return projectID, nil
}

// ListOutputMeasurables returns an output's measurables with their indicators
func (r *LogframeRepository) ListOutputMeasurables(ctx context.Context, outputID int64) ([]logframe.OutputMeasurable, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT m.id, m.output_id, m.code, m.description, m.verification, m.assumptions, m.target,
			ii.id, ii.code, ii.title
		FROM output_measurables m
		LEFT JOIN impact_indicators ii ON ii.id = m.impact_indicator_id
		WHERE m.output_id = ?
		ORDER BY m.id ASC
	`), outputID)
	if err != nil {
		return nil, fmt.Errorf("failed to list output measurables: %w", err)
	}
	defer rows.Close()

	items := []logframe.OutputMeasurable{}
	for rows.Next() {
		var it logframe.OutputMeasurable
		var iiID sql.NullInt64
		var iiCode, iiTitle sql.NullString
		if err := rows.Scan(
			&it.ID, &it.OutputID, &it.Code, &it.Description, &it.Verification, &it.Assumptions, &it.Target,
			&iiID, &iiCode, &iiTitle,
		); err != nil {
			return nil, fmt.Errorf("failed to scan output measurable: %w", err)
		}
		if iiID.Valid {
			it.ImpactIndicatorID = &iiID.Int64
			it.ImpactIndicator = &logframe.IndicatorRef{ID: iiID.Int64, Code: iiCode.String, Title: iiTitle.String}
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list output measurables: %w", err)
	}
	return items, nil
}
