package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/maerl/reporting/internal/domain/update"
	"github.com/maerl/reporting/internal/repository"
)

// UpdateRepository implements update.Repository
type UpdateRepository struct {
	db *DB
}

// NewUpdateRepository creates a new UpdateRepository
func NewUpdateRepository(db *DB) *UpdateRepository {
	return &UpdateRepository{db: db}
}

// dateConditions appends inclusive day bounds on column to conditions.
func dateConditions(column string, r update.DateRange, conditions []string, args []any) ([]string, []any) {
	if from := r.FromString(); from != "" {
		conditions = append(conditions, column+" >= ?")
		args = append(args, from)
	}
	if to := r.ToString(); to != "" {
		conditions = append(conditions, column+" <= ?")
		args = append(args, to)
	}
	return conditions, args
}

// List returns updates with their project, output measurable and impact
// indicator, newest first. The indicator is the update's own when set and
// the measurable's otherwise.
func (r *UpdateRepository) List(ctx context.Context, opts update.ListOptions) ([]update.Update, error) {
	query := `
		SELECT u.id, u.project_id, u.output_measurable_id, u.type, u.value, u.description, u.link,
			u.date, u.created_at,
			p.id, p.slug, p.name, p.highlight_color,
			om.id, om.code, om.description,
			ii.id, ii.code, ii.title, ii.unit
		FROM updates u
		JOIN projects p ON p.id = u.project_id
		JOIN output_measurables om ON om.id = u.output_measurable_id
		LEFT JOIN impact_indicators ii ON ii.id = COALESCE(u.impact_indicator_id, om.impact_indicator_id)
	`
	conditions, args := dateConditions("u.date", opts.Range, nil, nil)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY u.date DESC, u.id DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list updates: %w", err)
	}
	defer rows.Close()

	updates := []update.Update{}
	for rows.Next() {
		var (
			u                    update.Update
			typ                  string
			value                sql.NullFloat64
			link                 sql.NullString
			date, createdAt      nullTime
			proj                 update.ProjectRef
			om                   update.MeasurableRef
			iiID                 sql.NullInt64
			iiCode, iiTitle, iiU sql.NullString
		)
		if err := rows.Scan(
			&u.ID, &u.ProjectID, &u.OutputMeasurableID, &typ, &value, &u.Description, &link,
			&date, &createdAt,
			&proj.ID, &proj.Slug, &proj.Name, &proj.HighlightColor,
			&om.ID, &om.Code, &om.Description,
			&iiID, &iiCode, &iiTitle, &iiU,
		); err != nil {
			return nil, fmt.Errorf("failed to scan update: %w", err)
		}
		u.Type = update.Type(typ)
		if value.Valid {
			u.Value = &value.Float64
		}
		u.Link = link.String
		u.Date = date.day()
		u.CreatedAt = createdAt.Time
		u.Project = &proj
		u.OutputMeasurable = &om
		if iiID.Valid {
			u.ImpactIndicator = &update.IndicatorRef{
				ID: iiID.Int64, Code: iiCode.String, Title: iiTitle.String, Unit: iiU.String,
			}
		}
		updates = append(updates, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list updates: %w", err)
	}
	return updates, nil
}

// Create inserts an update and sets its id
func (r *UpdateRepository) Create(ctx context.Context, u *update.Update) error {
	var indicatorID *int64
	if u.ImpactIndicator != nil {
		indicatorID = &u.ImpactIndicator.ID
	}
	var link *string
	if u.Link != "" {
		link = &u.Link
	}

	query := `
		INSERT INTO updates
			(project_id, output_measurable_id, impact_indicator_id, type, value, description, link, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query),
		u.ProjectID,
		u.OutputMeasurableID,
		indicatorID,
		string(u.Type),
		u.Value,
		u.Description,
		link,
		u.Date.Format(dayLayout),
		u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		return writeError("create update", err)
	}
	return nil
}

// MeasurableIndicatorID returns the impact indicator linked to an output
// measurable, or nil when it has none
func (r *UpdateRepository) MeasurableIndicatorID(ctx context.Context, outputMeasurableID int64) (*int64, error) {
	var id sql.NullInt64
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT impact_indicator_id FROM output_measurables WHERE id = ?
	`), outputMeasurableID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get measurable indicator: %w", err)
	}
	return int64Ptr(id.Int64, id.Valid), nil
}

// ProjectOutputs returns every project with its outputs and their measurables
func (r *UpdateRepository) ProjectOutputs(ctx context.Context) ([]update.ProjectOutputs, error) {
	projects, err := r.projects(ctx)
	if err != nil {
		return nil, err
	}
	outputs, err := r.outputs(ctx)
	if err != nil {
		return nil, err
	}
	measurables, err := r.measurables(ctx)
	if err != nil {
		return nil, err
	}

	byOutput := make(map[int64][]update.FormMeasurable)
	for _, m := range measurables {
		byOutput[m.outputID] = append(byOutput[m.outputID], m.FormMeasurable)
	}
	byProject := make(map[int64][]update.FormOutput)
	for _, out := range outputs {
		out.FormOutput.Measurables = byOutput[out.ID]
		if out.FormOutput.Measurables == nil {
			out.FormOutput.Measurables = []update.FormMeasurable{}
		}
		byProject[out.projectID] = append(byProject[out.projectID], out.FormOutput)
	}
	for i := range projects {
		projects[i].Outputs = byProject[projects[i].ID]
		if projects[i].Outputs == nil {
			projects[i].Outputs = []update.FormOutput{}
		}
	}
	return projects, nil
}

func (r *UpdateRepository) projects(ctx context.Context) ([]update.ProjectOutputs, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM projects ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	items := []update.ProjectOutputs{}
	for rows.Next() {
		var p update.ProjectOutputs
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

type projectOutput struct {
	update.FormOutput
	projectID int64
}

func (r *UpdateRepository) outputs(ctx context.Context) ([]projectOutput, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, project_id, code, description FROM outputs ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list outputs: %w", err)
	}
	defer rows.Close()

	items := []projectOutput{}
	for rows.Next() {
		var o projectOutput
		if err := rows.Scan(&o.ID, &o.projectID, &o.Code, &o.Description); err != nil {
			return nil, fmt.Errorf("failed to scan output: %w", err)
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

type outputMeasurable struct {
	update.FormMeasurable
	outputID int64
}

func (r *UpdateRepository) measurables(ctx context.Context) ([]outputMeasurable, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, output_id, code, description, impact_indicator_id
		FROM output_measurables
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list output measurables: %w", err)
	}
	defer rows.Close()

	items := []outputMeasurable{}
	for rows.Next() {
		var m outputMeasurable
		var indicatorID sql.NullInt64
		if err := rows.Scan(&m.ID, &m.outputID, &m.Code, &m.Description, &indicatorID); err != nil {
			return nil, fmt.Errorf("failed to scan output measurable: %w", err)
		}
		m.ImpactIndicatorID = int64Ptr(indicatorID.Int64, indicatorID.Valid)
		items = append(items, m)
	}
	return items, rows.Err()
}
