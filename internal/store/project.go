package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maerl/reporting/internal/domain/project"
	"github.com/maerl/reporting/internal/repository"
)

// ProjectRepository implements project.Repository
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Get retrieves a project by numeric id or slug
func (r *ProjectRepository) Get(ctx context.Context, identifier string) (*project.Project, error) {
	where, arg := identifierClause("", identifier)
	query := `
		SELECT id, slug, name, highlight_color
		FROM projects
		WHERE ` + where

	var proj project.Project
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), arg).Scan(
		&proj.ID,
		&proj.Slug,
		&proj.Name,
		&proj.HighlightColor,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &proj, nil
}

// List returns all projects ordered by id
func (r *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, slug, name, highlight_color
		FROM projects
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	for rows.Next() {
		var p project.Project
		if err := rows.Scan(&p.ID, &p.Slug, &p.Name, &p.HighlightColor); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Create inserts a project and sets its id
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (slug, name, highlight_color)
		VALUES (?, ?, ?)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query),
		proj.Slug,
		proj.Name,
		proj.HighlightColor,
	).Scan(&proj.ID)
	if err != nil {
		return writeError("create project", err)
	}
	return nil
}
