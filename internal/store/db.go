// Package store implements the domain repositories on database/sql for
// SQLite and Postgres.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/maerl/reporting/internal/domain/indicator"
	"github.com/maerl/reporting/internal/domain/logframe"
	"github.com/maerl/reporting/internal/domain/project"
	"github.com/maerl/reporting/internal/domain/update"
	"github.com/maerl/reporting/migrations"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	_ project.Repository   = (*ProjectRepository)(nil)
	_ logframe.Repository  = (*LogframeRepository)(nil)
	_ update.Repository    = (*UpdateRepository)(nil)
	_ indicator.Repository = (*IndicatorRepository)(nil)
)

// DB wraps a database connection and remembers its dialect
type DB struct {
	*sql.DB
	driver string
}

// Open connects to the database at dsn using driver.
func Open(driver, dsn string) (*DB, error) {
	switch driver {
	case DriverSQLite:
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		// One connection keeps :memory: databases and per-connection pragmas
		// consistent across the pool.
		db.SetMaxOpenConns(1)

		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		return &DB{DB: db, driver: driver}, nil

	case DriverPostgres:
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return &DB{DB: db, driver: driver}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Driver reports the dialect in use.
func (db *DB) Driver() string {
	return db.driver
}

// Rebind rewrites ? placeholders into the driver's bind syntax.
func (db *DB) Rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RunMigrations applies the embedded schema for the driver. The scripts are
// idempotent, so running them on every start is safe.
func (db *DB) RunMigrations(ctx context.Context) error {
	scripts, err := migrations.Scripts(db.driver)
	if err != nil {
		return err
	}
	for _, script := range scripts {
		if _, err := db.ExecContext(ctx, script); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}
	return nil
}

// identifierClause matches a project by numeric id, or by slug otherwise.
func identifierClause(column string, identifier string) (string, any) {
	if id, err := strconv.ParseInt(strings.TrimSpace(identifier), 10, 64); err == nil {
		return column + "id = ?", id
	}
	return column + "slug = ?", identifier
}
