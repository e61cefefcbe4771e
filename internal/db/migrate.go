package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Budget columns hold JSON documents keyed Phase -> Department. NULL means
// the stage was never loaded. Money is stored as decimal strings.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id                     TEXT PRIMARY KEY,
		job_id                 TEXT NOT NULL,
		name                   TEXT NOT NULL,
		agency                 TEXT NOT NULL DEFAULT '',
		client                 TEXT NOT NULL DEFAULT '',
		duration               INTEGER NOT NULL DEFAULT 0,
		duration_unit          TEXT NOT NULL DEFAULT '',
		status_initial         TEXT NOT NULL DEFAULT 'open'
		                       CHECK(status_initial IN ('open','locked')),
		status_final           TEXT NOT NULL DEFAULT 'open'
		                       CHECK(status_final IN ('open','locked')),
		status_closing         TEXT NOT NULL DEFAULT 'open'
		                       CHECK(status_closing IN ('open','locked')),
		budget_lines_initial   TEXT,
		budget_lines_final     TEXT,
		verba_lines_initial    TEXT,
		verba_lines_final      TEXT,
		mini_tables            TEXT,
		mini_tables_final      TEXT,
		phase_defaults_initial TEXT,
		phase_defaults_final   TEXT,
		job_value              TEXT NOT NULL DEFAULT '0',
		job_value_final        TEXT NOT NULL DEFAULT '0',
		tax_rate               TEXT NOT NULL DEFAULT '0',
		tax_rate_final         TEXT NOT NULL DEFAULT '0',
		notes_initial          TEXT,
		notes_final            TEXT,
		snapshot_initial       TEXT,
		snapshot_final         TEXT,
		closing_lines          TEXT,
		created_at             TEXT NOT NULL,
		updated_at             TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_job_id ON projects(job_id)`,

	`CREATE TABLE IF NOT EXISTS role_rates (
		role       TEXT PRIMARY KEY,
		rate       TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	// Reference to the external rate table a project was priced against.
	`ALTER TABLE projects ADD COLUMN cache_table_id TEXT NOT NULL DEFAULT ''`,
}
