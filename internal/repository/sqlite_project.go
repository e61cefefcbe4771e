package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/claquete/internal/db"
	"github.com/alexanderramin/claquete/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo. conn may be a
// *sql.DB or a transaction handed out by a UnitOfWork.
func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

const projectColumns = `id, job_id, name, agency, client, duration, duration_unit,
	status_initial, status_final, status_closing,
	budget_lines_initial, budget_lines_final, verba_lines_initial, verba_lines_final,
	mini_tables, mini_tables_final, phase_defaults_initial, phase_defaults_final,
	job_value, job_value_final, tax_rate, tax_rate_final,
	notes_initial, notes_final, snapshot_initial, snapshot_final,
	closing_lines, cache_table_id, created_at, updated_at`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	rec, err := EncodeProject(p)
	if err != nil {
		return err
	}
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, recordArgs(rec)...); err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", id, err)
	}
	return p, nil
}

func (r *SQLiteProjectRepo) GetByJobID(ctx context.Context, jobID string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE UPPER(job_id) = UPPER(?)`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, jobID))
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", jobID, err)
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at, job_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	rec, err := EncodeProject(p)
	if err != nil {
		return err
	}
	query := `UPDATE projects SET job_id = ?, name = ?, agency = ?, client = ?, duration = ?, duration_unit = ?,
		status_initial = ?, status_final = ?, status_closing = ?,
		budget_lines_initial = ?, budget_lines_final = ?, verba_lines_initial = ?, verba_lines_final = ?,
		mini_tables = ?, mini_tables_final = ?, phase_defaults_initial = ?, phase_defaults_final = ?,
		job_value = ?, job_value_final = ?, tax_rate = ?, tax_rate_final = ?,
		notes_initial = ?, notes_final = ?, snapshot_initial = ?, snapshot_final = ?,
		closing_lines = ?, cache_table_id = ?, updated_at = ?
		WHERE id = ?`
	args := append(recordArgs(rec)[1:28], rec.UpdatedAt, rec.ID)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("updating project %s: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// recordArgs lists the record values in projectColumns order.
func recordArgs(rec ProjectRecord) []any {
	return []any{
		rec.ID, rec.JobID, rec.Name, rec.Agency, rec.Client, rec.Duration, rec.DurationUnit,
		rec.StatusInitial, rec.StatusFinal, rec.StatusClosing,
		rec.BudgetLinesInitial, rec.BudgetLinesFinal, rec.VerbaLinesInitial, rec.VerbaLinesFinal,
		rec.MiniTables, rec.MiniTablesFinal, rec.PhaseDefaultsInitial, rec.PhaseDefaultsFinal,
		rec.JobValue, rec.JobValueFinal, rec.TaxRate, rec.TaxRateFinal,
		rec.NotesInitial, rec.NotesFinal, rec.SnapshotInitial, rec.SnapshotFinal,
		rec.ClosingLines, rec.CacheTableID, rec.CreatedAt, rec.UpdatedAt,
	}
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func recordDest(rec *ProjectRecord) []any {
	return []any{
		&rec.ID, &rec.JobID, &rec.Name, &rec.Agency, &rec.Client, &rec.Duration, &rec.DurationUnit,
		&rec.StatusInitial, &rec.StatusFinal, &rec.StatusClosing,
		&rec.BudgetLinesInitial, &rec.BudgetLinesFinal, &rec.VerbaLinesInitial, &rec.VerbaLinesFinal,
		&rec.MiniTables, &rec.MiniTablesFinal, &rec.PhaseDefaultsInitial, &rec.PhaseDefaultsFinal,
		&rec.JobValue, &rec.JobValueFinal, &rec.TaxRate, &rec.TaxRateFinal,
		&rec.NotesInitial, &rec.NotesFinal, &rec.SnapshotInitial, &rec.SnapshotFinal,
		&rec.ClosingLines, &rec.CacheTableID, &rec.CreatedAt, &rec.UpdatedAt,
	}
}

func scanProject(s scanner) (*domain.Project, error) {
	var rec ProjectRecord
	if err := s.Scan(recordDest(&rec)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	return DecodeProject(rec)
}
