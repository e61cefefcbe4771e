package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PGConn is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type PGConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGProjectRepo implements ProjectRepo on PostgreSQL. It stores the same
// record shape as the SQLite repository.
type PGProjectRepo struct {
	db PGConn
}

func NewPGProjectRepo(conn PGConn) *PGProjectRepo {
	return &PGProjectRepo{db: conn}
}

// placeholders returns "$from, ..., $to".
func placeholders(from, to int) string {
	parts := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		parts = append(parts, "$"+strconv.Itoa(i))
	}
	return strings.Join(parts, ", ")
}

func (r *PGProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	rec, err := EncodeProject(p)
	if err != nil {
		return err
	}
	args := recordArgs(rec)
	query := `INSERT INTO projects (` + projectColumns + `) VALUES (` + placeholders(1, len(args)) + `)`
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *PGProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	p, err := scanPGProject(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", id, err)
	}
	return p, nil
}

func (r *PGProjectRepo) GetByJobID(ctx context.Context, jobID string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE UPPER(job_id) = UPPER($1)`
	p, err := scanPGProject(r.db.QueryRow(ctx, query, jobID))
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", jobID, err)
	}
	return p, nil
}

func (r *PGProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.db.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at, job_id`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanPGProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (r *PGProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	rec, err := EncodeProject(p)
	if err != nil {
		return err
	}
	query := `UPDATE projects SET job_id = $1, name = $2, agency = $3, client = $4, duration = $5, duration_unit = $6,
		status_initial = $7, status_final = $8, status_closing = $9,
		budget_lines_initial = $10, budget_lines_final = $11, verba_lines_initial = $12, verba_lines_final = $13,
		mini_tables = $14, mini_tables_final = $15, phase_defaults_initial = $16, phase_defaults_final = $17,
		job_value = $18, job_value_final = $19, tax_rate = $20, tax_rate_final = $21,
		notes_initial = $22, notes_final = $23, snapshot_initial = $24, snapshot_final = $25,
		closing_lines = $26, cache_table_id = $27, updated_at = $28
		WHERE id = $29`
	args := append(recordArgs(rec)[1:28], rec.UpdatedAt, rec.ID)
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update project %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update project %s: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *PGProjectRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return nil
}

func scanPGProject(row pgx.Row) (*domain.Project, error) {
	var rec ProjectRecord
	if err := row.Scan(recordDest(&rec)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}
	return DecodeProject(rec)
}
