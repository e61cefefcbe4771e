package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/claquete/internal/db"
	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/shopspring/decimal"
)

// SQLiteRoleRateRepo implements RoleRateRepo using a SQLite database.
type SQLiteRoleRateRepo struct {
	db db.DBTX
}

// NewSQLiteRoleRateRepo creates a new SQLiteRoleRateRepo.
func NewSQLiteRoleRateRepo(conn db.DBTX) *SQLiteRoleRateRepo {
	return &SQLiteRoleRateRepo{db: conn}
}

func (r *SQLiteRoleRateRepo) Get(ctx context.Context, role string) (*RoleRate, error) {
	key := normalizeRole(role)
	row := r.db.QueryRowContext(ctx, `SELECT role, rate FROM role_rates WHERE role = ?`, key)

	var rr RoleRate
	var rate string
	if err := row.Scan(&rr.Role, &rate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("role rate %q: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning role rate: %w", err)
	}
	d, err := decimal.NewFromString(rate)
	if err != nil {
		return nil, fmt.Errorf("parsing rate for %q: %w", key, err)
	}
	rr.Rate = d
	return &rr, nil
}

func (r *SQLiteRoleRateRepo) Upsert(ctx context.Context, rr RoleRate) error {
	key := normalizeRole(rr.Role)
	if key == "" {
		return fmt.Errorf("role is required")
	}
	query := `INSERT INTO role_rates (role, rate, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(role) DO UPDATE SET rate = excluded.rate, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, key, domain.NonNegative(rr.Rate).String(), nowUTC()); err != nil {
		return fmt.Errorf("upserting role rate: %w", err)
	}
	return nil
}

func (r *SQLiteRoleRateRepo) List(ctx context.Context) ([]RoleRate, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT role, rate FROM role_rates ORDER BY role`)
	if err != nil {
		return nil, fmt.Errorf("listing role rates: %w", err)
	}
	defer rows.Close()

	var out []RoleRate
	for rows.Next() {
		var rr RoleRate
		var rate string
		if err := rows.Scan(&rr.Role, &rate); err != nil {
			return nil, fmt.Errorf("scanning role rate row: %w", err)
		}
		if rr.Rate, err = decimal.NewFromString(rate); err != nil {
			return nil, fmt.Errorf("parsing rate for %q: %w", rr.Role, err)
		}
		out = append(out, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating role rates: %w", err)
	}
	return out, nil
}

func (r *SQLiteRoleRateRepo) Delete(ctx context.Context, role string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM role_rates WHERE role = ?`, normalizeRole(role)); err != nil {
		return fmt.Errorf("deleting role rate: %w", err)
	}
	return nil
}
