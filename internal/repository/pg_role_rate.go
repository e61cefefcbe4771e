package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PGRoleRateRepo implements RoleRateRepo on PostgreSQL.
type PGRoleRateRepo struct {
	db PGConn
}

func NewPGRoleRateRepo(conn PGConn) *PGRoleRateRepo {
	return &PGRoleRateRepo{db: conn}
}

func (r *PGRoleRateRepo) Get(ctx context.Context, role string) (*RoleRate, error) {
	key := normalizeRole(role)
	var rr RoleRate
	var rate string
	err := r.db.QueryRow(ctx, `SELECT role, rate FROM role_rates WHERE role = $1`, key).Scan(&rr.Role, &rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("role rate %q: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get role rate %q: %w", key, err)
	}
	if rr.Rate, err = decimal.NewFromString(rate); err != nil {
		return nil, fmt.Errorf("parse rate for %q: %w", key, err)
	}
	return &rr, nil
}

func (r *PGRoleRateRepo) Upsert(ctx context.Context, rr RoleRate) error {
	key := normalizeRole(rr.Role)
	if key == "" {
		return fmt.Errorf("role is required")
	}
	_, err := r.db.Exec(ctx, `INSERT INTO role_rates (role, rate, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (role) DO UPDATE SET rate = EXCLUDED.rate, updated_at = EXCLUDED.updated_at`,
		key, domain.NonNegative(rr.Rate).String(), nowUTC())
	if err != nil {
		return fmt.Errorf("upsert role rate %q: %w", key, err)
	}
	return nil
}

func (r *PGRoleRateRepo) List(ctx context.Context) ([]RoleRate, error) {
	rows, err := r.db.Query(ctx, `SELECT role, rate FROM role_rates ORDER BY role`)
	if err != nil {
		return nil, fmt.Errorf("list role rates: %w", err)
	}
	defer rows.Close()

	var out []RoleRate
	for rows.Next() {
		var rr RoleRate
		var rate string
		if err := rows.Scan(&rr.Role, &rate); err != nil {
			return nil, fmt.Errorf("scan role rate: %w", err)
		}
		if rr.Rate, err = decimal.NewFromString(rate); err != nil {
			return nil, fmt.Errorf("parse rate for %q: %w", rr.Role, err)
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

func (r *PGRoleRateRepo) Delete(ctx context.Context, role string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM role_rates WHERE role = $1`, normalizeRole(role)); err != nil {
		return fmt.Errorf("delete role rate: %w", err)
	}
	return nil
}
