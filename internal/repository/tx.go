package repository

import (
	"context"

	"github.com/alexanderramin/claquete/internal/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProjectTx runs fn with a ProjectRepo bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type ProjectTx interface {
	WithinProjectTx(ctx context.Context, fn func(ctx context.Context, projects ProjectRepo) error) error
}

// SQLiteProjectTx adapts a UnitOfWork.
type SQLiteProjectTx struct {
	uow db.UnitOfWork
}

func NewSQLiteProjectTx(uow db.UnitOfWork) *SQLiteProjectTx {
	return &SQLiteProjectTx{uow: uow}
}

func (t *SQLiteProjectTx) WithinProjectTx(ctx context.Context, fn func(ctx context.Context, projects ProjectRepo) error) error {
	return t.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, NewSQLiteProjectRepo(tx))
	})
}

// PGProjectTx runs project work inside a pgx transaction.
type PGProjectTx struct {
	pool *pgxpool.Pool
}

func NewPGProjectTx(pool *pgxpool.Pool) *PGProjectTx {
	return &PGProjectTx{pool: pool}
}

func (t *PGProjectTx) WithinProjectTx(ctx context.Context, fn func(ctx context.Context, projects ProjectRepo) error) error {
	return pgx.BeginFunc(ctx, t.pool, func(tx pgx.Tx) error {
		return fn(ctx, NewPGProjectRepo(tx))
	})
}
