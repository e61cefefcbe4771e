package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// DBTX is satisfied by *sql.DB and *sql.Tx, so repositories run the same
// queries inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// UnitOfWork runs fn inside one transaction: commit on nil, rollback
// otherwise.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// BusyRetries is how many times a transaction that hit a locked database is
// replayed. Two sessions saving the same project file contend here.
const BusyRetries = 3

// SQLiteUnitOfWork implements UnitOfWork over database/sql. A whole attempt
// (begin, fn, commit) is replayed when SQLite reports the database busy.
type SQLiteUnitOfWork struct {
	db      *sql.DB
	backoff func() retry.Backoff
}

func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{
		db: db,
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(BusyRetries, retry.NewExponential(25*time.Millisecond))
		},
	}
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	return retry.Do(ctx, u.backoff(), func(ctx context.Context) error {
		err := u.attempt(ctx, fn)
		if IsBusy(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (u *SQLiteUnitOfWork) attempt(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// IsBusy reports whether err is SQLite's locked-database condition.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
