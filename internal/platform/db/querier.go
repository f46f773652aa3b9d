package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the single entry point repositories use for storage access.
// Reads go through Query/QueryRow, mutations through Exec; the split makes
// the read/write distinction explicit in the call site instead of being
// inferred from statement text. All parameters are positional; statement
// strings never carry interpolated values.
//
// *pgxpool.Pool, *pgxpool.Conn, and pgx.Tx all satisfy Querier, so the same
// repository code runs inside and outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type contextKey string

const txKey contextKey = "db_tx"

// TxFromContext returns the transaction carried by ctx, or nil when the
// caller is not inside WithTx.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey).(pgx.Tx)
	return tx
}

// WithTx runs fn inside a single transaction. The transaction is stored on
// the context fn receives, so repositories that resolve their Querier via
// TxFromContext join it automatically. Rolls back on error or panic,
// commits otherwise.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
