package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type txKey struct{}

// TxFromContext returns the transaction carried by ctx, or nil when the
// caller is outside a transaction.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}

// WithTx runs fn inside a transaction. The transaction is placed on the
// context passed to fn so repositories resolve it transparently; it commits
// when fn returns nil and rolls back otherwise. acquireTimeout bounds how
// long Begin may wait for a pooled connection.
func WithTx(ctx context.Context, pool *pgxpool.Pool, acquireTimeout time.Duration, fn func(ctx context.Context) error) error {
	beginCtx := ctx
	if acquireTimeout > 0 {
		var cancel context.CancelFunc
		beginCtx, cancel = context.WithTimeout(ctx, acquireTimeout)
		defer cancel()
	}
	tx, err := pool.Begin(beginCtx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Runner abstracts WithTx so services can be tested without a live pool.
type Runner func(ctx context.Context, fn func(ctx context.Context) error) error

// NewRunner returns a Runner bound to pool with the given acquire bound.
func NewRunner(pool *pgxpool.Pool, acquireTimeout time.Duration) Runner {
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		return WithTx(ctx, pool, acquireTimeout, fn)
	}
}
