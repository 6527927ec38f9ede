package mysql

import (
	"context"
	"database/sql"
	"time"
)

// TxRunner executes a function inside a REPEATABLE READ transaction
// with a per-transaction timeout. Commit happens only if fn returns
// nil; the deferred rollback is a no-op after commit.
type TxRunner struct {
	db      *sql.DB
	timeout time.Duration
}

func NewTxRunner(db *sql.DB, timeout time.Duration) *TxRunner {
	return &TxRunner{db: db, timeout: timeout}
}

func (r *TxRunner) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	txCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return err
	}
	// Ensure rollback on any exit path. MySQL ignores rollback if already committed.
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}
