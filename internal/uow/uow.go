// Package uow wraps database transactions in a unit of work whose default
// outcome is rollback.  A transaction only persists when the caller reaches
// an explicit Commit; any early return, panic or error path that skips the
// commit leaves the database untouched.
package uow

import (
    "context"
    "database/sql"
    "fmt"
)

// Factory begins units of work against a single database.  Each unit of
// work carries a per-transaction lock wait bound so that a booking
// blocked on contended inventory rows fails fast instead of queueing
// behind the engine-wide default.
type Factory struct {
    db           *sql.DB
    lockWaitSecs int
}

// NewFactory returns a Factory bound to db.  lockWaitSecs caps how long a
// transaction may wait on a row lock; values below 1 disable the override
// and leave the server default in place.
func NewFactory(db *sql.DB, lockWaitSecs int) *Factory {
    return &Factory{db: db, lockWaitSecs: lockWaitSecs}
}

// Begin starts a new transaction and applies the lock wait bound to it.
// The returned UnitOfWork must be finished with Commit or Rollback; the
// idiomatic call site is:
//
//	u, err := factory.Begin(ctx)
//	if err != nil { ... }
//	defer u.Rollback()
//	... work with u.Tx() ...
//	return u.Commit()
func (f *Factory) Begin(ctx context.Context) (*UnitOfWork, error) {
    tx, err := f.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, fmt.Errorf("begin transaction: %w", err)
    }
    if f.lockWaitSecs > 0 {
        // SET ... on the tx connection scopes the timeout to this
        // transaction's session only.
        if _, err := tx.ExecContext(ctx, "SET innodb_lock_wait_timeout = ?", f.lockWaitSecs); err != nil {
            _ = tx.Rollback()
            return nil, fmt.Errorf("set lock wait timeout: %w", err)
        }
    }
    return &UnitOfWork{tx: tx}, nil
}

// UnitOfWork is a single database transaction with rollback-by-default
// semantics.  It is not safe for concurrent use.
type UnitOfWork struct {
    tx       *sql.Tx
    finished bool
}

// Tx exposes the underlying transaction so repositories can run their
// Tx-suffixed methods inside this unit of work.
func (u *UnitOfWork) Tx() *sql.Tx {
    return u.tx
}

// Commit makes the transaction's effects permanent.  After Commit the
// unit of work is finished and a deferred Rollback becomes a no-op.
func (u *UnitOfWork) Commit() error {
    if u.finished {
        return sql.ErrTxDone
    }
    u.finished = true
    if err := u.tx.Commit(); err != nil {
        return fmt.Errorf("commit transaction: %w", err)
    }
    return nil
}

// Rollback discards the transaction unless Commit already succeeded.
// It is safe to call unconditionally in a defer.
func (u *UnitOfWork) Rollback() {
    if u.finished {
        return
    }
    u.finished = true
    _ = u.tx.Rollback()
}
