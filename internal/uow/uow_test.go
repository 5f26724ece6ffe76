package uow

import (
    "context"
    "database/sql"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestBegin_AppliesLockWaitBound(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectExec("SET innodb_lock_wait_timeout").
        WithArgs(5).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    f := NewFactory(db, 5)
    u, err := f.Begin(context.Background())
    require.NoError(t, err)
    u.Rollback()

    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBegin_ZeroLockWaitLeavesServerDefault(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectRollback()

    f := NewFactory(db, 0)
    u, err := f.Begin(context.Background())
    require.NoError(t, err)
    u.Rollback()

    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRollbackIsTheDefaultOutcome(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectRollback()

    f := NewFactory(db, 0)
    u, err := f.Begin(context.Background())
    require.NoError(t, err)

    // a caller that returns early without committing must roll back
    defer func() { assert.NoError(t, mock.ExpectationsWereMet()) }()
    u.Rollback()
}

func TestCommitFinishesTheUnitOfWork(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectCommit()

    f := NewFactory(db, 0)
    u, err := f.Begin(context.Background())
    require.NoError(t, err)

    require.NoError(t, u.Commit())
    // deferred rollback after a successful commit is a no-op
    u.Rollback()
    // a second commit is refused
    assert.ErrorIs(t, u.Commit(), sql.ErrTxDone)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBegin_SetFailureRollsBack(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectExec("SET innodb_lock_wait_timeout").
        WillReturnError(assert.AnError)
    mock.ExpectRollback()

    f := NewFactory(db, 5)
    _, err = f.Begin(context.Background())
    assert.Error(t, err)
    assert.NoError(t, mock.ExpectationsWereMet())
}
