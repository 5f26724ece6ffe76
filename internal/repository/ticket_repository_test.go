package repository

import (
    "context"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/go-sql-driver/mysql"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestCreateManyTx_IssuesOneTicketPerSeat(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectExec("INSERT INTO tickets").
        WillReturnResult(sqlmock.NewResult(11, 2))

    tx, err := db.Begin()
    require.NoError(t, err)

    repo := NewTicketRepo(db)
    issuedAt := time.Date(2026, 8, 30, 19, 0, 0, 0, time.UTC)
    tickets, err := repo.CreateManyTx(context.Background(), tx, 99, 1, []uint64{5, 2}, issuedAt)
    require.NoError(t, err)
    require.Len(t, tickets, 2)

    // seats come back in canonical ascending order with consecutive ids
    assert.Equal(t, uint64(2), tickets[0].SeatID)
    assert.Equal(t, uint64(5), tickets[1].SeatID)
    assert.Equal(t, uint64(11), tickets[0].ID)
    assert.Equal(t, uint64(12), tickets[1].ID)

    // codes are 20 hex characters and distinct
    assert.Len(t, tickets[0].TicketCode, 20)
    assert.Len(t, tickets[1].TicketCode, 20)
    assert.NotEqual(t, tickets[0].TicketCode, tickets[1].TicketCode)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateManyTx_RegeneratesCodesOnceOnCollision(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectExec("INSERT INTO tickets").
        WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
    mock.ExpectExec("INSERT INTO tickets").
        WillReturnResult(sqlmock.NewResult(21, 1))

    tx, err := db.Begin()
    require.NoError(t, err)

    repo := NewTicketRepo(db)
    tickets, err := repo.CreateManyTx(context.Background(), tx, 99, 1, []uint64{4}, time.Now().UTC())
    require.NoError(t, err)
    require.Len(t, tickets, 1)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateManyTx_SecondCollisionIsCommitConflict(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectExec("INSERT INTO tickets").
        WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
    mock.ExpectExec("INSERT INTO tickets").
        WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

    tx, err := db.Begin()
    require.NoError(t, err)

    repo := NewTicketRepo(db)
    _, err = repo.CreateManyTx(context.Background(), tx, 99, 1, []uint64{4}, time.Now().UTC())
    assert.ErrorIs(t, err, ErrCommitConflict)
}

func TestCreateManyTx_NoSeatsWritesNothing(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    tx, err := db.Begin()
    require.NoError(t, err)

    repo := NewTicketRepo(db)
    tickets, err := repo.CreateManyTx(context.Background(), tx, 99, 1, nil, time.Now().UTC())
    require.NoError(t, err)
    assert.Empty(t, tickets)
    assert.NoError(t, mock.ExpectationsWereMet())
}
