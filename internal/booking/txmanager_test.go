package booking_test

import (
    "context"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/go-sql-driver/mysql"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/show-ticketing/internal/booking"
    "github.com/iliyamo/show-ticketing/internal/model"
    "github.com/iliyamo/show-ticketing/internal/repository"
    "github.com/iliyamo/show-ticketing/internal/uow"
)

func newTxManager(t *testing.T) (*booking.InventoryTxManager, sqlmock.Sqlmock, func()) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)

    m := booking.NewInventoryTxManager(
        uow.NewFactory(db, 5),
        repository.NewInventoryRepo(db),
        repository.NewBookingRepo(db),
        repository.NewPaymentRepo(db),
        repository.NewTicketRepo(db),
    )
    return m, mock, func() { db.Close() }
}

func lockedRows(status string, seatIDs ...uint64) *sqlmock.Rows {
    rows := sqlmock.NewRows([]string{"show_id", "seat_id", "status", "booked_by", "price_cents", "currency"})
    for _, sid := range seatIDs {
        rows.AddRow(1, sid, status, nil, 2500, "USD")
    }
    return rows
}

var payRef = booking.PaymentResult{Provider: "internal", ProviderRef: "ref-1"}

func TestBookSeats_CommitsFullWriteSet(t *testing.T) {
    m, mock, done := newTxManager(t)
    defer done()

    mock.ExpectBegin()
    mock.ExpectExec("SET innodb_lock_wait_timeout").
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery("SELECT show_id, seat_id, status").
        WillReturnRows(lockedRows(model.InventoryAvailable, 4, 5))
    mock.ExpectExec("INSERT INTO bookings").
        WillReturnResult(sqlmock.NewResult(99, 1))
    mock.ExpectExec("INSERT INTO payments").
        WillReturnResult(sqlmock.NewResult(7, 1))
    mock.ExpectExec("UPDATE inventory SET status").
        WillReturnResult(sqlmock.NewResult(0, 2))
    mock.ExpectExec("INSERT INTO tickets").
        WillReturnResult(sqlmock.NewResult(11, 2))
    mock.ExpectCommit()

    res, err := m.BookSeats(context.Background(), 7, 1, []uint64{5, 4}, payRef, 5000, "USD")
    require.NoError(t, err)
    assert.Equal(t, uint64(99), res.Booking.ID)
    assert.Equal(t, model.BookingConfirmed, res.Booking.Status)
    assert.Equal(t, uint64(7), res.Payment.ID)
    assert.Equal(t, uint32(5000), res.Payment.AmountCents)
    require.Len(t, res.Tickets, 2)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookSeats_UnavailableSeatRollsBack(t *testing.T) {
    m, mock, done := newTxManager(t)
    defer done()

    mock.ExpectBegin()
    mock.ExpectExec("SET innodb_lock_wait_timeout").
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery("SELECT show_id, seat_id, status").
        WillReturnRows(lockedRows(model.InventoryNotAvailable, 4))
    mock.ExpectRollback()

    _, err := m.BookSeats(context.Background(), 7, 1, []uint64{4}, payRef, 2500, "USD")
    var unavail *repository.SeatsUnavailableError
    require.ErrorAs(t, err, &unavail)
    assert.Equal(t, []uint64{4}, unavail.SeatIDs)
    // the rollback expectation proves no write escaped the transaction
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookSeats_MissingSeatRollsBack(t *testing.T) {
    m, mock, done := newTxManager(t)
    defer done()

    mock.ExpectBegin()
    mock.ExpectExec("SET innodb_lock_wait_timeout").
        WillReturnResult(sqlmock.NewResult(0, 0))
    // only one of the two requested seats has an inventory row
    mock.ExpectQuery("SELECT show_id, seat_id, status").
        WillReturnRows(lockedRows(model.InventoryAvailable, 4))
    mock.ExpectRollback()

    _, err := m.BookSeats(context.Background(), 7, 1, []uint64{4, 6}, payRef, 5000, "USD")
    var nf *repository.SeatsNotFoundError
    require.ErrorAs(t, err, &nf)
    assert.Equal(t, []uint64{6}, nf.SeatIDs)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookSeats_LockContentionRollsBack(t *testing.T) {
    m, mock, done := newTxManager(t)
    defer done()

    mock.ExpectBegin()
    mock.ExpectExec("SET innodb_lock_wait_timeout").
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery("SELECT show_id, seat_id, status").
        WillReturnError(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"})
    mock.ExpectRollback()

    _, err := m.BookSeats(context.Background(), 7, 1, []uint64{4}, payRef, 2500, "USD")
    assert.ErrorIs(t, err, repository.ErrLockTimeout)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookSeats_DatabaseDownIsStorageUnavailable(t *testing.T) {
    m, mock, done := newTxManager(t)
    defer done()

    mock.ExpectBegin().WillReturnError(assert.AnError)

    _, err := m.BookSeats(context.Background(), 7, 1, []uint64{4}, payRef, 2500, "USD")
    var storErr *booking.StorageUnavailableError
    require.ErrorAs(t, err, &storErr)
    assert.Equal(t, "database", storErr.Store)
}

func TestBookSeats_TicketInsertFailureRollsBack(t *testing.T) {
    m, mock, done := newTxManager(t)
    defer done()

    mock.ExpectBegin()
    mock.ExpectExec("SET innodb_lock_wait_timeout").
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery("SELECT show_id, seat_id, status").
        WillReturnRows(lockedRows(model.InventoryAvailable, 4))
    mock.ExpectExec("INSERT INTO bookings").
        WillReturnResult(sqlmock.NewResult(99, 1))
    mock.ExpectExec("INSERT INTO payments").
        WillReturnResult(sqlmock.NewResult(7, 1))
    mock.ExpectExec("UPDATE inventory SET status").
        WillReturnResult(sqlmock.NewResult(0, 1))
    // both the original and the regenerated ticket codes collide
    mock.ExpectExec("INSERT INTO tickets").
        WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
    mock.ExpectExec("INSERT INTO tickets").
        WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
    mock.ExpectRollback()

    _, err := m.BookSeats(context.Background(), 7, 1, []uint64{4}, payRef, 2500, "USD")
    assert.ErrorIs(t, err, repository.ErrCommitConflict)
    assert.NoError(t, mock.ExpectationsWereMet())
}
