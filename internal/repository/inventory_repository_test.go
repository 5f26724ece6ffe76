package repository

import (
    "context"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/go-sql-driver/mysql"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/show-ticketing/internal/model"
)

func invRows() *sqlmock.Rows {
    return sqlmock.NewRows([]string{"show_id", "seat_id", "status", "booked_by", "price_cents", "currency"})
}

func availableRow(r *sqlmock.Rows, showID, seatID uint64) *sqlmock.Rows {
    return r.AddRow(showID, seatID, model.InventoryAvailable, nil, 2500, "USD")
}

func TestLockRowsTx_LocksSeatsInAscendingOrder(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    rows := invRows()
    availableRow(rows, 1, 2)
    availableRow(rows, 1, 5)
    availableRow(rows, 1, 9)
    // seat ids are bound in ascending order regardless of request order
    mock.ExpectQuery("SELECT show_id, seat_id, status, booked_by, price_cents, currency").
        WithArgs(uint64(1), uint64(2), uint64(5), uint64(9)).
        WillReturnRows(rows)

    tx, err := db.Begin()
    require.NoError(t, err)

    repo := NewInventoryRepo(db)
    locked, err := repo.LockRowsTx(context.Background(), tx, 1, []uint64{9, 2, 5})
    require.NoError(t, err)
    require.Len(t, locked, 3)
    assert.Equal(t, uint64(2), locked[0].SeatID)
    assert.Equal(t, uint64(9), locked[2].SeatID)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockRowsTx_LockWaitTimeoutBecomesErrLockTimeout(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT show_id, seat_id").
        WillReturnError(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"})

    tx, err := db.Begin()
    require.NoError(t, err)

    repo := NewInventoryRepo(db)
    _, err = repo.LockRowsTx(context.Background(), tx, 1, []uint64{2})
    assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestLockRowsTx_DeadlockVictimBecomesErrLockTimeout(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT show_id, seat_id").
        WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"})

    tx, err := db.Begin()
    require.NoError(t, err)

    repo := NewInventoryRepo(db)
    _, err = repo.LockRowsTx(context.Background(), tx, 1, []uint64{2})
    assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestVerifyAvailable_AllAvailable(t *testing.T) {
    locked := []model.Inventory{
        {ShowID: 1, SeatID: 2, Status: model.InventoryAvailable},
        {ShowID: 1, SeatID: 5, Status: model.InventoryAvailable},
    }
    assert.NoError(t, VerifyAvailable(1, []uint64{5, 2}, locked))
}

func TestVerifyAvailable_MissingSeatsAreNamed(t *testing.T) {
    locked := []model.Inventory{
        {ShowID: 1, SeatID: 2, Status: model.InventoryAvailable},
    }
    err := VerifyAvailable(1, []uint64{2, 7, 8}, locked)
    var nf *SeatsNotFoundError
    require.ErrorAs(t, err, &nf)
    assert.Equal(t, []uint64{7, 8}, nf.SeatIDs)
}

func TestVerifyAvailable_TakenSeatsAreNamed(t *testing.T) {
    locked := []model.Inventory{
        {ShowID: 1, SeatID: 2, Status: model.InventoryAvailable},
        {ShowID: 1, SeatID: 5, Status: model.InventoryNotAvailable},
    }
    err := VerifyAvailable(1, []uint64{2, 5}, locked)
    var unavail *SeatsUnavailableError
    require.ErrorAs(t, err, &unavail)
    assert.Equal(t, []uint64{5}, unavail.SeatIDs)
}

func TestMarkBookedTx_UpdatesAllSeats(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectExec("UPDATE inventory SET status").
        WithArgs(model.InventoryNotAvailable, uint64(7), uint64(1), uint64(2), uint64(5)).
        WillReturnResult(sqlmock.NewResult(0, 2))

    tx, err := db.Begin()
    require.NoError(t, err)

    repo := NewInventoryRepo(db)
    n, err := repo.MarkBookedTx(context.Background(), tx, 1, []uint64{5, 2}, 7)
    require.NoError(t, err)
    assert.Equal(t, int64(2), n)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPricesForSeats_MissingSeats(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    rows := sqlmock.NewRows([]string{"seat_id", "price_cents", "currency"}).
        AddRow(2, 2500, "USD")
    mock.ExpectQuery("SELECT seat_id, price_cents, currency FROM inventory").
        WillReturnRows(rows)

    repo := NewInventoryRepo(db)
    _, _, err = repo.PricesForSeats(context.Background(), 1, []uint64{2, 9})
    var nf *SeatsNotFoundError
    require.ErrorAs(t, err, &nf)
    assert.Equal(t, []uint64{9}, nf.SeatIDs)
}

func TestPricesForSeats_SumsAndSingleCurrency(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    rows := sqlmock.NewRows([]string{"seat_id", "price_cents", "currency"}).
        AddRow(2, 2500, "USD").
        AddRow(5, 4000, "USD")
    mock.ExpectQuery("SELECT seat_id, price_cents, currency FROM inventory").
        WillReturnRows(rows)

    repo := NewInventoryRepo(db)
    prices, currency, err := repo.PricesForSeats(context.Background(), 1, []uint64{5, 2})
    require.NoError(t, err)
    assert.Equal(t, "USD", currency)
    assert.Equal(t, map[uint64]uint32{2: 2500, 5: 4000}, prices)
}

func TestSortedCopy_DoesNotMutateInput(t *testing.T) {
    in := []uint64{9, 2, 5}
    out := sortedCopy(in)
    assert.Equal(t, []uint64{2, 5, 9}, out)
    assert.Equal(t, []uint64{9, 2, 5}, in)
}
