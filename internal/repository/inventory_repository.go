package repository

import (
    "context"
    "database/sql"
    "fmt"
    "sort"
    "strings"

    "github.com/iliyamo/show-ticketing/internal/model"
)

// InventoryRepo provides access to the per-seat-per-show `inventory`
// table.  This repository is concurrency-critical: LockRowsTx takes the
// pessimistic row locks that make booking mutually exclusive, and
// MarkBookedTx flips the locked rows to not_available.  Both must run
// inside the caller's transaction; no other component may write
// inventory status.
type InventoryRepo struct {
    db *sql.DB
}

// NewInventoryRepo returns a new InventoryRepo bound to the given database.
func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// sortedCopy returns the seat ids in ascending order without mutating the
// caller's slice.  Every transaction locks seats in this canonical order
// so that two requests with overlapping seat sets always acquire locks in
// the same global order and cannot deadlock each other.
func sortedCopy(seatIDs []uint64) []uint64 {
    out := make([]uint64, len(seatIDs))
    copy(out, seatIDs)
    sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
    return out
}

// placeholders returns a "?, ?, ?"-style fragment for n bound values.
func placeholders(n int) string {
    return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// LockRowsTx acquires pessimistic row locks (SELECT ... FOR UPDATE) on the
// inventory rows identified by (showID, seatID) for each requested seat
// and returns the locked rows.  Seats are locked in ascending seat id
// order.  A concurrent transaction requesting an overlapping seat set
// blocks until this transaction resolves; if the wait exceeds the
// session's innodb_lock_wait_timeout, ErrLockTimeout is returned.
//
// The result may contain fewer rows than requested when some seats have
// no inventory row; callers must compare counts (see VerifyAvailable).
func (r *InventoryRepo) LockRowsTx(ctx context.Context, tx *sql.Tx, showID uint64, seatIDs []uint64) ([]model.Inventory, error) {
    if len(seatIDs) == 0 {
        return nil, nil
    }
    ordered := sortedCopy(seatIDs)
    query := `SELECT show_id, seat_id, status, booked_by, price_cents, currency
              FROM inventory
              WHERE show_id = ? AND seat_id IN (` + placeholders(len(ordered)) + `)
              ORDER BY seat_id FOR UPDATE`
    args := make([]interface{}, 0, len(ordered)+1)
    args = append(args, showID)
    for _, sid := range ordered {
        args = append(args, sid)
    }
    rows, err := tx.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, mapLockError(err)
    }
    defer rows.Close()
    var locked []model.Inventory
    for rows.Next() {
        var inv model.Inventory
        var bookedBy sql.NullInt64
        if err := rows.Scan(&inv.ShowID, &inv.SeatID, &inv.Status, &bookedBy, &inv.PriceCents, &inv.Currency); err != nil {
            return nil, err
        }
        if bookedBy.Valid {
            uid := uint64(bookedBy.Int64)
            inv.BookedBy = &uid
        }
        locked = append(locked, inv)
    }
    if err := rows.Err(); err != nil {
        return nil, mapLockError(err)
    }
    return locked, nil
}

// VerifyAvailable checks the locked rows against the requested seat set.
// It returns SeatsNotFoundError when a requested seat has no row and
// SeatsUnavailableError when any row is already not_available.  On
// success the requested seats are all present and available, still under
// the caller's row locks.
func VerifyAvailable(showID uint64, seatIDs []uint64, locked []model.Inventory) error {
    if len(locked) != len(seatIDs) {
        have := make(map[uint64]struct{}, len(locked))
        for _, inv := range locked {
            have[inv.SeatID] = struct{}{}
        }
        var missing []uint64
        for _, sid := range sortedCopy(seatIDs) {
            if _, ok := have[sid]; !ok {
                missing = append(missing, sid)
            }
        }
        return &SeatsNotFoundError{ShowID: showID, SeatIDs: missing}
    }
    var taken []uint64
    for _, inv := range locked {
        if inv.Status != model.InventoryAvailable {
            taken = append(taken, inv.SeatID)
        }
    }
    if len(taken) > 0 {
        return &SeatsUnavailableError{ShowID: showID, SeatIDs: taken}
    }
    return nil
}

// MarkBookedTx bulk-updates the given seats of a show to not_available
// with booked_by set.  It must only be called on rows the transaction
// already holds locks for.  The affected row count is returned so the
// caller can assert it matches the seat count.
func (r *InventoryRepo) MarkBookedTx(ctx context.Context, tx *sql.Tx, showID uint64, seatIDs []uint64, userID uint64) (int64, error) {
    if len(seatIDs) == 0 {
        return 0, nil
    }
    ordered := sortedCopy(seatIDs)
    query := `UPDATE inventory SET status = ?, booked_by = ?
              WHERE show_id = ? AND seat_id IN (` + placeholders(len(ordered)) + `)`
    args := make([]interface{}, 0, len(ordered)+3)
    args = append(args, model.InventoryNotAvailable, userID, showID)
    for _, sid := range ordered {
        args = append(args, sid)
    }
    res, err := tx.ExecContext(ctx, query, args...)
    if err != nil {
        return 0, mapLockError(err)
    }
    return res.RowsAffected()
}

// PricesForSeats reads price and currency for the requested seats without
// locking.  It is the pricing input resolved before payment confirmation;
// the authoritative availability check still happens later under row
// locks.  Returns SeatsNotFoundError when any seat has no inventory row,
// and the common currency of the rows (mixed currencies within one
// request are rejected as a data error).
func (r *InventoryRepo) PricesForSeats(ctx context.Context, showID uint64, seatIDs []uint64) (map[uint64]uint32, string, error) {
    if len(seatIDs) == 0 {
        return map[uint64]uint32{}, "", nil
    }
    ordered := sortedCopy(seatIDs)
    query := `SELECT seat_id, price_cents, currency FROM inventory
              WHERE show_id = ? AND seat_id IN (` + placeholders(len(ordered)) + `)`
    args := make([]interface{}, 0, len(ordered)+1)
    args = append(args, showID)
    for _, sid := range ordered {
        args = append(args, sid)
    }
    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, "", err
    }
    defer rows.Close()
    prices := make(map[uint64]uint32, len(ordered))
    currency := ""
    for rows.Next() {
        var sid uint64
        var cents uint32
        var cur string
        if err := rows.Scan(&sid, &cents, &cur); err != nil {
            return nil, "", err
        }
        if currency == "" {
            currency = cur
        } else if currency != cur {
            return nil, "", fmt.Errorf("show %d: seats priced in mixed currencies (%s, %s)", showID, currency, cur)
        }
        prices[sid] = cents
    }
    if err := rows.Err(); err != nil {
        return nil, "", err
    }
    if len(prices) != len(ordered) {
        var missing []uint64
        for _, sid := range ordered {
            if _, ok := prices[sid]; !ok {
                missing = append(missing, sid)
            }
        }
        return nil, "", &SeatsNotFoundError{ShowID: showID, SeatIDs: missing}
    }
    return prices, currency, nil
}

// ListByShow returns every inventory row of a show ordered by seat id.
// Used by the public seat map endpoint; holds are overlaid elsewhere.
func (r *InventoryRepo) ListByShow(ctx context.Context, showID uint64) ([]model.Inventory, error) {
    const query = `SELECT show_id, seat_id, status, booked_by, price_cents, currency
                   FROM inventory WHERE show_id = ? ORDER BY seat_id`
    rows, err := r.db.QueryContext(ctx, query, showID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Inventory
    for rows.Next() {
        var inv model.Inventory
        var bookedBy sql.NullInt64
        if err := rows.Scan(&inv.ShowID, &inv.SeatID, &inv.Status, &bookedBy, &inv.PriceCents, &inv.Currency); err != nil {
            return nil, err
        }
        if bookedBy.Valid {
            uid := uint64(bookedBy.Int64)
            inv.BookedBy = &uid
        }
        out = append(out, inv)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
