package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/show-ticketing/internal/model"
)

// BookingRepo provides CRUD operations for bookings.  Writes happen only
// through CreateTx inside the booking transaction; reads serve the
// booking lookup endpoints.  All timestamp fields are stored in UTC.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID on the provided record.
// The caller must commit or roll back the transaction.  Status should
// be a valid enumeration ("initiated", "confirmed", "cancelled",
// "expired").
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    const q = `INSERT INTO bookings (user_id, show_id, status, confirmed_at) VALUES (?, ?, ?, ?)`
    var confirmedAt interface{}
    if b.ConfirmedAt != nil {
        confirmedAt = b.ConfirmedAt.UTC().Format("2006-01-02 15:04:05")
    }
    result, err := tx.ExecContext(ctx, q, b.UserID, b.ShowID, b.Status, confirmedAt)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    return nil
}

// BookingDetail aggregates one booking with its payment summary and
// tickets for display to the booking's owner.
type BookingDetail struct {
    ID          uint64     `json:"id"`
    ShowID      uint64     `json:"show_id"`
    Status      string     `json:"status"`
    ConfirmedAt *string    `json:"confirmed_at,omitempty"`
    AmountCents uint32     `json:"amount_cents"`
    Currency    string     `json:"currency"`
    Tickets     []struct {
        SeatID     uint64 `json:"seat_id"`
        TicketCode string `json:"ticket_code"`
        Status     string `json:"status"`
    } `json:"tickets"`
}

// GetByIDForUser returns a single booking for the given user along with
// its payment amount and tickets.  Ownership is enforced here: when the
// booking exists but belongs to someone else, or does not exist at all,
// ErrBookingNotFound is returned so handlers do not leak existence.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID uint64) (*BookingDetail, error) {
    const q = `SELECT b.id, b.show_id, b.status, b.confirmed_at, p.amount_cents, p.currency
               FROM bookings b
               JOIN payments p ON p.booking_id = b.id
               WHERE b.id = ? AND b.user_id = ?`
    var det BookingDetail
    var confirmedAt sql.NullTime
    err := r.db.QueryRowContext(ctx, q, bookingID, userID).Scan(
        &det.ID, &det.ShowID, &det.Status, &confirmedAt, &det.AmountCents, &det.Currency,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBookingNotFound
        }
        return nil, err
    }
    if confirmedAt.Valid {
        iso := confirmedAt.Time.UTC().Format(time.RFC3339)
        det.ConfirmedAt = &iso
    }
    if err := r.attachTickets(ctx, []*BookingDetail{&det}); err != nil {
        return nil, err
    }
    return &det, nil
}

// ListByUser returns all bookings for the given user, newest first, each
// with its payment summary and tickets.  When no bookings exist an empty
// slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
    const q = `SELECT b.id, b.show_id, b.status, b.confirmed_at, p.amount_cents, p.currency
               FROM bookings b
               JOIN payments p ON p.booking_id = b.id
               WHERE b.user_id = ?
               ORDER BY b.created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]BookingDetail, 0)
    for rows.Next() {
        var det BookingDetail
        var confirmedAt sql.NullTime
        if err := rows.Scan(&det.ID, &det.ShowID, &det.Status, &confirmedAt, &det.AmountCents, &det.Currency); err != nil {
            return nil, err
        }
        if confirmedAt.Valid {
            iso := confirmedAt.Time.UTC().Format(time.RFC3339)
            det.ConfirmedAt = &iso
        }
        details = append(details, det)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(details) == 0 {
        return details, nil
    }
    refs := make([]*BookingDetail, 0, len(details))
    for i := range details {
        refs = append(refs, &details[i])
    }
    if err := r.attachTickets(ctx, refs); err != nil {
        return nil, err
    }
    return details, nil
}

// attachTickets populates the Tickets slice of each detail in a single
// query over all booking ids.
func (r *BookingRepo) attachTickets(ctx context.Context, details []*BookingDetail) error {
    index := make(map[uint64]*BookingDetail, len(details))
    ids := make([]interface{}, 0, len(details))
    for _, d := range details {
        d.Tickets = []struct {
            SeatID     uint64 `json:"seat_id"`
            TicketCode string `json:"ticket_code"`
            Status     string `json:"status"`
        }{}
        index[d.ID] = d
        ids = append(ids, d.ID)
    }
    query := `SELECT booking_id, seat_id, ticket_code, status
              FROM tickets
              WHERE booking_id IN (` + placeholders(len(ids)) + `)
              ORDER BY booking_id, seat_id`
    rows, err := r.db.QueryContext(ctx, query, ids...)
    if err != nil {
        return err
    }
    defer rows.Close()
    for rows.Next() {
        var bid, sid uint64
        var code, status string
        if err := rows.Scan(&bid, &sid, &code, &status); err != nil {
            return err
        }
        d, ok := index[bid]
        if !ok {
            continue
        }
        d.Tickets = append(d.Tickets, struct {
            SeatID     uint64 `json:"seat_id"`
            TicketCode string `json:"ticket_code"`
            Status     string `json:"status"`
        }{SeatID: sid, TicketCode: code, Status: status})
    }
    return rows.Err()
}
