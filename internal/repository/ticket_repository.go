package repository

import (
    "context"
    "crypto/rand"
    "database/sql"
    "encoding/hex"
    "fmt"
    "time"

    "github.com/iliyamo/show-ticketing/internal/model"
)

// TicketRepo provides access to the `tickets` table.  Tickets are issued
// only inside the booking transaction, one per seat, each with a freshly
// generated globally unique ticket code.
type TicketRepo struct {
    db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// randomTicketCode generates a 20 character hexadecimal admission code
// from 10 bytes of cryptographically secure random data.  Uniqueness is
// enforced by the tickets.ticket_code unique index; a collision is
// handled by CreateManyTx, not here.
func randomTicketCode() (string, error) {
    b := make([]byte, 10)
    if _, err := rand.Read(b); err != nil {
        return "", err
    }
    return hex.EncodeToString(b), nil
}

// CreateManyTx inserts one ticket per seat for a booking within the
// provided transaction and returns the created tickets with their IDs
// populated.  Ticket codes are generated here.  When the unique index on
// ticket_code rejects the insert, every code is regenerated once and the
// insert retried inside the same transaction (MySQL rolls back only the
// failed statement); a second collision surfaces ErrCommitConflict and
// the caller rolls the whole transaction back.
func (r *TicketRepo) CreateManyTx(ctx context.Context, tx *sql.Tx, bookingID, showID uint64, seatIDs []uint64, issuedAt time.Time) ([]model.Ticket, error) {
    if len(seatIDs) == 0 {
        return nil, nil
    }
    ordered := sortedCopy(seatIDs)

    build := func() ([]model.Ticket, error) {
        tickets := make([]model.Ticket, 0, len(ordered))
        for _, sid := range ordered {
            code, err := randomTicketCode()
            if err != nil {
                return nil, err
            }
            tickets = append(tickets, model.Ticket{
                BookingID:  bookingID,
                ShowID:     showID,
                SeatID:     sid,
                TicketCode: code,
                IssuedAt:   issuedAt,
                Status:     model.TicketActive,
            })
        }
        return tickets, nil
    }

    insert := func(tickets []model.Ticket) error {
        query := `INSERT INTO tickets (booking_id, show_id, seat_id, ticket_code, issued_at, status) VALUES `
        args := make([]interface{}, 0, len(tickets)*6)
        for i, t := range tickets {
            if i > 0 {
                query += ","
            }
            query += "(?, ?, ?, ?, ?, ?)"
            args = append(args, t.BookingID, t.ShowID, t.SeatID, t.TicketCode,
                t.IssuedAt.UTC().Format("2006-01-02 15:04:05"), t.Status)
        }
        res, err := tx.ExecContext(ctx, query, args...)
        if err != nil {
            return err
        }
        // multi-row insert: LastInsertId is the first generated id and the
        // rest are consecutive under the default auto-increment lock mode
        first, err := res.LastInsertId()
        if err != nil {
            return err
        }
        for i := range tickets {
            tickets[i].ID = uint64(first) + uint64(i)
        }
        return nil
    }

    tickets, err := build()
    if err != nil {
        return nil, err
    }
    if err := insert(tickets); err != nil {
        if !isDupEntry(err) {
            return nil, err
        }
        // code collision: regenerate every code and retry once
        tickets, err = build()
        if err != nil {
            return nil, err
        }
        if err := insert(tickets); err != nil {
            if isDupEntry(err) {
                return nil, fmt.Errorf("%w: ticket code collision: %v", ErrCommitConflict, err)
            }
            return nil, err
        }
    }
    return tickets, nil
}
