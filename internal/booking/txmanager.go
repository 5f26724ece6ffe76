package booking

import (
    "context"
    "fmt"
    "time"

    "github.com/iliyamo/show-ticketing/internal/model"
    "github.com/iliyamo/show-ticketing/internal/repository"
    "github.com/iliyamo/show-ticketing/internal/uow"
)

// Result is the durable outcome of a committed booking transaction.
type Result struct {
    Booking model.Booking
    Payment model.Payment
    Tickets []model.Ticket
}

// InventoryTxManager performs the durable write set of a booking attempt
// inside one database transaction.  It is the sole source of booking-time
// mutual exclusion: availability is decided under pessimistic row locks,
// and every write goes through the same unit of work so the whole attempt
// commits or rolls back as one.
type InventoryTxManager struct {
    uow      *uow.Factory
    seats    *repository.InventoryRepo
    bookings *repository.BookingRepo
    payments *repository.PaymentRepo
    tickets  *repository.TicketRepo
}

// NewInventoryTxManager wires the transaction manager to its unit-of-work
// factory and repositories.
func NewInventoryTxManager(
    f *uow.Factory,
    seats *repository.InventoryRepo,
    bookings *repository.BookingRepo,
    payments *repository.PaymentRepo,
    tickets *repository.TicketRepo,
) *InventoryTxManager {
    return &InventoryTxManager{uow: f, seats: seats, bookings: bookings, payments: payments, tickets: tickets}
}

// BookSeats locks the inventory rows for the requested seats, verifies
// every one is available, and writes the booking, payment, inventory
// update and tickets atomically.  Payment must already be confirmed by
// the caller; pay carries the provider's reference.  On any failure the
// transaction rolls back and the database is left exactly as it was.
func (m *InventoryTxManager) BookSeats(ctx context.Context, userID, showID uint64, seatIDs []uint64, pay PaymentResult, amountCents uint32, currency string) (*Result, error) {
    u, err := m.uow.Begin(ctx)
    if err != nil {
        return nil, &StorageUnavailableError{Store: "database", Err: err}
    }
    defer u.Rollback()
    tx := u.Tx()

    locked, err := m.seats.LockRowsTx(ctx, tx, showID, seatIDs)
    if err != nil {
        return nil, err
    }
    if err := repository.VerifyAvailable(showID, seatIDs, locked); err != nil {
        return nil, err
    }

    now := time.Now().UTC()
    b := model.Booking{
        UserID:      userID,
        ShowID:      showID,
        Status:      model.BookingConfirmed,
        ConfirmedAt: &now,
        CreatedAt:   now,
    }
    if err := m.bookings.CreateTx(ctx, tx, &b); err != nil {
        return nil, err
    }

    p := model.Payment{
        BookingID:   b.ID,
        Provider:    pay.Provider,
        ProviderRef: pay.ProviderRef,
        Status:      model.PaymentSuccess,
        AmountCents: amountCents,
        Currency:    currency,
        CreatedAt:   now,
    }
    if err := m.payments.CreateTx(ctx, tx, &p); err != nil {
        return nil, err
    }

    updated, err := m.seats.MarkBookedTx(ctx, tx, showID, seatIDs, userID)
    if err != nil {
        return nil, err
    }
    if updated != int64(len(seatIDs)) {
        // rows vanished or flipped between lock and update; cannot happen
        // under FOR UPDATE unless the schema is broken, so refuse to commit
        return nil, fmt.Errorf("marked %d of %d seats booked", updated, len(seatIDs))
    }

    tickets, err := m.tickets.CreateManyTx(ctx, tx, b.ID, showID, seatIDs, now)
    if err != nil {
        return nil, err
    }

    if err := u.Commit(); err != nil {
        return nil, err
    }
    return &Result{Booking: b, Payment: p, Tickets: tickets}, nil
}
