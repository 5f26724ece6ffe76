// Package booking implements the seat booking flow: advisory hold
// placement, payment confirmation, and the pessimistically locked
// inventory transaction that makes a booking durable.
package booking

import (
    "context"
    "log"
    "time"

    "github.com/iliyamo/show-ticketing/internal/model"
    "github.com/iliyamo/show-ticketing/internal/queue"
)

// SeatBooker runs the durable booking transaction.  *InventoryTxManager
// is the production implementation.
type SeatBooker interface {
    BookSeats(ctx context.Context, userID, showID uint64, seatIDs []uint64, pay PaymentResult, amountCents uint32, currency string) (*Result, error)
}

// PriceQuoter resolves per-seat prices and the common currency for a seat
// set before payment is attempted.
type PriceQuoter interface {
    PricesForSeats(ctx context.Context, showID uint64, seatIDs []uint64) (map[uint64]uint32, string, error)
}

// HoldCoordinator places and releases advisory hold markers.
type HoldCoordinator interface {
    PlaceHolds(ctx context.Context, showID uint64, seatIDs []uint64) error
    ReleaseHolds(ctx context.Context, showID uint64, seatIDs []uint64) error
    HeldSeats(ctx context.Context, showID uint64, seatIDs []uint64) map[uint64]bool
    TTL() time.Duration
}

// ShowGetter looks up a show; repository.ShowRepo satisfies it.
type ShowGetter interface {
    GetByID(ctx context.Context, id uint64) (*model.Show, error)
}

// ConfirmedPublisher announces committed bookings to interested consumers.
type ConfirmedPublisher interface {
    PublishBookingConfirmed(ctx context.Context, event queue.BookingConfirmedEvent) error
}

// SeatLister reads the durable seat inventory of a show.
type SeatLister interface {
    ListByShow(ctx context.Context, showID uint64) ([]model.Inventory, error)
}

// Service is the booking orchestrator.  It sequences input validation,
// payment confirmation, the inventory transaction, and hold release, and
// owns the failure handling between them.  The durable transaction is the
// only authority on seat availability; everything else here is advisory
// or compensating.
type Service struct {
    shows    ShowGetter
    seats    SeatLister
    quoter   PriceQuoter
    payments PaymentConfirmer
    txmgr    SeatBooker
    holds    HoldCoordinator
    events   ConfirmedPublisher
}

// NewService wires the orchestrator.  events may be nil when no broker is
// configured; confirmed bookings are then simply not announced.
func NewService(
    shows ShowGetter,
    seats SeatLister,
    quoter PriceQuoter,
    payments PaymentConfirmer,
    txmgr SeatBooker,
    holds HoldCoordinator,
    events ConfirmedPublisher,
) *Service {
    return &Service{shows: shows, seats: seats, quoter: quoter, payments: payments, txmgr: txmgr, holds: holds, events: events}
}

// HoldTTLSeconds reports how long a placed hold lives, in whole seconds.
func (s *Service) HoldTTLSeconds() int {
    return int(s.holds.TTL().Seconds())
}

// validateSeatSet rejects empty seat lists, zero identifiers and
// duplicates before any side effect happens.
func validateSeatSet(seatIDs []uint64) error {
    if len(seatIDs) == 0 {
        return &ValidationError{Reason: "seat list is empty"}
    }
    seen := make(map[uint64]struct{}, len(seatIDs))
    for _, sid := range seatIDs {
        if sid == 0 {
            return &ValidationError{Reason: "seat id must be positive"}
        }
        if _, dup := seen[sid]; dup {
            return &ValidationError{Reason: "duplicate seat id in request"}
        }
        seen[sid] = struct{}{}
    }
    return nil
}

// PlaceHold writes an advisory hold marker for each requested seat of a
// show.  A successful return means the markers were written, nothing
// more: holds grant no exclusivity and expire on their own.  The show
// must exist; a hold-store failure surfaces as *StorageUnavailableError.
func (s *Service) PlaceHold(ctx context.Context, showID uint64, seatIDs []uint64) error {
    if showID == 0 {
        return &ValidationError{Reason: "show id must be positive"}
    }
    if err := validateSeatSet(seatIDs); err != nil {
        return err
    }
    if _, err := s.shows.GetByID(ctx, showID); err != nil {
        return err
    }
    if err := s.holds.PlaceHolds(ctx, showID, seatIDs); err != nil {
        return &StorageUnavailableError{Store: "hold store", Err: err}
    }
    return nil
}

// CreateBooking runs one booking attempt end to end: validate, confirm
// payment, book the seats inside the locked transaction, then release the
// advisory holds.  On success it returns the committed booking with its
// payment and tickets.  Any failure before commit leaves the database
// untouched and the caller may retry with the same or an adjusted seat
// set; seat availability errors name the offending seats.
func (s *Service) CreateBooking(ctx context.Context, userID, showID uint64, seatIDs []uint64) (*Result, error) {
    if userID == 0 {
        return nil, &ValidationError{Reason: "user id must be positive"}
    }
    if showID == 0 {
        return nil, &ValidationError{Reason: "show id must be positive"}
    }
    if err := validateSeatSet(seatIDs); err != nil {
        return nil, err
    }

    show, err := s.shows.GetByID(ctx, showID)
    if err != nil {
        return nil, err
    }

    prices, currency, err := s.quoter.PricesForSeats(ctx, showID, seatIDs)
    if err != nil {
        return nil, err
    }
    var amountCents uint32
    for _, sid := range seatIDs {
        amountCents += prices[sid]
    }

    pay, err := s.payments.Confirm(ctx, userID, showID, amountCents, currency)
    if err != nil {
        return nil, err
    }

    res, err := s.txmgr.BookSeats(ctx, userID, showID, seatIDs, pay, amountCents, currency)
    if err != nil {
        return nil, err
    }

    // The booking is durable from here on.  Hold release and the event
    // publish are best effort: a leftover marker expires via TTL and a
    // missed event never invalidates the booking.
    if err := s.holds.ReleaseHolds(ctx, showID, seatIDs); err != nil {
        log.Printf("booking %d: hold release failed, markers will expire: %v", res.Booking.ID, err)
    }

    if s.events != nil {
        codes := make([]string, 0, len(res.Tickets))
        for _, t := range res.Tickets {
            codes = append(codes, t.TicketCode)
        }
        evt := queue.BookingConfirmedEvent{
            BookingID:   res.Booking.ID,
            UserID:      userID,
            ShowID:      showID,
            ShowTitle:   show.Title,
            SeatIDs:     seatIDs,
            TicketCodes: codes,
            AmountCents: amountCents,
            Currency:    currency,
            ConfirmedAt: res.Booking.ConfirmedAt.UTC().Format(time.RFC3339),
        }
        if err := s.events.PublishBookingConfirmed(ctx, evt); err != nil {
            log.Printf("booking %d: confirmed event publish failed: %v", res.Booking.ID, err)
        }
    }

    return res, nil
}

// SeatMap returns the availability of every seat of a show, with live
// advisory holds overlaid as "held" on seats that are still available in
// the database.  The overlay is cosmetic; only the booking transaction
// decides who gets a seat.
func (s *Service) SeatMap(ctx context.Context, showID uint64) ([]model.SeatAvailability, error) {
    if _, err := s.shows.GetByID(ctx, showID); err != nil {
        return nil, err
    }
    rows, err := s.seats.ListByShow(ctx, showID)
    if err != nil {
        return nil, err
    }
    ids := make([]uint64, 0, len(rows))
    for _, r := range rows {
        if r.Status == model.InventoryAvailable {
            ids = append(ids, r.SeatID)
        }
    }
    held := s.holds.HeldSeats(ctx, showID, ids)

    out := make([]model.SeatAvailability, 0, len(rows))
    for _, r := range rows {
        status := r.Status
        if status == model.InventoryAvailable && held[r.SeatID] {
            status = model.InventoryHeld
        }
        out = append(out, model.SeatAvailability{
            SeatID:     r.SeatID,
            Status:     status,
            PriceCents: r.PriceCents,
            Currency:   r.Currency,
        })
    }
    return out, nil
}
