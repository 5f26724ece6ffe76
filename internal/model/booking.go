package model

import "time"

// Booking status values as stored in the `bookings` table.
const (
    BookingInitiated = "initiated"
    BookingConfirmed = "confirmed"
    BookingCancelled = "cancelled"
    BookingExpired   = "expired"
)

// Payment status values as stored in the `payments` table.
const (
    PaymentPending = "pending"
    PaymentSuccess = "success"
    PaymentFailed  = "failed"
)

// PaymentProviderInternal marks charges approved by the built-in
// accept-all provider used outside production.
const PaymentProviderInternal = "internal"

// Ticket status values as stored in the `tickets` table.
const (
    TicketActive    = "active"
    TicketCancelled = "cancelled"
    TicketUsed      = "used"
)

// Booking records one successful (or aborted) booking attempt by a user
// for a show.  The seat set of a booking is immutable and expressed via
// its Tickets; the booking row itself never lists seats.
//
// Fields:
//  ID          – primary key, assigned on insert.
//  UserID      – user who made the booking.
//  ShowID      – show being booked.
//  Status      – "initiated", "confirmed", "cancelled" or "expired".
//  ConfirmedAt – when the booking transaction committed (nullable).
//  CreatedAt   – creation timestamp.
type Booking struct {
    ID          uint64     // bookings.id
    UserID      uint64     // bookings.user_id
    ShowID      uint64     // bookings.show_id
    Status      string     // bookings.status
    ConfirmedAt *time.Time // bookings.confirmed_at (nullable)
    CreatedAt   time.Time  // bookings.created_at
}

// Payment belongs to exactly one Booking and records the synchronous
// payment confirmation that gated the inventory mutation.  A payment row
// with status "success" must exist in the same transaction that marks the
// booking's seats unavailable.
//
// Fields:
//  ID          – primary key, assigned on insert.
//  BookingID   – owning booking.
//  Provider    – external payment provider name (e.g. "upi").
//  ProviderRef – opaque reference returned by the provider.
//  Status      – "pending", "success" or "failed".
//  AmountCents – total charged amount in minor units.
//  Currency    – ISO 4217 currency code.
//  CreatedAt   – creation timestamp.
type Payment struct {
    ID          uint64    // payments.id
    BookingID   uint64    // payments.booking_id
    Provider    string    // payments.provider
    ProviderRef string    // payments.provider_ref
    Status      string    // payments.status
    AmountCents uint32    // payments.amount_cents
    Currency    string    // payments.currency
    CreatedAt   time.Time // payments.created_at
}

// Ticket is issued once per seat per booking, inside the same transaction
// that marks the inventory row unavailable.  TicketCode is globally unique
// across the lifetime of the system.
//
// Fields:
//  ID         – primary key, assigned on insert.
//  BookingID  – owning booking.
//  ShowID     – show the ticket admits to.
//  SeatID     – seat the ticket covers.
//  TicketCode – globally unique admission code.
//  IssuedAt   – issuance timestamp.
//  Status     – "active", "cancelled" or "used".
type Ticket struct {
    ID         uint64    // tickets.id
    BookingID  uint64    // tickets.booking_id
    ShowID     uint64    // tickets.show_id
    SeatID     uint64    // tickets.seat_id
    TicketCode string    // tickets.ticket_code (unique)
    IssuedAt   time.Time // tickets.issued_at
    Status     string    // tickets.status
}
