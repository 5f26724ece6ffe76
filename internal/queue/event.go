// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published after a booking transaction commits.
// It carries enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
    BookingID   uint64   `json:"booking_id"`
    UserID      uint64   `json:"user_id"`
    ShowID      uint64   `json:"show_id"`
    ShowTitle   string   `json:"show_title"`
    SeatIDs     []uint64 `json:"seat_ids"`
    TicketCodes []string `json:"ticket_codes"`
    AmountCents uint32   `json:"amount_cents"`
    Currency    string   `json:"currency"`
    ConfirmedAt string   `json:"confirmed_at"`
}
