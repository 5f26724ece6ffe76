package model

import "time"

// Show status values as stored in the `shows` table.
const (
    ShowDraft     = "draft"
    ShowLive      = "live"
    ShowSoldOut   = "sold_out"
    ShowCancelled = "cancelled"
)

// Show represents a scheduled performance of an event at a venue.  Each
// show owns one inventory row per sellable seat.  Bookings and tickets
// reference the show directly.
//
// Fields:
//  ID        – primary key identifier.
//  EventID   – event being performed.
//  VenueID   – venue hosting the show.
//  Title     – display title, denormalized from the event.
//  StartsAt  – when the show begins.
//  EndsAt    – when the show ends (must be after StartsAt).
//  Status    – current state ("draft", "live", "sold_out", "cancelled").
//  CreatedAt – creation timestamp.
type Show struct {
    ID        uint64    // shows.id
    EventID   uint64    // shows.event_id
    VenueID   uint64    // shows.venue_id
    Title     string    // shows.title
    StartsAt  time.Time // shows.starts_at
    EndsAt    time.Time // shows.ends_at
    Status    string    // shows.status
    CreatedAt time.Time // shows.created_at
}
