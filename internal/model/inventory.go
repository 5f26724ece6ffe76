package model

// Inventory status values as stored in the `inventory` table.  The durable
// store only knows two states; the transient "held" state is derived from
// the ephemeral hold store and never written to the database.
const (
    InventoryAvailable    = "available"     // seat may be booked
    InventoryNotAvailable = "not_available" // seat is sold
    InventoryHeld         = "held"          // advisory only, derived from hold keys
)

// Inventory is the durable per-seat-per-show availability record.  Its
// composite identity is (ShowID, SeatID) and its status is the single
// source of truth for whether a seat can still be sold.  A row moves from
// available to not_available only inside a committed booking transaction
// that also writes the Booking, Payment and Ticket rows.
//
// Fields:
//  ShowID     – show this seat belongs to (inventory.show_id).
//  SeatID     – physical seat identifier (inventory.seat_id).
//  Status     – "available" or "not_available".
//  BookedBy   – user who bought the seat; nil while available.
//  PriceCents – price of this seat for this show, in minor units.
//  Currency   – ISO 4217 currency code (e.g. "EUR").
type Inventory struct {
    ShowID     uint64  // inventory.show_id
    SeatID     uint64  // inventory.seat_id
    Status     string  // inventory.status
    BookedBy   *uint64 // inventory.booked_by (nullable)
    PriceCents uint32  // inventory.price_cents
    Currency   string  // inventory.currency
}

// SeatAvailability is the per-seat view returned by the public seat map
// endpoint.  Status carries the durable inventory state overlaid with the
// advisory "held" state when a live hold key exists for the seat.
type SeatAvailability struct {
    SeatID     uint64 `json:"seat_id"`
    Status     string `json:"status"`
    PriceCents uint32 `json:"price_cents"`
    Currency   string `json:"currency"`
}
