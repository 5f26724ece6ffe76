package holdstore

import (
    "context"
    "time"

    "golang.org/x/sync/errgroup"
)

// Coordinator fans hold operations out across a set of seats.  Placement
// and release run one Redis command per seat concurrently; with advisory
// semantics there is no ordering requirement between seats.
type Coordinator struct {
    store *Store
    ttl   time.Duration
}

// NewCoordinator returns a Coordinator placing holds with the given TTL.
func NewCoordinator(store *Store, ttl time.Duration) *Coordinator {
    return &Coordinator{store: store, ttl: ttl}
}

// TTL returns the hold lifetime the coordinator was configured with.
func (c *Coordinator) TTL() time.Duration {
    return c.ttl
}

// PlaceHolds writes a hold marker for every requested seat.  The first
// Redis failure cancels the remaining writes and is returned; markers
// already written are left to expire on their own, which advisory
// semantics permit.
func (c *Coordinator) PlaceHolds(ctx context.Context, showID uint64, seatIDs []uint64) error {
    g, gctx := errgroup.WithContext(ctx)
    for _, sid := range seatIDs {
        sid := sid
        g.Go(func() error {
            return c.store.Acquire(gctx, showID, sid, c.ttl)
        })
    }
    return g.Wait()
}

// ReleaseHolds deletes the hold markers for every seat.  All deletes are
// attempted even when some fail; the first failure is returned so the
// caller can log it.  A failed release only means the marker lives until
// its TTL expires.
func (c *Coordinator) ReleaseHolds(ctx context.Context, showID uint64, seatIDs []uint64) error {
    var firstErr error
    for _, sid := range seatIDs {
        if err := c.store.Release(ctx, showID, sid); err != nil && firstErr == nil {
            firstErr = err
        }
    }
    return firstErr
}

// HeldSeats reports which of the given seats currently carry a live hold
// marker.  It is used to overlay a "held" status on the seat map; Redis
// errors degrade to an empty overlay rather than failing the read.
func (c *Coordinator) HeldSeats(ctx context.Context, showID uint64, seatIDs []uint64) map[uint64]bool {
    held := make(map[uint64]bool, len(seatIDs))
    for _, sid := range seatIDs {
        ok, err := c.store.Exists(ctx, showID, sid)
        if err != nil {
            return map[uint64]bool{}
        }
        if ok {
            held[sid] = true
        }
    }
    return held
}
