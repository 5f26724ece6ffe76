// Package holdstore implements advisory seat holds backed by Redis.  A hold
// is an expiring marker key that steers well-behaved clients away from
// seats another customer is checking out; it grants no exclusivity and is
// never consulted by the booking transaction, which decides availability
// from the database rows alone.  A hold that outlives its TTL simply
// disappears and the seat reappears as available.
package holdstore

import (
    "context"
    "fmt"
    "time"

    "github.com/redis/go-redis/v9"
)

// Store places and removes hold markers for individual seats.
type Store struct {
    rdb *redis.Client
}

// NewStore returns a Store backed by the given Redis client.
func NewStore(rdb *redis.Client) *Store {
    return &Store{rdb: rdb}
}

// Key returns the Redis key marking a hold on one seat of one show.
func Key(showID, seatID uint64) string {
    return fmt.Sprintf("show:%d:seat:%d", showID, seatID)
}

// Acquire writes the hold marker for a seat with the given TTL.  The write
// is unconditional: a second customer holding the same seat overwrites the
// first marker and refreshes its expiry.  That is acceptable because holds
// are advisory; the database transaction is what actually arbitrates.
func (s *Store) Acquire(ctx context.Context, showID, seatID uint64, ttl time.Duration) error {
    return s.rdb.Set(ctx, Key(showID, seatID), "1", ttl).Err()
}

// Release deletes the hold marker for a seat.  Deleting a marker that has
// already expired is not an error.
func (s *Store) Release(ctx context.Context, showID, seatID uint64) error {
    return s.rdb.Del(ctx, Key(showID, seatID)).Err()
}

// Exists reports whether a live hold marker is present for a seat.
func (s *Store) Exists(ctx context.Context, showID, seatID uint64) (bool, error) {
    n, err := s.rdb.Exists(ctx, Key(showID, seatID)).Result()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}
