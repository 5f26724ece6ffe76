package holdstore_test

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/go-redis/redismock/v9"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/show-ticketing/internal/holdstore"
)

func newCoordinator(t *testing.T, ttl time.Duration) (*holdstore.Coordinator, redismock.ClientMock) {
    t.Helper()
    rdb, mock := redismock.NewClientMock()
    // Seat writes run concurrently, so their order is not deterministic.
    mock.MatchExpectationsInOrder(false)
    return holdstore.NewCoordinator(holdstore.NewStore(rdb), ttl), mock
}

func TestPlaceHolds_WritesEverySeat(t *testing.T) {
    c, mock := newCoordinator(t, 2*time.Minute)

    mock.ExpectSet("show:10:seat:1", "1", 2*time.Minute).SetVal("OK")
    mock.ExpectSet("show:10:seat:2", "1", 2*time.Minute).SetVal("OK")
    mock.ExpectSet("show:10:seat:3", "1", 2*time.Minute).SetVal("OK")

    err := c.PlaceHolds(context.Background(), 10, []uint64{1, 2, 3})
    require.NoError(t, err)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceHolds_FailsOnFirstStoreError(t *testing.T) {
    c, mock := newCoordinator(t, time.Minute)

    mock.ExpectSet("show:10:seat:1", "1", time.Minute).SetErr(errors.New("broken pipe"))
    mock.ExpectSet("show:10:seat:2", "1", time.Minute).SetVal("OK")

    err := c.PlaceHolds(context.Background(), 10, []uint64{1, 2})
    assert.Error(t, err)
}

func TestReleaseHolds_AttemptsAllSeats(t *testing.T) {
    c, mock := newCoordinator(t, time.Minute)

    // The first delete fails but the second must still be attempted.
    mock.ExpectDel("show:10:seat:1").SetErr(errors.New("timeout"))
    mock.ExpectDel("show:10:seat:2").SetVal(1)

    err := c.ReleaseHolds(context.Background(), 10, []uint64{1, 2})
    assert.Error(t, err)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHeldSeats_ReportsOnlyLiveMarkers(t *testing.T) {
    c, mock := newCoordinator(t, time.Minute)

    mock.ExpectExists("show:10:seat:1").SetVal(1)
    mock.ExpectExists("show:10:seat:2").SetVal(0)
    mock.ExpectExists("show:10:seat:3").SetVal(1)

    held := c.HeldSeats(context.Background(), 10, []uint64{1, 2, 3})
    assert.Equal(t, map[uint64]bool{1: true, 3: true}, held)
}

func TestHeldSeats_DegradesToEmptyOnStoreError(t *testing.T) {
    c, mock := newCoordinator(t, time.Minute)

    mock.ExpectExists("show:10:seat:1").SetErr(errors.New("connection refused"))

    held := c.HeldSeats(context.Background(), 10, []uint64{1, 2})
    assert.Empty(t, held)
}

func TestTTL(t *testing.T) {
    c, _ := newCoordinator(t, 90*time.Second)
    assert.Equal(t, 90*time.Second, c.TTL())
}
