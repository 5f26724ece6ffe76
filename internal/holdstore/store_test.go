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

func TestKey(t *testing.T) {
    assert.Equal(t, "show:7:seat:42", holdstore.Key(7, 42))
}

func TestAcquire_WritesMarkerWithTTL(t *testing.T) {
    rdb, mock := redismock.NewClientMock()
    store := holdstore.NewStore(rdb)

    mock.ExpectSet("show:1:seat:5", "1", 5*time.Minute).SetVal("OK")

    err := store.Acquire(context.Background(), 1, 5, 5*time.Minute)
    require.NoError(t, err)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquire_OverwritesExistingMarker(t *testing.T) {
    // A second acquire on the same key is a blind write: it succeeds and
    // refreshes the expiry rather than failing.
    rdb, mock := redismock.NewClientMock()
    store := holdstore.NewStore(rdb)

    mock.ExpectSet("show:1:seat:5", "1", time.Minute).SetVal("OK")
    mock.ExpectSet("show:1:seat:5", "1", time.Minute).SetVal("OK")

    require.NoError(t, store.Acquire(context.Background(), 1, 5, time.Minute))
    require.NoError(t, store.Acquire(context.Background(), 1, 5, time.Minute))
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquire_PropagatesStoreFailure(t *testing.T) {
    rdb, mock := redismock.NewClientMock()
    store := holdstore.NewStore(rdb)

    mock.ExpectSet("show:1:seat:5", "1", time.Minute).SetErr(errors.New("connection refused"))

    err := store.Acquire(context.Background(), 1, 5, time.Minute)
    assert.Error(t, err)
}

func TestRelease_DeletesMarker(t *testing.T) {
    rdb, mock := redismock.NewClientMock()
    store := holdstore.NewStore(rdb)

    mock.ExpectDel("show:3:seat:9").SetVal(1)

    require.NoError(t, store.Release(context.Background(), 3, 9))
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelease_MissingMarkerIsNotAnError(t *testing.T) {
    rdb, mock := redismock.NewClientMock()
    store := holdstore.NewStore(rdb)

    // DEL on an expired or never-written key reports zero deletions.
    mock.ExpectDel("show:3:seat:9").SetVal(0)

    assert.NoError(t, store.Release(context.Background(), 3, 9))
}

func TestExists(t *testing.T) {
    rdb, mock := redismock.NewClientMock()
    store := holdstore.NewStore(rdb)

    mock.ExpectExists("show:2:seat:4").SetVal(1)
    mock.ExpectExists("show:2:seat:8").SetVal(0)

    held, err := store.Exists(context.Background(), 2, 4)
    require.NoError(t, err)
    assert.True(t, held)

    held, err = store.Exists(context.Background(), 2, 8)
    require.NoError(t, err)
    assert.False(t, held)
}
