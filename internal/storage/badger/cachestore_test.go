package badger

import (
	"context"
	"testing"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCacheStore(t *testing.T) *CacheStore {
	t.Helper()
	cache, err := NewCacheStore(common.NewSilentLogger(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestCacheStore_PutAndGetFresh(t *testing.T) {
	cache := testCacheStore(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "quote:AAPL", []byte(`{"price":"175.34"}`)))

	data, ok := cache.GetFresh(ctx, "quote:AAPL", 5*time.Minute)
	require.True(t, ok)
	assert.Equal(t, `{"price":"175.34"}`, string(data))
}

func TestCacheStore_MissingKey(t *testing.T) {
	cache := testCacheStore(t)

	data, ok := cache.GetFresh(context.Background(), "quote:TSLA", 5*time.Minute)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestCacheStore_StaleEntry(t *testing.T) {
	cache := testCacheStore(t)
	ctx := context.Background()

	written := time.Now()
	cache.now = func() time.Time { return written }
	require.NoError(t, cache.Put(ctx, "news:AAPL", []byte(`[]`)))

	// Just inside the freshness window
	cache.now = func() time.Time { return written.Add(15*time.Minute - time.Second) }
	_, ok := cache.GetFresh(ctx, "news:AAPL", 15*time.Minute)
	assert.True(t, ok)

	// At the boundary the entry is stale
	cache.now = func() time.Time { return written.Add(15 * time.Minute) }
	_, ok = cache.GetFresh(ctx, "news:AAPL", 15*time.Minute)
	assert.False(t, ok)
}

func TestCacheStore_Overwrite(t *testing.T) {
	cache := testCacheStore(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "k", []byte("one")))
	require.NoError(t, cache.Put(ctx, "k", []byte("two")))

	data, ok := cache.GetFresh(ctx, "k", time.Minute)
	require.True(t, ok)
	assert.Equal(t, "two", string(data))
}

func TestCacheStore_Delete(t *testing.T) {
	cache := testCacheStore(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "k", []byte("v")))
	require.NoError(t, cache.Delete(ctx, "k"))

	_, ok := cache.GetFresh(ctx, "k", time.Minute)
	assert.False(t, ok)

	// Deleting a missing key is not an error
	assert.NoError(t, cache.Delete(ctx, "k"))
}
