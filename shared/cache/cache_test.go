package cache_test

import (
	"context"
	"errors"
	"tablebook/infras/otel/mocks"
	"tablebook/shared/cache"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tableEntry struct {
	ID       string `json:"id"`
	Capacity int    `json:"capacity"`
}

func newCache(t *testing.T) (cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisCache(client, mocks.NewOtel()), server
}

func TestRedisCache_SaveAndGet(t *testing.T) {
	redisCache, server := newCache(t)
	ctx := context.Background()

	tables := []tableEntry{{ID: "t-2", Capacity: 2}, {ID: "t-4", Capacity: 4}}

	require.NoError(t, redisCache.Save(ctx, "table:active:tenant-1", tables, 30))

	var got []tableEntry
	require.NoError(t, redisCache.Get(ctx, "table:active:tenant-1", &got))
	assert.Equal(t, tables, got)

	server.FastForward(31 * time.Second)

	err := redisCache.Get(ctx, "table:active:tenant-1", &got)
	assert.True(t, errors.Is(err, cache.Nil))
}

func TestRedisCache_StringValues(t *testing.T) {
	redisCache, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, redisCache.Save(ctx, "greeting", "hello", 0))

	var got string
	require.NoError(t, redisCache.Get(ctx, "greeting", &got))
	assert.Equal(t, "hello", got)
}

func TestRedisCache_Increment(t *testing.T) {
	redisCache, server := newCache(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		count, err := redisCache.Increment(ctx, "limiter:10.0.0.1:curl", 60)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}

	// the window starts at the first hit and is not extended by later ones
	assert.Equal(t, 60*time.Second, server.TTL("limiter:10.0.0.1:curl"))

	server.FastForward(61 * time.Second)

	count, err := redisCache.Increment(ctx, "limiter:10.0.0.1:curl", 60)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
