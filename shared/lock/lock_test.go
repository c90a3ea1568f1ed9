package lock_test

import (
	"context"
	"tablebook/infras/otel/mocks"
	"tablebook/shared/lock"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocker(t *testing.T) (lock.Locker, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	t.Cleanup(func() { _ = client.Close() })

	return lock.NewRedisLocker(client, mocks.NewOtel()), server
}

func TestKey(t *testing.T) {
	assert.Equal(t, "lock:slot:tenant-1:2025-06-01", lock.Key("slot", "tenant-1", "2025-06-01"))
	assert.Equal(t, "lock", lock.Key())
}

func TestRedisLocker_AcquireIsExclusive(t *testing.T) {
	locker, _ := newLocker(t)
	ctx := context.Background()

	token, ok, err := locker.Acquire(ctx, "lock:a", time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, token)

	_, ok, err = locker.Acquire(ctx, "lock:a", time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, locker.Release(ctx, "lock:a", token))

	_, ok, err = locker.Acquire(ctx, "lock:a", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLocker_ReleaseWithForeignToken(t *testing.T) {
	locker, _ := newLocker(t)
	ctx := context.Background()

	_, ok, err := locker.Acquire(ctx, "lock:b", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	err = locker.Release(ctx, "lock:b", "someone-else")
	assert.ErrorIs(t, err, lock.ErrNotHeld)

	_, ok, err = locker.Acquire(ctx, "lock:b", time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "foreign release must not free the lock")
}

func TestRedisLocker_ExpiresAfterTTL(t *testing.T) {
	locker, server := newLocker(t)
	ctx := context.Background()

	token, ok, err := locker.Acquire(ctx, "lock:c", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	server.FastForward(2 * time.Second)

	_, ok, err = locker.Acquire(ctx, "lock:c", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.ErrorIs(t, locker.Release(ctx, "lock:c", token), lock.ErrNotHeld)
}

func TestRedisLocker_AcquireFailsWhenRedisIsDown(t *testing.T) {
	locker, server := newLocker(t)
	server.Close()

	_, ok, err := locker.Acquire(context.Background(), "lock:d", time.Second)
	assert.Error(t, err)
	assert.False(t, ok)
}
