package lock

//go:generate go run go.uber.org/mock/mockgen -source=./lock.go -destination=./mocks/lock_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"tablebook/infras/otel"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName        = "lock"
	otelLockKeyAttribute = "lock.key"
	keyPrefix            = "lock"
)

// releaseScript deletes the key only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var ErrNotHeld = errors.New("lock not held")

// Locker is a short-lived mutual exclusion keyed by string.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, acquired bool, err error)
	Release(ctx context.Context, key, token string) error
}

type redisLocker struct {
	client *redis.Client
	otel   otel.Otel
}

func NewRedisLocker(client *redis.Client, ot otel.Otel) Locker {
	return &redisLocker{
		client: client,
		otel:   ot,
	}
}

func Key(parts ...string) string {
	key := keyPrefix
	for _, part := range parts {
		key += ":" + part
	}

	return key
}

// Acquire implements Locker.
func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (token string, acquired bool, err error) {
	ctx, scope := l.otel.NewScope(ctx, otelScopeName, otelScopeName+".Acquire")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelLockKeyAttribute, key)

	token = uuid.NewString()

	acquired, err = l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to acquire lock")

		return "", false, fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !acquired {
		return "", false, nil
	}

	return token, true, nil
}

// Release implements Locker.
func (l *redisLocker) Release(ctx context.Context, key, token string) (err error) {
	ctx, scope := l.otel.NewScope(ctx, otelScopeName, otelScopeName+".Release")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelLockKeyAttribute, key)

	deleted, err := releaseScript.Run(ctx, l.client, []string{key}, token).Int()
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to release lock")

		return fmt.Errorf("failed to release lock: %w", err)
	}

	if deleted == 0 {
		return ErrNotHeld
	}

	return nil
}
