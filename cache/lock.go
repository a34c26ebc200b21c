package cache

import (
	"context"
	"time"
)

// Locker is a short-lived mutual-exclusion lock used to serialize duplicate
// requests from the same user (rapid double-tap on check-in). The partial
// unique index on gym_checkins remains the final arbiter; the lock just
// keeps the common case from ever reaching a constraint violation.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

type redisLocker struct{}

// NewLocker returns the redis-backed Locker. Requires Init to have run.
func NewLocker() Locker { return redisLocker{} }

func (redisLocker) TryLock(ctx context.Context, k string, ttl time.Duration) (bool, error) {
	return client.SetNX(ctx, key("lock", k), 1, ttl).Result()
}

func (redisLocker) Unlock(ctx context.Context, k string) error {
	return client.Del(ctx, key("lock", k)).Err()
}

// NoopLocker is used when Redis is not configured (single instance) and in tests.
type NoopLocker struct{}

func (NoopLocker) TryLock(context.Context, string, time.Duration) (bool, error) { return true, nil }
func (NoopLocker) Unlock(context.Context, string) error                         { return nil }
