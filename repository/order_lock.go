package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OrderLock serialises processing of one payment order across instances
// with a short-lived SETNX key.
type OrderLock struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewOrderLock(rdb *redis.Client, ttl time.Duration) *OrderLock {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &OrderLock{rdb: rdb, ttl: ttl}
}

func orderLockKey(orderNo string) string {
	return fmt.Sprintf("payment-order:%s", orderNo)
}

// Acquire reports whether the caller now holds the lock. Without redis every
// caller gets it and the conditional UPDATE alone keeps settlement safe.
func (l *OrderLock) Acquire(ctx context.Context, orderNo string) (bool, error) {
	if l == nil || l.rdb == nil {
		return true, nil
	}
	ok, err := l.rdb.SetNX(ctx, orderLockKey(orderNo), "PROCESSING", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("lock order %s: %w", orderNo, err)
	}
	return ok, nil
}

func (l *OrderLock) Release(ctx context.Context, orderNo string) {
	if l == nil || l.rdb == nil {
		return
	}
	l.rdb.Del(ctx, orderLockKey(orderNo))
}
