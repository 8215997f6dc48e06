package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nodepress/demo-control-plane/pkg/logger"
)

const (
	allocLockKey   = "demo:alloc:lock"
	allocLockTTL   = 10 * time.Second
	allocLockRetry = 100 * time.Millisecond
	allocLockWait  = 5 * time.Second
)

// redisAllocLocker serializes subdomain/port allocation across concurrent
// creations with a redis SETNX mutex. The TTL bounds the damage of a crashed
// holder; the unique keys in storage remain the backstop.
type redisAllocLocker struct {
	client redis.UniversalClient
}

func NewRedisAllocLocker(client redis.UniversalClient) AllocLocker {
	return &redisAllocLocker{
		client: client,
	}
}

func (l *redisAllocLocker) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(allocLockWait)

	for {
		ok, err := l.client.SetNX(ctx, allocLockKey, token, allocLockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrAllocationContention
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(allocLockRetry):
		}
	}

	release := func() {
		// Only delete our own lock; a slow holder must not free a successor's.
		current, err := l.client.Get(context.Background(), allocLockKey).Result()
		if err == nil && current == token {
			if err := l.client.Del(context.Background(), allocLockKey).Err(); err != nil {
				logger.Warn("release allocation lock failed", zap.Error(err))
			}
		}
	}

	return release, nil
}

// NoopAllocLocker is for single-writer setups and tests.
type NoopAllocLocker struct{}

func (NoopAllocLocker) Acquire(context.Context) (func(), error) {
	return func() {}, nil
}
