// Package lock provides distributed mutual exclusion for batch jobs backed by
// Redis, so that several API replicas never sweep or sync at the same time.
package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "granja:lock:"

type Redis struct {
	client *redislock.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedis(rdb redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.Default()
	}

	return &Redis{client: redislock.New(rdb), ttl: ttl, logger: logger}
}

// Connect opens a Redis client and checks it answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", addr, err)
	}

	return rdb, nil
}

// TryLock obtains key without waiting. ok is false when another holder has it.
func (r *Redis) TryLock(ctx context.Context, key string) (func(), bool, error) {
	l, err := r.client.Obtain(ctx, Key(key), r.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("obtaining lock %s: %w", key, err)
	}

	unlock := func() {
		// The caller's context may be gone by now.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := l.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			r.logger.Warn("failed to release lock", "key", key, "error", err)
		}
	}

	return unlock, true, nil
}

func Key(name string) string {
	return keyPrefix + name
}
