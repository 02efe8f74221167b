// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package lock provides the leases that serialize OAuth token refreshes.
package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
)

const keyPrefix = "lfx-booking:lock:"

// releaseScript deletes the lease only while it still holds our token, so
// an expired lease taken over by another holder is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisClient is the subset of the go-redis client the locker uses.
type RedisClient interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// RedisLocker leases keys with SET NX PX.
type RedisLocker struct {
	client RedisClient
}

var _ domain.RefreshLocker = (*RedisLocker)(nil)

// NewRedisLocker creates a locker on client.
func NewRedisLocker(client RedisClient) *RedisLocker {
	return &RedisLocker{client: client}
}

// NewRedisClient connects to addr and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Acquire takes the lease on key for ttl.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	token := uuid.NewString()
	redisKey := keyPrefix + key

	ok, err := l.client.SetNX(ctx, redisKey, token, ttl).Result()
	if err != nil {
		return nil, false, domain.NewUnavailableError("failed to acquire lock", err)
	}
	if !ok {
		slog.DebugContext(ctx, "lock held by another holder", "key", key)
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
			slog.WarnContext(ctx, "failed to release lock", logging.ErrKey, err, "key", key)
			return err
		}
		return nil
	}
	return release, true, nil
}
