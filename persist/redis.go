// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/danielhkuo/quickly-poll/models"
)

// RedisKey holds the JSON array of polls.
const RedisKey = "quickly-poll:polls"

// redisClient is the subset of *redis.Client the backend needs.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisBackend stores the poll list under a single Redis key.
type RedisBackend struct {
	client redisClient
}

func NewRedisBackend(client redisClient) *RedisBackend {
	return &RedisBackend{client: client}
}

// OpenRedisBackend accepts either a redis:// URL or a bare host:port.
func OpenRedisBackend(ctx context.Context, addr string) (*RedisBackend, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{Addr: addr}
	}
	rdb := redis.NewClient(opts)

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", opts.Addr, err)
	}

	slog.Info("connected to redis", "addr", opts.Addr)
	return NewRedisBackend(rdb), nil
}

func (b *RedisBackend) Load(ctx context.Context) ([]models.Poll, error) {
	data, err := b.client.Get(ctx, RedisKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.Poll{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", RedisKey, err)
	}
	return decodePolls(data)
}

func (b *RedisBackend) Save(ctx context.Context, polls []models.Poll) error {
	data, err := encodePolls(polls, false)
	if err != nil {
		return err
	}
	if err := b.client.Set(ctx, RedisKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", RedisKey, err)
	}
	return nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}

func (b *RedisBackend) String() string {
	return "redis"
}
