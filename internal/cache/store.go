// Package cache implements the read-through booking-history cache.  The
// cache is a derived, disposable view: the relational store stays the
// single source of truth and losing every cache entry affects latency
// only, never correctness.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Store.Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Store is the key/value capability the history cache is built on: get,
// set-with-expiration and remove.  It is an interface rather than a
// concrete client so a distributed cache can be swapped out (or faked in
// tests) without touching the reservation logic.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisStore adapts a go-redis client to the Store interface.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps the given client.  The client must be non-nil;
// callers that failed to reach Redis at startup should skip constructing
// a cache instead of passing a nil client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return b, err
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.rdb.SetEx(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}
