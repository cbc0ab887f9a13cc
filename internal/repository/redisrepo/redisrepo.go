package redisrepo

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Default interface {
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	// Lease stores a fresh token under leaseKey and returns it.
	Lease(ctx context.Context, leaseKey string, ttl time.Duration) (string, error)
	// SetJSONWithLease writes value only while leaseKey still holds token,
	// and releases the lease. It reports whether the value was written.
	SetJSONWithLease(ctx context.Context, key string, leaseKey string, token string, value interface{}, ttl time.Duration) (bool, error)
}

type RedisRepository struct {
	Default
}

func New(rdb *redis.Client) *RedisRepository {
	return &RedisRepository{
		Default: newDefaultRepo(rdb),
	}
}
