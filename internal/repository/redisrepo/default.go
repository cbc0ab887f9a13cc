package redisrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var setWithLeaseScript = redis.NewScript(`
if redis.call("GET", KEYS[2]) ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
redis.call("DEL", KEYS[2])
return 1
`)

type defaultRepo struct {
	rdb *redis.Client
}

func newDefaultRepo(rdb *redis.Client) Default {
	return &defaultRepo{
		rdb: rdb,
	}
}

func (r *defaultRepo) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return r.rdb.Set(ctx, key, valueJSON, ttl).Err()
}

func (r *defaultRepo) Get(ctx context.Context, key string) *redis.StringCmd {
	return r.rdb.Get(ctx, key)
}

// Get decodes the JSON value stored under key. A missing key is reported as
// redis.Nil.
func Get[T any](r Default, ctx context.Context, key string) (*T, error) {
	value, err := r.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var result T
	if err := json.Unmarshal([]byte(value), &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *defaultRepo) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return r.rdb.Del(ctx, keys...)
}

func (r *defaultRepo) Lease(ctx context.Context, leaseKey string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	if err := r.rdb.Set(ctx, leaseKey, token, ttl).Err(); err != nil {
		return "", err
	}

	return token, nil
}

func (r *defaultRepo) SetJSONWithLease(ctx context.Context, key string, leaseKey string, token string, value interface{}, ttl time.Duration) (bool, error) {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return false, err
	}

	written, err := setWithLeaseScript.Run(ctx, r.rdb, []string{key, leaseKey}, token, valueJSON, ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}

	return written == 1, nil
}
