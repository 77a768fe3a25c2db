package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Redis is a ResultCache backed by a shared Redis instance, for deployments
// with more than one API replica. Values are JSON-encoded identifier lists;
// TTL handling is delegated to Redis.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]uuid.UUID, bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}

	var ids []uuid.UUID
	if err := json.Unmarshal(raw, &ids); err != nil {
		// A corrupt value is indistinguishable from a miss for the caller.
		return nil, false, fmt.Errorf("decode cached ids for %q: %w", key, err)
	}
	return ids, true, nil
}

func (r *Redis) Put(ctx context.Context, key string, ids []uuid.UUID, ttl time.Duration) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode ids for %q: %w", key, err)
	}
	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

var _ ResultCache = (*Redis)(nil)
