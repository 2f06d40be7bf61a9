package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores snapshots in Redis with a TTL so multiple instances can
// share them and stale material ages out on its own.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed store. A zero ttl means no expiry.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Put(ctx context.Context, userID int64, kind string, data []byte) error {
	if err := r.client.Set(ctx, redisKey(userID, kind), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, userID int64, kind string) ([]byte, error) {
	data, err := r.client.Get(ctx, redisKey(userID, kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return data, nil
}

func (r *Redis) Delete(ctx context.Context, userID int64, kind string) error {
	if err := r.client.Del(ctx, redisKey(userID, kind)).Err(); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

func redisKey(userID int64, kind string) string {
	return fmt.Sprintf("snapshot:%d:%s", userID, kind)
}
