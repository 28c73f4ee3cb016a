// internal/workorder/idempotency.go
package workorder

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// RedisIdempotencyStore claims request keys with SETNX so retried
// submissions are rejected until the key expires.
type RedisIdempotencyStore struct {
	client *redis.Client
}

func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client}
}

func (s *RedisIdempotencyStore) Claim(ctx context.Context, key string) (bool, error) {
	claimed, err := s.client.SetNX(ctx, fmt.Sprintf("workorder:request:%s", key), 1, idempotencyTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	return claimed, nil
}
