package adapters

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorageAdapter persists SDK state in Redis. Intended for server
// deployments where several processes must agree on the same consent and
// visitor state.
type RedisStorageAdapter struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// Ensure RedisStorageAdapter implements StorageAdapter interface
var _ StorageAdapter = (*RedisStorageAdapter)(nil)

// NewRedisStorageAdapter creates a new RedisStorageAdapter instance.
//
// Parameters:
//   - client: A configured go-redis client
//   - prefix: Key prefix, e.g. "outlit:"
func NewRedisStorageAdapter(client *redis.Client, prefix string) *RedisStorageAdapter {
	return &RedisStorageAdapter{
		client:  client,
		prefix:  prefix,
		timeout: 2 * time.Second,
	}
}

// Get retrieves a value from Redis.
func (r *RedisStorageAdapter) Get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores a value in Redis with no expiry.
func (r *RedisStorageAdapter) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

// Delete removes a key from Redis.
func (r *RedisStorageAdapter) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	return r.client.Del(ctx, r.prefix+key).Err()
}
