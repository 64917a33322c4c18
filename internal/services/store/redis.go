package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Zeldorh1/omnitint-edge/internal/models"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements KV on a Redis client.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies connectivity.
func NewRedisStore(ctx context.Context, cfg models.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     20,
		MinIdleConns: 5,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("store: failed to connect to Redis at %s: %w", cfg.Addr, err)
	}

	fiberlog.Infof("store: connected to Redis at %s", cfg.Addr)
	return &RedisStore{client: client}, nil
}

// Close gracefully shuts down the Redis client connection.
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// Ping verifies store connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// GetCount returns the integer value at key, treating a missing key as 0.
func (s *RedisStore) GetCount(ctx context.Context, key string) (int64, error) {
	val, err := s.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("store: get count %q: %w", key, err)
	}
	return val, nil
}

// incrWithExpireLua atomically increments a key and sets TTL if the key has no expiry.
var incrWithExpireLua = redis.NewScript(`
	local newval = redis.call('INCR', KEYS[1])
	if redis.call('TTL', KEYS[1]) == -1 then
		redis.call('EXPIRE', KEYS[1], ARGV[1])
	end
	return newval
`)

// IncrWithTTL atomically increments the counter at key, setting the TTL
// in the same round-trip when the key is fresh. Counters self-clean:
// no explicit deletion exists anywhere in this service.
func (s *RedisStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	ttlSeconds := int(ttl.Seconds())
	newVal, err := incrWithExpireLua.Run(ctx, s.client, []string{key}, ttlSeconds).Int64()
	if err != nil {
		return 0, fmt.Errorf("store: incr %q: %w", key, err)
	}
	return newVal, nil
}

// Get returns the string value at key, or "" when the key does not exist.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: get %q: %w", key, err)
	}
	return val, nil
}

// Set stores a key-value pair with the given TTL.
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("store: set %q: %w", key, err)
	}
	return nil
}
