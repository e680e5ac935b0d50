package dato

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/redis/go-redis/v9"
)

// Static errors for err113 compliance.
var (
	ErrRedisAddrRequired = errors.New("redis address is required")
)

const redisScanBatch = 100

// RedisCacheConfig configures the Redis cache backend.
type RedisCacheConfig struct {
	Addr     string
	DB       int
	Username string
	Password string
	// KeyPrefix namespaces keys. Defaults to "dato:cache:".
	KeyPrefix    string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MaxRetries   int
}

// RedisCache stores entries in Redis with native key expiry.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a cache on an existing client.
func NewRedisCache(client *redis.Client, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = constants.DefaultRedisKeyPrefix
	}

	return &RedisCache{
		client: client,
		prefix: keyPrefix,
	}
}

// NewRedisCacheFromConfig connects to Redis and verifies the connection.
func NewRedisCacheFromConfig(ctx context.Context, config *RedisCacheConfig) (*RedisCache, error) {
	if config == nil || config.Addr == "" {
		return nil, ErrRedisAddrRequired
	}

	opts := &redis.Options{
		Addr:         config.Addr,
		DB:           config.DB,
		Username:     config.Username,
		Password:     config.Password,
		DialTimeout:  durationOr(config.DialTimeout, 5*time.Second),
		ReadTimeout:  durationOr(config.ReadTimeout, 3*time.Second),
		WriteTimeout: durationOr(config.WriteTimeout, 3*time.Second),
		PoolSize:     intOr(config.PoolSize, 10),
		MaxRetries:   intOr(config.MaxRetries, constants.LowRetryMax),
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	err := client.Ping(pingCtx).Err()
	if err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("connecting to redis at %s: %w", config.Addr, err)
	}

	return NewRedisCache(client, config.KeyPrefix), nil
}

func (c *RedisCache) key(key string) string {
	return c.prefix + key
}

// Get retrieves an entry.
func (c *RedisCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var entry CacheEntry

	err = json.Unmarshal(data, &entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidCacheEntry, key, err)
	}

	if entry.Expired(time.Now()) {
		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return &entry, nil
}

// Set stores an entry. Entries already expired are dropped.
func (c *RedisCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	if entry == nil {
		return ErrInvalidCacheEntry
	}

	var ttl time.Duration

	if !entry.ExpiresAt.IsZero() {
		ttl = time.Until(entry.ExpiresAt)
		if ttl <= 0 {
			return c.Delete(ctx, key)
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	err = c.client.Set(ctx, c.key(key), data, ttl).Err()
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

// Delete removes an entry.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	err := c.client.Del(ctx, c.key(key)).Err()
	if err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}

	return nil
}

// Clear removes every key under the prefix.
func (c *RedisCache) Clear(ctx context.Context) error {
	var cursor uint64

	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", redisScanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}

		if len(keys) > 0 {
			err = c.client.Del(ctx, keys...).Err()
			if err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Has reports whether a key exists.
func (c *RedisCache) Has(ctx context.Context, key string) bool {
	count, err := c.client.Exists(ctx, c.key(key)).Result()

	return err == nil && count > 0
}

// Close closes the Redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func durationOr(value, fallback time.Duration) time.Duration {
	if value > 0 {
		return value
	}

	return fallback
}

func intOr(value, fallback int) int {
	if value > 0 {
		return value
	}

	return fallback
}
