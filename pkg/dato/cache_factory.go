package dato

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fivetwenty-io/dato-client/internal/constants"
)

// CacheType represents the type of cache backend.
type CacheType string

const (
	// CacheTypeMemory represents in-memory cache.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeRedis represents a Redis cache.
	CacheTypeRedis CacheType = "redis"

	// CacheTypeNATS represents NATS KV cache.
	CacheTypeNATS CacheType = "nats"

	// CacheTypeNone represents no caching.
	CacheTypeNone CacheType = "none"
)

// Static errors for err113 compliance.
var (
	ErrNATSConfigRequired    = errors.New("NATS configuration required for NATS cache")
	ErrRedisConfigRequired   = errors.New("redis configuration required for redis cache")
	ErrUnsupportedCacheType  = errors.New("unsupported cache type")
	ErrCacheDisabled         = errors.New("cache disabled")
	ErrKeyNotFoundInAnyCache = errors.New("key not found in any cache")
)

// CacheConfig selects and configures the response cache of a client.
type CacheConfig struct {
	Type CacheType

	// Memory configures the memory backend, and the local layer when Local is set.
	Memory *MemoryCacheConfig
	Redis  *RedisCacheConfig
	NATS   *NATSKVConfig

	// Local puts a memory layer in front of a Redis or NATS backend.
	Local bool

	// Options apply to any backend. Nil means DefaultCacheOptions().
	Options *CacheOptions
	// Policy selects cacheable requests. Nil means DefaultCachingPolicy().
	Policy *CachingPolicy
}

// MemoryCacheConfig configures memory cache.
type MemoryCacheConfig struct {
	// MaxSize is the maximum number of items in the cache
	MaxSize int

	// CleanupInterval is the interval for cleaning up expired entries
	CleanupInterval string // Duration string like "1m", "5s"
}

// DefaultCacheConfig returns default cache configuration.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Type: CacheTypeMemory,
		Memory: &MemoryCacheConfig{
			MaxSize:         constants.DefaultCacheSize,
			CleanupInterval: "1m",
		},
		Options: DefaultCacheOptions(),
		Policy:  DefaultCachingPolicy(),
	}
}

// NewCacheFromConfig creates a cache backend from configuration.
func NewCacheFromConfig(config *CacheConfig) (Cache, error) {
	if config == nil {
		config = DefaultCacheConfig()
	}

	switch config.Type {
	case CacheTypeMemory, "":
		return NewMemoryCacheFromConfig(config.Memory)

	case CacheTypeRedis:
		if config.Redis == nil {
			return nil, ErrRedisConfigRequired
		}

		shared, err := NewRedisCacheFromConfig(context.Background(), config.Redis)
		if err != nil {
			return nil, err
		}

		return withLocalLayer(config, shared)

	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		shared, err := NewNATSKVCache(config.NATS)
		if err != nil {
			return nil, err
		}

		return withLocalLayer(config, shared)

	case CacheTypeNone:
		return NewNoOpCache(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCacheType, config.Type)
	}
}

// withLocalLayer fronts shared with a memory cache when config.Local is set.
func withLocalLayer(config *CacheConfig, shared Cache) (Cache, error) {
	if !config.Local {
		return shared, nil
	}

	local, err := NewMemoryCacheFromConfig(config.Memory)
	if err != nil {
		if closer, ok := shared.(interface{ Close() error }); ok {
			_ = closer.Close()
		}

		return nil, err
	}

	return NewCacheChain(local, shared), nil
}

// NewCacheManagerFromConfig builds the backend and wraps it in a CacheManager.
func NewCacheManagerFromConfig(config *CacheConfig) (*CacheManager, *CachingPolicy, error) {
	if config == nil {
		config = DefaultCacheConfig()
	}

	cache, err := NewCacheFromConfig(config)
	if err != nil {
		return nil, nil, err
	}

	policy := config.Policy
	if policy == nil {
		policy = DefaultCachingPolicy()
	}

	return NewCacheManager(cache, config.Options), policy, nil
}

// NewMemoryCacheFromConfig creates a memory cache from configuration.
func NewMemoryCacheFromConfig(config *MemoryCacheConfig) (Cache, error) {
	if config == nil {
		config = &MemoryCacheConfig{
			MaxSize:         constants.DefaultCacheSize,
			CleanupInterval: "1m",
		}
	}

	cleanup := constants.DefaultCacheCleanupInterval

	if config.CleanupInterval != "" {
		parsed, err := time.ParseDuration(config.CleanupInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing cleanup interval %q: %w", config.CleanupInterval, err)
		}

		cleanup = parsed
	}

	return NewMemoryCacheWithCleanup(config.MaxSize, cleanup), nil
}

// NoOpCache is a cache that does nothing (no caching).
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Get always returns an error (nothing cached).
func (c *NoOpCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	return nil, ErrCacheDisabled
}

// Set does nothing.
func (c *NoOpCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	return nil
}

// Delete does nothing.
func (c *NoOpCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Clear does nothing.
func (c *NoOpCache) Clear(ctx context.Context) error {
	return nil
}

// Has always returns false.
func (c *NoOpCache) Has(ctx context.Context, key string) bool {
	return false
}

// CacheBuilder helps build cache configurations.
type CacheBuilder struct {
	config *CacheConfig
}

// NewCacheBuilder creates a new cache builder.
func NewCacheBuilder() *CacheBuilder {
	return &CacheBuilder{
		config: &CacheConfig{
			Type:    CacheTypeMemory,
			Options: DefaultCacheOptions(),
		},
	}
}

// WithType sets the cache type.
func (b *CacheBuilder) WithType(cacheType CacheType) *CacheBuilder {
	b.config.Type = cacheType

	return b
}

// WithMemoryConfig sets memory cache configuration.
func (b *CacheBuilder) WithMemoryConfig(maxSize int, cleanupInterval string) *CacheBuilder {
	b.config.Memory = &MemoryCacheConfig{
		MaxSize:         maxSize,
		CleanupInterval: cleanupInterval,
	}

	return b
}

// WithRedisConfig sets Redis cache configuration.
func (b *CacheBuilder) WithRedisConfig(config *RedisCacheConfig) *CacheBuilder {
	b.config.Redis = config

	return b
}

// WithNATSConfig sets NATS cache configuration.
func (b *CacheBuilder) WithNATSConfig(config *NATSKVConfig) *CacheBuilder {
	b.config.NATS = config

	return b
}

// WithLocalLayer fronts a Redis or NATS backend with a memory cache.
func (b *CacheBuilder) WithLocalLayer(maxSize int) *CacheBuilder {
	b.config.Local = true
	b.config.Memory = &MemoryCacheConfig{MaxSize: maxSize}

	return b
}

// WithOptions sets cache options.
func (b *CacheBuilder) WithOptions(options *CacheOptions) *CacheBuilder {
	b.config.Options = options

	return b
}

// Config returns the configuration built so far.
func (b *CacheBuilder) Config() *CacheConfig {
	return b.config
}

// Build creates the cache from the configuration.
func (b *CacheBuilder) Build() (Cache, error) {
	return NewCacheFromConfig(b.config)
}

// CacheChain layers caches from fastest to slowest, typically a process-local
// memory cache in front of a shared Redis or NATS backend.
type CacheChain struct {
	caches []Cache
}

// NewCacheChain creates a chain. Lookups try caches in order.
func NewCacheChain(caches ...Cache) *CacheChain {
	return &CacheChain{caches: caches}
}

// Get returns the first hit and copies it into the faster layers that missed.
func (c *CacheChain) Get(ctx context.Context, key string) (*CacheEntry, error) {
	for depth, layer := range c.caches {
		entry, err := layer.Get(ctx, key)
		if err != nil {
			continue
		}

		for _, faster := range c.caches[:depth] {
			_ = faster.Set(ctx, key, entry)
		}

		return entry, nil
	}

	return nil, ErrKeyNotFoundInAnyCache
}

// Set writes through every layer.
func (c *CacheChain) Set(ctx context.Context, key string, entry *CacheEntry) error {
	return c.each(func(layer Cache) error { return layer.Set(ctx, key, entry) })
}

// Delete removes key from every layer.
func (c *CacheChain) Delete(ctx context.Context, key string) error {
	return c.each(func(layer Cache) error { return layer.Delete(ctx, key) })
}

// Clear empties every layer.
func (c *CacheChain) Clear(ctx context.Context) error {
	return c.each(func(layer Cache) error { return layer.Clear(ctx) })
}

// Has reports whether any layer holds key.
func (c *CacheChain) Has(ctx context.Context, key string) bool {
	for _, layer := range c.caches {
		if layer.Has(ctx, key) {
			return true
		}
	}

	return false
}

// Close closes the layers that hold connections.
func (c *CacheChain) Close() error {
	return c.each(func(layer Cache) error {
		if closer, ok := layer.(interface{ Close() error }); ok {
			return closer.Close()
		}

		return nil
	})
}

// each applies fn to all layers, even after a failure, and joins the errors.
func (c *CacheChain) each(fn func(layer Cache) error) error {
	var errs []error

	for _, layer := range c.caches {
		err := fn(layer)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
