package dato_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

func TestNewCacheFromConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *dato.CacheConfig
		want    interface{}
		wantErr error
	}{
		{name: "nil config", config: nil, want: &dato.MemoryCache{}},
		{name: "memory", config: &dato.CacheConfig{Type: dato.CacheTypeMemory}, want: &dato.MemoryCache{}},
		{name: "empty type", config: &dato.CacheConfig{}, want: &dato.MemoryCache{}},
		{name: "none", config: &dato.CacheConfig{Type: dato.CacheTypeNone}, want: &dato.NoOpCache{}},
		{name: "redis without config", config: &dato.CacheConfig{Type: dato.CacheTypeRedis}, wantErr: dato.ErrRedisConfigRequired},
		{name: "nats without config", config: &dato.CacheConfig{Type: dato.CacheTypeNATS}, wantErr: dato.ErrNATSConfigRequired},
		{name: "redis without address", config: &dato.CacheConfig{Type: dato.CacheTypeRedis, Redis: &dato.RedisCacheConfig{}}, wantErr: dato.ErrRedisAddrRequired},
		{name: "unknown", config: &dato.CacheConfig{Type: "memcached"}, wantErr: dato.ErrUnsupportedCacheType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cache, err := dato.NewCacheFromConfig(tt.config)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.want, cache)
		})
	}
}

func TestNewMemoryCacheFromConfig_InvalidInterval(t *testing.T) {
	t.Parallel()

	_, err := dato.NewMemoryCacheFromConfig(&dato.MemoryCacheConfig{MaxSize: 5, CleanupInterval: "soon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cleanup interval")
}

func TestNewCacheManagerFromConfig(t *testing.T) {
	t.Parallel()

	manager, policy, err := dato.NewCacheManagerFromConfig(nil)
	require.NoError(t, err)
	require.NotNil(t, manager)
	require.NotNil(t, policy)
	assert.True(t, policy.CacheGET)

	custom := &dato.CachingPolicy{CacheGET: false}

	_, policy, err = dato.NewCacheManagerFromConfig(&dato.CacheConfig{Type: dato.CacheTypeMemory, Policy: custom})
	require.NoError(t, err)
	assert.Same(t, custom, policy)
}

func TestNoOpCache(t *testing.T) {
	t.Parallel()

	cache := dato.NewNoOpCache()
	ctx := t.Context()

	require.NoError(t, cache.Set(ctx, "key", &dato.CacheEntry{Data: []byte("x")}))

	_, err := cache.Get(ctx, "key")
	require.ErrorIs(t, err, dato.ErrCacheDisabled)
	assert.False(t, cache.Has(ctx, "key"))
	require.NoError(t, cache.Delete(ctx, "key"))
	require.NoError(t, cache.Clear(ctx))
}

func TestCacheBuilder(t *testing.T) {
	t.Parallel()

	options := &dato.CacheOptions{TTL: time.Minute, MaxSize: 3}
	builder := dato.NewCacheBuilder().
		WithType(dato.CacheTypeMemory).
		WithMemoryConfig(3, "30s").
		WithRedisConfig(&dato.RedisCacheConfig{Addr: "localhost:6379"}).
		WithNATSConfig(&dato.NATSKVConfig{URL: "nats://localhost:4222"}).
		WithOptions(options)

	config := builder.Config()
	assert.Equal(t, dato.CacheTypeMemory, config.Type)
	assert.Equal(t, 3, config.Memory.MaxSize)
	assert.Equal(t, "localhost:6379", config.Redis.Addr)
	assert.Same(t, options, config.Options)

	cache, err := builder.Build()
	require.NoError(t, err)
	assert.IsType(t, &dato.MemoryCache{}, cache)
}

func TestCacheChain(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	l1 := dato.NewMemoryCache(10)
	l2 := dato.NewMemoryCache(10)
	chain := dato.NewCacheChain(l1, l2)

	require.NoError(t, l2.Set(ctx, "key", &dato.CacheEntry{Data: []byte("from l2")}))
	assert.False(t, l1.Has(ctx, "key"))

	entry, err := chain.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("from l2"), entry.Data)
	assert.True(t, l1.Has(ctx, "key"), "hits populate earlier levels")

	require.NoError(t, chain.Set(ctx, "other", &dato.CacheEntry{Data: []byte("both")}))
	assert.True(t, l1.Has(ctx, "other"))
	assert.True(t, l2.Has(ctx, "other"))
	assert.True(t, chain.Has(ctx, "other"))

	require.NoError(t, chain.Delete(ctx, "other"))
	assert.False(t, chain.Has(ctx, "other"))

	require.NoError(t, chain.Clear(ctx))

	_, err = chain.Get(ctx, "key")
	require.ErrorIs(t, err, dato.ErrKeyNotFoundInAnyCache)
}

func TestCacheChain_SkipsFailingLayers(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	memory := dato.NewMemoryCache(10)
	chain := dato.NewCacheChain(dato.NewNoOpCache(), memory)

	require.NoError(t, memory.Set(ctx, "key", &dato.CacheEntry{Data: []byte("value")}))

	entry, err := chain.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), entry.Data)
	assert.NoError(t, chain.Close())
}

func TestCacheBuilder_WithLocalLayer(t *testing.T) {
	t.Parallel()

	config := dato.NewCacheBuilder().WithType(dato.CacheTypeNATS).WithLocalLayer(25).Config()
	assert.True(t, config.Local)
	assert.Equal(t, 25, config.Memory.MaxSize)

	_, err := dato.NewCacheFromConfig(config)
	require.ErrorIs(t, err, dato.ErrNATSConfigRequired)
}

func TestRedisCache(t *testing.T) {
	t.Parallel()

	addr := os.Getenv("DATO_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("DATO_TEST_REDIS_ADDR not set")
	}

	ctx := t.Context()

	cache, err := dato.NewRedisCacheFromConfig(ctx, &dato.RedisCacheConfig{Addr: addr, KeyPrefix: "dato:test:" + dato.GenerateID() + ":"})
	require.NoError(t, err)

	t.Cleanup(func() { _ = cache.Close() })

	require.NoError(t, cache.Set(ctx, "key", &dato.CacheEntry{Data: []byte("value"), ExpiresAt: time.Now().Add(time.Minute)}))

	entry, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), entry.Data)

	require.NoError(t, cache.Clear(ctx))
	assert.False(t, cache.Has(ctx, "key"))

	layered, err := dato.NewCacheBuilder().
		WithType(dato.CacheTypeRedis).
		WithRedisConfig(&dato.RedisCacheConfig{Addr: addr, KeyPrefix: "dato:test:" + dato.GenerateID() + ":"}).
		WithLocalLayer(10).
		Build()
	require.NoError(t, err)
	require.IsType(t, &dato.CacheChain{}, layered)

	chain, _ := layered.(*dato.CacheChain)
	t.Cleanup(func() { _ = chain.Close() })

	require.NoError(t, chain.Set(ctx, "key", &dato.CacheEntry{Data: []byte("value"), ExpiresAt: time.Now().Add(time.Minute)}))
	assert.True(t, chain.Has(ctx, "key"))
}

func TestNATSKVCache(t *testing.T) {
	t.Parallel()

	url := os.Getenv("DATO_TEST_NATS_URL")
	if url == "" {
		t.Skip("DATO_TEST_NATS_URL not set")
	}

	ctx := t.Context()

	cache, err := dato.NewNATSKVCache(&dato.NATSKVConfig{URL: url, Bucket: "dato_test"})
	require.NoError(t, err)

	t.Cleanup(func() { _ = cache.Close() })

	require.NoError(t, cache.Set(ctx, "GET:/items?page=1", &dato.CacheEntry{Data: []byte("value")}))
	assert.True(t, cache.Has(ctx, "GET:/items?page=1"))
	require.NoError(t, cache.Delete(ctx, "GET:/items?page=1"))
	assert.False(t, cache.Has(ctx, "GET:/items?page=1"))
}
