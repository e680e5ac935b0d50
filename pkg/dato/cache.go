package dato

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fivetwenty-io/dato-client/internal/constants"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Static errors for err113 compliance.
var (
	ErrCacheKeyNotFound  = errors.New("key not found")
	ErrCacheEntryExpired = errors.New("entry expired")
	ErrInvalidCacheEntry = errors.New("invalid cache entry")
)

// Cache is a response cache backend.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// CacheEntry is a cached response body.
type CacheEntry struct {
	Data []byte `json:"data"`
	// ExpiresAt is the absolute expiry time. Zero means the entry never expires.
	ExpiresAt time.Time `json:"expires_at"`
	ETag      string    `json:"etag,omitempty"`
}

// Expired reports whether the entry has expired at now.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// CacheOptions are options shared by every backend.
type CacheOptions struct {
	// TTL is how long responses are kept.
	TTL time.Duration
	// MaxSize bounds the number of entries of size-aware backends.
	MaxSize int
	// EnableETags keeps response ETags with the cached body.
	EnableETags bool
}

// DefaultCacheOptions returns default cache options.
func DefaultCacheOptions() *CacheOptions {
	return &CacheOptions{
		TTL:         constants.DefaultCacheTTL,
		MaxSize:     constants.DefaultCacheSize,
		EnableETags: true,
	}
}

// MemoryCache is an in-process cache holding at most maxSize entries. When full,
// the entry closest to expiry is evicted.
type MemoryCache struct {
	mu      sync.Mutex
	store   *gocache.Cache
	maxSize int
}

// NewMemoryCache creates a memory cache that purges expired entries every minute.
func NewMemoryCache(maxSize int) *MemoryCache {
	return NewMemoryCacheWithCleanup(maxSize, constants.DefaultCacheCleanupInterval)
}

// NewMemoryCacheWithCleanup creates a memory cache with a custom purge interval.
func NewMemoryCacheWithCleanup(maxSize int, cleanupInterval time.Duration) *MemoryCache {
	if maxSize <= 0 {
		maxSize = constants.DefaultCacheSize
	}

	return &MemoryCache{
		store:   gocache.New(gocache.NoExpiration, cleanupInterval),
		maxSize: maxSize,
	}
}

// Get retrieves an entry.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	value, found := c.store.Get(key)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	entry, ok := value.(*CacheEntry)
	if !ok {
		c.store.Delete(key)

		return nil, fmt.Errorf("%w: %s", ErrInvalidCacheEntry, key)
	}

	if entry.Expired(time.Now()) {
		c.store.Delete(key)

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return entry, nil
}

// Set stores an entry, evicting one when the cache is full.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	if entry == nil {
		return ErrInvalidCacheEntry
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.store.Get(key); !exists && c.store.ItemCount() >= c.maxSize {
		c.evictLocked()
	}

	ttl := gocache.NoExpiration

	if !entry.ExpiresAt.IsZero() {
		if remaining := time.Until(entry.ExpiresAt); remaining > 0 {
			ttl = remaining
		}
	}

	c.store.Set(key, entry, ttl)

	return nil
}

// evictLocked drops the entry with the earliest expiry.
func (c *MemoryCache) evictLocked() {
	var (
		victim   string
		earliest time.Time
	)

	for key, item := range c.store.Items() {
		entry, ok := item.Object.(*CacheEntry)
		if !ok {
			victim = key

			break
		}

		expiresAt := entry.ExpiresAt
		if expiresAt.IsZero() {
			expiresAt = time.Unix(1<<62, 0)
		}

		if victim == "" || expiresAt.Before(earliest) {
			victim = key
			earliest = expiresAt
		}
	}

	if victim != "" {
		c.store.Delete(victim)
	}
}

// Delete removes an entry.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.store.Delete(key)

	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.store.Flush()

	return nil
}

// Has reports whether a live entry exists.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Len returns the number of stored entries, including expired ones not yet purged.
func (c *MemoryCache) Len() int {
	return c.store.ItemCount()
}

// Cleanup removes expired entries.
func (c *MemoryCache) Cleanup() {
	c.store.DeleteExpired()

	now := time.Now()

	for key, item := range c.store.Items() {
		if entry, ok := item.Object.(*CacheEntry); ok && entry.Expired(now) {
			c.store.Delete(key)
		}
	}
}

// CacheStats counts cache activity.
type CacheStats struct {
	Hits          int64
	Misses        int64
	Sets          int64
	Invalidations int64
	// Coalesced counts loads that shared an in-flight request for the same key.
	Coalesced int64
}

// GetHitRate returns hits / (hits + misses).
func (s *CacheStats) GetHitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// CacheManager wraps a Cache with key building, TTLs, statistics and coalescing
// of concurrent misses for the same key.
type CacheManager struct {
	cache   Cache
	options *CacheOptions
	group   singleflight.Group

	hits          atomic.Int64
	misses        atomic.Int64
	sets          atomic.Int64
	invalidations atomic.Int64
	coalesced     atomic.Int64
}

// NewCacheManager creates a cache manager. A nil cache uses a default memory cache.
func NewCacheManager(cache Cache, options *CacheOptions) *CacheManager {
	if options == nil {
		options = DefaultCacheOptions()
	}

	if cache == nil {
		cache = NewMemoryCache(options.MaxSize)
	}

	return &CacheManager{
		cache:   cache,
		options: options,
	}
}

// Cache returns the backend.
func (m *CacheManager) Cache() Cache {
	return m.cache
}

// TTL returns the configured time to live.
func (m *CacheManager) TTL() time.Duration {
	return m.options.TTL
}

// GetCacheKey builds the key of a request: "[env@]METHOD:path[?query]".
func (m *CacheManager) GetCacheKey(environment, method, path string, query url.Values) string {
	return m.GetScopedCacheKey("", environment, method, path, query)
}

// GetScopedCacheKey prefixes the request key with scope, which identifies the
// endpoint and credential the response was fetched with: "[scope|][env@]METHOD:path[?query]".
func (m *CacheManager) GetScopedCacheKey(scope, environment, method, path string, query url.Values) string {
	var builder strings.Builder

	if scope != "" {
		builder.WriteString(scope)
		builder.WriteString("|")
	}

	if environment != "" {
		builder.WriteString(environment)
		builder.WriteString("@")
	}

	builder.WriteString(strings.ToUpper(method))
	builder.WriteString(":")
	builder.WriteString(path)

	if len(query) > 0 {
		builder.WriteString("?")
		builder.WriteString(query.Encode())
	}

	return builder.String()
}

// Get returns cached data.
func (m *CacheManager) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := m.cache.Get(ctx, key)
	if err != nil {
		m.misses.Add(1)

		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}

	m.hits.Add(1)

	return entry.Data, nil
}

// Set stores data for ttl. A non-positive ttl uses the configured TTL.
func (m *CacheManager) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return m.SetWithETag(ctx, key, data, "", ttl)
}

// SetWithETag stores data along with its ETag.
func (m *CacheManager) SetWithETag(ctx context.Context, key string, data []byte, etag string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.options.TTL
	}

	entry := &CacheEntry{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	}

	if m.options.EnableETags {
		entry.ETag = etag
	}

	err := m.cache.Set(ctx, key, entry)
	if err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}

	m.sets.Add(1)

	return nil
}

// GetETag returns the ETag stored for key, or "".
func (m *CacheManager) GetETag(ctx context.Context, key string) string {
	entry, err := m.cache.Get(ctx, key)
	if err != nil {
		return ""
	}

	return entry.ETag
}

// Invalidate removes one key.
func (m *CacheManager) Invalidate(ctx context.Context, key string) error {
	m.invalidations.Add(1)

	err := m.cache.Delete(ctx, key)
	if err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}

	return nil
}

// Clear removes every entry.
func (m *CacheManager) Clear(ctx context.Context) error {
	m.invalidations.Add(1)

	err := m.cache.Clear(ctx)
	if err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}

	return nil
}

// CacheLoader produces the data for a missing key. cacheable reports whether
// the result may be stored.
type CacheLoader func(ctx context.Context) (data []byte, cacheable bool, err error)

type loadResult struct {
	data      []byte
	cacheable bool
}

// GetOrLoad returns cached data for key, or calls load once for all concurrent
// callers asking for the same key and caches its result. hit reports whether
// the data came from the cache.
func (m *CacheManager) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load CacheLoader) ([]byte, bool, error) {
	data, err := m.Get(ctx, key)
	if err == nil {
		return data, true, nil
	}

	// The load outlives any single waiter; each waiter gives up on its own ctx.
	loadCtx := context.WithoutCancel(ctx)

	results := m.group.DoChan(key, func() (interface{}, error) {
		loaded, cacheable, loadErr := load(loadCtx)
		if loadErr != nil {
			return nil, loadErr
		}

		if cacheable {
			_ = m.Set(loadCtx, key, loaded, ttl)
		}

		return loadResult{data: loaded, cacheable: cacheable}, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("cache load %s: %w", key, ctx.Err())
	case res := <-results:
		if res.Shared {
			m.coalesced.Add(1)
		}

		if res.Err != nil {
			return nil, false, res.Err
		}

		result, _ := res.Val.(loadResult)

		return result.data, false, nil
	}
}

// GetStats returns a snapshot of the statistics.
func (m *CacheManager) GetStats() CacheStats {
	return CacheStats{
		Hits:          m.hits.Load(),
		Misses:        m.misses.Load(),
		Sets:          m.sets.Load(),
		Invalidations: m.invalidations.Load(),
		Coalesced:     m.coalesced.Load(),
	}
}

// CachingPolicy decides which requests are cached.
type CachingPolicy struct {
	CacheGET    bool
	CachePOST   bool
	CacheErrors bool
	// IncludePaths, when set, restricts caching to paths with one of these prefixes.
	IncludePaths []string
	// ExcludePaths are never cached.
	ExcludePaths []string
	// PathTTLs overrides the TTL for paths with a given prefix.
	PathTTLs map[string]time.Duration
}

// DefaultCachingPolicy caches successful GETs except job results and other
// endpoints whose state changes without a mutation from this client.
func DefaultCachingPolicy() *CachingPolicy {
	return &CachingPolicy{
		CacheGET:    true,
		CachePOST:   false,
		CacheErrors: false,
		ExcludePaths: []string{
			"/job-results",
			"/upload-requests",
			"/maintenance-mode",
			"/webhook_calls",
			"/environments",
		},
		PathTTLs: map[string]time.Duration{
			"/item-types": 10 * time.Minute,
			"/fields":     10 * time.Minute,
			"/site":       10 * time.Minute,
		},
	}
}

// ShouldCacheRequest reports whether a request may be served from or stored in the cache.
func (p *CachingPolicy) ShouldCacheRequest(method, path string) bool {
	switch strings.ToUpper(method) {
	case "GET":
		if !p.CacheGET {
			return false
		}
	case "POST":
		if !p.CachePOST {
			return false
		}
	default:
		return false
	}

	for _, excluded := range p.ExcludePaths {
		if strings.HasPrefix(path, excluded) {
			return false
		}
	}

	if len(p.IncludePaths) == 0 {
		return true
	}

	for _, included := range p.IncludePaths {
		if strings.HasPrefix(path, included) {
			return true
		}
	}

	return false
}

// ShouldCache reports whether a response may be stored.
func (p *CachingPolicy) ShouldCache(method, path string, statusCode int) bool {
	if !p.ShouldCacheRequest(method, path) {
		return false
	}

	if statusCode >= constants.HTTPStatusBadRequest && !p.CacheErrors {
		return false
	}

	return true
}

// TTLFor returns the TTL override for path, or fallback.
func (p *CachingPolicy) TTLFor(path string, fallback time.Duration) time.Duration {
	best := ""
	ttl := fallback

	for prefix, override := range p.PathTTLs {
		if strings.HasPrefix(path, prefix) && len(prefix) > len(best) {
			best = prefix
			ttl = override
		}
	}

	return ttl
}

// IsMutation reports whether method changes server state.
func IsMutation(method string) bool {
	switch strings.ToUpper(method) {
	case "POST", "PUT", "PATCH", "DELETE":
		return true
	default:
		return false
	}
}
