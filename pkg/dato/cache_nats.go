package dato

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/nats-io/nats.go"
)

// Static errors for err113 compliance.
var (
	ErrNATSURLRequired = errors.New("NATS URL or connection is required")
)

// NATSKVConfig configures the NATS JetStream key-value cache backend.
type NATSKVConfig struct {
	// URL of the NATS server. Ignored when Conn is set.
	URL string
	// Conn reuses an existing connection, which Close leaves open.
	Conn *nats.Conn
	// Bucket is created when missing. Defaults to "dato_cache".
	Bucket string
	// TTL is the bucket-level maximum age of values.
	TTL time.Duration
	// Replicas of the bucket when it is created.
	Replicas int
}

// NATSKVCache stores entries in a JetStream key-value bucket. Keys are hashed,
// since KV keys allow a restricted character set.
type NATSKVCache struct {
	conn     *nats.Conn
	ownsConn bool
	kv       nats.KeyValue
	bucket   string
}

// NewNATSKVCache connects (if needed) and binds to the bucket, creating it when absent.
func NewNATSKVCache(config *NATSKVConfig) (*NATSKVCache, error) {
	if config == nil || (config.Conn == nil && config.URL == "") {
		return nil, ErrNATSURLRequired
	}

	bucket := config.Bucket
	if bucket == "" {
		bucket = constants.DefaultNATSBucket
	}

	conn := config.Conn
	ownsConn := false

	if conn == nil {
		var err error

		conn, err = nats.Connect(config.URL, nats.Name("dato-client cache"))
		if err != nil {
			return nil, fmt.Errorf("connecting to NATS at %s: %w", config.URL, err)
		}

		ownsConn = true
	}

	cache, err := bindNATSBucket(conn, bucket, config)
	if err != nil {
		if ownsConn {
			conn.Close()
		}

		return nil, err
	}

	cache.ownsConn = ownsConn

	return cache, nil
}

func bindNATSBucket(conn *nats.Conn, bucket string, config *NATSKVConfig) (*NATSKVCache, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("getting JetStream context: %w", err)
	}

	kv, err := js.KeyValue(bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:      bucket,
			Description: "DatoCMS API response cache",
			TTL:         config.TTL,
			Replicas:    config.Replicas,
		})
	}

	if err != nil {
		return nil, fmt.Errorf("binding key-value bucket %s: %w", bucket, err)
	}

	return &NATSKVCache{
		conn:   conn,
		kv:     kv,
		bucket: bucket,
	}, nil
}

func natsKey(key string) string {
	sum := sha256.Sum256([]byte(key))

	return hex.EncodeToString(sum[:])
}

// Get retrieves an entry.
func (c *NATSKVCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	kvEntry, err := c.kv.Get(natsKey(key))
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if err != nil {
		return nil, fmt.Errorf("kv get %s: %w", key, err)
	}

	var entry CacheEntry

	err = json.Unmarshal(kvEntry.Value(), &entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidCacheEntry, key, err)
	}

	if entry.Expired(time.Now()) {
		_ = c.kv.Delete(natsKey(key))

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return &entry, nil
}

// Set stores an entry.
func (c *NATSKVCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	if entry == nil {
		return ErrInvalidCacheEntry
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	_, err = c.kv.Put(natsKey(key), data)
	if err != nil {
		return fmt.Errorf("kv put %s: %w", key, err)
	}

	return nil
}

// Delete removes an entry.
func (c *NATSKVCache) Delete(ctx context.Context, key string) error {
	err := c.kv.Delete(natsKey(key))
	if err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
		return fmt.Errorf("kv delete %s: %w", key, err)
	}

	return nil
}

// Clear purges every key of the bucket.
func (c *NATSKVCache) Clear(ctx context.Context) error {
	keys, err := c.kv.Keys()
	if errors.Is(err, nats.ErrNoKeysFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("kv keys: %w", err)
	}

	for _, key := range keys {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err = c.kv.Purge(key)
		if err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
			return fmt.Errorf("kv purge: %w", err)
		}
	}

	return nil
}

// Has reports whether a live entry exists.
func (c *NATSKVCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Bucket returns the bucket name.
func (c *NATSKVCache) Bucket() string {
	return c.bucket
}

// Close closes the connection when the cache opened it.
func (c *NATSKVCache) Close() error {
	if c.ownsConn {
		c.conn.Close()
	}

	return nil
}
