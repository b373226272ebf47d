// Package cache stores generated study-block text in Redis so repeated
// planning runs over the same assignments skip the model call.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss is returned when the requested key is not in the cache.
	ErrCacheMiss = errors.New("cache: key not found")

	// ErrCacheConnection is returned when Redis cannot be reached.
	ErrCacheConnection = errors.New("cache: connection failed")

	// ErrCacheSerialization is returned when a stored entry cannot be decoded.
	ErrCacheSerialization = errors.New("cache: serialization failed")

	// ErrCacheKeyEmpty is returned when an empty key is provided.
	ErrCacheKeyEmpty = errors.New("cache: key cannot be empty")
)

// PrefixEnrich namespaces enrichment responses.
const PrefixEnrich = "enrich:"

// DefaultTTL is how long a generated response stays reusable.
const DefaultTTL = 7 * 24 * time.Hour

// Config holds Redis connection settings.
type Config struct {
	Addr        string
	Password    string
	DB          int
	TTL         time.Duration
	DialTimeout time.Duration
}

// Enabled reports whether a Redis address is configured.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

// ConfigFromEnv reads STUDYPLAN_REDIS_ADDR, STUDYPLAN_REDIS_PASSWORD and
// STUDYPLAN_REDIS_TTL. An empty address disables the cache.
func ConfigFromEnv() Config {
	cfg := Config{
		Addr:        os.Getenv("STUDYPLAN_REDIS_ADDR"),
		Password:    os.Getenv("STUDYPLAN_REDIS_PASSWORD"),
		TTL:         DefaultTTL,
		DialTimeout: 2 * time.Second,
	}
	if v := os.Getenv("STUDYPLAN_REDIS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.TTL = d
		}
	}
	return cfg
}

// entry is the JSON document stored under each key.
type entry struct {
	Response string    `json:"response"`
	StoredAt time.Time `json:"stored_at"`
}

// RedisCache implements enrichment.Cache on top of go-redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(ctx context.Context, cfg Config) (*RedisCache, error) {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 2 * time.Second
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
		MaxRetries:  1,
	})

	ctx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrCacheConnection, err)
	}

	return &RedisCache{client: client, ttl: cfg.TTL}, nil
}

// Get returns the response stored under key, or ErrCacheMiss.
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrCacheKeyEmpty
	}
	data, err := c.client.Get(ctx, namespaced(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", err
	}
	return decodeEntry(data)
}

// Set stores value under key with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrCacheKeyEmpty
	}
	data, err := encodeEntry(value, time.Now().UTC())
	if err != nil {
		return err
	}
	return c.client.Set(ctx, namespaced(key), data, c.ttl).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func namespaced(key string) string {
	if strings.HasPrefix(key, PrefixEnrich) {
		return key
	}
	return PrefixEnrich + key
}

func encodeEntry(response string, at time.Time) ([]byte, error) {
	data, err := json.Marshal(entry{Response: response, StoredAt: at})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}
	return data, nil
}

func decodeEntry(data []byte) (string, error) {
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}
	return e.Response, nil
}
