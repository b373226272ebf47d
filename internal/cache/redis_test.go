package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespaced(t *testing.T) {
	assert.Equal(t, "enrich:abc", namespaced("abc"))
	assert.Equal(t, "enrich:abc", namespaced("enrich:abc"))
}

func TestEntryEncoding(t *testing.T) {
	at := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)
	data, err := encodeEntry(`{"blocks":[]}`, at)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"stored_at":"2026-02-10T08:00:00Z"`)

	got, err := decodeEntry(data)
	require.NoError(t, err)
	assert.Equal(t, `{"blocks":[]}`, got)
}

func TestDecodeEntry_Corrupt(t *testing.T) {
	_, err := decodeEntry([]byte("not json"))
	assert.ErrorIs(t, err, ErrCacheSerialization)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("STUDYPLAN_REDIS_ADDR", "localhost:6379")
	t.Setenv("STUDYPLAN_REDIS_TTL", "36h")

	cfg := ConfigFromEnv()

	assert.True(t, cfg.Enabled())
	assert.Equal(t, "localhost:6379", cfg.Addr)
	assert.Equal(t, 36*time.Hour, cfg.TTL)
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("STUDYPLAN_REDIS_ADDR", "")
	t.Setenv("STUDYPLAN_REDIS_TTL", "forever")

	cfg := ConfigFromEnv()

	assert.False(t, cfg.Enabled())
	assert.Equal(t, DefaultTTL, cfg.TTL)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	_, err := NewRedisCache(context.Background(), Config{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
	})
	assert.ErrorIs(t, err, ErrCacheConnection)
}

func TestRedisCache_EmptyKey(t *testing.T) {
	c := &RedisCache{}
	_, err := c.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrCacheKeyEmpty)
	assert.ErrorIs(t, c.Set(context.Background(), "", "x"), ErrCacheKeyEmpty)
}
