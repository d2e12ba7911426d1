package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisCache_Unreachable(t *testing.T) {
	_, err := NewRedisCache("redis://127.0.0.1:1/0", time.Minute)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestNewRedisCache_PlainAddress(t *testing.T) {
	// not a URL, falls back to host:port and still fails to connect
	_, err := NewRedisCache("127.0.0.1:1", time.Minute)
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "link:abc", Key("abc"))
}

func TestRedisCache_RoundTrip(t *testing.T) {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	c, err := NewRedisCache(redisURL, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	code := "cachetest" + time.Now().Format("150405")

	_, err = c.GetLink(ctx, code)
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.SetLink(ctx, code, Link{ID: 42, URL: "http://example.com"}))

	got, err := c.GetLink(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, Link{ID: 42, URL: "http://example.com"}, got)
}
