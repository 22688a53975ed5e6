package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedis_DisabledBypassesCache(t *testing.T) {
	ctx := context.Background()
	for name, cfg := range map[string]*config.CacheConfig{
		"nil config": nil,
		"no address": {},
	} {
		t.Run(name, func(t *testing.T) {
			r := NewRedis(ctx, cfg)
			require.NotNil(t, r)
			assert.False(t, r.Available())
			assert.ErrorIs(t, r.Ping(ctx), ErrUnavailable)

			var out map[string]int
			hit, err := r.GetJSON(ctx, "k", &out)
			assert.NoError(t, err)
			assert.False(t, hit)
			assert.NoError(t, r.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute))
			assert.NoError(t, r.Delete(ctx, "k"))
			assert.NoError(t, r.Close())
		})
	}
}

func TestNewRedis_UnreachableServerBypassesCache(t *testing.T) {
	// Port 1 is reserved; nothing listens there.
	r := NewRedis(context.Background(), &config.CacheConfig{Addr: "127.0.0.1:1"})
	assert.False(t, r.Available())
}

func TestNilRedisIsSafe(t *testing.T) {
	var r *Redis
	ctx := context.Background()
	assert.False(t, r.Available())
	hit, err := r.GetJSON(ctx, "k", &struct{}{})
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, r.SetJSON(ctx, "k", 1, 0))
	assert.NoError(t, r.Delete(ctx, "k"))
}

// TestRedis_RoundTrip runs against a real server when REDIS_ADDR is set.
func TestRedis_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	r := NewRedis(ctx, &config.CacheConfig{Addr: addr})
	if !r.Available() {
		t.Skipf("redis at %s not reachable", addr)
	}
	t.Cleanup(func() { _ = r.Close() })

	key := "test:" + uuid.NewString()
	t.Cleanup(func() { _ = r.Delete(ctx, key) })

	type payload struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, r.SetJSON(ctx, key, payload{Total: 7}, time.Minute))

	var got payload
	hit, err := r.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(7), got.Total)

	require.NoError(t, r.Delete(ctx, key))
	hit, err = r.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
