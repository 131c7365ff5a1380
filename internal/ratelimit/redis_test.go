package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// setupTestRedis creates a miniredis server and returns a RedisLimiter instance
func setupTestRedis(t *testing.T, limit int) (*RedisLimiter, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	limiter := NewRedisLimiter(client, limit, time.Minute, zap.NewNop())
	t.Cleanup(func() { limiter.Close() })

	return limiter, mr
}

func TestRedisLimiter_AllowsUpToLimit(t *testing.T) {
	limiter, mr := setupTestRedis(t, 2)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "login:a@x.com").Allowed)
	assert.True(t, limiter.Allow(ctx, "login:a@x.com").Allowed)

	d := limiter.Allow(ctx, "login:a@x.com")
	assert.False(t, d.Allowed)
	assert.Equal(t, 3, d.Count)

	// Counter lives under the prefixed key with the window as TTL
	assert.True(t, mr.Exists("shop:ratelimit:login:a@x.com"))
	ttl := mr.TTL("shop:ratelimit:login:a@x.com")
	assert.True(t, ttl > 0 && ttl <= time.Minute)
}

func TestRedisLimiter_WindowExpires(t *testing.T) {
	limiter, mr := setupTestRedis(t, 1)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "k").Allowed)
	assert.False(t, limiter.Allow(ctx, "k").Allowed)

	mr.FastForward(time.Minute + time.Second)

	assert.True(t, limiter.Allow(ctx, "k").Allowed)
}

func TestRedisLimiter_FailsOpen(t *testing.T) {
	limiter, mr := setupTestRedis(t, 1)
	mr.Close()

	d := limiter.Allow(context.Background(), "k")
	assert.True(t, d.Allowed)
}

func TestRedisLimiter_Disabled(t *testing.T) {
	limiter, mr := setupTestRedis(t, 0)

	assert.True(t, limiter.Allow(context.Background(), "k").Allowed)
	assert.False(t, mr.Exists("shop:ratelimit:k"))
}

func TestRedisLimiter_Peek(t *testing.T) {
	limiter, mr := setupTestRedis(t, 2)
	ctx := context.Background()

	d := limiter.Peek(ctx, "auth:a@x.com")
	assert.True(t, d.Allowed)
	assert.False(t, mr.Exists("shop:ratelimit:auth:a@x.com"))

	limiter.Allow(ctx, "auth:a@x.com")
	assert.True(t, limiter.Peek(ctx, "auth:a@x.com").Allowed)

	limiter.Allow(ctx, "auth:a@x.com")
	d = limiter.Peek(ctx, "auth:a@x.com")
	assert.False(t, d.Allowed)
	assert.Equal(t, 2, d.Count)
	assert.True(t, d.RetryAfter(time.Now()) > 0)

	// peeking never moves the counter
	v, err := mr.Get("shop:ratelimit:auth:a@x.com")
	assert.NoError(t, err)
	assert.Equal(t, "2", v)

	mr.FastForward(time.Minute + time.Second)
	assert.True(t, limiter.Peek(ctx, "auth:a@x.com").Allowed)
}

func TestRedisLimiter_PeekFailsOpen(t *testing.T) {
	limiter, mr := setupTestRedis(t, 1)
	limiter.Allow(context.Background(), "k")
	mr.Close()

	assert.True(t, limiter.Peek(context.Background(), "k").Allowed)
}
