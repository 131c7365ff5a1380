package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisLimiter shares counters across instances through Redis.
// Redis failures fail open: the request is allowed and the error is logged.
type RedisLimiter struct {
	client  *redis.Client
	limit   int
	period  time.Duration
	prefix  string
	timeout time.Duration
	log     *zap.Logger
}

func NewRedisLimiter(client *redis.Client, limit int, period time.Duration, logger *zap.Logger) *RedisLimiter {
	if period <= 0 {
		period = time.Minute
	}
	return &RedisLimiter{
		client:  client,
		limit:   limit,
		period:  period,
		prefix:  "shop:ratelimit:",
		timeout: 250 * time.Millisecond,
		log:     logger,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) Decision {
	if l.limit <= 0 {
		return Decision{Allowed: true}
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	redisKey := l.redisKey(key)
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.log.Warn("rate limiter redis error", zap.String("op", "incr"), zap.Error(err))
		return Decision{Allowed: true}
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.period).Err(); err != nil {
			l.log.Warn("rate limiter redis error", zap.String("op", "expire"), zap.Error(err))
		}
	}

	ttl, err := l.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl <= 0 {
		ttl = l.period
	}

	return Decision{
		Allowed: int(count) <= l.limit,
		Count:   int(count),
		ResetAt: time.Now().Add(ttl),
	}
}

func (l *RedisLimiter) Peek(ctx context.Context, key string) Decision {
	if l.limit <= 0 {
		return Decision{Allowed: true}
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	redisKey := l.redisKey(key)
	count, err := l.client.Get(ctx, redisKey).Int()
	if errors.Is(err, redis.Nil) {
		return Decision{Allowed: true}
	}
	if err != nil {
		l.log.Warn("rate limiter redis error", zap.String("op", "get"), zap.Error(err))
		return Decision{Allowed: true}
	}

	ttl, err := l.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl <= 0 {
		ttl = l.period
	}

	return Decision{
		Allowed: count < l.limit,
		Count:   count,
		ResetAt: time.Now().Add(ttl),
	}
}

func (l *RedisLimiter) Close() error {
	if err := l.client.Close(); err != nil {
		return fmt.Errorf("redis close failed: %w", err)
	}
	return nil
}

func (l *RedisLimiter) redisKey(key string) string {
	return l.prefix + key
}
