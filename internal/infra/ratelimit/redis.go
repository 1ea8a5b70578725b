// Package ratelimit implements the per-client submission attempt
// counter over Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"velobook/internal/infra"
	"velobook/internal/pkg/config"
	"velobook/internal/usecase/commands"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter: the first attempt in a
// window sets the key with a TTL, every attempt increments it, and the
// remaining TTL becomes the retry-after hint once the cap is hit.
type RedisLimiter struct {
	client   *redis.Client
	attempts int
	window   time.Duration
}

func NewRedisLimiter(client *redis.Client, cfg config.BookingConfig) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		attempts: cfg.RateLimitAttempts,
		window:   cfg.RateLimitWindow,
	}
}

func (l *RedisLimiter) Check(ctx context.Context, clientID string) (commands.RateLimitDecision, error) {
	key := fmt.Sprintf("velobook:submit:%s", clientID)

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return commands.RateLimitDecision{}, infra.WrapRepoErr("rate limit counter unavailable", err, infra.KindUnavailable)
	}

	if count.Val() <= int64(l.attempts) {
		return commands.RateLimitDecision{Allowed: true}, nil
	}

	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return commands.RateLimitDecision{Allowed: false, RetryAfter: ttl}, nil
}
