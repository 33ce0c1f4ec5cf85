package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RateLimiter is a fixed window counter kept in redis.
// When redis is unavailable requests are allowed and a warning is logged.
type RateLimiter struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewRateLimiter creates a new redis rate limiter
func NewRateLimiter(rdb *redis.Client, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		rdb:    rdb,
		logger: logger,
	}
}

// Allow counts one hit for key in the current window and reports whether the count is within limit
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	redisKey := rateLimitKey(key)

	// SET NX EX creates the window with its TTL in the same transaction as the first INCR,
	// so a counter never exists without an expiry
	var incr *redis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, redisKey, 0, window)
		incr = pipe.Incr(ctx, redisKey)
		return nil
	})
	if err != nil {
		l.logger.Warn("redis rate limit check failed, allowing request",
			zap.String("key", key),
			zap.Error(err),
		)
		return true
	}
	count := incr.Val()

	return count <= int64(limit)
}

func rateLimitKey(key string) string {
	return fmt.Sprintf("ratelimit:%s", key)
}
