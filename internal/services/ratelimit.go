package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ResendLimiter caps how many codes one address may request per window.
// A nil limiter or a nil Redis client allows everything.
type ResendLimiter struct {
	redis  *redis.Client
	max    int
	window time.Duration
}

func NewResendLimiter(client *redis.Client, limit int, window time.Duration) *ResendLimiter {
	return &ResendLimiter{redis: client, max: limit, window: window}
}

// Allow records one request for (kind, address) and reports whether it is within the cap.
func (l *ResendLimiter) Allow(ctx context.Context, kind, address string) (bool, error) {
	if l == nil || l.redis == nil {
		return true, nil
	}

	key := fmt.Sprintf("otp:ratelimit:%s:%s", kind, address)
	count, err := l.redis.Get(ctx, key).Int()
	if err != nil && err != redis.Nil {
		return true, err
	}
	if count >= l.max {
		return false, nil
	}

	pipe := l.redis.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, err
	}
	return true, nil
}
