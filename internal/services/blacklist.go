package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenBlacklist remembers logged-out tokens until they would have expired anyway.
type TokenBlacklist struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewTokenBlacklist(client *redis.Client, ttl time.Duration) *TokenBlacklist {
	return &TokenBlacklist{redis: client, ttl: ttl}
}

func blacklistKey(token string) string {
	return fmt.Sprintf("blacklist:%s", token)
}

func (b *TokenBlacklist) Revoke(ctx context.Context, token string) error {
	if b == nil || b.redis == nil {
		return nil
	}
	return b.redis.Set(ctx, blacklistKey(token), "1", b.ttl).Err()
}

func (b *TokenBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	if b == nil || b.redis == nil {
		return false, nil
	}
	n, err := b.redis.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
