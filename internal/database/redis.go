package database

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/swap24/backend/internal/config"
	"github.com/swap24/backend/pkg/logger"
	"go.uber.org/zap"
)

// InitRedis returns a connected client, or nil when Redis is unreachable.
// Callers treat a nil client as "feature disabled".
func InitRedis(cfg config.RedisConfig) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Log.Warn("Redis connection failed, continuing without Redis", zap.Error(err))
		rdb.Close()
		return nil
	}

	logger.Log.Info("Redis connection established")
	return rdb
}
