package database

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"

	"officehub/configs"
	"officehub/pkg/logger"

	"go.uber.org/zap"
)

// ConnectRedis returns a client for the directory cache, or nil when no
// address is configured (the cache is optional).
func ConnectRedis(cfg configs.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: "",
		DB:       0,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.ErrorLogger.Error("Redis connection error", zap.Error(err))
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	return client
}
