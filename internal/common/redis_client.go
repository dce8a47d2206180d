package common

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"resq-relief/resq/internal/config"
	"resq-relief/resq/internal/logging"
)

func NewRedisClient(cfg config.CacheConfig) *redis.Client {
	addr := fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort)
	logging.Info("Initializing Redis client", "addr", addr)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.RedisPassword,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Warn("Failed to ping Redis, pool will keep retrying", "error", err)
		return client
	}

	logging.Info("Connected to Redis", "addr", addr)
	return client
}
