// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"website-audit/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates the Redis client backing the audit-result cache.
func NewRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
}

// PingRedis tests the Redis connection.
func PingRedis(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
