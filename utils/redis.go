package utils

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisCtx    = context.Background()
)

// InitRedis connects the shared redis client used for OTPs and one-time tokens
func InitRedis() error {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if err := redisClient.Ping(redisCtx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	fmt.Println("✅ Redis connected:", addr)
	return nil
}

// SetToken stores a value under key with a TTL (OTPs, reset/verification tokens)
func SetToken(key, value string, ttl time.Duration) error {
	if redisClient == nil {
		return fmt.Errorf("redis not initialized")
	}
	return redisClient.Set(redisCtx, key, value, ttl).Err()
}

// GetToken fetches a previously stored token value
func GetToken(key string) (string, error) {
	if redisClient == nil {
		return "", fmt.Errorf("redis not initialized")
	}
	return redisClient.Get(redisCtx, key).Result()
}

// DeleteToken removes a token (after successful use)
func DeleteToken(key string) error {
	if redisClient == nil {
		return fmt.Errorf("redis not initialized")
	}
	return redisClient.Del(redisCtx, key).Err()
}
