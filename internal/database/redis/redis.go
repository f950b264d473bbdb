package redis

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/MehdiBenameur/skyhire/internal/config"
)

// Connect builds the Redis client and verifies the connection. Redis backs
// caches and counters only, so a failed ping is logged, not fatal.
func Connect(cfg *config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("Warning: error connecting to Redis: %s", err)
	}
	return client
}
