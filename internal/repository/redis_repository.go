package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRepo is the thin cache layer: JSON blobs with TTLs plus plain
// integer counters. A cold or unreachable Redis degrades to cache misses.
type RedisRepo struct {
	client *redis.Client
}

func NewRedisRepo(client *redis.Client) *RedisRepo {
	return &RedisRepo{client: client}
}

func (r *RedisRepo) SaveStructCached(ctx context.Context, key string, model any, ttl time.Duration) error {
	val, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("error saving struct to cache: %s", err)
	}
	if err := r.client.Set(ctx, key, val, ttl).Err(); err != nil {
		return fmt.Errorf("error saving struct to cache: %s", err)
	}
	return nil
}

// GetStructCached decodes the cached value into model. A miss is reported as
// (false, nil), not an error.
func (r *RedisRepo) GetStructCached(ctx context.Context, key string, model any) (bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("error get struct in cache: %s", err)
	}
	return true, json.Unmarshal(raw, model)
}

func (r *RedisRepo) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		log.Printf("error deleting cache key %s: %s", key, err)
	}
}

func (r *RedisRepo) SaveInt(ctx context.Context, key string, value int64, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("error saving int64 value to cache: %s", err)
	}
	return nil
}

func (r *RedisRepo) GetInt(ctx context.Context, key string) int64 {
	value, err := r.client.Get(ctx, key).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("error get int64 value in cache: %s. Return 0", err)
		}
		return 0
	}
	return value
}
