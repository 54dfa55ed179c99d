package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"plania-client/internal/common/config"
)

// RedisKV is the redis-backed session store for hosted deployments. Keys are
// namespaced under "plania:session:".
type RedisKV struct {
	client *redis.Client
}

const redisKeyPrefix = "plania:session:"

func NewRedisKV(cfg config.RedisConfig) *RedisKV {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return &RedisKV{client: rdb}
}

// NewRedisKVFromClient wraps an existing client. Used by tests.
func NewRedisKVFromClient(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (kv *RedisKV) Ping(ctx context.Context) error {
	if err := kv.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (kv *RedisKV) Close() error {
	return kv.client.Close()
}

func (kv *RedisKV) Get(ctx context.Context, key string) (string, error) {
	value, err := kv.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return value, err
}

func (kv *RedisKV) Set(ctx context.Context, key, value string) error {
	return kv.client.Set(ctx, redisKeyPrefix+key, value, 0).Err()
}

func (kv *RedisKV) Delete(ctx context.Context, key string) error {
	return kv.client.Del(ctx, redisKeyPrefix+key).Err()
}
