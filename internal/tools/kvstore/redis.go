package kvstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisEngine struct {
	redis *redis.Client
}

func NewRedis(redisClient *redis.Client) Engine {
	return &redisEngine{
		redis: redisClient,
	}
}

func (e *redisEngine) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := e.redis.Get(ctx, key).Bytes()

	// no value stored
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return value, nil
}

func (e *redisEngine) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return e.redis.Set(ctx, key, value, ttl).Err()
}

func (e *redisEngine) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	return e.redis.SetNX(ctx, key, value, ttl).Result()
}

func (e *redisEngine) Del(ctx context.Context, key string) error {
	return e.redis.Del(ctx, key).Err()
}
