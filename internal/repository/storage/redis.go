package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type redisStorage struct {
	client *redis.Client
}

// NewRedis stores values as plain redis strings without expiry; the cart
// outlives every view for the life of the origin.
func NewRedis(client *redis.Client) Storage {
	return &redisStorage{client: client}
}

func (s *redisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *redisStorage) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *redisStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
