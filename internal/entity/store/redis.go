package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"kycdesk/pkg/platform/sentinel"
)

// Redis is a KV backed by plain Redis strings.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps client. The client lifecycle is managed by the caller.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// Set writes value without expiry.
func (s *Redis) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *Redis) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errors.Join(sentinel.ErrUnavailable, err)
	}
	return nil
}
