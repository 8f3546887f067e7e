package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Redis stores entries as plain string keys. The server's maxmemory policy
// plays the role of the quota: OOM replies surface as ErrQuotaExceeded.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to url and verifies the connection.
func NewRedis(ctx context.Context, url string) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &Redis{client: client}, nil
}

// NewRedisClient wraps an existing client.
func NewRedisClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, mapRedisError(err)
	}
	return v, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return mapRedisError(r.client.Set(ctx, key, value, 0).Err())
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return mapRedisError(r.client.Del(ctx, key).Err())
}

func (r *Redis) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, KeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, mapRedisError(err)
	}
	return keys, nil
}

func (r *Redis) Close() error { return r.client.Close() }

func mapRedisError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.Nil):
		return ErrNotFound
	case strings.HasPrefix(err.Error(), "OOM"):
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	default:
		return err
	}
}
