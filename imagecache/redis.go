package imagecache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis shares rendered images between server instances.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures a Redis cache.
type RedisOption func(*Redis)

// WithPrefix namespaces keys (default "sitegen:og:").
func WithPrefix(p string) RedisOption {
	return func(r *Redis) { r.prefix = p }
}

// WithTTL expires entries after d. Zero keeps them forever.
func WithTTL(d time.Duration) RedisOption {
	return func(r *Redis) { r.ttl = d }
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	r := &Redis{client: client, prefix: "sitegen:og:"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OpenRedis connects to the server at url (redis://...) and checks it is
// reachable.
func OpenRedis(ctx context.Context, url string, opts ...RedisOption) (*Redis, error) {
	o, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("imagecache: redis: %w", err)
	}
	client := redis.NewClient(o)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("imagecache: redis ping: %w", err)
	}
	return NewRedis(client, opts...), nil
}

// Get implements Backend.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("imagecache: redis get: %w", err)
	}
	return data, true, nil
}

// Put implements Backend.
func (r *Redis) Put(ctx context.Context, key string, png []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, png, r.ttl).Err(); err != nil {
		return fmt.Errorf("imagecache: redis put: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
