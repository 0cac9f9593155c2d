package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/jwalitptl/clinicdesk/internal/storage"
)

type Config struct {
	URL          string
	KeyPrefix    string
	MaxRetries   int
	RetryBackoff time.Duration
	PoolSize     int
	MinIdleConns int
}

// Backend keeps each collection as one Redis string under KeyPrefix+key.
type Backend struct {
	client *redis.Client
	cb     *gobreaker.CircuitBreaker
	prefix string
}

func NewBackend(config Config) (*Backend, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Configure connection pooling
	if config.MaxRetries > 0 {
		opts.MaxRetries = config.MaxRetries
	}
	if config.RetryBackoff > 0 {
		opts.MinRetryBackoff = config.RetryBackoff
	}
	if config.PoolSize > 0 {
		opts.PoolSize = config.PoolSize
	}
	opts.MinIdleConns = config.MinIdleConns

	client := redis.NewClient(opts)

	// Test connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewBackendWithClient(client, config.KeyPrefix), nil
}

// NewBackendWithClient wraps an existing client; the caller owns its lifecycle
// until Close.
func NewBackendWithClient(client *redis.Client, prefix string) *Backend {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-store",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Backend{client: client, cb: cb, prefix: prefix}
}

func (b *Backend) Get(ctx context.Context, key string) (string, error) {
	absent := false
	v, err := b.cb.Execute(func() (interface{}, error) {
		val, err := b.client.Get(ctx, b.prefix+key).Result()
		if errors.Is(err, redis.Nil) {
			absent = true
			return "", nil
		}
		return val, err
	})
	if err != nil {
		return "", err
	}
	if absent {
		return "", storage.ErrAbsent
	}
	return v.(string), nil
}

func (b *Backend) Set(ctx context.Context, key, value string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.client.Set(ctx, b.prefix+key, value, 0).Err()
	})
	return err
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.client.Del(ctx, b.prefix+key).Err()
	})
	return err
}

func (b *Backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Client exposes the connection so the reminder broker can share it.
func (b *Backend) Client() *redis.Client {
	return b.client
}

func (b *Backend) Close() error {
	return b.client.Close()
}
