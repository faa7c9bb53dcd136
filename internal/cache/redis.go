package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const publishedEventsKey = "events:published"

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisClient caches the public event listing as raw JSON so the hot read
// path skips both the database and re-marshalling.
type RedisClient struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(cfg Config) (*RedisClient, error) {
	if cfg.TTL == 0 {
		cfg.TTL = 60 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{client: rdb, ttl: cfg.TTL}, nil
}

// GetPublishedEvents returns the cached listing, or nil on a miss.
func (r *RedisClient) GetPublishedEvents(ctx context.Context) ([]byte, error) {
	raw, err := r.client.Get(ctx, publishedEventsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}

	return raw, nil
}

func (r *RedisClient) SetPublishedEvents(ctx context.Context, raw []byte) error {
	if err := r.client.Set(ctx, publishedEventsKey, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache store error: %w", err)
	}

	return nil
}

// InvalidatePublishedEvents drops the listing after an admin mutation.
func (r *RedisClient) InvalidatePublishedEvents(ctx context.Context) error {
	if err := r.client.Del(ctx, publishedEventsKey).Err(); err != nil {
		return fmt.Errorf("cache invalidate error: %w", err)
	}

	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
