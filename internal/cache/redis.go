package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ASB-05/LearnHubPro/internal/config"
	"github.com/ASB-05/LearnHubPro/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

type RedisHistoryCache struct {
	client *redis.Client
	prefix string
}

func NewRedisHistoryCache(cfg config.RedisConfig, prefix string) (*RedisHistoryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisHistoryCache{
		client: client,
		prefix: prefix,
	}, nil
}

func (c *RedisHistoryCache) BuildKey(before string, limit int) string {
	if before == "" {
		before = "latest"
	}
	return fmt.Sprintf("%s:%s:%d", c.prefix, before, limit)
}

func (c *RedisHistoryCache) Get(ctx context.Context, key string) (*domain.HistoryPage, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var page domain.HistoryPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached page: %w", err)
	}

	return &page, nil
}

func (c *RedisHistoryCache) Set(ctx context.Context, key string, page *domain.HistoryPage, ttl time.Duration) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to marshal page: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}

	return nil
}

func (c *RedisHistoryCache) Close() error {
	return c.client.Close()
}
