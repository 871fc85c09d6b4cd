package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/sangkips/restaurant-pos/internal/config"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
)

const summaryKeyPrefix = "pos:receipts:summary:"

type RedisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSummaryCache(cfg config.RedisConfig) *RedisSummaryCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ttl := cfg.SummaryTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisSummaryCache{client: client, ttl: ttl}
}

func (c *RedisSummaryCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisSummaryCache) Close() error {
	return c.client.Close()
}

func (c *RedisSummaryCache) Get(ctx context.Context, day string) (*entity.DailySummary, bool, error) {
	val, err := c.client.Get(ctx, summaryKey(day)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var summary entity.DailySummary
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		return nil, false, err
	}
	return &summary, true, nil
}

func (c *RedisSummaryCache) Set(ctx context.Context, day string, value *entity.DailySummary) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, summaryKey(day), payload, c.ttl).Err()
}

func (c *RedisSummaryCache) Invalidate(ctx context.Context, day string) error {
	return c.client.Del(ctx, summaryKey(day)).Err()
}

func summaryKey(day string) string {
	return summaryKeyPrefix + day
}
