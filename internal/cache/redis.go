package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"studio/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores listings under courses:list:{userID}:{query}.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func listKey(userID, query string) string {
	return fmt.Sprintf("courses:list:%s:%s", userID, query)
}

func (c *RedisCache) Get(ctx context.Context, userID, query string) ([]model.Course, bool, error) {
	data, err := c.rdb.Get(ctx, listKey(userID, query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read course list cache: %w", err)
	}
	var courses []model.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached course list: %w", err)
	}
	return courses, true, nil
}

func (c *RedisCache) Set(ctx context.Context, userID, query string, courses []model.Course) error {
	data, err := json.Marshal(courses)
	if err != nil {
		return fmt.Errorf("failed to encode course list: %w", err)
	}
	if err := c.rdb.Set(ctx, listKey(userID, query), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write course list cache: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, userID string) error {
	iter := c.rdb.Scan(ctx, 0, fmt.Sprintf("courses:list:%s:*", userID), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan course list cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate course list cache: %w", err)
	}
	return nil
}
