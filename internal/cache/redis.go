package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/actuallystonmai/movie-catalog-service/internal/domain"
)

const (
	defaultTTL = 10 * time.Minute
	keyPrefix  = "rec:age:"
)

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache stores recommendation results for ttl; zero means the default.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func buildKey(age int) string {
	return fmt.Sprintf("%s%d", keyPrefix, age)
}

// Get recommendation result for an age from cache
func (c *Cache) Get(ctx context.Context, age int) (*domain.RecommendationResult, bool, error) {
	key := buildKey(age)
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get recommendations from cache: %w", err)
	}

	var res domain.RecommendationResult
	if err := json.Unmarshal(val, &res); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal recommendations %s: %w", key, err)
	}
	return &res, true, nil
}

// Store recommendation result in cache
func (c *Cache) Set(ctx context.Context, age int, res *domain.RecommendationResult) error {
	val, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	if err := c.client.Set(ctx, buildKey(age), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set recommendations in cache: %w", err)
	}
	return nil
}

// Clear every cached result: used when the catalog changes
func (c *Cache) ClearRecommendations(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
