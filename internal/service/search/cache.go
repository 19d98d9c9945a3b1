package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/programpal/pathfinder/internal/model"
	"github.com/redis/go-redis/v9"
)

// Cache stores complete search responses. Errors are handled inside:
// a broken cache behaves like an empty one.
type Cache interface {
	Get(ctx context.Context, query string) (*model.SearchResponse, bool)
	Set(ctx context.Context, query string, resp *model.SearchResponse, ttl time.Duration)
}

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to a redis:// URL and verifies the connection.
func NewRedisCache(ctx context.Context, redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// cacheKey ignores surrounding whitespace only. The cached summary quotes the
// query, so differently cased queries are kept apart.
func cacheKey(query string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(query)))
	return "search:v2:" + hex.EncodeToString(sum[:])
}

func (c *RedisCache) Get(ctx context.Context, query string) (*model.SearchResponse, bool) {
	data, err := c.client.Get(ctx, cacheKey(query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("search cache read failed", "error", err)
		return nil, false
	}

	var resp model.SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		slog.Warn("search cache entry unreadable", "error", err)
		return nil, false
	}
	return &resp, true
}

func (c *RedisCache) Set(ctx context.Context, query string, resp *model.SearchResponse, ttl time.Duration) {
	data, err := json.Marshal(resp)
	if err != nil {
		slog.Warn("search cache encode failed", "error", err)
		return
	}

	err = c.client.Set(ctx, cacheKey(query), data, ttl).Err()
	if err != nil {
		slog.Warn("search cache write failed", "error", err)
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
