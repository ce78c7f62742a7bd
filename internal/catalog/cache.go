package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by MenuCache.Get when no menu is cached.
var ErrCacheMiss = errors.New("menu cache miss")

const menuCacheKey = "pos:menu"

// MenuCache keeps the assembled menu in Redis so registers don't scan the
// catalog tables on every request. TTL gets a small jitter to avoid all
// registers refreshing at once.
type MenuCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewMenuCache(client *redis.Client) *MenuCache {
	return &MenuCache{
		client:  client,
		baseTTL: 10 * time.Minute,
	}
}

func (c *MenuCache) Get(ctx context.Context) (*Menu, error) {
	data, err := c.client.Get(ctx, menuCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var menu Menu
	if err := json.Unmarshal(data, &menu); err != nil {
		return nil, fmt.Errorf("unmarshal menu failed: %w", err)
	}
	return &menu, nil
}

func (c *MenuCache) Set(ctx context.Context, menu *Menu) error {
	data, err := json.Marshal(menu)
	if err != nil {
		return fmt.Errorf("marshal menu failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(60)) * time.Second
	if err := c.client.Set(ctx, menuCacheKey, data, c.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Invalidate drops the cached menu; the next Get will miss.
func (c *MenuCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, menuCacheKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
