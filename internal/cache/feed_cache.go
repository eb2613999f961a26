package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"warbler/internal/model"
)

// FeedCache stores the rendered home timeline per viewer. A short-lived
// dirty marker is set when a write makes the timeline stale; while the
// marker lives, readers skip the cache and do not refill it, which keeps
// the asynchronous invalidation from racing a stale refill.
type FeedCache struct {
	client         *redisv9.Client
	feedTTL        time.Duration
	dirtyMarkerTTL time.Duration
}

func NewFeedCache(client *redisv9.Client, feedTTL, dirtyMarkerTTL time.Duration) *FeedCache {
	if feedTTL <= 0 {
		feedTTL = 60 * time.Second
	}
	if dirtyMarkerTTL <= 0 {
		dirtyMarkerTTL = 5 * time.Second
	}
	return &FeedCache{
		client:         client,
		feedTTL:        feedTTL,
		dirtyMarkerTTL: dirtyMarkerTTL,
	}
}

func (c *FeedCache) GetFeed(ctx context.Context, viewerID uint) ([]model.Message, bool, error) {
	key := c.feedKey(viewerID)
	raw, err := c.client.Get(ctx, key).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get feed failed: %w", err)
	}

	var messages []model.Message
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached feed failed: %w", err)
	}
	return messages, true, nil
}

func (c *FeedCache) SetFeed(ctx context.Context, viewerID uint, messages []model.Message) error {
	key := c.feedKey(viewerID)
	payload, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("marshal feed cache failed: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.feedTTL).Err(); err != nil {
		return fmt.Errorf("redis set feed failed: %w", err)
	}
	return nil
}

func (c *FeedCache) DeleteFeed(ctx context.Context, viewerID uint) error {
	key := c.feedKey(viewerID)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete feed failed: %w", err)
	}
	return nil
}

func (c *FeedCache) MarkDirty(ctx context.Context, viewerID uint) error {
	key := c.dirtyKey(viewerID)
	if err := c.client.Set(ctx, key, "1", c.dirtyMarkerTTL).Err(); err != nil {
		return fmt.Errorf("redis set dirty marker failed: %w", err)
	}
	return nil
}

func (c *FeedCache) IsDirty(ctx context.Context, viewerID uint) (bool, error) {
	key := c.dirtyKey(viewerID)
	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis check dirty marker failed: %w", err)
	}
	return exists > 0, nil
}

func (c *FeedCache) feedKey(viewerID uint) string {
	return fmt.Sprintf("feed:home:%d", viewerID)
}

func (c *FeedCache) dirtyKey(viewerID uint) string {
	return fmt.Sprintf("feed:home:dirty:%d", viewerID)
}
