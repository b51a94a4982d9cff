package repository

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/mlee0412/frok-server/internal/model"
)

// MessageCache is the per-thread message cache. Entries live until they are
// explicitly invalidated by a write or reload; there is no background
// expiry, matching the lazy-load-and-cache lifecycle of thread messages.
type MessageCache interface {
	Get(ctx context.Context, threadID string) ([]model.Message, bool)
	Set(ctx context.Context, threadID string, messages []model.Message)
	Invalidate(ctx context.Context, threadID string)
}

type redisMessageCache struct {
	rdb *redis.Client
}

func NewRedisMessageCache(rdb *redis.Client) MessageCache {
	return &redisMessageCache{rdb: rdb}
}

func cacheKey(threadID string) string {
	return "thread:" + threadID + ":messages"
}

func (c *redisMessageCache) Get(ctx context.Context, threadID string) ([]model.Message, bool) {
	val, err := c.rdb.Get(ctx, cacheKey(threadID)).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("Message cache read failed", "thread_id", threadID, "error", err)
		}
		return nil, false
	}

	var messages []model.Message
	if err := json.Unmarshal([]byte(val), &messages); err != nil {
		slog.Warn("Dropping corrupt message cache entry", "thread_id", threadID, "error", err)
		c.Invalidate(ctx, threadID)
		return nil, false
	}
	return messages, true
}

func (c *redisMessageCache) Set(ctx context.Context, threadID string, messages []model.Message) {
	val, err := json.Marshal(messages)
	if err != nil {
		slog.Warn("Could not marshal messages for cache", "thread_id", threadID, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(threadID), val, 0).Err(); err != nil {
		slog.Warn("Message cache write failed", "thread_id", threadID, "error", err)
	}
}

func (c *redisMessageCache) Invalidate(ctx context.Context, threadID string) {
	if err := c.rdb.Del(ctx, cacheKey(threadID)).Err(); err != nil {
		slog.Warn("Message cache invalidation failed", "thread_id", threadID, "error", err)
	}
}

// noopMessageCache is used when no Redis address is configured; every read
// is a miss and the repository is always consulted.
type noopMessageCache struct{}

func NewNoopMessageCache() MessageCache {
	return noopMessageCache{}
}

func (noopMessageCache) Get(ctx context.Context, threadID string) ([]model.Message, bool) {
	return nil, false
}
func (noopMessageCache) Set(ctx context.Context, threadID string, messages []model.Message) {}
func (noopMessageCache) Invalidate(ctx context.Context, threadID string)                    {}
