package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// FriendSnapshot contains the minimal user info rendered on friend-list pages.
type FriendSnapshot struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// FriendsCache is a read-through cache for paginated friend lists.
// Pages are stored as JSON blobs keyed by (user, page, size) and dropped
// wholesale when the user's friend set changes.
type FriendsCache struct {
	cache *redis.Client
	ttl   time.Duration
}

func NewFriendsCache(cache *redis.Client, ttl time.Duration) *FriendsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &FriendsCache{cache: cache, ttl: ttl}
}

func pageKey(userID string, page, size int) string {
	return fmt.Sprintf("friends:%s:%d:%d", userID, page, size)
}

// GetPage returns the cached page, or (nil, false) on a miss.
func (c *FriendsCache) GetPage(ctx context.Context, userID string, page, size int) ([]FriendSnapshot, bool) {
	data, err := c.cache.Get(ctx, pageKey(userID, page, size)).Bytes()
	if err != nil {
		return nil, false
	}
	var out []FriendSnapshot
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (c *FriendsCache) SetPage(ctx context.Context, userID string, page, size int, rows []FriendSnapshot) {
	payload, err := json.Marshal(rows)
	if err != nil {
		return
	}
	_ = c.cache.Set(ctx, pageKey(userID, page, size), payload, c.ttl).Err()
}

// Invalidate drops every cached page for the user. Errors are ignored:
// a stale page expires via TTL anyway.
func (c *FriendsCache) Invalidate(ctx context.Context, userID string) {
	var cursor uint64
	match := fmt.Sprintf("friends:%s:*", userID)
	for {
		keys, next, err := c.cache.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return
		}
		if len(keys) > 0 {
			_ = c.cache.Del(ctx, keys...).Err()
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}
