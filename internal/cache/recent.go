package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skyfinder/skyfinder/internal/model"
)

const (
	// recentPrefix is the Redis key prefix for per-user recent-search lists.
	recentPrefix = "recent:"
	// RecentTTL is how long an idle history is kept.
	RecentTTL = 30 * 24 * time.Hour
)

// pushRecentScript drops any entry for the same route, pushes the new entry
// to the head, trims to the cap and refreshes the TTL, all atomically.
var pushRecentScript = redis.NewScript(`
	local key = KEYS[1]
	local entry = ARGV[1]
	local origin = ARGV[2]
	local destination = ARGV[3]
	local cap = tonumber(ARGV[4])
	local ttl = tonumber(ARGV[5])

	local items = redis.call('LRANGE', key, 0, -1)
	for _, raw in ipairs(items) do
		local ok, decoded = pcall(cjson.decode, raw)
		if not ok or (decoded.originCode == origin and decoded.destinationCode == destination) then
			redis.call('LREM', key, 0, raw)
		end
	end

	redis.call('LPUSH', key, entry)
	redis.call('LTRIM', key, 0, cap - 1)
	redis.call('EXPIRE', key, ttl)

	return redis.call('LRANGE', key, 0, -1)
`)

// ListRecent returns a user's recent searches, newest first.
func (c *Cache) ListRecent(ctx context.Context, userID string) ([]model.RecentSearch, error) {
	items, err := c.client.LRange(ctx, recentKey(userID), 0, model.MaxRecentSearches-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list recent searches: %w", err)
	}
	return decodeRecent(items), nil
}

// PushRecent records a search and returns the updated list.
func (c *Cache) PushRecent(ctx context.Context, userID string, entry model.RecentSearch) ([]model.RecentSearch, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recent search: %w", err)
	}

	items, err := pushRecentScript.Run(ctx, c.client,
		[]string{recentKey(userID)},
		string(data),
		entry.OriginCode,
		entry.DestinationCode,
		model.MaxRecentSearches,
		int64(RecentTTL.Seconds()),
	).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to push recent search: %w", err)
	}
	return decodeRecent(items), nil
}

// ClearRecent deletes a user's history.
func (c *Cache) ClearRecent(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, recentKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear recent searches: %w", err)
	}
	return nil
}

func recentKey(userID string) string {
	return recentPrefix + userID
}

// decodeRecent skips entries that no longer parse.
func decodeRecent(items []string) []model.RecentSearch {
	out := make([]model.RecentSearch, 0, len(items))
	for _, raw := range items {
		var r model.RecentSearch
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}
