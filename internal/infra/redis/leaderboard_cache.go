package redis

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"champion-quiz/internal/domain"
	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

// LeaderboardCache keeps recently fetched leaderboard pages for a short
// while. It is never authoritative; a submission invalidates it.
type LeaderboardCache struct {
	cache  *cache.Cache
	client *redis.Client
	prefix string
}

// NewLeaderboardCache optionally adds an in-process TinyLFU layer in front of Redis.
func NewLeaderboardCache(client *redis.Client, withLocalCache bool) *LeaderboardCache {
	var local cache.LocalCache
	if withLocalCache {
		local = cache.NewTinyLFU(100, time.Minute)
	}
	return &LeaderboardCache{
		cache: cache.New(&cache.Options{
			Redis:      client,
			LocalCache: local,
		}),
		client: client,
		prefix: "leaderboard:rows:",
	}
}

func (c *LeaderboardCache) key(limit int) string {
	return c.prefix + strconv.Itoa(limit)
}

func (c *LeaderboardCache) GetRows(ctx context.Context, limit int) ([]domain.LeaderboardRow, bool) {
	var rows []domain.LeaderboardRow
	err := c.cache.Get(ctx, c.key(limit), &rows)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("leaderboard cache: get: %v", err)
		}
		return nil, false
	}
	return rows, true
}

func (c *LeaderboardCache) SetRows(ctx context.Context, limit int, rows []domain.LeaderboardRow, ttl time.Duration) {
	// fire and forget
	err := c.cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   c.key(limit),
		Value: rows,
		TTL:   ttl,
	})
	if err != nil {
		log.Printf("leaderboard cache: set: %v", err)
	}
}

// Invalidate drops every cached page.
func (c *LeaderboardCache) Invalidate(ctx context.Context) {
	keys, err := c.client.Keys(ctx, c.prefix+"*").Result()
	if err != nil {
		log.Printf("leaderboard cache: list keys: %v", err)
		return
	}
	for _, key := range keys {
		_ = c.cache.Delete(ctx, key)
	}
}
