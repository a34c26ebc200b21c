package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"fitclub-backend/models"
)

const leaderboardTTL = 60 * time.Second

// LeaderboardCache is a read-through cache for the ranked leaderboard.
// A miss returns (nil, nil).
type LeaderboardCache interface {
	Get(ctx context.Context) ([]models.LeaderboardEntry, error)
	Set(ctx context.Context, entries []models.LeaderboardEntry) error
}

type redisLeaderboard struct{}

func NewLeaderboardCache() LeaderboardCache { return redisLeaderboard{} }

func (redisLeaderboard) Get(ctx context.Context) ([]models.LeaderboardEntry, error) {
	raw, err := client.Get(ctx, key("leaderboard", "top")).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []models.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (redisLeaderboard) Set(ctx context.Context, entries []models.LeaderboardEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return client.Set(ctx, key("leaderboard", "top"), raw, leaderboardTTL).Err()
}

// NoopLeaderboardCache always misses; used when Redis is not configured.
type NoopLeaderboardCache struct{}

func (NoopLeaderboardCache) Get(context.Context) ([]models.LeaderboardEntry, error) {
	return nil, nil
}
func (NoopLeaderboardCache) Set(context.Context, []models.LeaderboardEntry) error { return nil }
