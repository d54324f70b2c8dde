package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/vidtube/vidtube-api/internal/logger"
)

// ChannelStats are the denormalized subscription counts shown on a
// channel profile.
type ChannelStats struct {
	Subscribers  int64 `json:"subscribers"`
	SubscribedTo int64 `json:"subscribed_to"`
}

// ChannelStatsCacheRepository caches channel subscription counts in
// Redis. A miss or a Redis failure just falls through to SQL.
type ChannelStatsCacheRepository struct {
	client *redis.Client
	exp    time.Duration
}

func NewChannelStatsCacheRepository(client *redis.Client, expiration time.Duration) *ChannelStatsCacheRepository {
	return &ChannelStatsCacheRepository{client: client, exp: expiration}
}

func statsKey(userID uuid.UUID) string {
	return fmt.Sprintf("channel_stats:%s", userID)
}

// Get fetches cached stats for a user. Returns redis.Nil on a miss.
func (r *ChannelStatsCacheRepository) Get(ctx context.Context, userID uuid.UUID) (*ChannelStats, error) {
	key := statsKey(userID)

	val, err := r.client.Get(ctx, key).Result()

	logger.Log.Infow("channel stats cache read",
		"key", key,
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	var stats ChannelStats
	if err := json.Unmarshal([]byte(val), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Set caches stats for a user with the configured TTL.
func (r *ChannelStatsCacheRepository) Set(ctx context.Context, userID uuid.UUID, stats ChannelStats) error {
	key := statsKey(userID)

	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	err = r.client.Set(ctx, key, data, r.exp).Err()

	logger.Log.Infow("channel stats cache write",
		"key", key,
		"stats", stats,
		"error", err,
	)
	return err
}

// Invalidate drops the cached stats for the given users. Called after a
// subscription toggle for both sides of the relation.
func (r *ChannelStatsCacheRepository) Invalidate(ctx context.Context, userIDs ...uuid.UUID) error {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, statsKey(id))
	}
	err := r.client.Del(ctx, keys...).Err()

	logger.Log.Infow("channel stats cache invalidate",
		"keys", keys,
		"error", err,
	)
	return err
}
