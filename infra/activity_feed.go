package infra

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tnqbao/gau-bucket-list/entity"
)

const ActivityFeedKey = "bucket_items:activity"

// ActivityFeed keeps the most recent item events in a capped Redis list, newest first.
type ActivityFeed struct {
	redis *RedisClient
	limit int64
}

func NewActivityFeed(redis *RedisClient, limit int64) *ActivityFeed {
	if limit <= 0 {
		limit = 50
	}
	return &ActivityFeed{redis: redis, limit: limit}
}

func (f *ActivityFeed) Record(ctx context.Context, activity entity.ItemActivity) error {
	data, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("failed to marshal activity: %w", err)
	}
	if err := f.redis.PushCapped(ctx, ActivityFeedKey, data, f.limit); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

func (f *ActivityFeed) Recent(ctx context.Context, n int64) ([]entity.ItemActivity, error) {
	if n <= 0 || n > f.limit {
		n = f.limit
	}

	raw, err := f.redis.Range(ctx, ActivityFeedKey, 0, n-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read activity: %w", err)
	}

	activities := make([]entity.ItemActivity, 0, len(raw))
	for _, entry := range raw {
		var activity entity.ItemActivity
		if err := json.Unmarshal([]byte(entry), &activity); err != nil {
			return nil, fmt.Errorf("failed to decode activity entry: %w", err)
		}
		activities = append(activities, activity)
	}
	return activities, nil
}

func (f *ActivityFeed) Limit() int64 {
	return f.limit
}
