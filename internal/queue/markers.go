package queue

import (
	"context"
	"strconv"
	"time"

	"github.com/zourte2486/school-platform-test/internal/config"

	"github.com/go-redis/redis/v8"
)

// MarkerStore tracks blob locators whose ingestion has not committed yet.
// The ingestion pipeline adds a marker right after a successful upload and
// clears it once the record insert commits; whatever is left past the grace
// period is an orphan candidate for the reconciler.
//
// Markers live in a sorted set scored by upload time, so the sweep is a
// single range query and clearing by locator is exact.
type MarkerStore struct {
	client *redis.Client
	set    string
}

func NewMarkerStore(redisClient *RedisClient, cfg *config.Config) *MarkerStore {
	return &MarkerStore{
		client: redisClient.Client(),
		set:    cfg.Redis.PendingSet,
	}
}

func (m *MarkerStore) Add(ctx context.Context, locator string) error {
	return m.client.ZAdd(ctx, m.set, &redis.Z{
		Score:  float64(time.Now().Unix()),
		Member: locator,
	}).Err()
}

func (m *MarkerStore) Clear(ctx context.Context, locator string) error {
	return m.client.ZRem(ctx, m.set, locator).Err()
}

// Stale returns up to limit locators whose markers are older than the
// cutoff, oldest first.
func (m *MarkerStore) Stale(ctx context.Context, cutoff time.Time, limit int64) ([]string, error) {
	return m.client.ZRangeByScore(ctx, m.set, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(cutoff.Unix(), 10),
		Count: limit,
	}).Result()
}
