package queue

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/zourte2486/school-platform-test/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMarkerStore(t *testing.T) (*MarkerStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	host, portStr, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Redis.Host = host
	cfg.Redis.Port = port
	cfg.Redis.PendingSet = "school:pending_uploads"

	client, err := NewRedisClient(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewMarkerStore(client, cfg), mr
}

func TestMarkerStore_AddAndClear(t *testing.T) {
	markers, mr := newTestMarkerStore(t)
	ctx := context.Background()

	require.NoError(t, markers.Add(ctx, "school-platform/a.jpg"))
	assert.True(t, mr.Exists("school:pending_uploads"))

	require.NoError(t, markers.Clear(ctx, "school-platform/a.jpg"))

	stale, err := markers.Stale(ctx, time.Now().Add(time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func TestMarkerStore_ClearUnknownLocator(t *testing.T) {
	markers, _ := newTestMarkerStore(t)

	assert.NoError(t, markers.Clear(context.Background(), "never-added.jpg"))
}

func TestMarkerStore_StaleRespectsCutoff(t *testing.T) {
	markers, _ := newTestMarkerStore(t)
	ctx := context.Background()

	require.NoError(t, markers.Add(ctx, "fresh.jpg"))

	// A marker is stale only once it predates the cutoff.
	stale, err := markers.Stale(ctx, time.Now().Add(-time.Minute), 10)
	require.NoError(t, err)
	assert.Empty(t, stale)

	stale, err = markers.Stale(ctx, time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh.jpg"}, stale)
}

func TestMarkerStore_StaleHonorsLimit(t *testing.T) {
	markers, _ := newTestMarkerStore(t)
	ctx := context.Background()

	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		require.NoError(t, markers.Add(ctx, name))
	}

	stale, err := markers.Stale(ctx, time.Now().Add(time.Minute), 2)
	require.NoError(t, err)
	assert.Len(t, stale, 2)
}

func TestMarkerStore_AddIsIdempotent(t *testing.T) {
	markers, _ := newTestMarkerStore(t)
	ctx := context.Background()

	require.NoError(t, markers.Add(ctx, "a.jpg"))
	require.NoError(t, markers.Add(ctx, "a.jpg"))

	stale, err := markers.Stale(ctx, time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg"}, stale)
}
