package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"snaptika-api/models"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	redis := miniredis.RunT(t)
	redisClient, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:       []string{redis.Addr()},
		DisableCache:      true,
		ForceSingleClient: true,
	})
	require.NoError(t, err)
	t.Cleanup(redisClient.Close)

	return NewWithClient(redisClient, zap.NewNop()), redis
}

func TestGetSetWithTTL(t *testing.T) {
	client, redis := newTestClient(t)
	ctx := context.Background()

	_, ok, err := client.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, client.Set(ctx, "key", "value", time.Minute))

	value, ok, err := client.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "value", value)

	redis.FastForward(2 * time.Minute)

	_, ok, err = client.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDel(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "a", "1", 0))
	require.NoError(t, client.Set(ctx, "b", "2", 0))
	require.NoError(t, client.Del(ctx, "a", "b"))

	exists, err := client.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCheckRateLimit(t *testing.T) {
	client, redis := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := client.CheckRateLimit(ctx, "create_post:user1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := client.CheckRateLimit(ctx, "create_post:user1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	// Another user has an independent counter.
	allowed, err = client.CheckRateLimit(ctx, "create_post:user2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	redis.FastForward(2 * time.Minute)

	allowed, err = client.CheckRateLimit(ctx, "create_post:user1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestFeedRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	posts := []models.PostWithStatus{
		{Post: models.Post{ID: "p1", AuthorID: "a1"}, IsLiked: true},
		{Post: models.Post{ID: "p2", AuthorID: "a2"}},
	}

	require.NoError(t, client.CacheFeed(ctx, "viewer", posts, time.Minute))

	cached, ok, err := client.CachedFeed(ctx, "viewer")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, cached, 2)
	assert.Equal(t, "p1", cached[0].ID)
	assert.True(t, cached[0].IsLiked)
}

func TestCachedFeedDropsCorruptEntry(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "feed:viewer", "{not json", time.Minute))

	cached, ok, err := client.CachedFeed(ctx, "viewer")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, cached)

	// The corrupt entry is gone for good.
	exists, err := client.Exists(ctx, "feed:viewer")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInvalidateFeeds(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	posts := []models.PostWithStatus{{Post: models.Post{ID: "p1"}}}
	require.NoError(t, client.CacheFeed(ctx, "v1", posts, time.Minute))
	require.NoError(t, client.CacheFeed(ctx, "v2", posts, time.Minute))

	require.NoError(t, client.InvalidateFeeds(ctx, "v1", "v2"))

	_, ok, err := client.CachedFeed(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = client.CachedFeed(ctx, "v2")
	require.NoError(t, err)
	assert.False(t, ok)

	// No-op with no viewers.
	require.NoError(t, client.InvalidateFeeds(ctx))
}
