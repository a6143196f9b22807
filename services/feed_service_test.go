package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFeedFollowedPostsComeFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	viewer := env.createUser(t, "viewer")
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	env.follow(t, viewer.ID, alice.ID)
	env.follow(t, viewer.ID, bob.ID)

	now := time.Now()
	// Carol's post is wildly popular but she is not followed; it must still
	// rank below every followed post.
	trending := env.createPost(t, carol.ID, now.Add(-time.Hour), 5000)
	older := env.createPost(t, alice.ID, now.Add(-3*time.Hour), 1)
	newer := env.createPost(t, bob.ID, now.Add(-time.Minute), 0)

	feed, err := env.feeds.GetFeed(ctx, viewer.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 3)

	assert.Equal(t, newer.ID, feed.Posts[0].ID)
	assert.Equal(t, older.ID, feed.Posts[1].ID)
	assert.Equal(t, trending.ID, feed.Posts[2].ID)
}

func TestGetFeedFillsTrailingSlotsWithTrending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	viewer := env.createUser(t, "viewer")
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")
	env.follow(t, viewer.ID, alice.ID)
	env.follow(t, viewer.ID, bob.ID)

	now := time.Now()
	followedPosts := []string{
		env.createPost(t, alice.ID, now.Add(-time.Minute), 0).ID,
		env.createPost(t, alice.ID, now.Add(-2*time.Hour), 3).ID,
		env.createPost(t, bob.ID, now.Add(-time.Hour), 1).ID,
	}
	hot := env.createPost(t, carol.ID, now.Add(-3*time.Hour), 90)
	warm := env.createPost(t, carol.ID, now.Add(-time.Hour), 40)
	env.createPost(t, carol.ID, now.Add(-2*time.Hour), 10)

	feed, err := env.feeds.GetFeed(ctx, viewer.ID, 0, 5)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 5)

	// Followed posts fill the head newest-first, then trending by likes.
	assert.Equal(t, followedPosts[0], feed.Posts[0].ID)
	assert.Equal(t, followedPosts[2], feed.Posts[1].ID)
	assert.Equal(t, followedPosts[1], feed.Posts[2].ID)
	assert.Equal(t, hot.ID, feed.Posts[3].ID)
	assert.Equal(t, warm.ID, feed.Posts[4].ID)
}

func TestGetFeedHasNoDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	viewer := env.createUser(t, "viewer")
	authors := []string{
		env.createUser(t, "author1").ID,
		env.createUser(t, "author2").ID,
		env.createUser(t, "author3").ID,
	}
	env.follow(t, viewer.ID, authors[0])

	now := time.Now()
	for i, author := range authors {
		for j := 0; j < 5; j++ {
			env.createPost(t, author, now.Add(-time.Duration(i*5+j)*time.Minute), j*10)
		}
	}

	feed, err := env.feeds.GetFeed(ctx, viewer.ID, 0, 20)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, post := range feed.Posts {
		assert.False(t, seen[post.ID], "post %s appears twice", post.ID)
		seen[post.ID] = true
	}
}

func TestGetFeedEmptyFollowSetIsTrendingOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	viewer := env.createUser(t, "viewer")
	author := env.createUser(t, "author")

	now := time.Now()
	popular := env.createPost(t, author.ID, now.Add(-2*time.Hour), 100)
	quiet := env.createPost(t, author.ID, now.Add(-time.Hour), 2)
	// Outside the trending window, never shown to a viewer with no follows.
	env.createPost(t, author.ID, now.Add(-8*24*time.Hour), 9999)

	feed, err := env.feeds.GetFeed(ctx, viewer.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 2)

	assert.Equal(t, popular.ID, feed.Posts[0].ID)
	assert.Equal(t, quiet.ID, feed.Posts[1].ID)
}

func TestGetFeedExcludesViewerOwnPostsFromTrending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	viewer := env.createUser(t, "viewer")
	env.createPost(t, viewer.ID, time.Now().Add(-time.Hour), 500)

	feed, err := env.feeds.GetFeed(ctx, viewer.ID, 0, 20)
	require.NoError(t, err)
	assert.Empty(t, feed.Posts)
}

func TestGetFeedExcludesArchivedAndInactiveAuthors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	viewer := env.createUser(t, "viewer")
	alice := env.createUser(t, "alice")
	ghost := env.createUser(t, "ghost")
	env.follow(t, viewer.ID, alice.ID)
	env.follow(t, viewer.ID, ghost.ID)

	now := time.Now()
	visible := env.createPost(t, alice.ID, now.Add(-time.Minute), 0)
	archived := env.createPost(t, alice.ID, now, 0)
	require.NoError(t, env.db.Model(&archived).Update("is_archived", true).Error)

	env.createPost(t, ghost.ID, now, 50)
	require.NoError(t, env.db.Model(&ghost).Update("is_active", false).Error)

	feed, err := env.feeds.GetFeed(ctx, viewer.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, visible.ID, feed.Posts[0].ID)
}

func TestGetFeedServesFirstPageFromCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	viewer := env.createUser(t, "viewer")
	alice := env.createUser(t, "alice")
	env.follow(t, viewer.ID, alice.ID)
	env.createPost(t, alice.ID, time.Now().Add(-time.Minute), 0)

	first, err := env.feeds.GetFeed(ctx, viewer.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, first.Posts, 1)

	// Write behind the cache's back; the snapshot must still be served.
	env.createPost(t, alice.ID, time.Now(), 0)

	second, err := env.feeds.GetFeed(ctx, viewer.ID, 0, 20)
	require.NoError(t, err)
	assert.Len(t, second.Posts, 1)
}

func TestGetFeedNonZeroOffsetBypassesCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	viewer := env.createUser(t, "viewer")
	alice := env.createUser(t, "alice")
	env.follow(t, viewer.ID, alice.ID)

	now := time.Now()
	for i := 0; i < 5; i++ {
		env.createPost(t, alice.ID, now.Add(-time.Duration(i)*time.Minute), 0)
	}

	_, err := env.feeds.GetFeed(ctx, viewer.ID, 0, 2)
	require.NoError(t, err)

	latest := env.createPost(t, alice.ID, now.Add(time.Minute), 0)

	// Offset pages always recompute, so the brand-new post shifts them.
	page, err := env.feeds.GetFeed(ctx, viewer.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.NotEqual(t, latest.ID, page.Posts[0].ID)
	assert.True(t, page.HasMore)
}

func TestNewPostInvalidatesFollowerFeeds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	viewer := env.createUser(t, "viewer")
	alice := env.createUser(t, "alice")
	env.follow(t, viewer.ID, alice.ID)
	env.createPost(t, alice.ID, time.Now().Add(-time.Hour), 0)

	first, err := env.feeds.GetFeed(ctx, viewer.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, first.Posts, 1)

	created, err := env.posts.Create(ctx, alice.ID, CreatePostInput{
		MediaUrls: []string{"https://cdn.example.com/new.jpg"},
		MediaType: "IMAGE",
	})
	require.NoError(t, err)

	second, err := env.feeds.GetFeed(ctx, viewer.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, second.Posts, 2)
	assert.Equal(t, created.ID, second.Posts[0].ID)
}

func TestGetFeedAnnotatesEngagement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	viewer := env.createUser(t, "viewer")
	alice := env.createUser(t, "alice")
	env.follow(t, viewer.ID, alice.ID)

	liked := env.createPost(t, alice.ID, time.Now().Add(-time.Minute), 0)
	plain := env.createPost(t, alice.ID, time.Now().Add(-2*time.Minute), 0)

	require.NoError(t, env.posts.Like(ctx, liked.ID, viewer.ID))
	require.NoError(t, env.posts.View(ctx, liked.ID, viewer.ID, 30))

	feed, err := env.feeds.GetFeed(ctx, viewer.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 2)

	for _, post := range feed.Posts {
		switch post.ID {
		case liked.ID:
			assert.True(t, post.IsLiked)
			assert.True(t, post.IsViewed)
		case plain.ID:
			assert.False(t, post.IsLiked)
			assert.False(t, post.IsViewed)
		}
	}
}

func TestGetFeedAnonymousViewer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "author")
	env.createPost(t, author.ID, time.Now().Add(-time.Hour), 10)

	feed, err := env.feeds.GetFeed(ctx, "", 0, 20)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 1)
	assert.False(t, feed.Posts[0].IsLiked)
	assert.False(t, feed.Posts[0].IsViewed)
}
