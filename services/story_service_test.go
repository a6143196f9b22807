package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snaptika-api/errs"
	"snaptika-api/models"
)

func createStory(t *testing.T, env *testEnv, authorID string) *models.Story {
	t.Helper()

	story, err := env.stories.Create(context.Background(), authorID, CreateStoryInput{
		MediaUrl:  "https://cdn.example.com/story.jpg",
		MediaType: "IMAGE",
	})
	require.NoError(t, err)
	return story
}

func expireStory(t *testing.T, env *testEnv, storyID string) {
	t.Helper()
	require.NoError(t, env.db.Model(&models.Story{}).Where("id = ?", storyID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)
}

func TestStoryExpiresAfterLifetime(t *testing.T) {
	env := newTestEnv(t)

	author := env.createUser(t, "author")
	story := createStory(t, env, author.ID)

	assert.WithinDuration(t, time.Now().Add(24*time.Hour), story.ExpiresAt, time.Minute)
}

func TestExpiredStoryIsInvisible(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "author")
	viewer := env.createUser(t, "viewer")
	env.follow(t, viewer.ID, author.ID)

	live := createStory(t, env, author.ID)
	expired := createStory(t, env, author.ID)
	expireStory(t, env, expired.ID)

	listing, err := env.stories.FindAll(ctx, viewer.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, listing.Stories, 1)
	assert.Equal(t, live.ID, listing.Stories[0].ID)

	_, err = env.stories.FindOne(ctx, expired.ID, viewer.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	assert.ErrorIs(t, env.stories.View(ctx, expired.ID, viewer.ID), errs.ErrNotFound)
}

func TestStoriesListingRestrictedToFollowed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	viewer := env.createUser(t, "viewer")
	followed := env.createUser(t, "followed")
	stranger := env.createUser(t, "stranger")
	env.follow(t, viewer.ID, followed.ID)

	fromFollowed := createStory(t, env, followed.ID)
	createStory(t, env, stranger.ID)
	own := createStory(t, env, viewer.ID)

	listing, err := env.stories.FindAll(ctx, viewer.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, listing.Stories, 2)

	ids := []string{listing.Stories[0].ID, listing.Stories[1].ID}
	assert.Contains(t, ids, fromFollowed.ID)
	assert.Contains(t, ids, own.ID)
}

func TestStoryViewCountsOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "author")
	viewer := env.createUser(t, "viewer")
	story := createStory(t, env, author.ID)

	require.NoError(t, env.stories.View(ctx, story.ID, viewer.ID))
	require.NoError(t, env.stories.View(ctx, story.ID, viewer.ID))

	var reloaded models.Story
	require.NoError(t, env.db.First(&reloaded, "id = ?", story.ID).Error)
	assert.Equal(t, 1, reloaded.ViewsCount)
}

func TestStoryViewersOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "author")
	viewer := env.createUser(t, "viewer")
	story := createStory(t, env, author.ID)
	require.NoError(t, env.stories.View(ctx, story.ID, viewer.ID))

	_, err := env.stories.Viewers(ctx, story.ID, viewer.ID, 0, 20)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	viewers, err := env.stories.Viewers(ctx, story.ID, author.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, viewers, 1)
	assert.Equal(t, viewer.ID, viewers[0].ID)
}

func TestRemoveStoryOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "author")
	stranger := env.createUser(t, "stranger")
	story := createStory(t, env, author.ID)

	assert.ErrorIs(t, env.stories.Remove(ctx, story.ID, stranger.ID), errs.ErrForbidden)
	require.NoError(t, env.stories.Remove(ctx, story.ID, author.ID))

	var count int64
	require.NoError(t, env.db.Model(&models.Story{}).Where("id = ?", story.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCleanupExpiredRemovesStoriesAndViews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "author")
	viewer := env.createUser(t, "viewer")

	live := createStory(t, env, author.ID)
	expired := createStory(t, env, author.ID)
	require.NoError(t, env.stories.View(ctx, expired.ID, viewer.ID))
	expireStory(t, env, expired.ID)

	removed, err := env.stories.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	var stories int64
	require.NoError(t, env.db.Model(&models.Story{}).Count(&stories).Error)
	assert.EqualValues(t, 1, stories)

	var views int64
	require.NoError(t, env.db.Model(&models.StoryView{}).Where("story_id = ?", expired.ID).Count(&views).Error)
	assert.Zero(t, views)

	var remaining models.Story
	require.NoError(t, env.db.First(&remaining, "id = ?", live.ID).Error)
}
