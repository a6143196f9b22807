package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snaptika-api/errs"
	"snaptika-api/models"
)

func TestFollowMovesBothCounters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	require.NoError(t, env.users.Follow(ctx, alice.ID, bob.ID))

	var follower, followed models.User
	require.NoError(t, env.db.First(&follower, "id = ?", alice.ID).Error)
	require.NoError(t, env.db.First(&followed, "id = ?", bob.ID).Error)
	assert.Equal(t, 1, follower.FollowingCount)
	assert.Equal(t, 1, followed.FollowersCount)

	require.NoError(t, env.users.Unfollow(ctx, alice.ID, bob.ID))

	require.NoError(t, env.db.First(&follower, "id = ?", alice.ID).Error)
	require.NoError(t, env.db.First(&followed, "id = ?", bob.ID).Error)
	assert.Equal(t, 0, follower.FollowingCount)
	assert.Equal(t, 0, followed.FollowersCount)
}

func TestFollowSelfIsConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	assert.ErrorIs(t, env.users.Follow(ctx, alice.ID, alice.ID), errs.ErrConflict)
}

func TestFollowTwiceIsConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	require.NoError(t, env.users.Follow(ctx, alice.ID, bob.ID))
	assert.ErrorIs(t, env.users.Follow(ctx, alice.ID, bob.ID), errs.ErrConflict)

	var followed models.User
	require.NoError(t, env.db.First(&followed, "id = ?", bob.ID).Error)
	assert.Equal(t, 1, followed.FollowersCount)
}

func TestUnfollowWithoutEdgeIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	assert.ErrorIs(t, env.users.Unfollow(ctx, alice.ID, bob.ID), errs.ErrNotFound)
}

func TestFollowNotifiesTarget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	require.NoError(t, env.users.Follow(ctx, alice.ID, bob.ID))

	var notification models.Notification
	require.NoError(t, env.db.First(&notification, "receiver_id = ?", bob.ID).Error)
	assert.Equal(t, models.NotificationTypeFollow, notification.Type)
	require.NotNil(t, notification.SenderID)
	assert.Equal(t, alice.ID, *notification.SenderID)
}

func TestFindOneCarriesRelationFlags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	require.NoError(t, env.users.Follow(ctx, alice.ID, bob.ID))

	profile, err := env.users.FindOne(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsFollowing)
	assert.False(t, profile.IsFollowedBy)
	assert.Empty(t, profile.Password)

	reverse, err := env.users.FindOne(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, reverse.IsFollowing)
	assert.True(t, reverse.IsFollowedBy)
}

func TestInactiveUserIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	ghost := env.createUser(t, "ghost")
	require.NoError(t, env.db.Model(&ghost).Update("is_active", false).Error)

	_, err := env.users.FindOne(ctx, ghost.ID, alice.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	assert.ErrorIs(t, env.users.Follow(ctx, alice.ID, ghost.ID), errs.ErrNotFound)
}

func TestUpdateProfileUsernameConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	env.createUser(t, "bob")

	taken := "bob"
	_, err := env.users.UpdateProfile(ctx, alice.ID, UpdateProfileInput{Username: &taken})
	assert.ErrorIs(t, err, errs.ErrConflict)

	bio := "hello"
	updated, err := env.users.UpdateProfile(ctx, alice.ID, UpdateProfileInput{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.Bio)
	assert.Equal(t, "alice", updated.Username)
}

func TestFindAllSearchesActiveUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createUser(t, "alice")
	env.createUser(t, "alicia")
	ghost := env.createUser(t, "alistair")
	require.NoError(t, env.db.Model(&ghost).Update("is_active", false).Error)

	result, err := env.users.FindAll(ctx, "ali", 0, 20)
	require.NoError(t, err)
	assert.Len(t, result.Users, 2)
	assert.EqualValues(t, 2, result.Total)
}
