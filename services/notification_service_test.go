package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snaptika-api/errs"
	"snaptika-api/models"
)

func TestNotificationsUnreadCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	receiver := env.createUser(t, "receiver")
	sender := env.createUser(t, "sender")

	for i := 0; i < 3; i++ {
		require.NoError(t, env.notifications.Create(ctx, models.Notification{
			ReceiverID: receiver.ID,
			SenderID:   &sender.ID,
			Type:       models.NotificationTypeLike,
			Title:      "New like",
			Message:    "Someone liked your post",
		}))
	}

	listing, err := env.notifications.FindAll(ctx, receiver.ID, 0, 20)
	require.NoError(t, err)
	assert.Len(t, listing.Notifications, 3)
	assert.EqualValues(t, 3, listing.UnreadCount)

	require.NoError(t, env.notifications.MarkAsRead(ctx, listing.Notifications[0].ID, receiver.ID))

	listing, err = env.notifications.FindAll(ctx, receiver.ID, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, listing.UnreadCount)

	require.NoError(t, env.notifications.MarkAllAsRead(ctx, receiver.ID))

	listing, err = env.notifications.FindAll(ctx, receiver.ID, 0, 20)
	require.NoError(t, err)
	assert.Zero(t, listing.UnreadCount)
}

func TestMarkAsReadOtherUsersNotification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	receiver := env.createUser(t, "receiver")
	intruder := env.createUser(t, "intruder")

	require.NoError(t, env.notifications.Create(ctx, models.Notification{
		ID:         "n1",
		ReceiverID: receiver.ID,
		Type:       models.NotificationTypeSystem,
		Title:      "Welcome",
		Message:    "Welcome to Snaptika",
	}))

	err := env.notifications.MarkAsRead(ctx, "n1", intruder.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestNotificationCreateInvalidatesCachedPage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	receiver := env.createUser(t, "receiver")

	require.NoError(t, env.notifications.Create(ctx, models.Notification{
		ReceiverID: receiver.ID,
		Type:       models.NotificationTypeSystem,
		Title:      "first",
		Message:    "first",
	}))

	// Prime the cached first page, then deliver another notification.
	first, err := env.notifications.FindAll(ctx, receiver.ID, 0, 20)
	require.NoError(t, err)
	require.EqualValues(t, 1, first.Total)

	require.NoError(t, env.notifications.Create(ctx, models.Notification{
		ReceiverID: receiver.ID,
		Type:       models.NotificationTypeSystem,
		Title:      "second",
		Message:    "second",
	}))

	second, err := env.notifications.FindAll(ctx, receiver.ID, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, second.Total)
}

func TestCachedNotificationsSlicedToTake(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	receiver := env.createUser(t, "receiver")
	for i := 0; i < 5; i++ {
		require.NoError(t, env.notifications.Create(ctx, models.Notification{
			ReceiverID: receiver.ID,
			Type:       models.NotificationTypeSystem,
			Title:      "hello",
			Message:    "hello",
		}))
	}

	// Prime the snapshot with a full page, then ask for a smaller one.
	full, err := env.notifications.FindAll(ctx, receiver.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, full.Notifications, 5)
	assert.False(t, full.HasMore)

	small, err := env.notifications.FindAll(ctx, receiver.ID, 0, 2)
	require.NoError(t, err)
	assert.Len(t, small.Notifications, 2)
	assert.EqualValues(t, 5, small.Total)
	assert.True(t, small.HasMore)
}
