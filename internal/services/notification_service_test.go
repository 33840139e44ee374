package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arena/internal/models"
)

func TestNotificationCounters(t *testing.T) {
	f := newFixture(t)
	sam := createUser(t, f.db, "samc")
	ctx := context.Background()

	f.notify.Notify(ctx, &models.Notification{UserID: sam.ID, Type: models.NotificationLike, Title: "love"})
	f.notify.Notify(ctx, &models.Notification{UserID: sam.ID, Type: models.NotificationReply, Title: "reply"})
	f.notify.Notify(ctx, &models.Notification{UserID: sam.ID, Type: models.NotificationMessage, Title: "msg", Channel: models.ChannelMessage})

	counts, err := f.notify.UnreadCounts(ctx, sam.ID)
	require.NoError(t, err)
	assert.Equal(t, UnreadCounts{Bell: 2, Message: 1}, counts)

	last := f.publisher.last()
	assert.Equal(t, sam.ID, last.UserID)
	assert.Equal(t, EventUnreadCounts, last.Type)
	assert.Equal(t, counts, last.Payload)

	all, err := f.notify.List(ctx, sam.ID, FilterAll)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "msg", all[0].Title, "newest first")

	messages, err := f.notify.List(ctx, sam.ID, FilterMessages)
	require.NoError(t, err)
	assert.Len(t, messages, 1)

	require.NoError(t, f.notify.MarkAsRead(ctx, sam.ID, all[1].ID))
	unread, err := f.notify.List(ctx, sam.ID, FilterUnread)
	require.NoError(t, err)
	assert.Len(t, unread, 2)
	assert.Equal(t, UnreadCounts{Bell: 1, Message: 1}, f.publisher.last().Payload)

	require.NoError(t, f.notify.MarkAllAsRead(ctx, sam.ID, models.ChannelBell))
	counts, err = f.notify.UnreadCounts(ctx, sam.ID)
	require.NoError(t, err)
	assert.Equal(t, UnreadCounts{Message: 1}, counts)
}

func TestNotificationErrors(t *testing.T) {
	f := newFixture(t)
	sam := createUser(t, f.db, "samc")
	other := createUser(t, f.db, "other")
	ctx := context.Background()
	f.notify.Notify(ctx, &models.Notification{UserID: sam.ID, Type: models.NotificationLike, Title: "love"})
	mine, err := f.notify.List(ctx, sam.ID, FilterAll)
	require.NoError(t, err)

	assert.ErrorIs(t, f.notify.MarkAsRead(ctx, other.ID, mine[0].ID), ErrNotFound)
	_, err = f.notify.List(ctx, sam.ID, "starred")
	assert.Error(t, err)
	assert.Error(t, f.notify.MarkAllAsRead(ctx, sam.ID, "sms"))

	var nilService *NotificationService
	nilService.Notify(ctx, &models.Notification{UserID: sam.ID})
}
