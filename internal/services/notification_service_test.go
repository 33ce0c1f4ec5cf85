package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/piteco/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNotificationService_Notify(t *testing.T) {
	repo := &mockNotificationRepository{recipients: []models.EmailRecipient{{UserID: 7, Email: "bia@example.com"}}}
	publisher := &mockPublisher{}
	enqueuer := &mockEnqueuer{}
	svc := NewNotificationService(repo, publisher, enqueuer, zap.NewNop())

	n := &models.Notification{UserID: 7, Type: models.NotificationTypeMessage, Title: "Nova mensagem"}
	require.NoError(t, svc.Notify(context.Background(), n))

	assert.Equal(t, 1, n.ID)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, 7, publisher.events[0].userID)
	assert.Equal(t, models.EventNotification, publisher.events[0].event.Type)
	assert.Equal(t, []int{1}, enqueuer.emails)
}

func TestNotificationService_NotifyMany(t *testing.T) {
	repo := &mockNotificationRepository{recipients: []models.EmailRecipient{{UserID: 8, Email: "caio@example.com"}}}
	publisher := &mockPublisher{}
	enqueuer := &mockEnqueuer{}
	svc := NewNotificationService(repo, publisher, enqueuer, zap.NewNop())

	notifications := []*models.Notification{
		{UserID: 7, Type: models.NotificationTypeAnnouncement},
		{UserID: 8, Type: models.NotificationTypeAnnouncement},
		{UserID: 9, Type: models.NotificationTypeAnnouncement},
	}
	require.NoError(t, svc.NotifyMany(context.Background(), notifications))

	assert.Len(t, repo.created, 3)
	assert.Len(t, publisher.events, 3)
	// Only user 8 opted in to e-mails
	assert.Equal(t, []int{2}, enqueuer.emails)
}

func TestNotificationService_NotifyMany_Empty(t *testing.T) {
	repo := &mockNotificationRepository{err: errors.New("must not be called")}
	svc := NewNotificationService(repo, &mockPublisher{}, &mockEnqueuer{}, zap.NewNop())

	assert.NoError(t, svc.NotifyMany(context.Background(), nil))
}

func TestNotificationService_Notify_DeliveryFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo := &mockNotificationRepository{recipients: []models.EmailRecipient{{UserID: 7}}}
	svc := NewNotificationService(repo, &mockPublisher{err: errors.New("redis down")}, &mockEnqueuer{err: errors.New("redis down")}, zap.New(core))

	err := svc.Notify(context.Background(), &models.Notification{UserID: 7})

	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("failed to publish notification").Len())
	assert.Equal(t, 1, logs.FilterMessage("failed to enqueue notification e-mail").Len())
}

func TestNotificationService_Notify_StoreFailure(t *testing.T) {
	publisher := &mockPublisher{}
	svc := NewNotificationService(&mockNotificationRepository{err: errors.New("database error")}, publisher, &mockEnqueuer{}, zap.NewNop())

	err := svc.Notify(context.Background(), &models.Notification{UserID: 7})

	assert.Error(t, err)
	assert.Empty(t, publisher.events)
}

func TestNotificationService_Notify_RecipientLookupFailure(t *testing.T) {
	repo := &mockNotificationRepository{recipientsErr: errors.New("database error")}
	publisher := &mockPublisher{}
	enqueuer := &mockEnqueuer{}
	svc := NewNotificationService(repo, publisher, enqueuer, zap.NewNop())

	require.NoError(t, svc.Notify(context.Background(), &models.Notification{UserID: 7}))
	assert.Len(t, publisher.events, 1)
	assert.Empty(t, enqueuer.emails)
}

func TestNotificationService_List(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	repo := &mockNotificationRepository{
		notifications: []models.Notification{
			{ID: 3, CreatedAt: now.Add(-30 * time.Second)},
			{ID: 2, CreatedAt: now.Add(-3 * time.Hour)},
		},
		unread: 4,
	}
	svc := NewNotificationService(repo, &mockPublisher{}, &mockEnqueuer{}, zap.NewNop())
	svc.now = func() time.Time { return now }

	page, err := svc.List(context.Background(), 7, false, nil, 2)

	require.NoError(t, err)
	assert.Equal(t, 4, page.UnreadCount)
	assert.Equal(t, "agora", page.Items[0].RelativeTime)
	assert.Equal(t, "há 3 horas", page.Items[1].RelativeTime)
	assert.NotEmpty(t, page.NextCursor)
}

func TestNotificationService_MarkRead(t *testing.T) {
	svc := NewNotificationService(&mockNotificationRepository{markErr: models.ErrNotFound}, &mockPublisher{}, &mockEnqueuer{}, zap.NewNop())
	assert.ErrorIs(t, svc.MarkRead(context.Background(), 7, 1), models.ErrNotFound)

	svc = NewNotificationService(&mockNotificationRepository{unread: 3}, &mockPublisher{}, &mockEnqueuer{}, zap.NewNop())
	assert.NoError(t, svc.MarkRead(context.Background(), 7, 1))

	count, err := svc.MarkAllRead(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
