package services

import (
	"context"
	"time"

	"github.com/piteco/backend/internal/dates"
	"github.com/piteco/backend/internal/models"
	"github.com/piteco/backend/internal/pagination"
	"go.uber.org/zap"
)

// NotificationRepository is the interface that wraps methods for Notifications table data access
type NotificationRepository interface {
	// Method Create inserts a notification and fills in its ID and creation time.
	Create(ctx context.Context, n *models.Notification) error
	// Method CreateMany inserts notifications in one transaction and fills in their IDs and creation time.
	CreateMany(ctx context.Context, notifications []*models.Notification) error
	// Method List retrieves notifications of a user, newest first.
	//
	// "unreadOnly" drops read notifications. "cursor", when set, keeps notifications created before it.
	// At most "limit" notifications are returned.
	List(ctx context.Context, userID int, unreadOnly bool, cursor *time.Time, limit int) ([]models.Notification, error)
	// Method CountUnread counts unread notifications of a user.
	CountUnread(ctx context.Context, userID int) (int, error)
	// Method MarkRead marks a notification owned by "userID" as read.
	//
	// If the notification does not exist or belongs to someone else, an error wrapping models.ErrNotFound is returned.
	MarkRead(ctx context.Context, id, userID int, readAt time.Time) error
	// Method MarkAllRead marks every unread notification of a user as read and returns how many changed.
	MarkAllRead(ctx context.Context, userID int, readAt time.Time) (int, error)
	// Method EmailRecipients returns the users among "userIDs" that opted in to e-mail notifications.
	EmailRecipients(ctx context.Context, userIDs []int) ([]models.EmailRecipient, error)
}

// EventPublisher delivers realtime events to connected users
type EventPublisher interface {
	// Method Publish sends "event" to every open connection of "userID".
	//
	// Delivery is best effort. An error means the event could not be handed to the broker.
	Publish(ctx context.Context, userID int, event models.Event) error
}

// EmailEnqueuer schedules notification e-mails
type EmailEnqueuer interface {
	// Method EnqueueEmail schedules the e-mail delivery of a stored notification.
	EnqueueEmail(ctx context.Context, notificationID int) error
}

// notificationService implements NotificationService and Notifier
type notificationService struct {
	repo      NotificationRepository
	publisher EventPublisher
	emails    EmailEnqueuer
	logger    *zap.Logger
	now       func() time.Time
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo NotificationRepository, publisher EventPublisher, emails EmailEnqueuer, logger *zap.Logger) *notificationService {
	return &notificationService{
		repo:      repo,
		publisher: publisher,
		emails:    emails,
		logger:    logger,
		now:       time.Now,
	}
}

// Notify stores a notification, pushes it to the user and schedules its e-mail when the user opted in.
// Only the insert can fail the call, delivery problems are logged.
func (s *notificationService) Notify(ctx context.Context, n *models.Notification) error {
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	s.deliver(ctx, []*models.Notification{n})
	return nil
}

// NotifyMany stores notifications in one transaction and delivers them like Notify
func (s *notificationService) NotifyMany(ctx context.Context, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	if err := s.repo.CreateMany(ctx, notifications); err != nil {
		return err
	}
	s.deliver(ctx, notifications)
	return nil
}

func (s *notificationService) deliver(ctx context.Context, notifications []*models.Notification) {
	userIDs := make([]int, 0, len(notifications))
	byUser := make(map[int][]*models.Notification, len(notifications))
	for _, n := range notifications {
		if err := s.publisher.Publish(ctx, n.UserID, models.Event{Type: models.EventNotification, Payload: n}); err != nil {
			s.logger.Warn("failed to publish notification", zap.Int("notification_id", n.ID), zap.Error(err))
		}
		if _, seen := byUser[n.UserID]; !seen {
			userIDs = append(userIDs, n.UserID)
		}
		byUser[n.UserID] = append(byUser[n.UserID], n)
	}

	recipients, err := s.repo.EmailRecipients(ctx, userIDs)
	if err != nil {
		s.logger.Warn("failed to load e-mail recipients", zap.Error(err))
		return
	}
	for _, rcpt := range recipients {
		for _, n := range byUser[rcpt.UserID] {
			if err := s.emails.EnqueueEmail(ctx, n.ID); err != nil {
				s.logger.Warn("failed to enqueue notification e-mail", zap.Int("notification_id", n.ID), zap.Error(err))
			}
		}
	}
}

// List returns a page of the caller's notifications with the unread count
func (s *notificationService) List(ctx context.Context, userID int, unreadOnly bool, cursor *time.Time, limit int) (*models.NotificationPage, error) {
	notifications, err := s.repo.List(ctx, userID, unreadOnly, cursor, limit)
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range notifications {
		notifications[i].RelativeTime = dates.Relative(notifications[i].CreatedAt, now)
	}

	page := &models.NotificationPage{Items: notifications, UnreadCount: unread}
	if len(notifications) > 0 {
		page.NextCursor = pagination.NextCursor(notifications[len(notifications)-1].CreatedAt, len(notifications), limit)
	}
	return page, nil
}

// MarkRead marks one of the caller's notifications as read
func (s *notificationService) MarkRead(ctx context.Context, userID, id int) error {
	return s.repo.MarkRead(ctx, id, userID, s.now().UTC())
}

// MarkAllRead marks all the caller's notifications as read
func (s *notificationService) MarkAllRead(ctx context.Context, userID int) (int, error) {
	return s.repo.MarkAllRead(ctx, userID, s.now().UTC())
}
