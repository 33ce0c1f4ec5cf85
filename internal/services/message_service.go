package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/piteco/backend/internal/dates"
	"github.com/piteco/backend/internal/metrics"
	"github.com/piteco/backend/internal/models"
	"github.com/piteco/backend/internal/pagination"
	"go.uber.org/zap"
)

// MessageRepository is the interface that wraps methods for Messages table data access
type MessageRepository interface {
	// Method Create inserts a message and fills in its ID and creation time.
	Create(ctx context.Context, m *models.Message) error
	// Method ListConversation retrieves messages exchanged between two users in both directions, newest first.
	//
	// "cursor", when set, keeps messages created before it. At most "limit" messages are returned.
	ListConversation(ctx context.Context, userID, partnerID int, cursor *time.Time, limit int) ([]models.Message, error)
	// Method MarkConversationRead marks unread messages from "senderID" to "recipientID" as read.
	//
	// Returns the number of messages changed.
	MarkConversationRead(ctx context.Context, recipientID, senderID int, readAt time.Time) (int, error)
	// Method ListConversations retrieves the latest message per partner with the unread count.
	ListConversations(ctx context.Context, userID int) ([]models.Conversation, error)
}

// MessageUserRepository is the interface that wraps user lookups for direct messages
type MessageUserRepository interface {
	UserReader
	// Method ExistsByID checks if a user with the given ID exists.
	ExistsByID(ctx context.Context, userID int) (bool, error)
}

// RateLimiter is the interface that wraps a fixed window counter
type RateLimiter interface {
	// Method Allow counts a hit for "key" and reports whether at most "limit" hits happened within "window".
	Allow(ctx context.Context, key string, limit int, window time.Duration) bool
}

// messageService implements MessageService
type messageService struct {
	messageRepo MessageRepository
	userRepo    MessageUserRepository
	notifier    Notifier
	publisher   EventPublisher
	limiter     RateLimiter
	rateLimit   int
	logger      *zap.Logger
	now         func() time.Time
}

// NewMessageService creates a new message service.
// "rateLimit" is the number of messages a user may send per minute.
func NewMessageService(
	messageRepo MessageRepository,
	userRepo MessageUserRepository,
	notifier Notifier,
	publisher EventPublisher,
	limiter RateLimiter,
	rateLimit int,
	logger *zap.Logger,
) *messageService {
	return &messageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		publisher:   publisher,
		limiter:     limiter,
		rateLimit:   rateLimit,
		logger:      logger,
		now:         time.Now,
	}
}

// SendMessage stores a direct message, pushes it to both users and notifies the recipient
func (s *messageService) SendMessage(ctx context.Context, senderID int, req *models.SendMessageRequest) (*models.Message, error) {
	body := strings.TrimSpace(req.Body)
	if n := utf8.RuneCountInString(body); n == 0 || n > models.MaxMessageLength {
		return nil, models.Validationf("A mensagem deve ter entre 1 e %d caracteres", models.MaxMessageLength)
	}
	if req.RecipientID <= 0 {
		return nil, models.Validationf("Destinatário inválido")
	}
	if req.RecipientID == senderID {
		return nil, models.Validationf("Você não pode enviar mensagens para si mesmo")
	}

	if !s.limiter.Allow(ctx, fmt.Sprintf("chat:%d", senderID), s.rateLimit, time.Minute) {
		return nil, models.NewUserError(models.ErrRateLimited, "Você está enviando mensagens rápido demais")
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	exists, err := s.userRepo.ExistsByID(ctx, req.RecipientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewUserError(models.ErrNotFound, "Destinatário não encontrado")
	}

	message := &models.Message{
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Body:        html.EscapeString(body),
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	metrics.RecordMessageSent()

	event := models.Event{Type: models.EventMessage, Payload: message}
	for _, userID := range []int{message.RecipientID, message.SenderID} {
		if err := s.publisher.Publish(ctx, userID, event); err != nil {
			s.logger.Warn("failed to publish message", zap.Int("message_id", message.ID), zap.Int("user_id", userID), zap.Error(err))
		}
	}

	n := &models.Notification{
		UserID: message.RecipientID,
		Type:   models.NotificationTypeMessage,
		Title:  fmt.Sprintf("Nova mensagem de %s", sender.Username),
		Body:   html.EscapeString(preview(body, 100)),
		Link:   fmt.Sprintf("/messages/%d", senderID),
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn("failed to notify message recipient", zap.Int("message_id", message.ID), zap.Error(err))
	}

	message.RelativeTime = dates.Relative(message.CreatedAt, s.now())
	return message, nil
}

// Conversation returns a page of messages exchanged with partnerID and marks the incoming ones as read
func (s *messageService) Conversation(ctx context.Context, userID, partnerID int, cursor *time.Time, limit int) (*models.MessagePage, error) {
	if partnerID == userID {
		return nil, models.Validationf("Conversa inválida")
	}

	messages, err := s.messageRepo.ListConversation(ctx, userID, partnerID, cursor, limit)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if _, err := s.messageRepo.MarkConversationRead(ctx, userID, partnerID, now.UTC()); err != nil {
		return nil, err
	}

	for i := range messages {
		messages[i].RelativeTime = dates.Relative(messages[i].CreatedAt, now)
	}

	page := &models.MessagePage{Items: messages}
	if len(messages) > 0 {
		page.NextCursor = pagination.NextCursor(messages[len(messages)-1].CreatedAt, len(messages), limit)
	}
	return page, nil
}

// Conversations lists the caller's conversation partners with the latest message
func (s *messageService) Conversations(ctx context.Context, userID int) ([]models.Conversation, error) {
	conversations, err := s.messageRepo.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range conversations {
		conversations[i].LastMessage.RelativeTime = dates.Relative(conversations[i].LastMessage.CreatedAt, now)
	}
	return conversations, nil
}

// preview cuts s to at most limit runes, appending an ellipsis when cut
func preview(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
