package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/piteco/backend/internal/models"
	"go.uber.org/zap"
)

// MessageService is the interface that wraps methods for direct messages business logic.
type MessageService interface {
	// Method SendMessage stores a message from "senderID", pushes it to both users and notifies the recipient.
	//
	// Senders over the per-minute limit get an error wrapping models.ErrRateLimited.
	SendMessage(ctx context.Context, senderID int, req *models.SendMessageRequest) (*models.Message, error)
	// Method Conversation returns a page of messages exchanged with "partnerID", newest first,
	// and marks the partner's messages as read.
	Conversation(ctx context.Context, userID, partnerID int, cursor *time.Time, limit int) (*models.MessagePage, error)
	// Method Conversations returns the caller's conversations ordered by latest message.
	Conversations(ctx context.Context, userID int) ([]models.Conversation, error)
}

// MessageHandler handles direct message HTTP requests
type MessageHandler struct {
	BaseHandler
	service MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(svc MessageService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all message handler routes
func (h *MessageHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/messages", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.SendMessage)
		r.Get("/conversations", h.Conversations)
		r.Get("/{userId}", h.Conversation)
	})
}

// SendMessage handles POST /messages
// @Summary Send message
// @Tags messages
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.SendMessageRequest true "Message"
// @Success 201 {object} models.Message
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Recipient not found"
// @Failure 429 {object} map[string]string "Too many messages"
// @Router /messages [post]
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	var req models.SendMessageRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	message, err := h.service.SendMessage(r.Context(), userID, &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "send message")
		return
	}

	h.RespondSuccess(w, http.StatusCreated, message)
}

// Conversations handles GET /messages/conversations
// @Summary List conversations
// @Tags messages
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Conversation
// @Router /messages/conversations [get]
func (h *MessageHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	conversations, err := h.service.Conversations(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, r, err, "list conversations")
		return
	}

	h.RespondSuccess(w, http.StatusOK, map[string]any{"conversations": conversations})
}

// Conversation handles GET /messages/{userId}
// @Summary Get conversation
// @Description Messages exchanged with a user, newest first. Messages received from that user are marked as read.
// @Tags messages
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "Partner user ID"
// @Param cursor query string false "createdAt of the last message seen (RFC3339)"
// @Param limit query int false "Page size, default 20, max 50"
// @Success 200 {object} models.MessagePage
// @Router /messages/{userId} [get]
func (h *MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	partnerID, ok := h.PathID(w, r, "userId")
	if !ok {
		return
	}
	cursor, limit, ok := h.Page(w, r)
	if !ok {
		return
	}

	page, err := h.service.Conversation(r.Context(), userID, partnerID, cursor, limit)
	if err != nil {
		h.RespondServiceError(w, r, err, "get conversation")
		return
	}

	h.RespondSuccess(w, http.StatusOK, page)
}
