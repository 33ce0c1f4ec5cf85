package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/piteco/backend/internal/models"
	"go.uber.org/zap"
)

// NotificationService is the interface that wraps methods for in-app notifications.
type NotificationService interface {
	// Method List returns a page of the caller's notifications, newest first, with the unread count.
	List(ctx context.Context, userID int, unreadOnly bool, cursor *time.Time, limit int) (*models.NotificationPage, error)
	// Method MarkRead marks one notification as read. Foreign or unknown IDs give an error wrapping models.ErrNotFound.
	MarkRead(ctx context.Context, userID, id int) error
	// Method MarkAllRead marks every unread notification as read and returns how many changed.
	MarkAllRead(ctx context.Context, userID int) (int, error)
}

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	BaseHandler
	service NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(svc NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all notification handler routes
func (h *NotificationHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/notifications", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.List)
		r.Post("/read-all", h.MarkAllRead)
		r.Post("/{id}/read", h.MarkRead)
	})
}

// List handles GET /notifications
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Security ApiKeyAuth
// @Param unread query bool false "Only unread notifications"
// @Param cursor query string false "createdAt of the last notification seen (RFC3339)"
// @Param limit query int false "Page size, default 20, max 50"
// @Success 200 {object} models.NotificationPage
// @Router /notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	cursor, limit, ok := h.Page(w, r)
	if !ok {
		return
	}
	unreadOnly := r.URL.Query().Get("unread") == "true"

	page, err := h.service.List(r.Context(), userID, unreadOnly, cursor, limit)
	if err != nil {
		h.RespondServiceError(w, r, err, "list notifications")
		return
	}

	h.RespondSuccess(w, http.StatusOK, page)
}

// MarkRead handles POST /notifications/{id}/read
// @Summary Mark notification as read
// @Tags notifications
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string "Notification not found"
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.MarkRead(r.Context(), userID, id); err != nil {
		h.RespondServiceError(w, r, err, "mark notification as read")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Notificação marcada como lida")
}

// MarkAllRead handles POST /notifications/read-all
// @Summary Mark all notifications as read
// @Tags notifications
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]any
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	count, err := h.service.MarkAllRead(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, r, err, "mark all notifications as read")
		return
	}

	h.RespondSuccess(w, http.StatusOK, map[string]any{"updated": count})
}
