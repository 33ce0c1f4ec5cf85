package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/piteco/backend/internal/models"
	"go.uber.org/zap"
)

// AnnouncementService is the interface that wraps methods for class announcements business logic.
type AnnouncementService interface {
	// Method CreateAnnouncement posts to a class owned by the caller and schedules member notifications.
	CreateAnnouncement(ctx context.Context, userID, classID int, req *models.AnnouncementRequest) (*models.Announcement, error)
	// Method ListAnnouncements returns a page of announcements, newest first, to a member of the class.
	//
	// "cursor", when set, keeps announcements created before it.
	ListAnnouncements(ctx context.Context, userID, classID int, cursor *time.Time, limit int) (*models.AnnouncementPage, error)
	// Method UpdateAnnouncement changes the title and body. Only the author may do it.
	UpdateAnnouncement(ctx context.Context, userID, id int, req *models.AnnouncementRequest) (*models.Announcement, error)
	// Method DeleteAnnouncement deletes an announcement. Only the author may do it.
	DeleteAnnouncement(ctx context.Context, userID, id int) error
}

// AnnouncementHandler handles announcement HTTP requests
type AnnouncementHandler struct {
	BaseHandler
	service AnnouncementService
}

// NewAnnouncementHandler creates a new announcement handler
func NewAnnouncementHandler(svc AnnouncementService, logger *zap.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all announcement handler routes
func (h *AnnouncementHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/classes/{id}/announcements", h.CreateAnnouncement)
		r.Get("/classes/{id}/announcements", h.ListAnnouncements)
		r.Put("/announcements/{id}", h.UpdateAnnouncement)
		r.Delete("/announcements/{id}", h.DeleteAnnouncement)
	})
}

// CreateAnnouncement handles POST /classes/{id}/announcements
// @Summary Post announcement
// @Description Post an announcement to a class. Only the class owner may post.
// @Tags announcements
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Class ID"
// @Param request body models.AnnouncementRequest true "Announcement"
// @Success 201 {object} models.Announcement
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Not the class owner"
// @Failure 404 {object} map[string]string "Class not found"
// @Router /classes/{id}/announcements [post]
func (h *AnnouncementHandler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	classID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var req models.AnnouncementRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	announcement, err := h.service.CreateAnnouncement(r.Context(), userID, classID, &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "create announcement")
		return
	}

	h.RespondSuccess(w, http.StatusCreated, announcement)
}

// ListAnnouncements handles GET /classes/{id}/announcements
// @Summary List announcements
// @Tags announcements
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Class ID"
// @Param cursor query string false "createdAt of the last announcement seen (RFC3339)"
// @Param limit query int false "Page size, default 20, max 50"
// @Success 200 {object} models.AnnouncementPage
// @Failure 403 {object} map[string]string "Not a member"
// @Failure 404 {object} map[string]string "Class not found"
// @Router /classes/{id}/announcements [get]
func (h *AnnouncementHandler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	classID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	cursor, limit, ok := h.Page(w, r)
	if !ok {
		return
	}

	page, err := h.service.ListAnnouncements(r.Context(), userID, classID, cursor, limit)
	if err != nil {
		h.RespondServiceError(w, r, err, "list announcements")
		return
	}

	h.RespondSuccess(w, http.StatusOK, page)
}

// UpdateAnnouncement handles PUT /announcements/{id}
// @Summary Update announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Announcement ID"
// @Param request body models.AnnouncementRequest true "Announcement"
// @Success 200 {object} models.Announcement
// @Failure 403 {object} map[string]string "Not the author"
// @Failure 404 {object} map[string]string "Announcement not found"
// @Router /announcements/{id} [put]
func (h *AnnouncementHandler) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var req models.AnnouncementRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	announcement, err := h.service.UpdateAnnouncement(r.Context(), userID, id, &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "update announcement")
		return
	}

	h.RespondSuccess(w, http.StatusOK, announcement)
}

// DeleteAnnouncement handles DELETE /announcements/{id}
// @Summary Delete announcement
// @Tags announcements
// @Security ApiKeyAuth
// @Param id path int true "Announcement ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Not the author"
// @Failure 404 {object} map[string]string "Announcement not found"
// @Router /announcements/{id} [delete]
func (h *AnnouncementHandler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteAnnouncement(r.Context(), userID, id); err != nil {
		h.RespondServiceError(w, r, err, "delete announcement")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
