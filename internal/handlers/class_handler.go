package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/piteco/backend/internal/models"
	"go.uber.org/zap"
)

// ClassService is the interface that wraps methods for classes business logic.
type ClassService interface {
	// Method CreateClass validates "req", creates a class with a fresh invite code and adds the caller as teacher.
	CreateClass(ctx context.Context, userID int, req *models.CreateClassRequest) (*models.Class, error)
	// Method JoinClass adds the caller as student to the class with "req.InviteCode".
	//
	// Unknown codes give an error wrapping models.ErrNotFound, existing members one wrapping models.ErrConflict.
	JoinClass(ctx context.Context, userID int, req *models.JoinClassRequest) (*models.Class, error)
	// Method ListClasses returns the classes the caller belongs to with role and member count.
	ListClasses(ctx context.Context, userID int) ([]models.ClassListItem, error)
	// Method ListMembers returns the members of a class. Non-members get an error wrapping models.ErrForbidden.
	ListMembers(ctx context.Context, userID, classID int) ([]models.ClassMember, error)
	// Method LeaveClass removes the caller from a class. The owner gets an error wrapping models.ErrValidation.
	LeaveClass(ctx context.Context, userID, classID int) error
}

// ClassHandler handles class HTTP requests
type ClassHandler struct {
	BaseHandler
	service ClassService
}

// NewClassHandler creates a new class handler
func NewClassHandler(svc ClassService, logger *zap.Logger) *ClassHandler {
	return &ClassHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all class handler routes
func (h *ClassHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/classes", h.ListClasses)
		r.Post("/classes", h.CreateClass)
		r.Post("/classes/join", h.JoinClass)
		r.Get("/classes/{id}/members", h.ListMembers)
		r.Delete("/classes/{id}/members/me", h.LeaveClass)
	})
}

// ListClasses handles GET /classes
// @Summary List classes
// @Description List the classes the caller belongs to. Invite codes are only shown to teachers.
// @Tags classes
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.ClassListItem
// @Router /classes [get]
func (h *ClassHandler) ListClasses(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	classes, err := h.service.ListClasses(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, r, err, "list classes")
		return
	}

	h.RespondSuccess(w, http.StatusOK, map[string]any{"classes": classes})
}

// CreateClass handles POST /classes
// @Summary Create class
// @Tags classes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CreateClassRequest true "Class"
// @Success 201 {object} models.Class
// @Failure 400 {object} map[string]string "Validation error"
// @Router /classes [post]
func (h *ClassHandler) CreateClass(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	var req models.CreateClassRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	class, err := h.service.CreateClass(r.Context(), userID, &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "create class")
		return
	}

	h.RespondSuccess(w, http.StatusCreated, class)
}

// JoinClass handles POST /classes/join
// @Summary Join class
// @Tags classes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.JoinClassRequest true "Invite code"
// @Success 200 {object} models.Class
// @Failure 404 {object} map[string]string "Unknown invite code"
// @Failure 409 {object} map[string]string "Already a member"
// @Router /classes/join [post]
func (h *ClassHandler) JoinClass(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	var req models.JoinClassRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	class, err := h.service.JoinClass(r.Context(), userID, &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "join class")
		return
	}

	h.RespondSuccess(w, http.StatusOK, class)
}

// ListMembers handles GET /classes/{id}/members
// @Summary List class members
// @Tags classes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Class ID"
// @Success 200 {array} models.ClassMember
// @Failure 403 {object} map[string]string "Not a member"
// @Failure 404 {object} map[string]string "Class not found"
// @Router /classes/{id}/members [get]
func (h *ClassHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	classID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	members, err := h.service.ListMembers(r.Context(), userID, classID)
	if err != nil {
		h.RespondServiceError(w, r, err, "list class members")
		return
	}

	h.RespondSuccess(w, http.StatusOK, map[string]any{"members": members})
}

// LeaveClass handles DELETE /classes/{id}/members/me
// @Summary Leave class
// @Tags classes
// @Security ApiKeyAuth
// @Param id path int true "Class ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "The owner cannot leave"
// @Failure 404 {object} map[string]string "Not a member"
// @Router /classes/{id}/members/me [delete]
func (h *ClassHandler) LeaveClass(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	classID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.LeaveClass(r.Context(), userID, classID); err != nil {
		h.RespondServiceError(w, r, err, "leave class")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
