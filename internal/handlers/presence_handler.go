package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/piteco/backend/internal/models"
	"go.uber.org/zap"
)

// PresenceService is the interface that wraps methods for online presence.
type PresenceService interface {
	// Method Heartbeat marks the caller online and records last seen at most once per interval.
	Heartbeat(ctx context.Context, userID int) (*models.HeartbeatResponse, error)
	// Method Online reports which of "userIDs" are currently online.
	Online(ctx context.Context, userIDs []int) (map[int]bool, error)
}

// PresenceHandler handles presence HTTP requests
type PresenceHandler struct {
	BaseHandler
	service PresenceService
}

// NewPresenceHandler creates a new presence handler
func NewPresenceHandler(svc PresenceService, logger *zap.Logger) *PresenceHandler {
	return &PresenceHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all presence handler routes
func (h *PresenceHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/presence", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/heartbeat", h.Heartbeat)
		r.Get("/", h.Online)
	})
}

// Heartbeat handles POST /presence/heartbeat
// @Summary Presence heartbeat
// @Tags presence
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.HeartbeatResponse
// @Router /presence/heartbeat [post]
func (h *PresenceHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Heartbeat(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, r, err, "record heartbeat")
		return
	}

	h.RespondSuccess(w, http.StatusOK, resp)
}

// Online handles GET /presence
// @Summary Online status
// @Tags presence
// @Produce json
// @Security ApiKeyAuth
// @Param userIds query string true "Comma-separated user IDs"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string "Invalid user IDs"
// @Router /presence [get]
func (h *PresenceHandler) Online(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.UserID(w, r); !ok {
		return
	}
	userIDs, err := parseIDList(r.URL.Query().Get("userIds"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Lista de usuários inválida")
		return
	}

	online, err := h.service.Online(r.Context(), userIDs)
	if err != nil {
		h.RespondServiceError(w, r, err, "get presence")
		return
	}

	h.RespondSuccess(w, http.StatusOK, map[string]any{"online": online})
}

// parseIDList parses "1,2,3". Empty items are skipped.
func parseIDList(raw string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := parseID(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
