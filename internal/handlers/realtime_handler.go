package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ConnectionServer is the interface that wraps the websocket upgrade.
type ConnectionServer interface {
	// Method ServeWS upgrades the request and registers the connection for "userID".
	//
	// On failure the upgrader has already written the HTTP error.
	ServeWS(w http.ResponseWriter, r *http.Request, userID int) error
}

// RealtimeHandler handles websocket connections
type RealtimeHandler struct {
	BaseHandler
	server ConnectionServer
}

// NewRealtimeHandler creates a new realtime handler
func NewRealtimeHandler(server ConnectionServer, logger *zap.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		BaseHandler: BaseHandler{Logger: logger},
		server:      server,
	}
}

// RegisterRoutes registers the websocket route.
// Browsers cannot set headers on websocket requests, so "authMiddleware" should accept the token from the query string.
func (h *RealtimeHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.With(authMiddleware).Get("/ws", h.Connect)
}

// Connect handles GET /ws
// @Summary Realtime events
// @Description Upgrades to a websocket that receives notification and message events.
// @Tags realtime
// @Security ApiKeyAuth
// @Param token query string false "Access token"
// @Success 101 "Switching Protocols"
// @Router /ws [get]
func (h *RealtimeHandler) Connect(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	if err := h.server.ServeWS(w, r, userID); err != nil {
		h.Logger.Debug("websocket upgrade failed", zap.Int("user_id", userID), zap.Error(err))
	}
}
