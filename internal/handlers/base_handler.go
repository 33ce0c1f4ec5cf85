// Package handlers contains the HTTP layer of the API
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/piteco/backend/internal/middleware"
	"github.com/piteco/backend/internal/models"
	"github.com/piteco/backend/internal/pagination"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondSuccess sends {"success": true, ...payload}.
// Struct and map payloads are merged into the envelope; other values go under "data".
func (h *BaseHandler) RespondSuccess(w http.ResponseWriter, status int, payload any) {
	envelope := map[string]any{}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			h.Logger.Error("failed to encode JSON response", zap.Error(err))
			h.RespondError(w, http.StatusInternalServerError, messageInternal)
			return
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err == nil && fields != nil {
			for key, value := range fields {
				envelope[key] = value
			}
		} else {
			envelope["data"] = json.RawMessage(raw)
		}
	}
	envelope["success"] = true

	h.RespondJSON(w, status, envelope)
}

// RespondMessage sends {"success": true, "message": message}
func (h *BaseHandler) RespondMessage(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]any{"success": true, "message": message})
}

// RespondError sends {"success": false, "error": message}
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]any{"success": false, "error": message})
}

const (
	messageInternal      = "Erro interno do servidor"
	messageInvalidBody   = "Corpo da requisição inválido"
	messageInvalidID     = "Identificador inválido"
	messageUnauthorized  = "Autenticação necessária"
	messageForbidden     = "Você não tem permissão para esta ação"
	messageNotFound      = "Recurso não encontrado"
	messageConflict      = "Recurso já existe"
	messageRateLimited   = "Muitas requisições, tente novamente em instantes"
	messageInsufficient  = "Pontos insuficientes"
	messageValidationErr = "Dados inválidos"
)

// RespondServiceError maps service errors to a status code and a user-facing message.
// Unexpected errors are logged with the action that failed and reported as 500.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	status, message := classifyError(err)

	fields := []zap.Field{
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.Logger.Error("failed to "+action, fields...)
	} else {
		h.Logger.Debug("request rejected: "+action, fields...)
	}

	h.RespondError(w, status, message)
}

func classifyError(err error) (int, string) {
	var userErr *models.UserError
	hasMessage := errors.As(err, &userErr)
	pick := func(def string) string {
		if hasMessage {
			return userErr.Message
		}
		return def
	}

	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, pick(messageValidationErr)
	case errors.Is(err, models.ErrInsufficientFunds):
		return http.StatusBadRequest, pick(messageInsufficient)
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized, pick(messageUnauthorized)
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, pick(messageForbidden)
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, pick(messageNotFound)
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict, pick(messageConflict)
	case errors.Is(err, models.ErrRateLimited):
		return http.StatusTooManyRequests, pick(messageRateLimited)
	default:
		return http.StatusInternalServerError, messageInternal
	}
}

// DecodeJSON decodes the request body into dst and answers 400 on failure.
// It returns false when a response has already been written.
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.RespondError(w, http.StatusRequestEntityTooLarge, "Corpo da requisição muito grande")
			return false
		}
		h.RespondError(w, http.StatusBadRequest, messageInvalidBody)
		return false
	}
	return true
}

// UserID returns the authenticated user ID and answers 401 when it is missing
func (h *BaseHandler) UserID(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, messageUnauthorized)
		return 0, false
	}
	return userID, true
}

// PathID parses a positive integer URL parameter and answers 400 when it is invalid
func (h *BaseHandler) PathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := parseID(chi.URLParam(r, name))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, messageInvalidID)
		return 0, false
	}
	return id, true
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// Page size bounds of paginated lists
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 50
)

// Page parses the "cursor" and "limit" query parameters and answers 400 when they are invalid
func (h *BaseHandler) Page(w http.ResponseWriter, r *http.Request) (*time.Time, int, bool) {
	query := r.URL.Query()

	cursor, err := pagination.ParseCursor(query.Get("cursor"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Cursor inválido")
		return nil, 0, false
	}

	limit, err := pagination.ParseLimit(query.Get("limit"), DefaultPageLimit, MaxPageLimit)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Limite inválido")
		return nil, 0, false
	}

	return cursor, limit, true
}
