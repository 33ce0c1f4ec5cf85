package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/piteco/backend/internal/models"
	"go.uber.org/zap"
)

// StudyService is the interface that wraps methods for the study game modes.
type StudyService interface {
	// Method CheckAnswer compares a typed answer with the expected side of a flashcard.
	//
	// "req.Direction" selects the expected side: "forward" expects the translation or an alternative, "reverse" the term.
	// "req.Threshold" overrides the default typo tolerance and must be in (0, 1).
	//
	// If the caller does not own the flashcard, the error wraps models.ErrForbidden.
	CheckAnswer(ctx context.Context, userID int, req *models.CheckAnswerRequest) (*models.CheckAnswerResponse, error)
	// Method Hint returns a progressively revealing hint. "level" must be 1, 2 or 3.
	Hint(ctx context.Context, userID, flashcardID, level int, direction models.Direction) (*models.HintResponse, error)
	// Method RecordSession stores a finished session and awards 10 points per correct answer.
	RecordSession(ctx context.Context, userID int, req *models.StudySessionRequest) (*models.StudySessionResponse, error)
}

// StudyHandler handles study HTTP requests
type StudyHandler struct {
	BaseHandler
	service StudyService
}

// NewStudyHandler creates a new study handler
func NewStudyHandler(svc StudyService, logger *zap.Logger) *StudyHandler {
	return &StudyHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all study handler routes
func (h *StudyHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/study", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/check", h.CheckAnswer)
		r.Get("/hint", h.Hint)
		r.Post("/sessions", h.RecordSession)
	})
}

// CheckAnswer handles POST /study/check
// @Summary Check answer
// @Description Check a typed answer against a flashcard, tolerating accents, case and small typos
// @Tags study
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CheckAnswerRequest true "Answer"
// @Success 200 {object} models.CheckAnswerResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Flashcard not found"
// @Router /study/check [post]
func (h *StudyHandler) CheckAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	var req models.CheckAnswerRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.CheckAnswer(r.Context(), userID, &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "check answer")
		return
	}

	h.RespondSuccess(w, http.StatusOK, result)
}

// Hint handles GET /study/hint
// @Summary Get hint
// @Tags study
// @Produce json
// @Security ApiKeyAuth
// @Param flashcardId query int true "Flashcard ID"
// @Param level query int false "Hint level 1-3, default 1"
// @Param direction query string false "forward (default) or reverse"
// @Success 200 {object} models.HintResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Not the owner"
// @Router /study/hint [get]
func (h *StudyHandler) Hint(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	flashcardID, err := parseID(query.Get("flashcardId"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, messageInvalidID)
		return
	}
	level := 1
	if raw := query.Get("level"); raw != "" {
		level, err = strconv.Atoi(raw)
		if err != nil {
			h.RespondError(w, http.StatusBadRequest, "Nível de dica inválido")
			return
		}
	}

	hint, err := h.service.Hint(r.Context(), userID, flashcardID, level, models.Direction(query.Get("direction")))
	if err != nil {
		h.RespondServiceError(w, r, err, "get hint")
		return
	}

	h.RespondSuccess(w, http.StatusOK, hint)
}

// RecordSession handles POST /study/sessions
// @Summary Record study session
// @Description Store a finished session and award 10 points per correct answer
// @Tags study
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.StudySessionRequest true "Session result"
// @Success 201 {object} models.StudySessionResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Not the owner"
// @Router /study/sessions [post]
func (h *StudyHandler) RecordSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	var req models.StudySessionRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.RecordSession(r.Context(), userID, &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "record study session")
		return
	}

	h.RespondSuccess(w, http.StatusCreated, result)
}
