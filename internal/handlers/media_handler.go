package handlers

import (
	"context"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/piteco/backend/internal/models"
	"go.uber.org/zap"
)

// MediaService is the interface that wraps methods for generated media.
type MediaService interface {
	// Method ChromaKey removes the background color from the image at "req.ImageURL" and stores the PNG.
	//
	// Unreachable or undecodable images give an error wrapping models.ErrValidation.
	ChromaKey(ctx context.Context, userID int, req *models.ChromaKeyRequest) (*models.ChromaKeyResponse, error)
	// Method OpenChromaFile opens a generated PNG. Unknown names give an error wrapping models.ErrNotFound.
	OpenChromaFile(name string) (*os.File, error)
}

// MediaHandler handles media HTTP requests
type MediaHandler struct {
	BaseHandler
	service MediaService
	limit   func(http.Handler) http.Handler
}

// NewMediaHandler creates a new media handler.
// "limit" wraps the processing endpoint and runs after authentication.
func NewMediaHandler(svc MediaService, limit func(http.Handler) http.Handler, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
		limit:       limit,
	}
}

// RegisterRoutes registers all media handler routes.
// Generated files are public so they can be used directly in <img> tags.
func (h *MediaHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/media", func(r chi.Router) {
		r.Get("/chroma/{file}", h.GetChromaFile)
		r.With(authMiddleware, h.limit).Post("/chroma-key", h.ChromaKey)
	})
}

// ChromaKey handles POST /media/chroma-key
// @Summary Remove image background
// @Description Downloads an image, makes pixels close to the key color transparent and stores the result as PNG.
// @Tags media
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.ChromaKeyRequest true "Chroma key parameters"
// @Success 200 {object} models.ChromaKeyResponse
// @Failure 400 {object} map[string]string "Invalid parameters or source image"
// @Failure 429 {object} map[string]string "Too many requests"
// @Router /media/chroma-key [post]
func (h *MediaHandler) ChromaKey(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	var req models.ChromaKeyRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.ChromaKey(r.Context(), userID, &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "process chroma key")
		return
	}

	h.RespondSuccess(w, http.StatusOK, resp)
}

// GetChromaFile handles GET /media/chroma/{file}
// @Summary Get generated PNG
// @Tags media
// @Produce png
// @Param file path string true "File name"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string "File not found"
// @Router /media/chroma/{file} [get]
func (h *MediaHandler) GetChromaFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")

	file, err := h.service.OpenChromaFile(name)
	if err != nil {
		h.RespondServiceError(w, r, err, "open chroma file")
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		h.RespondServiceError(w, r, err, "stat chroma file")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeContent(w, r, name, info.ModTime(), file)
}
