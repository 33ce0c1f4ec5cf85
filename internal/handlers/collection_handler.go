package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/piteco/backend/internal/models"
	"go.uber.org/zap"
)

// CollectionService is the interface that wraps methods for collections and flashcards business logic.
//
// Every method checks that the caller owns the collection. Other users get an error wrapping models.ErrForbidden,
// missing records an error wrapping models.ErrNotFound.
type CollectionService interface {
	// Method ListCollections returns the caller's collections in natural order of their names.
	ListCollections(ctx context.Context, userID int) ([]models.Collection, error)
	// Method GetCollection returns one collection of the caller.
	GetCollection(ctx context.Context, userID, id int) (*models.Collection, error)
	// Method CreateCollection validates "req" and creates a collection owned by the caller.
	CreateCollection(ctx context.Context, userID int, req *models.CollectionRequest) (*models.Collection, error)
	// Method UpdateCollection validates "req" and renames a collection.
	UpdateCollection(ctx context.Context, userID, id int, req *models.CollectionRequest) (*models.Collection, error)
	// Method DeleteCollection deletes a collection with its flashcards.
	DeleteCollection(ctx context.Context, userID, id int) error
	// Method ListFlashcards returns the flashcards of a collection in natural order of their terms.
	ListFlashcards(ctx context.Context, userID, collectionID int) ([]models.Flashcard, error)
	// Method CreateFlashcard validates "req" and adds a flashcard to a collection.
	CreateFlashcard(ctx context.Context, userID, collectionID int, req *models.FlashcardRequest) (*models.Flashcard, error)
	// Method UpdateFlashcard validates "req" and replaces the content of a flashcard.
	UpdateFlashcard(ctx context.Context, userID, id int, req *models.FlashcardRequest) (*models.Flashcard, error)
	// Method DeleteFlashcard deletes a flashcard.
	DeleteFlashcard(ctx context.Context, userID, id int) error
}

// CollectionHandler handles collection and flashcard HTTP requests
type CollectionHandler struct {
	BaseHandler
	service CollectionService
}

// NewCollectionHandler creates a new collection handler
func NewCollectionHandler(svc CollectionService, logger *zap.Logger) *CollectionHandler {
	return &CollectionHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all collection handler routes
func (h *CollectionHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/collections", h.ListCollections)
		r.Post("/collections", h.CreateCollection)
		r.Get("/collections/{id}", h.GetCollection)
		r.Put("/collections/{id}", h.UpdateCollection)
		r.Delete("/collections/{id}", h.DeleteCollection)
		r.Get("/collections/{id}/flashcards", h.ListFlashcards)
		r.Post("/collections/{id}/flashcards", h.CreateFlashcard)
		r.Put("/flashcards/{id}", h.UpdateFlashcard)
		r.Delete("/flashcards/{id}", h.DeleteFlashcard)
	})
}

// ListCollections handles GET /collections
// @Summary List collections
// @Description List the caller's collections in natural order of their names
// @Tags collections
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Collection
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /collections [get]
func (h *CollectionHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	collections, err := h.service.ListCollections(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, r, err, "list collections")
		return
	}

	h.RespondSuccess(w, http.StatusOK, map[string]any{"collections": collections})
}

// GetCollection handles GET /collections/{id}
// @Summary Get collection
// @Tags collections
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Collection ID"
// @Success 200 {object} models.Collection
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Collection not found"
// @Router /collections/{id} [get]
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	collection, err := h.service.GetCollection(r.Context(), userID, id)
	if err != nil {
		h.RespondServiceError(w, r, err, "get collection")
		return
	}

	h.RespondSuccess(w, http.StatusOK, collection)
}

// CreateCollection handles POST /collections
// @Summary Create collection
// @Tags collections
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CollectionRequest true "Collection"
// @Success 201 {object} models.Collection
// @Failure 400 {object} map[string]string "Validation error"
// @Router /collections [post]
func (h *CollectionHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	var req models.CollectionRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	collection, err := h.service.CreateCollection(r.Context(), userID, &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "create collection")
		return
	}

	h.RespondSuccess(w, http.StatusCreated, collection)
}

// UpdateCollection handles PUT /collections/{id}
// @Summary Update collection
// @Tags collections
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Collection ID"
// @Param request body models.CollectionRequest true "Collection"
// @Success 200 {object} models.Collection
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Collection not found"
// @Router /collections/{id} [put]
func (h *CollectionHandler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var req models.CollectionRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	collection, err := h.service.UpdateCollection(r.Context(), userID, id, &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "update collection")
		return
	}

	h.RespondSuccess(w, http.StatusOK, collection)
}

// DeleteCollection handles DELETE /collections/{id}
// @Summary Delete collection
// @Tags collections
// @Security ApiKeyAuth
// @Param id path int true "Collection ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Collection not found"
// @Router /collections/{id} [delete]
func (h *CollectionHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCollection(r.Context(), userID, id); err != nil {
		h.RespondServiceError(w, r, err, "delete collection")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListFlashcards handles GET /collections/{id}/flashcards
// @Summary List flashcards
// @Description List the flashcards of a collection in natural order of their terms
// @Tags flashcards
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Collection ID"
// @Success 200 {array} models.Flashcard
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Collection not found"
// @Router /collections/{id}/flashcards [get]
func (h *CollectionHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	collectionID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	flashcards, err := h.service.ListFlashcards(r.Context(), userID, collectionID)
	if err != nil {
		h.RespondServiceError(w, r, err, "list flashcards")
		return
	}

	h.RespondSuccess(w, http.StatusOK, map[string]any{"flashcards": flashcards})
}

// CreateFlashcard handles POST /collections/{id}/flashcards
// @Summary Create flashcard
// @Tags flashcards
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Collection ID"
// @Param request body models.FlashcardRequest true "Flashcard"
// @Success 201 {object} models.Flashcard
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Not the owner"
// @Router /collections/{id}/flashcards [post]
func (h *CollectionHandler) CreateFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	collectionID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var req models.FlashcardRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	flashcard, err := h.service.CreateFlashcard(r.Context(), userID, collectionID, &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "create flashcard")
		return
	}

	h.RespondSuccess(w, http.StatusCreated, flashcard)
}

// UpdateFlashcard handles PUT /flashcards/{id}
// @Summary Update flashcard
// @Tags flashcards
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Flashcard ID"
// @Param request body models.FlashcardRequest true "Flashcard"
// @Success 200 {object} models.Flashcard
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Flashcard not found"
// @Router /flashcards/{id} [put]
func (h *CollectionHandler) UpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var req models.FlashcardRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	flashcard, err := h.service.UpdateFlashcard(r.Context(), userID, id, &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "update flashcard")
		return
	}

	h.RespondSuccess(w, http.StatusOK, flashcard)
}

// DeleteFlashcard handles DELETE /flashcards/{id}
// @Summary Delete flashcard
// @Tags flashcards
// @Security ApiKeyAuth
// @Param id path int true "Flashcard ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Flashcard not found"
// @Router /flashcards/{id} [delete]
func (h *CollectionHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteFlashcard(r.Context(), userID, id); err != nil {
		h.RespondServiceError(w, r, err, "delete flashcard")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
