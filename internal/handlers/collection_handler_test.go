package handlers

import (
	"net/http"
	"testing"

	"github.com/piteco/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCollectionHandler_Routes(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		body           any
		err            error
		expectedStatus int
		expectedID     int
	}{
		{name: "list", method: http.MethodGet, path: "/api/v1/collections", expectedStatus: http.StatusOK},
		{name: "create", method: http.MethodPost, path: "/api/v1/collections", body: models.CollectionRequest{Name: "Verbos"}, expectedStatus: http.StatusCreated},
		{name: "get", method: http.MethodGet, path: "/api/v1/collections/4", expectedStatus: http.StatusOK, expectedID: 4},
		{name: "get forbidden", method: http.MethodGet, path: "/api/v1/collections/4", err: models.ErrForbidden, expectedStatus: http.StatusForbidden, expectedID: 4},
		{name: "invalid id", method: http.MethodGet, path: "/api/v1/collections/abc", expectedStatus: http.StatusBadRequest},
		{name: "update", method: http.MethodPut, path: "/api/v1/collections/4", body: models.CollectionRequest{Name: "Verbos II"}, expectedStatus: http.StatusOK, expectedID: 4},
		{name: "delete", method: http.MethodDelete, path: "/api/v1/collections/4", expectedStatus: http.StatusNoContent, expectedID: 4},
		{name: "list flashcards", method: http.MethodGet, path: "/api/v1/collections/4/flashcards", expectedStatus: http.StatusOK, expectedID: 4},
		{name: "create flashcard", method: http.MethodPost, path: "/api/v1/collections/4/flashcards", body: models.FlashcardRequest{Term: "gato", Translation: "cat"}, expectedStatus: http.StatusCreated, expectedID: 4},
		{name: "update flashcard", method: http.MethodPut, path: "/api/v1/flashcards/9", body: models.FlashcardRequest{Term: "gato", Translation: "cat"}, expectedStatus: http.StatusOK, expectedID: 9},
		{name: "delete missing flashcard", method: http.MethodDelete, path: "/api/v1/flashcards/9", err: models.ErrNotFound, expectedStatus: http.StatusNotFound, expectedID: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCollectionService{
				collection: &models.Collection{ID: 4, OwnerID: 1, Name: "Verbos"},
				flashcard:  &models.Flashcard{ID: 9, CollectionID: 4, Term: "gato", Translation: "cat"},
				err:        tt.err,
			}
			router := newTestRouter(NewCollectionHandler(svc, zap.NewNop()))

			w := doRequest(t, router, tt.method, tt.path, tt.body, 1)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedID > 0 {
				assert.Equal(t, tt.expectedID, svc.lastID)
				assert.Equal(t, 1, svc.lastUserID)
			}
		})
	}
}

func TestCollectionHandler_ListWrapsItems(t *testing.T) {
	svc := &mockCollectionService{collections: []models.Collection{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}}
	router := newTestRouter(NewCollectionHandler(svc, zap.NewNop()))

	w := doRequest(t, router, http.MethodGet, "/api/v1/collections", nil, 1)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["collections"], 2)
}

func TestCollectionHandler_RequiresAuth(t *testing.T) {
	router := newTestRouter(NewCollectionHandler(&mockCollectionService{}, zap.NewNop()))

	w := doRequest(t, router, http.MethodGet, "/api/v1/collections", nil, 0)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
