package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/piteco/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMediaHandler_ChromaKey(t *testing.T) {
	limited := 0
	limit := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limited++
			next.ServeHTTP(w, r)
		})
	}
	svc := &mockMediaService{resp: &models.ChromaKeyResponse{URL: "/api/v1/media/chroma/a.png"}}
	router := newTestRouter(NewMediaHandler(svc, limit, zap.NewNop()))

	w := doRequest(t, router, http.MethodPost, "/api/v1/media/chroma-key", models.ChromaKeyRequest{
		ImageURL: "https://cdn.example.com/cat.jpg", Color: "#00FF00", Threshold: 60,
	}, 1)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/api/v1/media/chroma/a.png", decodeBody(t, w)["url"])
	assert.Equal(t, 1, limited)

	w = doRequest(t, router, http.MethodPost, "/api/v1/media/chroma-key", nil, 0)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 1, limited)
}

func TestMediaHandler_GetChromaFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG fake"), 0o644))

	svc := &mockMediaService{filePath: path}
	router := newTestRouter(NewMediaHandler(svc, func(next http.Handler) http.Handler { return next }, zap.NewNop()))

	w := doRequest(t, router, http.MethodGet, "/api/v1/media/chroma/a.png", nil, 0)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG fake", w.Body.String())

	svc.err = models.ErrNotFound
	w = doRequest(t, router, http.MethodGet, "/api/v1/media/chroma/missing.png", nil, 0)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
