package services

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piteco/backend/internal/chromakey"
	"github.com/piteco/backend/internal/models"
	"github.com/piteco/backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMediaService_ChromaKey(t *testing.T) {
	tests := []struct {
		name          string
		req           models.ChromaKeyRequest
		remover       *mockRemover
		expectedError error
	}{
		{
			name:    "success",
			req:     models.ChromaKeyRequest{ImageURL: "https://img.example/cat.png", Color: "#00ff00", Threshold: 60},
			remover: &mockRemover{data: []byte("png")},
		},
		{
			name:          "invalid color",
			req:           models.ChromaKeyRequest{ImageURL: "https://img.example/cat.png", Color: "green", Threshold: 60},
			remover:       &mockRemover{},
			expectedError: models.ErrValidation,
		},
		{
			name:          "zero threshold",
			req:           models.ChromaKeyRequest{ImageURL: "https://img.example/cat.png", Color: "#00ff00", Threshold: 0},
			remover:       &mockRemover{},
			expectedError: models.ErrValidation,
		},
		{
			name:          "threshold above max distance",
			req:           models.ChromaKeyRequest{ImageURL: "https://img.example/cat.png", Color: "#00ff00", Threshold: 443},
			remover:       &mockRemover{},
			expectedError: models.ErrValidation,
		},
		{
			name:          "missing url",
			req:           models.ChromaKeyRequest{Color: "#00ff00", Threshold: 60},
			remover:       &mockRemover{},
			expectedError: models.ErrValidation,
		},
		{
			name:          "bad source image",
			req:           models.ChromaKeyRequest{ImageURL: "https://img.example/404.png", Color: "#00ff00", Threshold: 60},
			remover:       &mockRemover{err: fmt.Errorf("%w: status 404", chromakey.ErrSourceImage)},
			expectedError: models.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			svc := NewMediaService(tt.remover, &mockStorage{dir: dir}, "https://api.piteco.app/", zap.NewNop())

			result, err := svc.ChromaKey(context.Background(), 5, &tt.req)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, color.RGBA{R: 0, G: 255, B: 0, A: 255}, tt.remover.key)
			require.True(t, strings.HasPrefix(result.URL, "https://api.piteco.app/api/v1/media/chroma/"))

			name := strings.TrimPrefix(result.URL, "https://api.piteco.app/api/v1/media/chroma/")
			assert.True(t, strings.HasSuffix(name, ".png"))
			data, err := os.ReadFile(filepath.Join(dir, name))
			require.NoError(t, err)
			assert.Equal(t, []byte("png"), data)
		})
	}
}

func TestMediaService_ChromaKey_ProcessingError(t *testing.T) {
	svc := NewMediaService(&mockRemover{err: errors.New("encode failed")}, &mockStorage{dir: t.TempDir()}, "", zap.NewNop())

	_, err := svc.ChromaKey(context.Background(), 5, &models.ChromaKeyRequest{ImageURL: "https://img.example/a.png", Color: "#ffffff", Threshold: 10})

	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrValidation)
}

func TestMediaService_OpenChromaFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("png"), 0o644))
	svc := NewMediaService(&mockRemover{}, &mockStorage{dir: dir}, "", zap.NewNop())

	f, err := svc.OpenChromaFile("a.png")
	require.NoError(t, err)
	f.Close()

	_, err = svc.OpenChromaFile("missing.png")
	assert.ErrorIs(t, err, models.ErrNotFound)

	invalid := NewMediaService(&mockRemover{}, &mockStorage{dir: dir, openErr: storage.ErrInvalidName}, "", zap.NewNop())
	_, err = invalid.OpenChromaFile("../etc/passwd")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
