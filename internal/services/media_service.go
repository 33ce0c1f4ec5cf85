package services

import (
	"context"
	"errors"
	"image/color"
	"io"
	"os"
	"strings"
	"time"

	"github.com/piteco/backend/internal/chromakey"
	"github.com/piteco/backend/internal/metrics"
	"github.com/piteco/backend/internal/models"
	"github.com/piteco/backend/internal/storage"
	"go.uber.org/zap"
)

// ChromaCategory is the storage category of generated PNGs
const ChromaCategory = "chroma"

// BackgroundRemover is the interface that wraps the chroma key processor
type BackgroundRemover interface {
	// Method RemoveBackground downloads "imageURL" and makes pixels close to "key" transparent.
	//
	// Returns PNG bytes. Failures caused by the source image wrap chromakey.ErrSourceImage.
	RemoveBackground(ctx context.Context, imageURL string, key color.RGBA, threshold float64) ([]byte, error)
}

// FileStorage is the interface that wraps methods for media file access
type FileStorage interface {
	// Method Create opens a new file "name" inside "category" for writing.
	//
	// If "name" is not a plain file name, storage.ErrInvalidName is returned.
	Create(category, name string) (io.WriteCloser, error)
	// Method OpenFile opens a stored file for reading.
	//
	// If "name" is not a plain file name, storage.ErrInvalidName is returned.
	OpenFile(category, name string) (*os.File, error)
	// Method Delete removes a stored file.
	Delete(category, name string) error
}

// mediaService implements MediaService
type mediaService struct {
	remover BackgroundRemover
	storage FileStorage
	baseURL string
	logger  *zap.Logger
}

// NewMediaService creates a new media service.
// "baseURL" prefixes the URLs of generated files and may be empty for relative URLs.
func NewMediaService(remover BackgroundRemover, storage FileStorage, baseURL string, logger *zap.Logger) *mediaService {
	return &mediaService{
		remover: remover,
		storage: storage,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// ChromaKey removes the background colour of a remote image and stores the result as PNG
func (s *mediaService) ChromaKey(ctx context.Context, userID int, req *models.ChromaKeyRequest) (*models.ChromaKeyResponse, error) {
	key, err := chromakey.ParseHexColor(req.Color)
	if err != nil {
		return nil, models.Validationf("A cor deve estar no formato #rrggbb")
	}
	if req.Threshold <= 0 || req.Threshold > chromakey.MaxThreshold {
		return nil, models.Validationf("A tolerância deve estar entre 0 e %.0f", chromakey.MaxThreshold)
	}
	imageURL := strings.TrimSpace(req.ImageURL)
	if imageURL == "" {
		return nil, models.Validationf("Informe a URL da imagem")
	}

	start := time.Now()
	data, err := s.remover.RemoveBackground(ctx, imageURL, key, req.Threshold)
	metrics.ObserveChromaKey(time.Since(start))
	if err != nil {
		if errors.Is(err, chromakey.ErrSourceImage) {
			s.logger.Debug("chroma key source rejected", zap.Int("user_id", userID), zap.Error(err))
			return nil, models.Validationf("Não foi possível carregar a imagem informada")
		}
		return nil, err
	}

	name := storage.GenerateFileName(".png")
	if err := s.save(name, data); err != nil {
		return nil, err
	}

	s.logger.Info("chroma key image stored", zap.Int("user_id", userID), zap.String("file", name), zap.Int("bytes", len(data)))
	return &models.ChromaKeyResponse{URL: s.baseURL + "/api/v1/media/" + ChromaCategory + "/" + name}, nil
}

func (s *mediaService) save(name string, data []byte) error {
	w, err := s.storage.Create(ChromaCategory, name)
	if err != nil {
		return err
	}
	_, writeErr := w.Write(data)
	closeErr := w.Close()
	if writeErr == nil && closeErr == nil {
		return nil
	}

	if err := s.storage.Delete(ChromaCategory, name); err != nil {
		s.logger.Warn("failed to remove partial media file", zap.String("file", name), zap.Error(err))
	}
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}

// OpenChromaFile opens a generated PNG. Unknown and invalid names are reported as not found.
func (s *mediaService) OpenChromaFile(name string) (*os.File, error) {
	f, err := s.storage.OpenFile(ChromaCategory, name)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidName) || errors.Is(err, os.ErrNotExist) {
			return nil, models.NewUserError(models.ErrNotFound, "Arquivo não encontrado")
		}
		return nil, err
	}
	return f, nil
}
