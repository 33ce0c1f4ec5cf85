package services

import (
	"context"
	"time"

	"github.com/piteco/backend/internal/models"
	"go.uber.org/zap"
)

// PresenceStore is the interface that wraps the redis presence keys
type PresenceStore interface {
	// Method AcquireDebounce reports whether the heartbeat of "userID" should be written to the database.
	//
	// Returns true at most once per heartbeat interval, and always when redis is unavailable.
	AcquireDebounce(ctx context.Context, userID int) bool
	// Method MarkOnline refreshes the online marker of "userID".
	MarkOnline(ctx context.Context, userID int) error
	// Method Online reports which of "userIDs" have a live online marker.
	Online(ctx context.Context, userIDs []int) (map[int]bool, error)
}

// LastSeenWriter persists heartbeats
type LastSeenWriter interface {
	// Method UpdateLastSeen sets users.last_seen_at of "userID".
	UpdateLastSeen(ctx context.Context, userID int, seenAt time.Time) error
}

// presenceService implements PresenceService
type presenceService struct {
	store    PresenceStore
	userRepo LastSeenWriter
	logger   *zap.Logger
	now      func() time.Time
}

// NewPresenceService creates a new presence service
func NewPresenceService(store PresenceStore, userRepo LastSeenWriter, logger *zap.Logger) *presenceService {
	return &presenceService{
		store:    store,
		userRepo: userRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// Heartbeat marks the caller online and writes last_seen_at at most once per interval
func (s *presenceService) Heartbeat(ctx context.Context, userID int) (*models.HeartbeatResponse, error) {
	if err := s.store.MarkOnline(ctx, userID); err != nil {
		s.logger.Warn("failed to refresh online marker", zap.Int("user_id", userID), zap.Error(err))
	}

	if !s.store.AcquireDebounce(ctx, userID) {
		return &models.HeartbeatResponse{Recorded: false}, nil
	}

	if err := s.userRepo.UpdateLastSeen(ctx, userID, s.now().UTC()); err != nil {
		return nil, err
	}
	return &models.HeartbeatResponse{Recorded: true}, nil
}

// Online reports which users are currently online
func (s *presenceService) Online(ctx context.Context, userIDs []int) (map[int]bool, error) {
	if len(userIDs) == 0 || len(userIDs) > models.MaxPresenceQuery {
		return nil, models.Validationf("Informe entre 1 e %d usuários", models.MaxPresenceQuery)
	}
	for _, id := range userIDs {
		if id <= 0 {
			return nil, models.Validationf("Identificador de usuário inválido")
		}
	}
	return s.store.Online(ctx, userIDs)
}
