package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// PresenceStore tracks heartbeats in redis.
//
// presence:debounce:{id} lives for one interval and gates database writes,
// presence:online:{id} lives for two intervals and answers "is online" queries.
type PresenceStore struct {
	rdb      *redis.Client
	interval time.Duration
	logger   *zap.Logger
}

// NewPresenceStore creates a new presence store
func NewPresenceStore(rdb *redis.Client, interval time.Duration, logger *zap.Logger) *PresenceStore {
	return &PresenceStore{
		rdb:      rdb,
		interval: interval,
		logger:   logger,
	}
}

// AcquireDebounce returns true when no heartbeat of userID was recorded in the current interval.
// If redis fails it returns true so the heartbeat is still written.
func (s *PresenceStore) AcquireDebounce(ctx context.Context, userID int) bool {
	ok, err := s.rdb.SetNX(ctx, debounceKey(userID), 1, s.interval).Result()
	if err != nil {
		s.logger.Warn("redis heartbeat debounce failed, recording heartbeat",
			zap.Int("user_id", userID),
			zap.Error(err),
		)
		return true
	}
	return ok
}

// MarkOnline refreshes the online marker of userID
func (s *PresenceStore) MarkOnline(ctx context.Context, userID int) error {
	if err := s.rdb.Set(ctx, onlineKey(userID), 1, 2*s.interval).Err(); err != nil {
		return fmt.Errorf("failed to mark user online: %w", err)
	}
	return nil
}

// Online reports which of userIDs have a live online marker
func (s *PresenceStore) Online(ctx context.Context, userIDs []int) (map[int]bool, error) {
	result := make(map[int]bool, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = onlineKey(id)
	}

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read presence: %w", err)
	}

	for i, id := range userIDs {
		result[id] = values[i] != nil
	}

	return result, nil
}

func debounceKey(userID int) string {
	return fmt.Sprintf("presence:debounce:%d", userID)
}

func onlineKey(userID int) string {
	return fmt.Sprintf("presence:online:%d", userID)
}
