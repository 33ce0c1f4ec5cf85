package services

import (
	"context"
	"errors"
	"testing"

	"github.com/piteco/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPresenceService_Heartbeat(t *testing.T) {
	tests := []struct {
		name          string
		store         *mockPresenceStore
		userRepo      *mockUserRepository
		expected      bool
		expectedError bool
		expectedCalls int
	}{
		{name: "debounce acquired writes", store: &mockPresenceStore{acquire: true}, userRepo: &mockUserRepository{}, expected: true, expectedCalls: 1},
		{name: "debounced skips write", store: &mockPresenceStore{acquire: false}, userRepo: &mockUserRepository{}, expected: false},
		{name: "online marker failure is ignored", store: &mockPresenceStore{acquire: true, markErr: errors.New("redis down")}, userRepo: &mockUserRepository{}, expected: true, expectedCalls: 1},
		{name: "database failure", store: &mockPresenceStore{acquire: true}, userRepo: &mockUserRepository{lastSeenErr: errors.New("database error")}, expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewPresenceService(tt.store, tt.userRepo, zap.NewNop())

			result, err := svc.Heartbeat(context.Background(), 5)

			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Recorded)
			assert.Len(t, tt.userRepo.lastSeenCalls, tt.expectedCalls)
		})
	}
}

func TestPresenceService_Online(t *testing.T) {
	store := &mockPresenceStore{online: map[int]bool{1: true, 2: false}}
	svc := NewPresenceService(store, &mockUserRepository{}, zap.NewNop())
	ctx := context.Background()

	online, err := svc.Online(ctx, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{1: true, 2: false}, online)

	_, err = svc.Online(ctx, nil)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Online(ctx, make([]int, models.MaxPresenceQuery+1))
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Online(ctx, []int{1, -2})
	assert.ErrorIs(t, err, models.ErrValidation)
}
