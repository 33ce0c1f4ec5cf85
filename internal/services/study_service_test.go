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

func newStudyFlashcard(ownerID int) *models.FlashcardWithOwner {
	return &models.FlashcardWithOwner{
		Flashcard: models.Flashcard{
			ID:           1,
			CollectionID: 2,
			Term:         "butterfly",
			Translation:  "borboleta",
			Alternatives: []string{"mariposa"},
		},
		OwnerID: ownerID,
	}
}

func TestStudyService_CheckAnswer(t *testing.T) {
	threshold := 0.5
	badThreshold := 1.0

	tests := []struct {
		name          string
		req           models.CheckAnswerRequest
		userID        int
		expectedError error
		correct       bool
		matched       string
		expected      string
	}{
		{
			name:     "exact forward answer",
			req:      models.CheckAnswerRequest{FlashcardID: 1, Answer: "Borboleta"},
			userID:   5,
			correct:  true,
			matched:  "borboleta",
			expected: "borboleta",
		},
		{
			name:     "alternative answer",
			req:      models.CheckAnswerRequest{FlashcardID: 1, Answer: "mariposa", Direction: models.DirectionForward},
			userID:   5,
			correct:  true,
			matched:  "mariposa",
			expected: "borboleta",
		},
		{
			name:     "typo beyond default threshold",
			req:      models.CheckAnswerRequest{FlashcardID: 1, Answer: "borboletta"},
			userID:   5,
			expected: "borboleta",
		},
		{
			name:     "reverse direction",
			req:      models.CheckAnswerRequest{FlashcardID: 1, Answer: "butterfly", Direction: models.DirectionReverse},
			userID:   5,
			correct:  true,
			matched:  "butterfly",
			expected: "butterfly",
		},
		{
			name:     "wrong answer",
			req:      models.CheckAnswerRequest{FlashcardID: 1, Answer: "abelha"},
			userID:   5,
			expected: "borboleta",
		},
		{
			name:     "custom threshold accepts more typos",
			req:      models.CheckAnswerRequest{FlashcardID: 1, Answer: "borbolotu", Threshold: &threshold},
			userID:   5,
			correct:  true,
			matched:  "borboleta",
			expected: "borboleta",
		},
		{
			name:          "threshold out of range",
			req:           models.CheckAnswerRequest{FlashcardID: 1, Answer: "x", Threshold: &badThreshold},
			userID:        5,
			expectedError: models.ErrValidation,
		},
		{
			name:          "invalid direction",
			req:           models.CheckAnswerRequest{FlashcardID: 1, Answer: "x", Direction: "sideways"},
			userID:        5,
			expectedError: models.ErrValidation,
		},
		{
			name:          "not the owner",
			req:           models.CheckAnswerRequest{FlashcardID: 1, Answer: "borboleta"},
			userID:        6,
			expectedError: models.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flashcardRepo := &mockFlashcardRepository{flashcard: newStudyFlashcard(5)}
			svc := NewStudyService(flashcardRepo, &mockCollectionRepository{}, &mockStudyRepository{}, 0.1, zap.NewNop())

			result, err := svc.CheckAnswer(context.Background(), tt.userID, &tt.req)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.correct, result.Correct)
			assert.Equal(t, tt.matched, result.Matched)
			assert.Equal(t, tt.expected, result.Expected)
		})
	}
}

func TestStudyService_CheckAnswer_NotFound(t *testing.T) {
	svc := NewStudyService(&mockFlashcardRepository{}, &mockCollectionRepository{}, &mockStudyRepository{}, 0.1, zap.NewNop())

	_, err := svc.CheckAnswer(context.Background(), 5, &models.CheckAnswerRequest{FlashcardID: 9, Answer: "x"})

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStudyService_Hint(t *testing.T) {
	svc := NewStudyService(&mockFlashcardRepository{flashcard: newStudyFlashcard(5)}, &mockCollectionRepository{}, &mockStudyRepository{}, 0.1, zap.NewNop())
	ctx := context.Background()

	hint, err := svc.Hint(ctx, 5, 1, 1, "")
	require.NoError(t, err)
	assert.Equal(t, "b________", hint.Hint)
	assert.Equal(t, 1, hint.Level)

	hint, err = svc.Hint(ctx, 5, 1, 3, models.DirectionReverse)
	require.NoError(t, err)
	assert.Equal(t, "butterfly", hint.Hint)

	_, err = svc.Hint(ctx, 5, 1, 0, "")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Hint(ctx, 5, 1, 4, "")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Hint(ctx, 6, 1, 1, "")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestStudyService_RecordSession(t *testing.T) {
	tests := []struct {
		name           string
		req            models.StudySessionRequest
		studyRepo      *mockStudyRepository
		expectedError  error
		expectedAward  int
		expectedPoints int
	}{
		{
			name:           "success",
			req:            models.StudySessionRequest{CollectionID: 2, Mode: models.StudyModeQuiz, Correct: 7, Total: 10},
			studyRepo:      &mockStudyRepository{points: 30},
			expectedAward:  70,
			expectedPoints: 100,
		},
		{
			name:           "no correct answers",
			req:            models.StudySessionRequest{CollectionID: 2, Mode: models.StudyModeMatch, Correct: 0, Total: 4},
			studyRepo:      &mockStudyRepository{points: 30},
			expectedAward:  0,
			expectedPoints: 30,
		},
		{
			name:          "invalid mode",
			req:           models.StudySessionRequest{CollectionID: 2, Mode: "speed", Correct: 1, Total: 1},
			studyRepo:     &mockStudyRepository{},
			expectedError: models.ErrValidation,
		},
		{
			name:          "zero total",
			req:           models.StudySessionRequest{CollectionID: 2, Mode: models.StudyModeWrite, Correct: 0, Total: 0},
			studyRepo:     &mockStudyRepository{},
			expectedError: models.ErrValidation,
		},
		{
			name:          "more correct than total",
			req:           models.StudySessionRequest{CollectionID: 2, Mode: models.StudyModeWrite, Correct: 5, Total: 4},
			studyRepo:     &mockStudyRepository{},
			expectedError: models.ErrValidation,
		},
		{
			name:          "negative correct",
			req:           models.StudySessionRequest{CollectionID: 2, Mode: models.StudyModeWrite, Correct: -1, Total: 4},
			studyRepo:     &mockStudyRepository{},
			expectedError: models.ErrValidation,
		},
		{
			name:          "repository error",
			req:           models.StudySessionRequest{CollectionID: 2, Mode: models.StudyModeWrite, Correct: 1, Total: 1},
			studyRepo:     &mockStudyRepository{err: errors.New("deadlock")},
			expectedError: errors.New("deadlock"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collectionRepo := &mockCollectionRepository{collection: &models.Collection{ID: 2, OwnerID: 5}}
			svc := NewStudyService(&mockFlashcardRepository{}, collectionRepo, tt.studyRepo, 0.1, zap.NewNop())

			result, err := svc.RecordSession(context.Background(), 5, &tt.req)

			if tt.expectedError != nil {
				require.Error(t, err)
				if errors.Is(tt.expectedError, models.ErrValidation) {
					assert.ErrorIs(t, err, models.ErrValidation)
				} else {
					assert.EqualError(t, err, tt.expectedError.Error())
				}
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedAward, result.PointsAwarded)
			assert.Equal(t, tt.expectedPoints, result.Points)
			assert.Equal(t, 5, tt.studyRepo.session.UserID)
		})
	}
}

func TestStudyService_RecordSession_Forbidden(t *testing.T) {
	collectionRepo := &mockCollectionRepository{collection: &models.Collection{ID: 2, OwnerID: 5}}
	studyRepo := &mockStudyRepository{}
	svc := NewStudyService(&mockFlashcardRepository{}, collectionRepo, studyRepo, 0.1, zap.NewNop())

	_, err := svc.RecordSession(context.Background(), 6, &models.StudySessionRequest{
		CollectionID: 2, Mode: models.StudyModeWrite, Correct: 1, Total: 1,
	})

	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.Nil(t, studyRepo.session)
}
