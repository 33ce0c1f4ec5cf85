package services

import (
	"context"
	"math"

	"github.com/piteco/backend/internal/matching"
	"github.com/piteco/backend/internal/metrics"
	"github.com/piteco/backend/internal/models"
	"go.uber.org/zap"
)

// FlashcardReader reads flashcards with their owner
type FlashcardReader interface {
	// Method GetByID retrieves a flashcard together with the owner of its collection.
	//
	// If flashcard with such ID does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.FlashcardWithOwner, error)
}

// CollectionReader reads collections
type CollectionReader interface {
	// Method GetByID retrieves a collection by ID.
	//
	// If collection with such ID does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Collection, error)
}

// StudyRepository is the interface that wraps methods for StudySessions table data access
type StudyRepository interface {
	// Method CreateSession stores a finished session and credits session.PointsAwarded to the user.
	//
	// It returns the point balance after the credit. Both writes happen in one transaction.
	CreateSession(ctx context.Context, session *models.StudySession) (int, error)
}

const (
	minHintLevel = matching.HintFirstLetter
	maxHintLevel = matching.HintFull
)

// studyService implements StudyService
type studyService struct {
	flashcardRepo    FlashcardReader
	collectionRepo   CollectionReader
	studyRepo        StudyRepository
	defaultThreshold float64
	logger           *zap.Logger
}

// NewStudyService creates a new study service.
// "defaultThreshold" is used when a check request does not carry its own threshold.
func NewStudyService(
	flashcardRepo FlashcardReader,
	collectionRepo CollectionReader,
	studyRepo StudyRepository,
	defaultThreshold float64,
	logger *zap.Logger,
) *studyService {
	return &studyService{
		flashcardRepo:    flashcardRepo,
		collectionRepo:   collectionRepo,
		studyRepo:        studyRepo,
		defaultThreshold: defaultThreshold,
		logger:           logger,
	}
}

// CheckAnswer compares an answer with the expected side of a flashcard
func (s *studyService) CheckAnswer(ctx context.Context, userID int, req *models.CheckAnswerRequest) (*models.CheckAnswerResponse, error) {
	direction, err := parseDirection(req.Direction)
	if err != nil {
		return nil, err
	}

	threshold := s.defaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
		if math.IsNaN(threshold) || threshold <= 0 || threshold >= 1 {
			return nil, models.Validationf("A tolerância deve estar entre 0 e 1")
		}
	}

	flashcard, err := s.ownedFlashcard(ctx, userID, req.FlashcardID)
	if err != nil {
		return nil, err
	}

	candidates := answerCandidates(flashcard, direction)
	result := matching.IsAcceptableAnswer(req.Answer, candidates, threshold)
	metrics.RecordAnswerChecked(result.Correct)

	return &models.CheckAnswerResponse{
		Correct:  result.Correct,
		Matched:  result.Matched,
		Distance: result.Distance,
		Expected: candidates[0],
	}, nil
}

// Hint returns a progressive hint for the expected side of a flashcard
func (s *studyService) Hint(ctx context.Context, userID, flashcardID, level int, direction models.Direction) (*models.HintResponse, error) {
	direction, err := parseDirection(direction)
	if err != nil {
		return nil, err
	}
	if level < minHintLevel || level > maxHintLevel {
		return nil, models.Validationf("O nível da dica deve estar entre %d e %d", minHintLevel, maxHintLevel)
	}

	flashcard, err := s.ownedFlashcard(ctx, userID, flashcardID)
	if err != nil {
		return nil, err
	}

	answer := answerCandidates(flashcard, direction)[0]
	return &models.HintResponse{Hint: matching.Hint(answer, level), Level: level}, nil
}

// RecordSession stores a finished study session and awards its points
func (s *studyService) RecordSession(ctx context.Context, userID int, req *models.StudySessionRequest) (*models.StudySessionResponse, error) {
	switch req.Mode {
	case models.StudyModeWrite, models.StudyModeQuiz, models.StudyModeMatch:
	default:
		return nil, models.Validationf("Modo de estudo inválido")
	}
	if req.Total < 1 {
		return nil, models.Validationf("A sessão deve ter pelo menos uma pergunta")
	}
	if req.Correct < 0 || req.Correct > req.Total {
		return nil, models.Validationf("O número de acertos deve estar entre 0 e o total de perguntas")
	}

	collection, err := s.collectionRepo.GetByID(ctx, req.CollectionID)
	if err != nil {
		return nil, err
	}
	if collection.OwnerID != userID {
		return nil, models.NewUserError(models.ErrForbidden, "Você não tem acesso a esta coleção")
	}

	session := &models.StudySession{
		UserID:        userID,
		CollectionID:  req.CollectionID,
		Mode:          req.Mode,
		Correct:       req.Correct,
		Total:         req.Total,
		PointsAwarded: req.Correct * models.PointsPerCorrectAnswer,
	}
	points, err := s.studyRepo.CreateSession(ctx, session)
	if err != nil {
		s.logger.Error("failed to record study session", zap.Int("user_id", userID), zap.Error(err))
		return nil, err
	}

	return &models.StudySessionResponse{PointsAwarded: session.PointsAwarded, Points: points}, nil
}

func (s *studyService) ownedFlashcard(ctx context.Context, userID, id int) (*models.FlashcardWithOwner, error) {
	flashcard, err := s.flashcardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if flashcard.OwnerID != userID {
		return nil, models.NewUserError(models.ErrForbidden, "Você não tem acesso a este cartão")
	}
	return flashcard, nil
}

func parseDirection(direction models.Direction) (models.Direction, error) {
	switch direction {
	case "":
		return models.DirectionForward, nil
	case models.DirectionForward, models.DirectionReverse:
		return direction, nil
	default:
		return "", models.Validationf("Direção inválida, use \"forward\" ou \"reverse\"")
	}
}

// answerCandidates lists the accepted answers, the canonical one first
func answerCandidates(f *models.FlashcardWithOwner, direction models.Direction) []string {
	if direction == models.DirectionReverse {
		return []string{f.Term}
	}
	return append([]string{f.Translation}, f.Alternatives...)
}
