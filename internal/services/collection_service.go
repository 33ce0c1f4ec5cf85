package services

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/piteco/backend/internal/models"
	"github.com/piteco/backend/internal/natsort"
	"go.uber.org/zap"
)

// CollectionRepository is the interface that wraps methods for Collections table data access
type CollectionRepository interface {
	// Method GetByOwner retrieves all collections of a user with their flashcard counts.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	GetByOwner(ctx context.Context, ownerID int) ([]models.Collection, error)
	// Method GetByID retrieves a collection by ID.
	//
	// If collection with such ID does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Collection, error)
	// Method Create inserts a new collection and fills in its ID.
	Create(ctx context.Context, c *models.Collection) error
	// Method Update stores the name and description of a collection.
	Update(ctx context.Context, c *models.Collection) error
	// Method Delete deletes a collection and its flashcards.
	//
	// If collection with such ID does not exist, an error wrapping models.ErrNotFound is returned.
	Delete(ctx context.Context, id int) error
}

// FlashcardRepository is the interface that wraps methods for Flashcards table data access
type FlashcardRepository interface {
	// Method GetByCollection retrieves all flashcards of a collection.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	GetByCollection(ctx context.Context, collectionID int) ([]models.Flashcard, error)
	// Method GetByID retrieves a flashcard together with the owner of its collection.
	//
	// If flashcard with such ID does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.FlashcardWithOwner, error)
	// Method Create inserts a new flashcard and fills in its ID.
	Create(ctx context.Context, f *models.Flashcard) error
	// Method Update stores the content of a flashcard.
	Update(ctx context.Context, f *models.Flashcard) error
	// Method Delete deletes a flashcard.
	//
	// If flashcard with such ID does not exist, an error wrapping models.ErrNotFound is returned.
	Delete(ctx context.Context, id int) error
}

const (
	maxCollectionNameLength        = 100
	maxCollectionDescriptionLength = 500
	maxFlashcardFieldLength        = 200
	maxAlternatives                = 20
)

// collectionService implements CollectionService
type collectionService struct {
	collectionRepo CollectionRepository
	flashcardRepo  FlashcardRepository
	logger         *zap.Logger
}

// NewCollectionService creates a new collection service
func NewCollectionService(collectionRepo CollectionRepository, flashcardRepo FlashcardRepository, logger *zap.Logger) *collectionService {
	return &collectionService{
		collectionRepo: collectionRepo,
		flashcardRepo:  flashcardRepo,
		logger:         logger,
	}
}

// ListCollections returns the caller's collections in natural order of their names
func (s *collectionService) ListCollections(ctx context.Context, userID int) ([]models.Collection, error) {
	collections, err := s.collectionRepo.GetByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(collections, func(a, b models.Collection) int {
		return natsort.Compare(a.Name, b.Name)
	})
	return collections, nil
}

// GetCollection returns a collection owned by the caller
func (s *collectionService) GetCollection(ctx context.Context, userID, id int) (*models.Collection, error) {
	return s.ownedCollection(ctx, userID, id)
}

// CreateCollection creates a collection owned by the caller
func (s *collectionService) CreateCollection(ctx context.Context, userID int, req *models.CollectionRequest) (*models.Collection, error) {
	name, description, err := validateCollection(req)
	if err != nil {
		return nil, err
	}

	collection := &models.Collection{OwnerID: userID, Name: name, Description: description}
	if err := s.collectionRepo.Create(ctx, collection); err != nil {
		return nil, err
	}
	return s.collectionRepo.GetByID(ctx, collection.ID)
}

// UpdateCollection renames a collection owned by the caller
func (s *collectionService) UpdateCollection(ctx context.Context, userID, id int, req *models.CollectionRequest) (*models.Collection, error) {
	name, description, err := validateCollection(req)
	if err != nil {
		return nil, err
	}

	collection, err := s.ownedCollection(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	collection.Name = name
	collection.Description = description
	if err := s.collectionRepo.Update(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// DeleteCollection deletes a collection owned by the caller with all its flashcards
func (s *collectionService) DeleteCollection(ctx context.Context, userID, id int) error {
	if _, err := s.ownedCollection(ctx, userID, id); err != nil {
		return err
	}
	return s.collectionRepo.Delete(ctx, id)
}

// ListFlashcards returns the flashcards of a collection in natural order of their terms
func (s *collectionService) ListFlashcards(ctx context.Context, userID, collectionID int) ([]models.Flashcard, error) {
	if _, err := s.ownedCollection(ctx, userID, collectionID); err != nil {
		return nil, err
	}

	flashcards, err := s.flashcardRepo.GetByCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(flashcards, func(a, b models.Flashcard) int {
		return natsort.Compare(a.Term, b.Term)
	})
	return flashcards, nil
}

// CreateFlashcard adds a flashcard to a collection owned by the caller
func (s *collectionService) CreateFlashcard(ctx context.Context, userID, collectionID int, req *models.FlashcardRequest) (*models.Flashcard, error) {
	flashcard, err := validateFlashcard(req)
	if err != nil {
		return nil, err
	}

	if _, err := s.ownedCollection(ctx, userID, collectionID); err != nil {
		return nil, err
	}

	flashcard.CollectionID = collectionID
	if err := s.flashcardRepo.Create(ctx, flashcard); err != nil {
		return nil, err
	}

	created, err := s.flashcardRepo.GetByID(ctx, flashcard.ID)
	if err != nil {
		return nil, err
	}
	return &created.Flashcard, nil
}

// UpdateFlashcard updates a flashcard of a collection owned by the caller
func (s *collectionService) UpdateFlashcard(ctx context.Context, userID, id int, req *models.FlashcardRequest) (*models.Flashcard, error) {
	update, err := validateFlashcard(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.ownedFlashcard(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	flashcard := existing.Flashcard
	flashcard.Term = update.Term
	flashcard.Translation = update.Translation
	flashcard.Hint = update.Hint
	flashcard.Alternatives = update.Alternatives
	if err := s.flashcardRepo.Update(ctx, &flashcard); err != nil {
		return nil, err
	}
	return &flashcard, nil
}

// DeleteFlashcard deletes a flashcard of a collection owned by the caller
func (s *collectionService) DeleteFlashcard(ctx context.Context, userID, id int) error {
	if _, err := s.ownedFlashcard(ctx, userID, id); err != nil {
		return err
	}
	return s.flashcardRepo.Delete(ctx, id)
}

func (s *collectionService) ownedCollection(ctx context.Context, userID, id int) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if collection.OwnerID != userID {
		return nil, models.NewUserError(models.ErrForbidden, "Você não tem acesso a esta coleção")
	}
	return collection, nil
}

func (s *collectionService) ownedFlashcard(ctx context.Context, userID, id int) (*models.FlashcardWithOwner, error) {
	flashcard, err := s.flashcardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if flashcard.OwnerID != userID {
		return nil, models.NewUserError(models.ErrForbidden, "Você não tem acesso a este cartão")
	}
	return flashcard, nil
}

func validateCollection(req *models.CollectionRequest) (string, string, error) {
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)

	if name == "" {
		return "", "", models.Validationf("O nome da coleção é obrigatório")
	}
	if utf8.RuneCountInString(name) > maxCollectionNameLength {
		return "", "", models.Validationf("O nome da coleção deve ter no máximo %d caracteres", maxCollectionNameLength)
	}
	if utf8.RuneCountInString(description) > maxCollectionDescriptionLength {
		return "", "", models.Validationf("A descrição deve ter no máximo %d caracteres", maxCollectionDescriptionLength)
	}

	return name, description, nil
}

func validateFlashcard(req *models.FlashcardRequest) (*models.Flashcard, error) {
	f := &models.Flashcard{
		Term:         strings.TrimSpace(req.Term),
		Translation:  strings.TrimSpace(req.Translation),
		Hint:         strings.TrimSpace(req.Hint),
		Alternatives: []string{},
	}

	if f.Term == "" || f.Translation == "" {
		return nil, models.Validationf("Termo e tradução são obrigatórios")
	}
	if utf8.RuneCountInString(f.Term) > maxFlashcardFieldLength ||
		utf8.RuneCountInString(f.Translation) > maxFlashcardFieldLength ||
		utf8.RuneCountInString(f.Hint) > maxFlashcardFieldLength {
		return nil, models.Validationf("Termo, tradução e dica devem ter no máximo %d caracteres", maxFlashcardFieldLength)
	}

	for _, alternative := range req.Alternatives {
		alternative = strings.TrimSpace(alternative)
		if alternative == "" || slices.Contains(f.Alternatives, alternative) {
			continue
		}
		if utf8.RuneCountInString(alternative) > maxFlashcardFieldLength {
			return nil, models.Validationf("Respostas alternativas devem ter no máximo %d caracteres", maxFlashcardFieldLength)
		}
		f.Alternatives = append(f.Alternatives, alternative)
	}
	if len(f.Alternatives) > maxAlternatives {
		return nil, models.Validationf("Um cartão aceita no máximo %d respostas alternativas", maxAlternatives)
	}

	return f, nil
}
