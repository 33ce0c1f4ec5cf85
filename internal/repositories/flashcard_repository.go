package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/piteco/backend/internal/models"
)

// flashcardRepository implements FlashcardRepository
type flashcardRepository struct {
	db *sql.DB
}

// NewFlashcardRepository creates a new flashcard repository
func NewFlashcardRepository(db *sql.DB) *flashcardRepository {
	return &flashcardRepository{
		db: db,
	}
}

// GetByCollection retrieves all flashcards of a collection
func (r *flashcardRepository) GetByCollection(ctx context.Context, collectionID int) ([]models.Flashcard, error) {
	query := `
		SELECT id, collection_id, term, translation, hint, alternatives, created_at
		FROM flashcards
		WHERE collection_id = ?
	`

	rows, err := r.db.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query flashcards: %w", err)
	}
	defer rows.Close()

	flashcards := []models.Flashcard{}
	for rows.Next() {
		var f models.Flashcard
		var alternatives []byte
		if err := rows.Scan(&f.ID, &f.CollectionID, &f.Term, &f.Translation, &f.Hint, &alternatives, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan flashcard: %w", err)
		}
		if f.Alternatives, err = decodeAlternatives(alternatives); err != nil {
			return nil, err
		}
		flashcards = append(flashcards, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating flashcards: %w", err)
	}

	return flashcards, nil
}

// GetByID retrieves a flashcard with the owner of its collection
func (r *flashcardRepository) GetByID(ctx context.Context, id int) (*models.FlashcardWithOwner, error) {
	query := `
		SELECT f.id, f.collection_id, f.term, f.translation, f.hint, f.alternatives, f.created_at, c.owner_id
		FROM flashcards f
		JOIN collections c ON c.id = f.collection_id
		WHERE f.id = ?
	`

	f := &models.FlashcardWithOwner{}
	var alternatives []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&f.ID, &f.CollectionID, &f.Term, &f.Translation, &f.Hint, &alternatives, &f.CreatedAt, &f.OwnerID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("flashcard not found: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get flashcard: %w", err)
	}
	if f.Alternatives, err = decodeAlternatives(alternatives); err != nil {
		return nil, err
	}

	return f, nil
}

// Create inserts a new flashcard
func (r *flashcardRepository) Create(ctx context.Context, f *models.Flashcard) error {
	alternatives, err := encodeAlternatives(f.Alternatives)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO flashcards (collection_id, term, translation, hint, alternatives)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query, f.CollectionID, f.Term, f.Translation, f.Hint, alternatives)
	if err != nil {
		return fmt.Errorf("failed to create flashcard: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	f.ID = int(id)

	return nil
}

// Update updates the content of a flashcard
func (r *flashcardRepository) Update(ctx context.Context, f *models.Flashcard) error {
	alternatives, err := encodeAlternatives(f.Alternatives)
	if err != nil {
		return err
	}

	query := `
		UPDATE flashcards
		SET term = ?, translation = ?, hint = ?, alternatives = ?
		WHERE id = ?
	`
	if _, err := r.db.ExecContext(ctx, query, f.Term, f.Translation, f.Hint, alternatives, f.ID); err != nil {
		return fmt.Errorf("failed to update flashcard: %w", err)
	}

	return nil
}

// Delete deletes a flashcard
func (r *flashcardRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM flashcards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete flashcard: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("flashcard not found: %w", models.ErrNotFound)
	}

	return nil
}

func encodeAlternatives(alternatives []string) (string, error) {
	if alternatives == nil {
		alternatives = []string{}
	}
	raw, err := json.Marshal(alternatives)
	if err != nil {
		return "", fmt.Errorf("failed to encode alternatives: %w", err)
	}
	return string(raw), nil
}

func decodeAlternatives(raw []byte) ([]string, error) {
	alternatives := []string{}
	if len(raw) == 0 {
		return alternatives, nil
	}
	if err := json.Unmarshal(raw, &alternatives); err != nil {
		return nil, fmt.Errorf("failed to decode alternatives: %w", err)
	}
	return alternatives, nil
}
