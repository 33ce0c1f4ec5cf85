package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/piteco/backend/internal/models"
)

// collectionRepository implements CollectionRepository
type collectionRepository struct {
	db *sql.DB
}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository(db *sql.DB) *collectionRepository {
	return &collectionRepository{
		db: db,
	}
}

// GetByOwner retrieves all collections of a user with their flashcard counts
func (r *collectionRepository) GetByOwner(ctx context.Context, ownerID int) ([]models.Collection, error) {
	query := `
		SELECT c.id, c.owner_id, c.name, c.description, COUNT(f.id), c.created_at
		FROM collections c
		LEFT JOIN flashcards f ON f.collection_id = c.id
		WHERE c.owner_id = ?
		GROUP BY c.id, c.owner_id, c.name, c.description, c.created_at
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer rows.Close()

	collections := []models.Collection{}
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.FlashcardCount, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		collections = append(collections, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collections: %w", err)
	}

	return collections, nil
}

// GetByID retrieves a collection by ID
func (r *collectionRepository) GetByID(ctx context.Context, id int) (*models.Collection, error) {
	query := `
		SELECT c.id, c.owner_id, c.name, c.description,
			(SELECT COUNT(*) FROM flashcards f WHERE f.collection_id = c.id), c.created_at
		FROM collections c
		WHERE c.id = ?
	`

	c := &models.Collection{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.FlashcardCount, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("collection not found: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}

	return c, nil
}

// Create inserts a new collection
func (r *collectionRepository) Create(ctx context.Context, c *models.Collection) error {
	query := `INSERT INTO collections (owner_id, name, description) VALUES (?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, c.OwnerID, c.Name, c.Description)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	c.ID = int(id)

	return nil
}

// Update updates the name and description of a collection
func (r *collectionRepository) Update(ctx context.Context, c *models.Collection) error {
	query := `UPDATE collections SET name = ?, description = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, c.Name, c.Description, c.ID); err != nil {
		return fmt.Errorf("failed to update collection: %w", err)
	}

	return nil
}

// Delete deletes a collection and, through the foreign key, its flashcards
func (r *collectionRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("collection not found: %w", models.ErrNotFound)
	}

	return nil
}
