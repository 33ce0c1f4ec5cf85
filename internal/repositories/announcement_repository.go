package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/piteco/backend/internal/models"
)

// announcementRepository implements AnnouncementRepository
type announcementRepository struct {
	db *sql.DB
}

// NewAnnouncementRepository creates a new announcement repository
func NewAnnouncementRepository(db *sql.DB) *announcementRepository {
	return &announcementRepository{
		db: db,
	}
}

// Create inserts a new announcement and fills in its ID and timestamps
func (r *announcementRepository) Create(ctx context.Context, a *models.Announcement) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO announcements (class_id, author_id, title, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ClassID, a.AuthorID, a.Title, a.Body, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	a.ID = int(id)
	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

// GetByID retrieves an announcement with its author's name
func (r *announcementRepository) GetByID(ctx context.Context, id int) (*models.Announcement, error) {
	query := `
		SELECT a.id, a.class_id, a.author_id, u.username, a.title, a.body, a.created_at, a.updated_at
		FROM announcements a
		JOIN users u ON u.id = a.author_id
		WHERE a.id = ?
	`

	a := &models.Announcement{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.ClassID, &a.AuthorID, &a.AuthorName, &a.Title, &a.Body, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("announcement not found: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get announcement: %w", err)
	}

	return a, nil
}

// ListByClass retrieves announcements of a class, newest first, created before cursor when set
func (r *announcementRepository) ListByClass(ctx context.Context, classID int, cursor *time.Time, limit int) ([]models.Announcement, error) {
	query := `
		SELECT a.id, a.class_id, a.author_id, u.username, a.title, a.body, a.created_at, a.updated_at
		FROM announcements a
		JOIN users u ON u.id = a.author_id
		WHERE a.class_id = ?`
	args := []any{classID}
	if cursor != nil {
		query += ` AND a.created_at < ?`
		args = append(args, *cursor)
	}
	query += ` ORDER BY a.created_at DESC, a.id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query announcements: %w", err)
	}
	defer rows.Close()

	announcements := []models.Announcement{}
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.ClassID, &a.AuthorID, &a.AuthorName, &a.Title, &a.Body, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan announcement: %w", err)
		}
		announcements = append(announcements, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating announcements: %w", err)
	}

	return announcements, nil
}

// Update updates the title and body of an announcement
func (r *announcementRepository) Update(ctx context.Context, a *models.Announcement) error {
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx,
		`UPDATE announcements SET title = ?, body = ?, updated_at = ? WHERE id = ?`,
		a.Title, a.Body, now, a.ID,
	); err != nil {
		return fmt.Errorf("failed to update announcement: %w", err)
	}
	a.UpdatedAt = now
	return nil
}

// Delete deletes an announcement
func (r *announcementRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("announcement not found: %w", models.ErrNotFound)
	}

	return nil
}
