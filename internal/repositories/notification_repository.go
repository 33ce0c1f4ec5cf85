package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/piteco/backend/internal/models"
)

// notificationRepository implements NotificationRepository
type notificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sql.DB) *notificationRepository {
	return &notificationRepository{
		db: db,
	}
}

const insertNotificationQuery = `
	INSERT INTO notifications (user_id, type, title, body, link, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
`

// Create inserts a notification and fills in its ID and creation time
func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, insertNotificationQuery, n.UserID, n.Type, n.Title, n.Body, n.Link, now)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	n.ID = int(id)
	n.CreatedAt = now
	return nil
}

// CreateMany inserts notifications in one transaction, filling in their IDs
func (r *notificationRepository) CreateMany(ctx context.Context, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertNotificationQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare notification insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, n := range notifications {
		result, err := stmt.ExecContext(ctx, n.UserID, n.Type, n.Title, n.Body, n.Link, now)
		if err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		n.ID = int(id)
		n.CreatedAt = now
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

const notificationColumns = `id, user_id, type, title, body, link, read_at, created_at`

func scanNotification(row interface{ Scan(...any) error }) (*models.Notification, error) {
	n := &models.Notification{}
	var readAt sql.NullTime
	if err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body, &n.Link, &readAt, &n.CreatedAt); err != nil {
		return nil, err
	}
	if readAt.Valid {
		n.ReadAt = &readAt.Time
	}
	return n, nil
}

// GetByID retrieves a notification by ID
func (r *notificationRepository) GetByID(ctx context.Context, id int) (*models.Notification, error) {
	n, err := scanNotification(r.db.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("notification not found: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

// List retrieves notifications of a user, newest first, created before cursor when set
func (r *notificationRepository) List(ctx context.Context, userID int, unreadOnly bool, cursor *time.Time, limit int) ([]models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = ?`
	args := []any{userID}
	if unreadOnly {
		query += ` AND read_at IS NULL`
	}
	if cursor != nil {
		query += ` AND created_at < ?`
		args = append(args, *cursor)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, *n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, nil
}

// CountUnread counts unread notifications of a user
func (r *notificationRepository) CountUnread(ctx context.Context, userID int) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND read_at IS NULL`, userID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks a notification owned by userID as read.
// A notification that does not exist or belongs to another user yields models.ErrNotFound.
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID int, readAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read_at = COALESCE(read_at, ?) WHERE id = ? AND user_id = ?`,
		readAt, id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	// With clientFoundRows off MySQL reports 0 for an already read row, so check existence
	if rowsAffected == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM notifications WHERE id = ? AND user_id = ?)`, id, userID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check notification: %w", err)
		}
		if !exists {
			return fmt.Errorf("notification not found: %w", models.ErrNotFound)
		}
	}

	return nil
}

// MarkAllRead marks every unread notification of a user as read
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int, readAt time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read_at = ? WHERE user_id = ? AND read_at IS NULL`, readAt, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}

// DeleteReadBefore deletes read notifications created before cutoff
func (r *notificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE read_at IS NOT NULL AND created_at < ?`, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old notifications: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}

// EmailRecipients returns the users among userIDs that opted in to e-mail notifications
func (r *notificationRepository) EmailRecipients(ctx context.Context, userIDs []int) ([]models.EmailRecipient, error) {
	if len(userIDs) == 0 {
		return []models.EmailRecipient{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(userIDs)), ",")
	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email FROM users WHERE email_notifications = TRUE AND id IN (`+placeholders+`)`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query e-mail recipients: %w", err)
	}
	defer rows.Close()

	recipients := []models.EmailRecipient{}
	for rows.Next() {
		var rcpt models.EmailRecipient
		if err := rows.Scan(&rcpt.UserID, &rcpt.Email); err != nil {
			return nil, fmt.Errorf("failed to scan e-mail recipient: %w", err)
		}
		recipients = append(recipients, rcpt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating e-mail recipients: %w", err)
	}

	return recipients, nil
}
