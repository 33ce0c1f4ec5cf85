package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/piteco/backend/internal/models"
)

// messageRepository implements MessageRepository
type messageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *sql.DB) *messageRepository {
	return &messageRepository{
		db: db,
	}
}

// Create inserts a new message and fills in its ID and creation time
func (r *messageRepository) Create(ctx context.Context, m *models.Message) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (sender_id, recipient_id, body, created_at) VALUES (?, ?, ?, ?)`,
		m.SenderID, m.RecipientID, m.Body, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	m.ID = int(id)
	m.CreatedAt = now
	return nil
}

// ListConversation retrieves messages exchanged between two users in both directions,
// newest first, created before cursor when set
func (r *messageRepository) ListConversation(ctx context.Context, userID, partnerID int, cursor *time.Time, limit int) ([]models.Message, error) {
	query := `
		SELECT id, sender_id, recipient_id, body, created_at, read_at
		FROM messages
		WHERE ((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?))`
	args := []any{userID, partnerID, partnerID, userID}
	if cursor != nil {
		query += ` AND created_at < ?`
		args = append(args, *cursor)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

func scanMessage(row interface{ Scan(...any) error }) (*models.Message, error) {
	m := &models.Message{}
	var readAt sql.NullTime
	if err := row.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &m.CreatedAt, &readAt); err != nil {
		return nil, fmt.Errorf("failed to scan message: %w", err)
	}
	if readAt.Valid {
		m.ReadAt = &readAt.Time
	}
	return m, nil
}

// MarkConversationRead marks all unread messages sent by senderID to recipientID as read
func (r *messageRepository) MarkConversationRead(ctx context.Context, recipientID, senderID int, readAt time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE messages SET read_at = ? WHERE recipient_id = ? AND sender_id = ? AND read_at IS NULL`,
		readAt, recipientID, senderID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}

// ListConversations retrieves the latest message per conversation partner with the unread count
func (r *messageRepository) ListConversations(ctx context.Context, userID int) ([]models.Conversation, error) {
	query := `
		SELECT p.partner_id, u.username,
			m.id, m.sender_id, m.recipient_id, m.body, m.created_at, m.read_at,
			(SELECT COUNT(*) FROM messages x
				WHERE x.sender_id = p.partner_id AND x.recipient_id = ? AND x.read_at IS NULL)
		FROM (
			SELECT IF(sender_id = ?, recipient_id, sender_id) AS partner_id, MAX(id) AS last_id
			FROM messages
			WHERE sender_id = ? OR recipient_id = ?
			GROUP BY partner_id
		) p
		JOIN messages m ON m.id = p.last_id
		JOIN users u ON u.id = p.partner_id
		ORDER BY m.created_at DESC, m.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, userID, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	conversations := []models.Conversation{}
	for rows.Next() {
		var c models.Conversation
		var readAt sql.NullTime
		if err := rows.Scan(
			&c.PartnerID, &c.PartnerName,
			&c.LastMessage.ID, &c.LastMessage.SenderID, &c.LastMessage.RecipientID, &c.LastMessage.Body,
			&c.LastMessage.CreatedAt, &readAt,
			&c.UnreadCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		if readAt.Valid {
			c.LastMessage.ReadAt = &readAt.Time
		}
		conversations = append(conversations, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversations: %w", err)
	}

	return conversations, nil
}
