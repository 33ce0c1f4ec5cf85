package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/piteco/backend/internal/models"
)

// classRepository implements ClassRepository
type classRepository struct {
	db *sql.DB
}

// NewClassRepository creates a new class repository
func NewClassRepository(db *sql.DB) *classRepository {
	return &classRepository{
		db: db,
	}
}

// Create inserts a class and adds its owner as teacher in one transaction.
// A duplicate invite code yields models.ErrConflict.
func (r *classRepository) Create(ctx context.Context, class *models.Class) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO classes (owner_id, name, description, invite_code) VALUES (?, ?, ?, ?)`,
		class.OwnerID, class.Name, class.Description, class.InviteCode,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("invite code already in use: %w", models.ErrConflict)
		}
		return fmt.Errorf("failed to create class: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO class_members (class_id, user_id, role) VALUES (?, ?, ?)`,
		id, class.OwnerID, models.MemberRoleTeacher,
	); err != nil {
		return fmt.Errorf("failed to add class owner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	class.ID = int(id)
	return nil
}

const classColumns = `id, owner_id, name, description, invite_code, created_at`

func scanClass(row interface{ Scan(...any) error }) (*models.Class, error) {
	class := &models.Class{}
	if err := row.Scan(&class.ID, &class.OwnerID, &class.Name, &class.Description, &class.InviteCode, &class.CreatedAt); err != nil {
		return nil, err
	}
	return class, nil
}

// GetByID retrieves a class by ID
func (r *classRepository) GetByID(ctx context.Context, id int) (*models.Class, error) {
	class, err := scanClass(r.db.QueryRowContext(ctx, `SELECT `+classColumns+` FROM classes WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("class not found: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	return class, nil
}

// GetByInviteCode retrieves a class by its invite code
func (r *classRepository) GetByInviteCode(ctx context.Context, code string) (*models.Class, error) {
	class, err := scanClass(r.db.QueryRowContext(ctx, `SELECT `+classColumns+` FROM classes WHERE invite_code = ?`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("class not found: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get class by invite code: %w", err)
	}
	return class, nil
}

// AddMember adds a user to a class. An existing membership yields models.ErrConflict.
func (r *classRepository) AddMember(ctx context.Context, classID, userID int, role models.MemberRole) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO class_members (class_id, user_id, role) VALUES (?, ?, ?)`,
		classID, userID, role,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("already a member: %w", models.ErrConflict)
		}
		return fmt.Errorf("failed to add class member: %w", err)
	}
	return nil
}

// GetMemberRole returns the role of a user in a class, or models.ErrNotFound when not a member
func (r *classRepository) GetMemberRole(ctx context.Context, classID, userID int) (models.MemberRole, error) {
	var role models.MemberRole
	err := r.db.QueryRowContext(ctx,
		`SELECT role FROM class_members WHERE class_id = ? AND user_id = ?`, classID, userID,
	).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("membership not found: %w", models.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get member role: %w", err)
	}
	return role, nil
}

// ListForUser retrieves the classes a user belongs to with the user's role and the member count
func (r *classRepository) ListForUser(ctx context.Context, userID int) ([]models.ClassListItem, error) {
	query := `
		SELECT c.id, c.owner_id, c.name, c.description, c.invite_code, c.created_at, m.role,
			(SELECT COUNT(*) FROM class_members cm WHERE cm.class_id = c.id)
		FROM classes c
		JOIN class_members m ON m.class_id = c.id
		WHERE m.user_id = ?
		ORDER BY c.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query classes: %w", err)
	}
	defer rows.Close()

	classes := []models.ClassListItem{}
	for rows.Next() {
		var item models.ClassListItem
		if err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Name, &item.Description, &item.InviteCode, &item.CreatedAt,
			&item.Role, &item.MemberCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan class: %w", err)
		}
		classes = append(classes, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating classes: %w", err)
	}

	return classes, nil
}

// ListMembers retrieves the members of a class, teachers first
func (r *classRepository) ListMembers(ctx context.Context, classID int) ([]models.ClassMember, error) {
	query := `
		SELECT m.user_id, u.username, m.role, m.joined_at
		FROM class_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.class_id = ?
		ORDER BY m.role = 'teacher' DESC, u.username
	`

	rows, err := r.db.QueryContext(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to query class members: %w", err)
	}
	defer rows.Close()

	members := []models.ClassMember{}
	for rows.Next() {
		var m models.ClassMember
		if err := rows.Scan(&m.UserID, &m.Username, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan class member: %w", err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating class members: %w", err)
	}

	return members, nil
}

// MemberIDs returns the user IDs of all members of a class except excludeUserID
func (r *classRepository) MemberIDs(ctx context.Context, classID, excludeUserID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM class_members WHERE class_id = ? AND user_id <> ?`, classID, excludeUserID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query class member ids: %w", err)
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member ids: %w", err)
	}

	return ids, nil
}

// RemoveMember removes a user from a class
func (r *classRepository) RemoveMember(ctx context.Context, classID, userID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM class_members WHERE class_id = ? AND user_id = ?`, classID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove class member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("membership not found: %w", models.ErrNotFound)
	}

	return nil
}
