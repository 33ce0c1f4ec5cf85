package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/piteco/backend/internal/models"
)

// studyRepository implements StudyRepository
type studyRepository struct {
	db *sql.DB
}

// NewStudyRepository creates a new study repository
func NewStudyRepository(db *sql.DB) *studyRepository {
	return &studyRepository{
		db: db,
	}
}

// CreateSession stores a finished session and credits its points to the user's balance
// in one transaction. It returns the user's point balance after the credit.
func (r *studyRepository) CreateSession(ctx context.Context, session *models.StudySession) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO study_sessions (user_id, collection_id, mode, correct, total, points_awarded)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := tx.ExecContext(ctx, query,
		session.UserID, session.CollectionID, session.Mode, session.Correct, session.Total, session.PointsAwarded,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create study session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE economy_balances SET points = points + ? WHERE user_id = ?`,
		session.PointsAwarded, session.UserID,
	); err != nil {
		return 0, fmt.Errorf("failed to credit points: %w", err)
	}

	var points int
	if err := tx.QueryRowContext(ctx,
		`SELECT points FROM economy_balances WHERE user_id = ?`, session.UserID,
	).Scan(&points); err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	session.ID = int(id)
	return points, nil
}
