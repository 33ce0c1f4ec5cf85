package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/piteco/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupUserTestRepository creates a user repository with a mock database
func setupUserTestRepository(t *testing.T) (*userRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewUserRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

var userRowColumns = []string{"id", "username", "email", "password_hash", "role", "email_notifications", "last_seen_at", "created_at"}

func TestNewUserRepository(t *testing.T) {
	db := &sql.DB{}

	repo := NewUserRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
		expectedID    int
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs("ana", "ana@piteco.app", "hash", models.RoleUser, true).
					WillReturnResult(sqlmock.NewResult(5, 1))
				mock.ExpectExec(`INSERT INTO economy_balances`).
					WithArgs(int64(5)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			expectedID: 5,
		},
		{
			name: "duplicate user",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO users`).
					WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
				mock.ExpectRollback()
			},
			expectedError: models.ErrConflict,
		},
		{
			name: "balance insert fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO users`).WillReturnResult(sqlmock.NewResult(5, 1))
				mock.ExpectExec(`INSERT INTO economy_balances`).WillReturnError(errors.New("database error"))
				mock.ExpectRollback()
			},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserTestRepository(t)
			defer cleanup()
			tt.setupMock(mock)

			user := &models.User{Username: "ana", Email: "ana@piteco.app", PasswordHash: "hash", Role: models.RoleUser, EmailNotifications: true}
			err := repo.Create(context.Background(), user)

			if tt.expectedError != nil {
				require.Error(t, err)
				if errors.Is(tt.expectedError, models.ErrConflict) {
					assert.ErrorIs(t, err, models.ErrConflict)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedID, user.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmailOrUsername(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	lastSeen := created.Add(time.Hour)

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
		expectedUser  *models.User
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(userRowColumns).
					AddRow(1, "ana", "ana@piteco.app", "hash", 1, true, lastSeen, created)
				mock.ExpectQuery(`SELECT (.+) FROM users`).
					WithArgs("ana", "ana").
					WillReturnRows(rows)
			},
			expectedUser: &models.User{
				ID: 1, Username: "ana", Email: "ana@piteco.app", PasswordHash: "hash",
				Role: models.RoleUser, EmailNotifications: true, LastSeenAt: &lastSeen, CreatedAt: created,
			},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM users`).
					WithArgs("ana", "ana").
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: models.ErrNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM users`).
					WithArgs("ana", "ana").
					WillReturnError(errors.New("connection lost"))
			},
			expectedError: errors.New("connection lost"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserTestRepository(t)
			defer cleanup()
			tt.setupMock(mock)

			user, err := repo.GetByEmailOrUsername(context.Background(), "ana")

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.Nil(t, user)
				if tt.expectedError == models.ErrNotFound {
					assert.ErrorIs(t, err, models.ErrNotFound)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedUser, user)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	repo, mock, cleanup := setupUserTestRepository(t)
	defer cleanup()

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \?`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(3, "bia", "bia@piteco.app", "hash", 2, false, nil, created))

	user, err := repo.GetByID(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, "bia", user.Username)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Nil(t, user.LastSeenAt)
	assert.False(t, user.EmailNotifications)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Exists(t *testing.T) {
	tests := []struct {
		name     string
		call     func(r *userRepository) (bool, error)
		pattern  string
		arg      any
		exists   bool
		queryErr error
	}{
		{name: "email exists", call: func(r *userRepository) (bool, error) { return r.ExistsByEmail(context.Background(), "a@b.co") }, pattern: `WHERE email = \?`, arg: "a@b.co", exists: true},
		{name: "username missing", call: func(r *userRepository) (bool, error) { return r.ExistsByUsername(context.Background(), "ana") }, pattern: `WHERE username = \?`, arg: "ana", exists: false},
		{name: "id exists", call: func(r *userRepository) (bool, error) { return r.ExistsByID(context.Background(), 9) }, pattern: `WHERE id = \?`, arg: 9, exists: true},
		{name: "error", call: func(r *userRepository) (bool, error) { return r.ExistsByID(context.Background(), 9) }, pattern: `WHERE id = \?`, arg: 9, queryErr: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserTestRepository(t)
			defer cleanup()

			expect := mock.ExpectQuery(`SELECT EXISTS(.+)` + tt.pattern).WithArgs(tt.arg)
			if tt.queryErr != nil {
				expect.WillReturnError(tt.queryErr)
			} else {
				expect.WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.exists))
			}

			exists, err := tt.call(repo)

			if tt.queryErr != nil {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.exists, exists)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_UpdateLastSeen(t *testing.T) {
	repo, mock, cleanup := setupUserTestRepository(t)
	defer cleanup()

	seen := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectExec(`UPDATE users SET last_seen_at`).
		WithArgs(seen, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdateLastSeen(context.Background(), 4, seen))
	assert.NoError(t, mock.ExpectationsWereMet())
}
