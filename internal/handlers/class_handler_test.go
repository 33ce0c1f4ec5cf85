package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/piteco/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClassHandler_JoinClass(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{name: "joined", expectedStatus: http.StatusOK},
		{name: "unknown code", err: models.NewUserError(models.ErrNotFound, "Código de convite inválido"), expectedStatus: http.StatusNotFound, expectedError: "Código de convite inválido"},
		{name: "already member", err: models.ErrConflict, expectedStatus: http.StatusConflict, expectedError: messageConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockClassService{class: &models.Class{ID: 2, Name: "Inglês 1"}, err: tt.err}
			router := newTestRouter(NewClassHandler(svc, zap.NewNop()))

			w := doRequest(t, router, http.MethodPost, "/api/v1/classes/join", models.JoinClassRequest{InviteCode: "abcd1234"}, 5)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "abcd1234", svc.joinCode)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeBody(t, w)["error"])
			}
		})
	}
}

func TestClassHandler_CreateAndList(t *testing.T) {
	svc := &mockClassService{
		class: &models.Class{ID: 2, OwnerID: 5, Name: "Inglês 1", InviteCode: "K3Z9QW2P"},
		classes: []models.ClassListItem{
			{Class: models.Class{ID: 2, Name: "Inglês 1"}, Role: models.MemberRoleTeacher, MemberCount: 12},
		},
	}
	router := newTestRouter(NewClassHandler(svc, zap.NewNop()))

	w := doRequest(t, router, http.MethodPost, "/api/v1/classes", models.CreateClassRequest{Name: "Inglês 1"}, 5)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "K3Z9QW2P", decodeBody(t, w)["inviteCode"])

	w = doRequest(t, router, http.MethodGet, "/api/v1/classes", nil, 5)
	require.Equal(t, http.StatusOK, w.Code)
	classes := decodeBody(t, w)["classes"].([]any)
	require.Len(t, classes, 1)
	assert.Equal(t, "teacher", classes[0].(map[string]any)["role"])
}

func TestClassHandler_Members(t *testing.T) {
	svc := &mockClassService{members: []models.ClassMember{
		{UserID: 5, Username: "prof", Role: models.MemberRoleTeacher, JoinedAt: time.Now()},
		{UserID: 6, Username: "aluno", Role: models.MemberRoleStudent, JoinedAt: time.Now()},
	}}
	router := newTestRouter(NewClassHandler(svc, zap.NewNop()))

	w := doRequest(t, router, http.MethodGet, "/api/v1/classes/2/members", nil, 6)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["members"], 2)

	svc.err = models.ErrForbidden
	w = doRequest(t, router, http.MethodGet, "/api/v1/classes/2/members", nil, 9)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestClassHandler_LeaveClass(t *testing.T) {
	svc := &mockClassService{}
	router := newTestRouter(NewClassHandler(svc, zap.NewNop()))

	w := doRequest(t, router, http.MethodDelete, "/api/v1/classes/2/members/me", nil, 6)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 6, svc.leftUserID)
	assert.Equal(t, 2, svc.leftClass)

	svc.err = models.Validationf("O dono não pode sair da turma")
	w = doRequest(t, router, http.MethodDelete, "/api/v1/classes/2/members/me", nil, 5)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
