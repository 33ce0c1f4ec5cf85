package handlers

import (
	"net/http"
	"testing"

	"github.com/piteco/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMessageHandler_SendMessage(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "sent", expectedStatus: http.StatusCreated},
		{name: "rate limited", err: models.NewUserError(models.ErrRateLimited, "Você está enviando mensagens rápido demais"), expectedStatus: http.StatusTooManyRequests},
		{name: "unknown recipient", err: models.ErrNotFound, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockMessageService{message: &models.Message{ID: 50, SenderID: 1, RecipientID: 2, Body: "oi"}, err: tt.err}
			router := newTestRouter(NewMessageHandler(svc, zap.NewNop()))

			w := doRequest(t, router, http.MethodPost, "/api/v1/messages", models.SendMessageRequest{RecipientID: 2, Body: "oi"}, 1)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestMessageHandler_Conversation(t *testing.T) {
	svc := &mockMessageService{page: &models.MessagePage{Items: []models.Message{{ID: 50, Body: "oi"}}}}
	router := newTestRouter(NewMessageHandler(svc, zap.NewNop()))

	w := doRequest(t, router, http.MethodGet, "/api/v1/messages/2?limit=10", nil, 1)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["messages"], 1)
	assert.Equal(t, 2, svc.lastPartner)
	assert.Equal(t, 10, svc.lastLimit)
}

func TestMessageHandler_Conversations(t *testing.T) {
	svc := &mockMessageService{conversations: []models.Conversation{{PartnerID: 2, PartnerName: "bia", UnreadCount: 3}}}
	router := newTestRouter(NewMessageHandler(svc, zap.NewNop()))

	w := doRequest(t, router, http.MethodGet, "/api/v1/messages/conversations", nil, 1)

	require.Equal(t, http.StatusOK, w.Code)
	conversations := decodeBody(t, w)["conversations"].([]any)
	require.Len(t, conversations, 1)
	assert.Equal(t, float64(3), conversations[0].(map[string]any)["unreadCount"])
}
