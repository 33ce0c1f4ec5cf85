package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/piteco/backend/internal/models"
	"go.uber.org/zap"
)

// EconomyService is the interface that wraps methods for points and PITECOIN business logic.
type EconomyService interface {
	// Method Balance returns the caller's points and PITECOINs.
	Balance(ctx context.Context, userID int) (*models.Balance, error)
	// Method Quote returns how many PITECOINs "points" would buy without changing anything.
	Quote(ctx context.Context, userID, points int) (*models.ExchangeQuote, error)
	// Method Exchange converts points into PITECOINs atomically.
	//
	// Repeating a request with the same idempotency key returns the first result with Replayed set.
	Exchange(ctx context.Context, userID int, req *models.ExchangeRequest) (*models.Exchange, error)
	// Method History returns a page of past exchanges, newest first.
	History(ctx context.Context, userID int, cursor *time.Time, limit int) (*models.ExchangePage, error)
}

// EconomyHandler handles economy HTTP requests
type EconomyHandler struct {
	BaseHandler
	service EconomyService
}

// NewEconomyHandler creates a new economy handler
func NewEconomyHandler(svc EconomyService, logger *zap.Logger) *EconomyHandler {
	return &EconomyHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all economy handler routes
func (h *EconomyHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/economy", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/balance", h.Balance)
		r.Get("/quote", h.Quote)
		r.Post("/exchange", h.Exchange)
		r.Get("/history", h.History)
	})
}

// Balance handles GET /economy/balance
// @Summary Get balance
// @Tags economy
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Balance
// @Router /economy/balance [get]
func (h *EconomyHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	balance, err := h.service.Balance(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, r, err, "get balance")
		return
	}

	h.RespondSuccess(w, http.StatusOK, balance)
}

// Quote handles GET /economy/quote
// @Summary Get exchange quote
// @Tags economy
// @Produce json
// @Security ApiKeyAuth
// @Param points query int true "Points to exchange"
// @Success 200 {object} models.ExchangeQuote
// @Failure 400 {object} map[string]string "Invalid points"
// @Router /economy/quote [get]
func (h *EconomyHandler) Quote(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	points, err := strconv.Atoi(r.URL.Query().Get("points"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Quantidade de pontos inválida")
		return
	}

	quote, err := h.service.Quote(r.Context(), userID, points)
	if err != nil {
		h.RespondServiceError(w, r, err, "get exchange quote")
		return
	}

	h.RespondSuccess(w, http.StatusOK, quote)
}

// Exchange handles POST /economy/exchange
// @Summary Exchange points for PITECOINs
// @Tags economy
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.ExchangeRequest true "Exchange"
// @Success 200 {object} models.Exchange
// @Failure 400 {object} map[string]string "Validation error or insufficient points"
// @Router /economy/exchange [post]
func (h *EconomyHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	var req models.ExchangeRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	exchange, err := h.service.Exchange(r.Context(), userID, &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "exchange points")
		return
	}

	h.RespondSuccess(w, http.StatusOK, exchange)
}

// History handles GET /economy/history
// @Summary Exchange history
// @Tags economy
// @Produce json
// @Security ApiKeyAuth
// @Param cursor query string false "createdAt of the last exchange seen (RFC3339)"
// @Param limit query int false "Page size, default 20, max 50"
// @Success 200 {object} models.ExchangePage
// @Router /economy/history [get]
func (h *EconomyHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	cursor, limit, ok := h.Page(w, r)
	if !ok {
		return
	}

	page, err := h.service.History(r.Context(), userID, cursor, limit)
	if err != nil {
		h.RespondServiceError(w, r, err, "get exchange history")
		return
	}

	h.RespondSuccess(w, http.StatusOK, page)
}
