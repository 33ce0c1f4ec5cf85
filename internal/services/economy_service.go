package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/piteco/backend/internal/models"
	"github.com/piteco/backend/internal/pagination"
	"go.uber.org/zap"
)

// EconomyRepository is the interface that wraps methods for the economy tables and procedures
type EconomyRepository interface {
	// Method GetBalance retrieves the balance of a user. Users without a balance row have zero balances.
	GetBalance(ctx context.Context, userID int) (*models.Balance, error)
	// Method GetQuote asks the database how many PITECOINs "points" would buy.
	GetQuote(ctx context.Context, userID, points int) (*models.ExchangeQuote, error)
	// Method ProcessExchange converts "points" into PITECOINs.
	//
	// A repeated "idempotencyKey" returns the stored exchange with Replayed set.
	// If the user has fewer points, an error wrapping models.ErrInsufficientFunds is returned.
	ProcessExchange(ctx context.Context, userID, points int, idempotencyKey string) (*models.Exchange, error)
	// Method History retrieves exchanges of a user, newest first.
	//
	// "cursor", when set, keeps exchanges created before it. At most "limit" exchanges are returned.
	History(ctx context.Context, userID int, cursor *time.Time, limit int) ([]models.Exchange, error)
}

const maxIdempotencyKeyLength = 64

// economyService implements EconomyService
type economyService struct {
	economyRepo EconomyRepository
	notifier    Notifier
	logger      *zap.Logger
}

// NewEconomyService creates a new economy service
func NewEconomyService(economyRepo EconomyRepository, notifier Notifier, logger *zap.Logger) *economyService {
	return &economyService{
		economyRepo: economyRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// Balance returns the caller's points and PITECOINs
func (s *economyService) Balance(ctx context.Context, userID int) (*models.Balance, error) {
	return s.economyRepo.GetBalance(ctx, userID)
}

// Quote previews an exchange without changing balances
func (s *economyService) Quote(ctx context.Context, userID, points int) (*models.ExchangeQuote, error) {
	if points < 1 {
		return nil, models.Validationf("Informe uma quantidade de pontos maior que zero")
	}
	return s.economyRepo.GetQuote(ctx, userID, points)
}

// Exchange converts points into PITECOINs once per idempotency key
func (s *economyService) Exchange(ctx context.Context, userID int, req *models.ExchangeRequest) (*models.Exchange, error) {
	if req.Points < 1 {
		return nil, models.Validationf("Informe uma quantidade de pontos maior que zero")
	}
	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" || len(key) > maxIdempotencyKeyLength {
		return nil, models.Validationf("A chave de idempotência deve ter entre 1 e %d caracteres", maxIdempotencyKeyLength)
	}

	exchange, err := s.economyRepo.ProcessExchange(ctx, userID, req.Points, key)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientFunds) {
			return nil, models.NewUserError(models.ErrInsufficientFunds, "Pontos insuficientes para a troca")
		}
		if errors.Is(err, models.ErrValidation) {
			return nil, models.Validationf("Quantidade de pontos inválida")
		}
		return nil, err
	}

	if exchange.Replayed {
		s.logger.Debug("exchange replayed", zap.Int("user_id", userID), zap.String("idempotency_key", key))
		return exchange, nil
	}

	s.logger.Info("exchange processed",
		zap.Int("user_id", userID),
		zap.Int("points", exchange.Points),
		zap.Int("pitecoins", exchange.Pitecoins),
	)

	n := &models.Notification{
		UserID: userID,
		Type:   models.NotificationTypeExchange,
		Title:  "Troca realizada",
		Body:   fmt.Sprintf("Você trocou %d pontos por %d PITECOIN", exchange.Points, exchange.Pitecoins),
		Link:   "/economy",
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn("failed to notify exchange", zap.Int("exchange_id", exchange.ID), zap.Error(err))
	}

	return exchange, nil
}

// History returns a page of the caller's exchanges
func (s *economyService) History(ctx context.Context, userID int, cursor *time.Time, limit int) (*models.ExchangePage, error) {
	exchanges, err := s.economyRepo.History(ctx, userID, cursor, limit)
	if err != nil {
		return nil, err
	}

	page := &models.ExchangePage{Items: exchanges}
	if len(exchanges) > 0 {
		page.NextCursor = pagination.NextCursor(exchanges[len(exchanges)-1].CreatedAt, len(exchanges), limit)
	}
	return page, nil
}
