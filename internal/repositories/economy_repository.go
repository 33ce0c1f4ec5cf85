package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/piteco/backend/internal/models"
)

// economyRepository implements EconomyRepository on top of the exchange stored procedures
type economyRepository struct {
	db *sql.DB
}

// NewEconomyRepository creates a new economy repository
func NewEconomyRepository(db *sql.DB) *economyRepository {
	return &economyRepository{
		db: db,
	}
}

// GetBalance retrieves the balance of a user
func (r *economyRepository) GetBalance(ctx context.Context, userID int) (*models.Balance, error) {
	balance := &models.Balance{}
	err := r.db.QueryRowContext(ctx,
		`SELECT points, pitecoins FROM economy_balances WHERE user_id = ?`, userID,
	).Scan(&balance.Points, &balance.Pitecoins)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("balance not found: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	return balance, nil
}

// GetQuote calls get_exchange_quote
func (r *economyRepository) GetQuote(ctx context.Context, userID, points int) (*models.ExchangeQuote, error) {
	quote := &models.ExchangeQuote{}
	err := r.db.QueryRowContext(ctx, `CALL get_exchange_quote(?, ?)`, userID, points).
		Scan(&quote.Points, &quote.Pitecoins, &quote.Rate)
	if err != nil {
		return nil, classifyProcedureError("get exchange quote", err)
	}

	return quote, nil
}

// ProcessExchange calls process_exchange. Repeating a call with the same
// idempotency key returns the stored result with Replayed set.
//
// A call that lost a race on the same key (duplicate entry or deadlock) is run once more,
// which then takes the replay branch of the procedure.
func (r *economyRepository) ProcessExchange(ctx context.Context, userID, points int, idempotencyKey string) (*models.Exchange, error) {
	exchange, err := r.callProcessExchange(ctx, userID, points, idempotencyKey)
	if err != nil && (isDuplicateEntry(err) || isDeadlock(err)) {
		exchange, err = r.callProcessExchange(ctx, userID, points, idempotencyKey)
	}
	if err != nil {
		return nil, classifyProcedureError("process exchange", err)
	}

	return exchange, nil
}

func (r *economyRepository) callProcessExchange(ctx context.Context, userID, points int, idempotencyKey string) (*models.Exchange, error) {
	exchange := &models.Exchange{}
	err := r.db.QueryRowContext(ctx, `CALL process_exchange(?, ?, ?)`, userID, points, idempotencyKey).Scan(
		&exchange.ID,
		&exchange.Points,
		&exchange.Pitecoins,
		&exchange.IdempotencyKey,
		&exchange.Replayed,
		&exchange.Balance.Points,
		&exchange.Balance.Pitecoins,
		&exchange.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return exchange, nil
}

// History retrieves exchanges of a user, newest first, created before cursor when set
func (r *economyRepository) History(ctx context.Context, userID int, cursor *time.Time, limit int) ([]models.Exchange, error) {
	query := `
		SELECT id, points, pitecoins, idempotency_key, created_at
		FROM exchanges
		WHERE user_id = ?`
	args := []any{userID}
	if cursor != nil {
		query += ` AND created_at < ?`
		args = append(args, *cursor)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchanges: %w", err)
	}
	defer rows.Close()

	exchanges := []models.Exchange{}
	for rows.Next() {
		var e models.Exchange
		if err := rows.Scan(&e.ID, &e.Points, &e.Pitecoins, &e.IdempotencyKey, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		exchanges = append(exchanges, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchanges: %w", err)
	}

	return exchanges, nil
}

// classifyProcedureError maps SIGNAL messages raised by the exchange procedures to error kinds
func classifyProcedureError(action string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to %s: %w", action, models.ErrNotFound)
	}
	if message, ok := signalMessage(err); ok {
		switch message {
		case "insufficient points":
			return fmt.Errorf("failed to %s: %w", action, models.ErrInsufficientFunds)
		case "invalid amount":
			return fmt.Errorf("failed to %s: %w", action, models.ErrValidation)
		}
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
