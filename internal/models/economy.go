package models

import "time"

// Balance holds a user's study points and PITECOIN balance
type Balance struct {
	Points    int `json:"points"`
	Pitecoins int `json:"pitecoins"`
}

// ExchangeQuote is the result of get_exchange_quote
type ExchangeQuote struct {
	Points    int `json:"points"`
	Pitecoins int `json:"pitecoins"`
	Rate      int `json:"rate"` // Points per PITECOIN
}

// ExchangeRequest represents a points to PITECOIN conversion request
type ExchangeRequest struct {
	Points         int    `json:"points"`
	IdempotencyKey string `json:"idempotencyKey"`
}

// Exchange is the result of process_exchange
type Exchange struct {
	ID             int       `json:"id"`
	Points         int       `json:"points"`
	Pitecoins      int       `json:"pitecoins"`
	IdempotencyKey string    `json:"idempotencyKey"`
	Replayed       bool      `json:"replayed"`
	Balance        Balance   `json:"balance"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ExchangePage is a cursor-paginated exchange history
type ExchangePage struct {
	Items      []Exchange `json:"exchanges"`
	NextCursor string     `json:"nextCursor,omitempty"`
}
