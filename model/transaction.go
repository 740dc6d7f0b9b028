package model

import (
	"time"
)

type Transaction struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Amount    float64   `json:"amount"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary is the aggregate balance of a session: the arithmetic sum of every
// transaction amount recorded under it.
type Summary struct {
	Amount float64 `json:"amount"`
}
