package models

import "time"

// Wallet is a named money source. Balance is whatever the user last set; it
// is never decremented by expenses.
type Wallet struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Balance   Money     `json:"balance"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
