package model

import "time"

type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	ReraBroker   bool       `json:"rera_broker"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Wallet is the single simulated funds ledger backing EMD holds. The demo
// runs one shared wallet, not one per user.
type Wallet struct {
	Balance int64 `json:"balance"`
}
