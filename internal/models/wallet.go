package models

import "time"

// Wallet holds a user's current coin balance. Created lazily on first
// reference and mutated only inside the ledger's critical section, so it
// carries no lock of its own.
type Wallet struct {
	UserID        string    `json:"user_id"`
	Balance       int64     `json:"balance"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}
