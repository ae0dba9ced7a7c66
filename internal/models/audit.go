package models

import "time"

// AuditEntry records one applied operation for observability. Entries are
// written asynchronously and never consulted by the ledger itself.
type AuditEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      OpType    `json:"type"`
	Amount    int64     `json:"amount"`
	Balance   int64     `json:"balance"`
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"created_at"`
}
