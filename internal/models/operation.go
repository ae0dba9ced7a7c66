package models

import "time"

type OpType string

const (
	OpTopUp  OpType = "topup"
	OpReward OpType = "reward"
	OpDebit  OpType = "debit"
)

func (t OpType) Valid() bool {
	switch t {
	case OpTopUp, OpReward, OpDebit:
		return true
	}
	return false
}

// Credit reports whether the operation adds to the balance.
func (t OpType) Credit() bool { return t == OpTopUp || t == OpReward }

// Operation is the input to the ledger's apply step. Amount is in coins
// (smallest currency unit); any USD conversion happens at the transport edge.
type Operation struct {
	UserID         string `json:"user_id"`
	IdempotencyKey string `json:"idempotency_key"`
	Type           OpType `json:"type"`
	Amount         int64  `json:"amount"`
}

// IdempotencyRecord is the memoized outcome of the first request that carried
// a given key. Immutable after creation.
type IdempotencyRecord struct {
	Key           string    `json:"key"`
	ResultBalance int64     `json:"result_balance"`
	Applied       Operation `json:"applied"`
	CreatedAt     time.Time `json:"created_at"`
}
