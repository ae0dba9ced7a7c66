package ledger

import (
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/subhaliAR21/cross-game-wallet-assignment/internal/models"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidOperation  = errors.New("invalid operation")
)

// Outcome is the result of an apply. Replayed is set when the idempotency
// key had already been processed and the memoized result was returned.
type Outcome struct {
	Balance  int64 `json:"balance"`
	Replayed bool  `json:"replayed"`
}

// Recorder observes freshly applied operations. Called outside the critical
// section; implementations must tolerate being called concurrently.
type Recorder interface {
	Record(op models.Operation, balance int64)
}

// shard owns a partition of the wallet map plus the idempotency records for
// the keys of those users. A key always belongs to one user, so striping by
// user also serializes same-key races.
type shard struct {
	mu      sync.Mutex
	wallets map[string]*models.Wallet
	idem    *Store
}

// Ledger applies balance-changing operations to per-user wallets. Per-user
// lock striping: applies for different users may run concurrently, applies
// for the same user are fully serialized.
type Ledger struct {
	shards []shard
	rec    Recorder
}

// New builds a ledger with n lock stripes. rec may be nil.
func New(n int, rec Recorder) *Ledger {
	if n <= 0 {
		n = 1
	}
	l := &Ledger{shards: make([]shard, n), rec: rec}
	for i := range l.shards {
		l.shards[i].wallets = make(map[string]*models.Wallet)
		l.shards[i].idem = NewStore()
	}
	return l
}

func (l *Ledger) shardFor(userID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return &l.shards[h.Sum32()%uint32(len(l.shards))]
}

// Apply executes the operation exactly once per idempotency key. The key
// check, balance read, computation, balance write and memoization run as one
// uninterrupted critical section under the user's stripe lock; no other
// apply for the same user can interleave.
func (l *Ledger) Apply(op models.Operation) (Outcome, error) {
	out, err := l.shardFor(op.UserID).apply(op)
	if err == nil && !out.Replayed && l.rec != nil {
		l.rec.Record(op, out.Balance)
	}
	return out, err
}

func (s *shard) apply(op models.Operation) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Replay path: key identity alone decides, before any validation or
	// mutation, so a retry always observes the first request's result.
	if rec, ok := s.idem.Lookup(op.IdempotencyKey); ok {
		return Outcome{Balance: rec.ResultBalance, Replayed: true}, nil
	}

	if op.UserID == "" || op.IdempotencyKey == "" || !op.Type.Valid() || op.Amount <= 0 {
		return Outcome{}, ErrInvalidOperation
	}

	w := s.getOrCreate(op.UserID)
	newBalance := w.Balance + op.Amount
	if !op.Type.Credit() {
		newBalance = w.Balance - op.Amount
		if newBalance < 0 {
			// No record written: a failed debit stays retryable with the
			// same key once funds arrive.
			return Outcome{}, ErrInsufficientFunds
		}
	}

	w.Balance = newBalance
	w.LastUpdatedAt = time.Now()
	s.idem.Record(models.IdempotencyRecord{
		Key:           op.IdempotencyKey,
		ResultBalance: newBalance,
		Applied:       op,
		CreatedAt:     time.Now(),
	})
	return Outcome{Balance: newBalance}, nil
}

func (s *shard) getOrCreate(userID string) *models.Wallet {
	if w, ok := s.wallets[userID]; ok {
		return w
	}
	w := &models.Wallet{UserID: userID}
	s.wallets[userID] = w
	return w
}

// Balance returns the user's current balance, 0 for a wallet that has never
// been touched. Reads under the stripe lock so it never sees a half-applied
// state.
func (l *Ledger) Balance(userID string) int64 {
	s := l.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.wallets[userID]; ok {
		return w.Balance
	}
	return 0
}
