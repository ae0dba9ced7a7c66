package audit

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/subhaliAR21/cross-game-wallet-assignment/internal/models"
	"github.com/subhaliAR21/cross-game-wallet-assignment/internal/worker"
)

// Trail keeps a bounded in-memory log of applied operations. Writes go
// through the worker pool so the ledger's callers never wait on them.
type Trail struct {
	wp  *worker.Pool
	max int

	mu      sync.Mutex
	entries []models.AuditEntry
}

func NewTrail(wp *worker.Pool, max int) *Trail {
	if max <= 0 {
		max = 1000
	}
	return &Trail{wp: wp, max: max}
}

// Record implements ledger.Recorder.
func (t *Trail) Record(op models.Operation, balance int64) {
	e := models.AuditEntry{
		ID:        uuid.NewString(),
		UserID:    op.UserID,
		Type:      op.Type,
		Amount:    op.Amount,
		Balance:   balance,
		Key:       op.IdempotencyKey,
		CreatedAt: time.Now(),
	}
	t.wp.Submit(func() { t.append(e) })
}

func (t *Trail) append(e models.AuditEntry) {
	t.mu.Lock()
	t.entries = append(t.entries, e)
	if len(t.entries) > t.max {
		t.entries = t.entries[len(t.entries)-t.max:]
	}
	t.mu.Unlock()
	slog.Debug("operation applied",
		"user_id", e.UserID, "type", e.Type, "amount", e.Amount, "balance", e.Balance)
}

// Recent returns up to n entries, newest last.
func (t *Trail) Recent(n int) []models.AuditEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n <= 0 || n > len(t.entries) {
		n = len(t.entries)
	}
	out := make([]models.AuditEntry, n)
	copy(out, t.entries[len(t.entries)-n:])
	return out
}
