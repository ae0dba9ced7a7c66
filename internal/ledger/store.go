package ledger

import (
	"github.com/subhaliAR21/cross-game-wallet-assignment/internal/models"
)

// Store maps idempotency keys to the outcome of the first request that used
// them. It does no locking of its own: every access happens inside the
// owning shard's critical section, which also guards the balance mutation —
// a second lock here would only open a gap between the key check and the
// balance write.
type Store struct {
	records map[string]models.IdempotencyRecord
}

func NewStore() *Store {
	return &Store{records: make(map[string]models.IdempotencyRecord)}
}

// Lookup is a pure read.
func (s *Store) Lookup(key string) (models.IdempotencyRecord, bool) {
	rec, ok := s.records[key]
	return rec, ok
}

// Record inserts the record for its key. Called at most once per key, from
// inside the shard's critical section; records are immutable afterwards.
func (s *Store) Record(rec models.IdempotencyRecord) {
	s.records[rec.Key] = rec
}

func (s *Store) Len() int { return len(s.records) }
