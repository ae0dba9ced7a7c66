package ledger

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/subhaliAR21/cross-game-wallet-assignment/internal/models"
)

func op(user, key string, t models.OpType, amount int64) models.Operation {
	return models.Operation{UserID: user, IdempotencyKey: key, Type: t, Amount: amount}
}

func TestApplyCreditsWallet(t *testing.T) {
	t.Parallel()
	led := New(4, nil)

	out, err := led.Apply(op("u1", "k1", models.OpTopUp, 100))
	require.NoError(t, err)
	require.Equal(t, int64(100), out.Balance)
	require.False(t, out.Replayed)
	require.Equal(t, int64(100), led.Balance("u1"))
}

func TestApplyIdempotentReplay(t *testing.T) {
	t.Parallel()
	led := New(4, nil)

	first, err := led.Apply(op("u1", "k1", models.OpTopUp, 100))
	require.NoError(t, err)
	require.Equal(t, int64(100), first.Balance)

	second, err := led.Apply(op("u1", "k1", models.OpTopUp, 100))
	require.NoError(t, err)
	require.Equal(t, int64(100), second.Balance)
	require.True(t, second.Replayed)
	require.Equal(t, int64(100), led.Balance("u1"), "balance must be mutated only once")
}

func TestReplayIgnoresTypeAndAmount(t *testing.T) {
	t.Parallel()
	led := New(4, nil)

	_, err := led.Apply(op("u1", "k1", models.OpTopUp, 100))
	require.NoError(t, err)

	// Same key, different type and amount: key identity alone decides.
	out, err := led.Apply(op("u1", "k1", models.OpDebit, 40))
	require.NoError(t, err)
	require.True(t, out.Replayed)
	require.Equal(t, int64(100), out.Balance)
	require.Equal(t, int64(100), led.Balance("u1"))
}

func TestApplyInvalidOperation(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name string
		op   models.Operation
	}{
		{name: "negative amount", op: op("u1", "k1", models.OpTopUp, -5)},
		{name: "zero amount", op: op("u1", "k1", models.OpReward, 0)},
		{name: "unknown type", op: op("u1", "k1", models.OpType("transfer"), 10)},
		{name: "missing user", op: op("", "k1", models.OpTopUp, 10)},
		{name: "missing key", op: op("u1", "", models.OpTopUp, 10)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			led := New(4, nil)
			_, err := led.Apply(tt.op)
			require.ErrorIs(t, err, ErrInvalidOperation)
			require.Equal(t, int64(0), led.Balance("u1"))
		})
	}
}

func TestInvalidOperationLeavesKeyUsable(t *testing.T) {
	t.Parallel()
	led := New(4, nil)

	_, err := led.Apply(op("u1", "k1", models.OpTopUp, -5))
	require.ErrorIs(t, err, ErrInvalidOperation)

	// Corrected retry with the same key must apply fresh.
	out, err := led.Apply(op("u1", "k1", models.OpTopUp, 5))
	require.NoError(t, err)
	require.False(t, out.Replayed)
	require.Equal(t, int64(5), out.Balance)
}

func TestDebitBoundary(t *testing.T) {
	t.Parallel()
	led := New(4, nil)

	_, err := led.Apply(op("u1", "fund", models.OpTopUp, 50))
	require.NoError(t, err)

	out, err := led.Apply(op("u1", "d1", models.OpDebit, 50))
	require.NoError(t, err)
	require.Equal(t, int64(0), out.Balance)

	_, err = led.Apply(op("u1", "d2", models.OpDebit, 1))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	require.Equal(t, int64(0), led.Balance("u1"))
}

func TestFailedDebitStaysRetryable(t *testing.T) {
	t.Parallel()
	led := New(4, nil)

	_, err := led.Apply(op("u1", "d1", models.OpDebit, 30))
	require.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = led.Apply(op("u1", "fund", models.OpReward, 30))
	require.NoError(t, err)

	// Funds arrived; the same debit key must now succeed, not replay the
	// earlier failure.
	out, err := led.Apply(op("u1", "d1", models.OpDebit, 30))
	require.NoError(t, err)
	require.False(t, out.Replayed)
	require.Equal(t, int64(0), out.Balance)
}

func TestDistinctKeysAreIndependent(t *testing.T) {
	t.Parallel()
	led := New(4, nil)

	_, err := led.Apply(op("u1", "k1", models.OpTopUp, 100))
	require.NoError(t, err)
	out, err := led.Apply(op("u1", "k2", models.OpTopUp, 25))
	require.NoError(t, err)
	require.Equal(t, int64(125), out.Balance)
}

func TestBalanceUnknownUser(t *testing.T) {
	t.Parallel()
	led := New(4, nil)
	require.Equal(t, int64(0), led.Balance("nobody"))
}

func TestConcurrentTopUpsLoseNoUpdates(t *testing.T) {
	t.Parallel()
	led := New(8, nil)

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := led.Apply(op("u1", fmt.Sprintf("k-%d", i), models.OpTopUp, 10))
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	require.Equal(t, int64(n*10), led.Balance("u1"))
}

func TestConcurrentSameKeyAppliesOnce(t *testing.T) {
	t.Parallel()
	led := New(8, nil)

	const n = 50
	var replays int64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := led.Apply(op("u1", "retry-storm", models.OpTopUp, 10))
			require.NoError(t, err)
			require.Equal(t, int64(10), out.Balance, "every caller observes the same result")
			if out.Replayed {
				atomic.AddInt64(&replays, 1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int64(10), led.Balance("u1"))
	require.Equal(t, int64(n-1), replays)
}

func TestConcurrentUsersStayIsolated(t *testing.T) {
	t.Parallel()
	led := New(8, nil)

	const users = 10
	const perUser = 20
	var wg sync.WaitGroup
	for u := 0; u < users; u++ {
		for i := 0; i < perUser; i++ {
			wg.Add(1)
			go func(u, i int) {
				defer wg.Done()
				_, err := led.Apply(op(
					fmt.Sprintf("user-%d", u),
					fmt.Sprintf("key-%d-%d", u, i),
					models.OpReward, 5))
				require.NoError(t, err)
			}(u, i)
		}
	}
	wg.Wait()

	for u := 0; u < users; u++ {
		require.Equal(t, int64(perUser*5), led.Balance(fmt.Sprintf("user-%d", u)))
	}
}

type captureRecorder struct {
	mu   sync.Mutex
	seen []models.Operation
}

func (c *captureRecorder) Record(op models.Operation, balance int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, op)
}

func TestRecorderSeesOnlyFreshApplies(t *testing.T) {
	t.Parallel()
	rec := &captureRecorder{}
	led := New(4, rec)

	_, err := led.Apply(op("u1", "k1", models.OpTopUp, 100))
	require.NoError(t, err)
	_, err = led.Apply(op("u1", "k1", models.OpTopUp, 100)) // replay
	require.NoError(t, err)
	_, err = led.Apply(op("u1", "d1", models.OpDebit, 500)) // fails
	require.ErrorIs(t, err, ErrInsufficientFunds)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.seen, 1)
	require.Equal(t, "k1", rec.seen[0].IdempotencyKey)
}
