package oracle_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luticapital/arbitrage-helper/internal/oracle"
)

func TestRateLimiter_Wait(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rate    float64
		burst   int
		daily   int64
		calls   int
		wantErr bool
	}{
		{
			name:  "allows calls within rate",
			rate:  100,
			burst: 10,
			daily: 5000,
			calls: 3,
		},
		{
			name:  "allows burst",
			rate:  100,
			burst: 5,
			daily: 5000,
			calls: 5,
		},
		{
			name:  "zero daily budget is unlimited",
			rate:  100,
			burst: 10,
			daily: 0,
			calls: 8,
		},
		{
			name:    "rejects when daily limit reached",
			rate:    100,
			burst:   10,
			daily:   2,
			calls:   3,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rl := oracle.NewRateLimiter(tt.rate, tt.burst, tt.daily)

			var lastErr error
			for range tt.calls {
				lastErr = rl.Wait(context.Background())
				if lastErr != nil {
					break
				}
			}

			if tt.wantErr {
				require.Error(t, lastErr)
				assert.ErrorIs(t, lastErr, oracle.ErrDailyLimitReached)
			} else {
				require.NoError(t, lastErr)
			}
		})
	}
}

func TestRateLimiter_Quota(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		daily         int64
		calls         int
		wantUnlimited bool
		wantLeft      int64
		wantExhausted bool
	}{
		{name: "fresh budget", daily: 3, wantLeft: 3},
		{name: "partly used", daily: 3, calls: 1, wantLeft: 2},
		{name: "spent", daily: 2, calls: 2, wantLeft: 0, wantExhausted: true},
		{name: "no budget", daily: 0, calls: 2, wantUnlimited: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rl := oracle.NewRateLimiter(100, 10, tt.daily)
			for range tt.calls {
				require.NoError(t, rl.Wait(context.Background()))
			}

			q := rl.Quota()
			assert.Equal(t, float64(100), q.PerSecond)
			assert.Equal(t, 10, q.Burst)
			assert.Equal(t, int64(tt.calls), q.Used)
			assert.Equal(t, tt.wantUnlimited, q.Unlimited())
			assert.Equal(t, tt.wantExhausted, q.Exhausted())
			if !tt.wantUnlimited {
				assert.Equal(t, tt.wantLeft, q.Left())
			}
		})
	}
}

func TestRateLimiter_DailyReset(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	currentTime := now

	rl := oracle.NewRateLimiter(
		100, 10, 2,
		oracle.WithRateLimiterNowFunc(func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return currentTime
		}),
	)

	require.NoError(t, rl.Wait(context.Background()))
	require.NoError(t, rl.Wait(context.Background()))
	require.ErrorIs(t, rl.Wait(context.Background()), oracle.ErrDailyLimitReached)
	assert.Equal(t, now.Add(24*time.Hour), rl.Quota().ResetAt)

	// Move past the end of the window.
	mu.Lock()
	currentTime = now.Add(25 * time.Hour)
	mu.Unlock()

	require.NoError(t, rl.Wait(context.Background()))
	assert.Equal(t, int64(1), rl.DailyCount())
}

func TestRateLimiter_ContextCanceled(t *testing.T) {
	t.Parallel()

	rl := oracle.NewRateLimiter(0.1, 1, 0)

	// First call uses the burst.
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := rl.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter wait")
}
