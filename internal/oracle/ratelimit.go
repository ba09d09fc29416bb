package oracle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// ErrDailyLimitReached is returned when the daily oracle call budget has been
// exhausted.
var ErrDailyLimitReached = errors.New("daily oracle limit reached")

// RateLimiter bounds the load put on the oracle. It uses a token bucket for
// per-second pacing and a rolling 24-hour window for a daily budget. A
// maxDaily of zero disables the daily budget.
type RateLimiter struct {
	limiter  *rate.Limiter
	daily    atomic.Int64
	maxDaily int64
	resetAt  time.Time
	mu       sync.Mutex
	nowFunc  func() time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter creates a rate limiter with the given per-second rate,
// burst size, and daily budget.
func NewRateLimiter(
	perSecond float64,
	burst int,
	maxDaily int64,
	opts ...RateLimiterOption,
) *RateLimiter {
	r := &RateLimiter{
		limiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
		maxDaily: maxDaily,
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.resetAt = r.nowFunc().Add(24 * time.Hour)
	return r
}

// Wait blocks until a call is allowed or the context is canceled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.checkDailyReset()

	if r.maxDaily > 0 && r.daily.Load() >= r.maxDaily {
		return fmt.Errorf("%w (%d/%d)", ErrDailyLimitReached, r.daily.Load(), r.maxDaily)
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	r.daily.Add(1)
	return nil
}

// DailyCount returns the number of calls made in the current window.
func (r *RateLimiter) DailyCount() int64 {
	return r.daily.Load()
}

// Quota is a point-in-time view of the oracle call budget.
type Quota struct {
	PerSecond float64
	Burst     int
	Used      int64
	// Limit is zero when the daily budget is disabled.
	Limit   int64
	ResetAt time.Time
}

// Unlimited reports whether no daily budget applies.
func (q Quota) Unlimited() bool {
	return q.Limit <= 0
}

// Left returns the calls left in the window. It is meaningless when
// Unlimited.
func (q Quota) Left() int64 {
	return max(q.Limit-q.Used, 0)
}

// Exhausted reports whether calls are refused until ResetAt.
func (q Quota) Exhausted() bool {
	return !q.Unlimited() && q.Used >= q.Limit
}

// Quota returns the current budget. An expired window is rolled over first
// so a quiet limiter does not report yesterday's usage.
func (r *RateLimiter) Quota() Quota {
	r.checkDailyReset()

	r.mu.Lock()
	resetAt := r.resetAt
	r.mu.Unlock()

	return Quota{
		PerSecond: float64(r.limiter.Limit()),
		Burst:     r.limiter.Burst(),
		Used:      r.daily.Load(),
		Limit:     r.maxDaily,
		ResetAt:   resetAt,
	}
}

func (r *RateLimiter) checkDailyReset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFunc()
	if now.After(r.resetAt) {
		r.daily.Store(0)
		r.resetAt = now.Add(24 * time.Hour)
	}
}
