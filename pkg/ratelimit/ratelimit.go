// Package ratelimit provides the outbound request budget shared by every
// caller of the Discord REST API.
//
// A Budget hands out tokens at a fixed requests-per-second rate with a burst
// ceiling. Acquisition is serialized by a single mutex; the wait for a
// reserved token happens outside the lock so a cancelled caller never blocks
// the others.
//
// Example usage:
//
//	budget := ratelimit.NewBudget(5, 10)
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//
//	if err := budget.Wait(ctx); err != nil {
//	    return err
//	}
//	doRequest()
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultRequestsPerSecond = 5.0
	DefaultBurst             = 10
)

// ErrBudgetExceeded is returned when the caller's deadline expires before a
// token would become available.
var ErrBudgetExceeded = errors.New("ratelimit: deadline exceeded before a token is available")

// =============================================================================
// Budget
// =============================================================================

// Budget is a token bucket guarded by a mutex. Thread-safe.
type Budget struct {
	mu      sync.Mutex
	limiter *rate.Limiter
}

// NewBudget creates a Budget that refills rps tokens per second and holds at
// most burst tokens. Non-positive values fall back to the defaults.
func NewBudget(rps float64, burst int) *Budget {
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &Budget{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait blocks until a token is available or the context is done.
func (b *Budget) Wait(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	now := time.Now()

	b.mu.Lock()
	r := b.limiter.ReserveN(now, 1)
	b.mu.Unlock()

	if !r.OK() {
		return fmt.Errorf("ratelimit: burst %d cannot satisfy request", b.Burst())
	}

	delay := r.DelayFrom(now)
	if delay == 0 {
		return nil
	}
	if deadline, ok := ctx.Deadline(); ok && deadline.Before(now.Add(delay)) {
		r.CancelAt(now)
		return ErrBudgetExceeded
	}

	t := time.NewTimer(delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Allow takes a token if one is available right now.
func (b *Budget) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.limiter.Allow()
}

// Limit returns the configured requests per second.
func (b *Budget) Limit() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return float64(b.limiter.Limit())
}

// Burst returns the configured burst size.
func (b *Budget) Burst() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.limiter.Burst()
}
