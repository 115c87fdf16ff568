// Package retry provides the exponential backoff used by long-running
// loops that must survive transient failures, such as the accept loop
// hitting a file-descriptor limit.
package retry

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Backoff hands out growing delays for consecutive failures.  Call
// [Backoff.Reset] after a success.  A Backoff is not safe for
// concurrent use; each loop owns its own.
type Backoff struct {
	// InitialDelay is the first delay handed out (default 5ms).
	InitialDelay time.Duration
	// MaxDelay caps the delay (default 1s).
	MaxDelay time.Duration
	// Multiplier increases the delay each failure (default 2.0).
	Multiplier float64
	// Jitter adds ±25% randomisation.
	Jitter bool

	current  time.Duration
	failures int
}

// DefaultAcceptBackoff mirrors the delays net/http uses for temporary
// accept errors.
func DefaultAcceptBackoff() *Backoff {
	return &Backoff{
		InitialDelay: 5 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
	}
}

// Next records a failure and returns how long to wait before the next
// attempt.
func (b *Backoff) Next() time.Duration {
	initial := b.InitialDelay
	if initial <= 0 {
		initial = 5 * time.Millisecond
	}
	maxDelay := b.MaxDelay
	if maxDelay <= 0 {
		maxDelay = time.Second
	}
	multiplier := b.Multiplier
	if multiplier <= 0 {
		multiplier = 2.0
	}

	if b.current == 0 {
		b.current = initial
	} else {
		b.current = time.Duration(float64(b.current) * multiplier)
	}
	if b.current > maxDelay {
		b.current = maxDelay
	}
	b.failures++

	if b.Jitter {
		return addJitter(b.current)
	}
	return b.current
}

// Failures returns the number of failures since the last reset.
func (b *Backoff) Failures() int { return b.failures }

// Reset clears the failure streak.
func (b *Backoff) Reset() {
	b.current = 0
	b.failures = 0
}

// Wait sleeps for the next delay or until ctx is done, whichever comes
// first.  It returns ctx.Err() when cancelled.
func (b *Backoff) Wait(ctx context.Context) error {
	t := time.NewTimer(b.Next())
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// addJitter adds ±25% randomisation to a duration.
func addJitter(d time.Duration) time.Duration {
	quarter := float64(d) * 0.25
	delta := (rand.Float64() * 2 * quarter) - quarter
	result := float64(d) + delta
	return time.Duration(math.Max(result, float64(time.Millisecond)))
}
