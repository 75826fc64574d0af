// Package retry paces reconnects to a robot whose link was declared
// dead.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

const (
	defaultInitialDelay = 500 * time.Millisecond
	defaultMaxDelay     = 10 * time.Second
	defaultMultiplier   = 2.0
)

// PermanentError carries a failure that no reconnect can fix, such as
// a cancelled run or an invalid robot address.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so that Do returns it without another attempt.
// Permanent(nil) is nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err, or anything it wraps, came from
// Permanent.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// Backoff is the delay policy between connect attempts.  Zero fields
// take the values of DefaultBackoff, except MaxAttempts where zero
// means no limit.
type Backoff struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// MaxAttempts counts the first attempt too.
	MaxAttempts int

	// Jitter spreads each wait by up to 25% either way.
	Jitter bool

	// Retryable rejects errors that should end the run.  Nil retries
	// everything not marked Permanent.
	Retryable func(error) bool

	// OnRetry sees each failed attempt before its wait.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultBackoff returns the reconnect policy for robot links: 500ms
// growing to 10s, jittered, with no attempt limit.
func DefaultBackoff() *Backoff {
	return &Backoff{
		InitialDelay: defaultInitialDelay,
		MaxDelay:     defaultMaxDelay,
		Multiplier:   defaultMultiplier,
		Jitter:       true,
	}
}

// Delay returns the unjittered wait that follows failed attempt n
// (1-based).
func (b *Backoff) Delay(n int) time.Duration {
	initial, maxDelay, mult := b.InitialDelay, b.MaxDelay, b.Multiplier
	if initial <= 0 {
		initial = defaultInitialDelay
	}
	if maxDelay <= 0 {
		maxDelay = defaultMaxDelay
	}
	if mult <= 0 {
		mult = defaultMultiplier
	}
	if n < 1 {
		n = 1
	}
	d := float64(initial) * math.Pow(mult, float64(n-1))
	if d > float64(maxDelay) {
		return maxDelay
	}
	return time.Duration(d)
}

// Do calls fn with attempt numbers 1, 2, ... until it returns nil, the
// error is permanent or rejected by Retryable, MaxAttempts is used up,
// or ctx ends.
func (b *Backoff) Do(ctx context.Context, fn func(attempt int) error) error {
	for attempt := 1; ; attempt++ {
		err := fn(attempt)
		switch {
		case err == nil:
			return nil
		case IsPermanent(err):
			return errors.Unwrap(err)
		case b.Retryable != nil && !b.Retryable(err):
			return err
		case b.MaxAttempts > 0 && attempt >= b.MaxAttempts:
			return fmt.Errorf("max retries (%d) exceeded: %w", b.MaxAttempts, err)
		}

		wait := b.Delay(attempt)
		if b.Jitter {
			wait = jitter(wait)
		}
		if b.OnRetry != nil {
			b.OnRetry(attempt, err, wait)
		}
		if err := sleep(ctx, wait); err != nil {
			return fmt.Errorf("retry cancelled: %w", err)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// jitter moves d by a random amount within ±25%, never below 1ms.
func jitter(d time.Duration) time.Duration {
	spread := float64(d) / 4
	j := float64(d) + (rand.Float64()*2-1)*spread
	return time.Duration(math.Max(j, float64(time.Millisecond)))
}
