// Package wait provides a bounded polling primitive used by the remediation
// steps that block until an instance reaches a lifecycle state.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrBudgetExceeded is returned when the condition is still unmet after the
// last attempt.
var ErrBudgetExceeded = errors.New("wait budget exceeded")

// Policy bounds a wait: at most MaxAttempts checks, Delay apart.
type Policy struct {
	Delay       time.Duration
	MaxAttempts int
}

// Budget is the longest a wait under p can sleep.
func (p Policy) Budget() time.Duration {
	if p.MaxAttempts <= 1 {
		return 0
	}
	return p.Delay * time.Duration(p.MaxAttempts-1)
}

// Condition reports whether the awaited state was reached. A non-nil error
// aborts the wait immediately.
type Condition func(ctx context.Context) (bool, error)

// Until checks cond, sleeping p.Delay between checks, until it reports done,
// returns an error, or p.MaxAttempts checks have been made.
func Until(ctx context.Context, p Policy, cond Condition) error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("wait: max attempts must be >= 1, got %d", p.MaxAttempts)
	}

	for attempt := 1; ; attempt++ {
		done, err := cond(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if attempt >= p.MaxAttempts {
			return fmt.Errorf("%w after %d attempts", ErrBudgetExceeded, attempt)
		}

		timer := time.NewTimer(p.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
