package download

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds how hard the Manager tries a single candidate.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	// Values below 1 are treated as 1.
	MaxAttempts int

	// Delay is the fixed wait between attempts.
	Delay time.Duration

	// AttemptTimeout caps each individual attempt. Zero means no cap
	// beyond the parent context.
	AttemptTimeout time.Duration
}

// DefaultRetryPolicy returns three attempts two seconds apart with a
// ninety second cap per attempt.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		Delay:          2 * time.Second,
		AttemptTimeout: 90 * time.Second,
	}
}

// NoDelay returns a copy of p without inter-attempt waits.
func (p RetryPolicy) NoDelay() RetryPolicy {
	p.Delay = 0
	return p
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Do runs op until it succeeds, the attempts are used up, or ctx ends.
//
// Each call of op receives its own context limited by AttemptTimeout.
// notify, when non-nil, is called after every failed attempt that will
// be retried. Errors wrapped with Permanent, and missing executables,
// stop the loop immediately.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error, notify func(attempt int, err error)) error {
	attempt := 0
	operation := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		attempt++

		attemptCtx, cancel := p.attemptContext(ctx)
		defer cancel()

		err := op(attemptCtx)
		if err != nil && errors.Is(err, exec.ErrNotFound) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Delay), uint64(p.attempts()-1)),
		ctx,
	)

	return backoff.RetryNotify(operation, b, func(err error, _ time.Duration) {
		if notify != nil {
			notify(attempt, err)
		}
	})
}

func (p RetryPolicy) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.AttemptTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.AttemptTimeout)
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
