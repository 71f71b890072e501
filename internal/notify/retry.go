package notify

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Retry policy for channel sends. Transient gateway failures are common and
// self-correcting, so each send gets a bounded number of attempts with
// exponential backoff plus jitter to avoid synchronized retry storms.
const (
	maxAttempts = 3
	baseDelay   = 1 * time.Second
	maxDelay    = 30 * time.Second
	maxJitter   = 1 * time.Second
)

type retryer struct {
	logger *zap.Logger

	// overridable in tests
	sleep  func(time.Duration)
	random func() float64
}

func newRetryer(logger *zap.Logger) *retryer {
	return &retryer{
		logger: logger,
		sleep:  time.Sleep,
		random: rand.Float64,
	}
}

// do runs op up to maxAttempts times. Failed attempts are warn-logged; the
// log is observability only and never changes control flow. A non-retryable
// error (see retryable) stops the loop early. There is no sleep after the
// final failed attempt.
func (r *retryer) do(ctx context.Context, label string, op func(context.Context) error) Outcome {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return Outcome{Success: true, Attempts: attempt + 1}
		}
		lastErr = err
		r.logger.Warn("delivery attempt failed",
			zap.String("op", label),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
		if !retryable(err) {
			return Outcome{Success: false, Error: err.Error(), Attempts: attempt + 1}
		}
		if attempt < maxAttempts-1 {
			r.sleep(r.backoff(attempt))
		}
	}
	return Outcome{Success: false, Error: lastErr.Error(), Attempts: maxAttempts}
}

// backoff computes the delay after a failed attempt (0-indexed):
// min(maxDelay, baseDelay*2^attempt) plus uniform jitter in [0, maxJitter).
func (r *retryer) backoff(attempt int) time.Duration {
	d := baseDelay << uint(attempt)
	if d > maxDelay {
		d = maxDelay
	}
	return d + time.Duration(r.random()*float64(maxJitter))
}

// retryable reports whether err is worth another attempt. Channel senders
// tag permanent failures (rejected address, bad content) via a
// Retryable() bool method; plain errors default to retryable.
func retryable(err error) bool {
	var tagged interface{ Retryable() bool }
	if errors.As(err, &tagged) {
		return tagged.Retryable()
	}
	return true
}
