package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type permanentErr struct{ msg string }

func (e *permanentErr) Error() string   { return e.msg }
func (e *permanentErr) Retryable() bool { return false }

func testRetryer(slept *[]time.Duration) *retryer {
	r := newRetryer(zap.NewNop())
	r.sleep = func(d time.Duration) {
		if slept != nil {
			*slept = append(*slept, d)
		}
	}
	r.random = func() float64 { return 0.5 }
	return r
}

func TestRetryExhaustsAttempts(t *testing.T) {
	var slept []time.Duration
	r := testRetryer(&slept)

	calls := 0
	out := r.do(context.Background(), "test", func(context.Context) error {
		calls++
		return errors.New("gateway timeout")
	})

	if out.Success {
		t.Fatal("expected failure")
	}
	if calls != 3 || out.Attempts != 3 {
		t.Fatalf("calls=%d attempts=%d, want 3/3", calls, out.Attempts)
	}
	if out.Error != "gateway timeout" {
		t.Fatalf("error = %q", out.Error)
	}
	// no sleep after the final attempt
	if len(slept) != 2 {
		t.Fatalf("slept %d times, want 2", len(slept))
	}
}

func TestRetryRecoversAfterTwoFailures(t *testing.T) {
	r := testRetryer(nil)

	calls := 0
	out := r.do(context.Background(), "test", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("blip")
		}
		return nil
	})

	if !out.Success {
		t.Fatalf("expected success: %+v", out)
	}
	if out.Attempts != 3 {
		t.Fatalf("attempts = %d, want 3", out.Attempts)
	}
	if out.Error != "" {
		t.Fatalf("error should be empty, got %q", out.Error)
	}
}

func TestRetryFirstTrySuccess(t *testing.T) {
	var slept []time.Duration
	r := testRetryer(&slept)

	out := r.do(context.Background(), "test", func(context.Context) error { return nil })
	if !out.Success || out.Attempts != 1 {
		t.Fatalf("got %+v", out)
	}
	if len(slept) != 0 {
		t.Fatal("success must not sleep")
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	var slept []time.Duration
	r := testRetryer(&slept)

	calls := 0
	out := r.do(context.Background(), "test", func(context.Context) error {
		calls++
		return &permanentErr{msg: "invalid phone number"}
	})

	if out.Success {
		t.Fatal("expected failure")
	}
	if calls != 1 || out.Attempts != 1 {
		t.Fatalf("calls=%d attempts=%d, want 1/1", calls, out.Attempts)
	}
	if len(slept) != 0 {
		t.Fatal("permanent failure must not sleep")
	}
}

func TestBackoffBounds(t *testing.T) {
	for _, rnd := range []float64{0, 0.42, 0.999} {
		r := newRetryer(zap.NewNop())
		r.random = func() float64 { return rnd }
		for attempt := 0; attempt < 8; attempt++ {
			d := r.backoff(attempt)
			base := baseDelay << uint(attempt)
			if base > maxDelay {
				base = maxDelay
			}
			if d < base || d >= base+maxJitter {
				t.Fatalf("attempt %d rnd %v: delay %v outside [%v, %v)",
					attempt, rnd, d, base, base+maxJitter)
			}
		}
	}
}

func TestBackoffCap(t *testing.T) {
	r := newRetryer(zap.NewNop())
	r.random = func() float64 { return 0.999 }
	if d := r.backoff(20); d >= maxDelay+maxJitter {
		t.Fatalf("delay %v exceeds cap", d)
	}
}
