package retry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// Policy controls how many attempts are made and how long to wait
// between them. Delay grows as BaseDelay * BackoffFactor^(attempt-1),
// capped at MaxDelay.
type Policy struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	// Retryable decides whether a failed attempt is worth repeating.
	// Nil means DefaultRetryable.
	Retryable func(error) bool
}

// DefaultPolicy mirrors the settings the pricing worker uses
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:   3,
		BaseDelay:     500 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2,
	}
}

// Result describes one full retry run
type Result struct {
	Success  bool
	Attempts int
	Elapsed  time.Duration
	LastErr  error
}

// terminalError wraps an error so the loop stops without further attempts
type terminalError struct {
	err error
}

func (e terminalError) Error() string { return e.err.Error() }
func (e terminalError) Unwrap() error { return e.err }

// Terminal marks err so Do gives up immediately regardless of the
// retryable predicate.
func Terminal(err error) error {
	if err == nil {
		return nil
	}
	return terminalError{err: err}
}

// IsTerminal reports whether err was marked with Terminal
func IsTerminal(err error) bool {
	var t terminalError
	return errors.As(err, &t)
}

// Do runs op until it succeeds, MaxAttempts is reached, a
// non-retryable error occurs, or ctx is cancelled. The returned
// Result always reports the attempts used and last error seen.
func Do(ctx context.Context, policy Policy, op func(ctx context.Context) error) Result {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.BackoffFactor < 1 {
		policy.BackoffFactor = 1
	}
	retryable := policy.Retryable
	if retryable == nil {
		retryable = DefaultRetryable
	}

	start := time.Now()
	var result Result

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		result.Attempts = attempt

		err := op(ctx)
		if err == nil {
			result.Success = true
			result.LastErr = nil
			break
		}
		result.LastErr = err

		if IsTerminal(err) || !retryable(err) {
			break
		}
		if attempt == policy.MaxAttempts {
			break
		}

		timer := time.NewTimer(policy.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			result.LastErr = ctx.Err()
			result.Elapsed = time.Since(start)
			return result
		case <-timer.C:
		}
	}

	result.Elapsed = time.Since(start)
	return result
}

// Delay returns the wait before the attempt following the given one
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(p.BaseDelay)
	for i := 1; i < attempt; i++ {
		d *= p.BackoffFactor
		if time.Duration(d) >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	delay := time.Duration(d)
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// DefaultRetryable treats network failures, timeouts, and context
// deadline overruns as retryable. Everything else is terminal.
func DefaultRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// StatusRetryable reports whether an HTTP response status is worth
// retrying. Server errors and rate limiting are transient, other
// client errors are terminal.
func StatusRetryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
