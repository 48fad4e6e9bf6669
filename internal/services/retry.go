package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

// Retry defaults; chosen to keep a flaky request under ~15s worst case.
const (
	DefaultMaxRetries = 2
	DefaultRetryDelay = 1 * time.Second
	DefaultTimeout    = 10 * time.Second
)

// errAttemptTimeout marks an attempt that lost the race against its timer.
var errAttemptTimeout = errors.New("request timed out")

// RetryOptions bound a retried request. Zero values take the defaults.
type RetryOptions struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int
	// RetryDelay is the backoff base; attempt n sleeps RetryDelay * 2^n.
	RetryDelay time.Duration
	// Timeout races each individual attempt.
	Timeout time.Duration
}

func (o RetryOptions) withDefaults() RetryOptions {
	if o.MaxRetries <= 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// RetryExecutor is the single chokepoint for flaky-network resilience:
// timeouts and errors are unified into one bounded-retry loop with
// exponential backoff, and exhaustion degrades to a user notice instead of
// an escaped error.
type RetryExecutor struct {
	notifier Notifier
	logger   *slog.Logger
}

// NewRetryExecutor creates a retry executor.
func NewRetryExecutor(notifier Notifier, logger *slog.Logger) *RetryExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryExecutor{notifier: notifier, logger: logger}
}

// ExecuteWithRetry runs fn up to MaxRetries+1 times, racing each attempt
// against the timeout. On success the value is returned immediately. On
// exhaustion it emits exactly one user notice (a "took too long" one when
// the last failure was a timeout) and reports ok=false; callers must treat
// that as "operation did not complete", never as an empty result.
// Cancellation of ctx is silent: no notice, ok=false.
func ExecuteWithRetry[T any](
	ctx context.Context,
	ex *RetryExecutor,
	label string,
	opts RetryOptions,
	fn func(ctx context.Context) (T, error),
) (T, bool) {
	var zero T
	o := opts.withDefaults()

	var out T
	backoff := retry.WithMaxRetries(uint64(o.MaxRetries), retry.NewExponential(o.RetryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		val, err := runAttempt(ctx, o.Timeout, fn)
		if err != nil {
			return retry.RetryableError(err)
		}
		out = val
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return zero, false
		}
		ex.logger.Warn("request failed after retries",
			"context", label,
			"retries", o.MaxRetries,
			"error", err,
		)
		if errors.Is(err, errAttemptTimeout) {
			ex.notifier.Error(fmt.Sprintf("%s took too long. Please try again.", label))
		} else {
			ex.notifier.Error(fmt.Sprintf("%s failed. Please try again.", label))
		}
		return zero, false
	}
	return out, true
}

// runAttempt races one invocation of fn against the attempt timeout. A
// timed-out fn keeps running at the transport layer; only its result is
// abandoned.
func runAttempt[T any](
	ctx context.Context,
	timeout time.Duration,
	fn func(ctx context.Context) (T, error),
) (T, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type attemptResult struct {
		val T
		err error
	}
	done := make(chan attemptResult, 1)
	go func() {
		val, err := fn(attemptCtx)
		done <- attemptResult{val: val, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-attemptCtx.Done():
		var zero T
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		return zero, errAttemptTimeout
	}
}
