// Package retry provides a generic retry executor with exponential backoff
// and jitter. It helps handle transient failures gracefully by automatically
// retrying failed operations under a reusable policy.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"talentboard/internal/domain/failure"
	"talentboard/internal/observability/logging"
	"talentboard/internal/observability/metrics"
)

// Operation is a fallible unit of work submitted to the executor. It takes
// no arguments; a caller that needs a per-attempt deadline or cancellation
// check embeds it in the closure.
type Operation[T any] func() (T, error)

// Condition decides whether a classified error should trigger another attempt.
type Condition func(err error) bool

// Hook is invoked with the current attempt number before each retry delay.
type Hook func(attempt int)

// defaultMultiplier is applied when a policy does not set one.
const defaultMultiplier = 2.0

// maxBackoffExponent caps the backoff exponent so the computed delay never
// overflows for large attempt counts.
const maxBackoffExponent = 32

// Policy holds the configuration for retry logic. A policy is a value
// object: it is reusable across calls and never mutated by the executor.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first (>= 1)
	MaxAttempts int

	// BaseDelay is the delay before the first retry
	BaseDelay time.Duration

	// MaxDelay caps the delay between retries (0 means no cap beyond the
	// exponent limit)
	MaxDelay time.Duration

	// Multiplier is the multiplier for exponential backoff (default 2)
	Multiplier float64

	// Jitter scales each delay by a random factor in [0.5, 1.0] to
	// desynchronize concurrent retriers
	Jitter bool

	// Condition decides per-attempt whether to retry. The error passed in is
	// the classified failure. Defaults to the classification's retryable flag.
	Condition Condition

	// OnRetry is called with the attempt number before each delay
	OnRetry Hook
}

// DefaultPolicy returns a general-purpose retry policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  2.0,
		Jitter:      true,
	}
}

// StoragePolicy returns a policy tuned for persistence-layer operations.
// Fast retry for transient connection issues.
func StoragePolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    1 * time.Second,
		Multiplier:  2.0,
		Jitter:      true,
	}
}

// AuthPolicy returns a policy tuned for identity-provider calls. A single
// quick retry: credential failures are non-retryable anyway, so only
// transport blips benefit.
func AuthPolicy() Policy {
	return Policy{
		MaxAttempts: 2,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    1 * time.Second,
		Multiplier:  2.0,
		Jitter:      true,
	}
}

// ProfilePolicy returns a policy tuned for profile read/write operations.
func ProfilePolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Multiplier:  2.0,
		Jitter:      true,
	}
}

// Outcome is the result of a retry execution. Attempts is the number of
// invocations actually made, at most Policy.MaxAttempts. Success implies
// Err is nil and Value is populated.
type Outcome[T any] struct {
	Success  bool
	Value    T
	Err      error
	Attempts int
}

// Do executes op under the given policy.
//
// Each failure is classified against the taxonomy before the policy's
// condition is consulted. Non-retryable failures surface immediately.
// The delay between attempts grows as BaseDelay * Multiplier^(attempt-1),
// capped by MaxDelay; jitter, when enabled, scales each delay by a random
// factor in [0.5, 1.0]. The inter-attempt wait aborts on ctx cancellation;
// per-attempt deadlines remain the caller's responsibility inside op.
func Do[T any](ctx context.Context, p Policy, op Operation[T]) Outcome[T] {
	p = p.withDefaults()
	logger := logging.FromContext(ctx)

	for attempt := 1; ; attempt++ {
		value, err := op()

		if err == nil {
			if attempt > 1 {
				logger.Info("operation succeeded after retry",
					slog.Int("attempt", attempt))
			}
			metrics.RecordRetryOutcome(true, attempt)
			return Outcome[T]{Success: true, Value: value, Attempts: attempt}
		}

		classified := failure.Classify(err)

		if !p.Condition(classified) {
			logger.Warn("non-retryable error, aborting",
				slog.Int("attempt", attempt),
				slog.String("code", classified.Code),
				slog.Any("error", err))
			metrics.RecordRetryOutcome(false, attempt)
			return Outcome[T]{Err: classified, Attempts: attempt}
		}

		if attempt == p.MaxAttempts {
			logger.Warn("max retry attempts exceeded",
				slog.Int("attempts", attempt),
				slog.String("code", classified.Code),
				slog.Any("error", err))
			metrics.RecordRetryOutcome(false, attempt)
			return Outcome[T]{Err: classified, Attempts: attempt}
		}

		delay := p.delayFor(attempt)

		logger.Warn("operation failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", p.MaxAttempts),
			slog.Duration("delay", delay),
			slog.Any("error", err))

		if p.OnRetry != nil {
			p.OnRetry(attempt)
		}

		select {
		case <-time.After(delay):
			// Continue to next attempt
		case <-ctx.Done():
			metrics.RecordRetryOutcome(false, attempt)
			return Outcome[T]{
				Err:      fmt.Errorf("retry aborted: %w", ctx.Err()),
				Attempts: attempt,
			}
		}
	}
}

// withDefaults normalizes a policy without mutating the caller's copy.
func (p Policy) withDefaults() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.Multiplier < 1 {
		p.Multiplier = defaultMultiplier
	}
	if p.BaseDelay < 0 {
		p.BaseDelay = 0
	}
	if p.Condition == nil {
		p.Condition = failure.IsRetryable
	}
	return p
}

// delayFor computes the delay after the given attempt (1-based).
func (p Policy) delayFor(attempt int) time.Duration {
	exponent := attempt - 1
	if exponent > maxBackoffExponent {
		exponent = maxBackoffExponent
	}

	delay := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(exponent))
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}
	// math.Pow can exceed the Duration range for large multipliers; clamp
	// before converting so the delay never wraps negative.
	if math.IsNaN(delay) || delay >= math.MaxInt64/2 {
		delay = math.MaxInt64 / 2
	}

	if p.Jitter {
		// #nosec G404 -- math/rand is acceptable for backoff jitter;
		// cryptographic randomness is not required here.
		delay *= 0.5 + 0.5*rand.Float64()
	}

	return time.Duration(delay)
}
