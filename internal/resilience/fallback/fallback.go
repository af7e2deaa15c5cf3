// Package fallback runs an ordered chain of alternative operations, each
// independently retried, stopping at the first success.
package fallback

import (
	"context"
	"errors"
	"log/slog"

	"talentboard/internal/observability/logging"
	"talentboard/internal/observability/metrics"
	"talentboard/internal/resilience/retry"
)

// ErrNoOperations indicates that Run was called with an empty chain.
// An empty chain is a configuration error, not a runtime failure.
var ErrNoOperations = errors.New("fallback chain has no operations")

// Run tries each operation in order under retry.Do with the given policy.
//
// The first successful operation wins and its outcome is returned with the
// cumulative attempt count across the whole chain. If every operation
// exhausts its retries, the last operation's error is returned, again with
// cumulative attempts. An empty chain fails with ErrNoOperations before any
// operation runs.
func Run[T any](ctx context.Context, p retry.Policy, ops []retry.Operation[T]) retry.Outcome[T] {
	if len(ops) == 0 {
		return retry.Outcome[T]{Err: ErrNoOperations}
	}

	logger := logging.FromContext(ctx)

	var last retry.Outcome[T]
	attempts := 0

	for i, op := range ops {
		outcome := retry.Do(ctx, p, op)
		attempts += outcome.Attempts

		if outcome.Success {
			if i > 0 {
				logger.Info("fallback operation succeeded",
					slog.Int("position", i),
					slog.Int("total_attempts", attempts))
			}
			outcome.Attempts = attempts
			metrics.RecordFallbackRun(true)
			return outcome
		}

		logger.Warn("fallback operation exhausted retries",
			slog.Int("position", i),
			slog.Int("remaining", len(ops)-i-1),
			slog.Any("error", outcome.Err))
		last = outcome
	}

	last.Attempts = attempts
	metrics.RecordFallbackRun(false)
	return last
}
