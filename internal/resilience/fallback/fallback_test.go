package fallback

import (
	"context"
	"errors"
	"testing"
	"time"

	"talentboard/internal/domain/failure"
	"talentboard/internal/resilience/retry"
)

func fastPolicy(maxAttempts int) retry.Policy {
	return retry.Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   2 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRun_FirstOperationSucceeds(t *testing.T) {
	primary, secondary := 0, 0

	outcome := Run(context.Background(), fastPolicy(2), []retry.Operation[string]{
		func() (string, error) {
			primary++
			return "primary", nil
		},
		func() (string, error) {
			secondary++
			return "secondary", nil
		},
	})

	if !outcome.Success || outcome.Value != "primary" {
		t.Fatalf("expected primary result, got %+v", outcome)
	}
	if outcome.Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", outcome.Attempts)
	}
	if secondary != 0 {
		t.Error("secondary operation must not run when primary succeeds")
	}
}

func TestRun_FallsBackToNextOperation(t *testing.T) {
	primary, secondary := 0, 0

	outcome := Run(context.Background(), fastPolicy(2), []retry.Operation[string]{
		func() (string, error) {
			primary++
			return "", failure.NewStorageConnection(errors.New("primary down"))
		},
		func() (string, error) {
			secondary++
			return "cached", nil
		},
	})

	if !outcome.Success || outcome.Value != "cached" {
		t.Fatalf("expected cached result, got %+v", outcome)
	}
	if primary != 2 {
		t.Errorf("expected primary exhausted (2 attempts), got %d", primary)
	}
	if secondary != 1 {
		t.Errorf("expected secondary invoked once, got %d", secondary)
	}
	// cumulative attempts across the chain
	if outcome.Attempts != 3 {
		t.Errorf("expected 3 cumulative attempts, got %d", outcome.Attempts)
	}
}

func TestRun_AllOperationsFail(t *testing.T) {
	lastErr := failure.NewProfileCreationFailed(errors.New("replica down"))

	outcome := Run(context.Background(), fastPolicy(2), []retry.Operation[string]{
		func() (string, error) {
			return "", failure.NewStorageConnection(errors.New("primary down"))
		},
		func() (string, error) {
			return "", lastErr
		},
	})

	if outcome.Success {
		t.Fatal("expected failure")
	}
	if !errors.Is(outcome.Err, lastErr) {
		t.Errorf("expected the last operation's error, got %v", outcome.Err)
	}
	if outcome.Attempts != 4 {
		t.Errorf("expected 4 cumulative attempts, got %d", outcome.Attempts)
	}
}

func TestRun_NonRetryableMovesToNextWithoutRetry(t *testing.T) {
	primary := 0

	outcome := Run(context.Background(), fastPolicy(3), []retry.Operation[int]{
		func() (int, error) {
			primary++
			return 0, failure.NewProfileNotFound(nil)
		},
		func() (int, error) {
			return 7, nil
		},
	})

	if !outcome.Success || outcome.Value != 7 {
		t.Fatalf("expected fallback result, got %+v", outcome)
	}
	if primary != 1 {
		t.Errorf("non-retryable failure should not be retried, got %d invocations", primary)
	}
	if outcome.Attempts != 2 {
		t.Errorf("expected 2 cumulative attempts, got %d", outcome.Attempts)
	}
}

func TestRun_EmptyChain(t *testing.T) {
	outcome := Run[int](context.Background(), fastPolicy(2), nil)

	if outcome.Success {
		t.Fatal("expected failure for empty chain")
	}
	if !errors.Is(outcome.Err, ErrNoOperations) {
		t.Errorf("expected ErrNoOperations, got %v", outcome.Err)
	}
	if outcome.Attempts != 0 {
		t.Errorf("expected 0 attempts, got %d", outcome.Attempts)
	}
}

func TestRun_SingleOperationChain(t *testing.T) {
	outcome := Run(context.Background(), fastPolicy(2), []retry.Operation[string]{
		func() (string, error) {
			return "only", nil
		},
	})

	if !outcome.Success || outcome.Value != "only" {
		t.Fatalf("expected success, got %+v", outcome)
	}
}
