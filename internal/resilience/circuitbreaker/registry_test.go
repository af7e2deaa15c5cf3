package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"talentboard/internal/domain/failure"
	"talentboard/internal/resilience/retry"
)

func onePolicy() retry.Policy {
	// MaxAttempts 1 so each Execute is exactly one failure against the key
	return retry.Policy{MaxAttempts: 1, BaseDelay: time.Millisecond, Multiplier: 2.0}
}

func failingOp(counter *int) retry.Operation[string] {
	return func() (string, error) {
		*counter++
		return "", failure.NewStorageConnection(errors.New("down"))
	}
}

func tripKey(t *testing.T, r *Registry, key string, counter *int) {
	t.Helper()
	for i := 0; i < FailureThreshold; i++ {
		outcome := Execute(context.Background(), r, key, onePolicy(), failingOp(counter))
		if outcome.Success {
			t.Fatalf("call %d unexpectedly succeeded", i)
		}
	}
}

func TestExecute_PassesThroughWhileClosed(t *testing.T) {
	r := NewRegistry()

	outcome := Execute(context.Background(), r, "storage", onePolicy(), func() (string, error) {
		return "value", nil
	})

	if !outcome.Success || outcome.Value != "value" {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if outcome.Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", outcome.Attempts)
	}
	if r.State("storage") != gobreaker.StateClosed {
		t.Errorf("expected closed state, got %v", r.State("storage"))
	}
}

func TestExecute_TripsOpenAfterThreshold(t *testing.T) {
	r := NewRegistry()
	invoked := 0

	tripKey(t, r, "storage", &invoked)

	if r.State("storage") != gobreaker.StateOpen {
		t.Fatalf("expected open state after %d failures, got %v", FailureThreshold, r.State("storage"))
	}
	if invoked != FailureThreshold {
		t.Errorf("expected %d invocations, got %d", FailureThreshold, invoked)
	}

	if _, ok := r.OpenedAt("storage"); !ok {
		t.Error("expected openedAt recorded for open breaker")
	}

	// Subsequent call short-circuits without invoking the operation
	before := invoked
	outcome := Execute(context.Background(), r, "storage", onePolicy(), failingOp(&invoked))

	if outcome.Success {
		t.Fatal("expected short-circuit failure")
	}
	if outcome.Attempts != 0 {
		t.Errorf("expected 0 attempts on open breaker, got %d", outcome.Attempts)
	}
	if invoked != before {
		t.Error("operation must not be invoked while breaker is open")
	}
	if !strings.Contains(outcome.Err.Error(), "circuit breaker is open") {
		t.Errorf("expected 'circuit breaker is open' in error, got %q", outcome.Err.Error())
	}
	if !errors.Is(outcome.Err, gobreaker.ErrOpenState) {
		t.Errorf("expected wrapped ErrOpenState, got %v", outcome.Err)
	}
}

func TestExecute_SuccessResetsFailureStreak(t *testing.T) {
	r := NewRegistry()
	invoked := 0

	// Four failures, one short of the threshold
	for i := 0; i < FailureThreshold-1; i++ {
		Execute(context.Background(), r, "storage", onePolicy(), failingOp(&invoked))
	}
	if r.Failures("storage") != FailureThreshold-1 {
		t.Fatalf("expected %d consecutive failures, got %d", FailureThreshold-1, r.Failures("storage"))
	}

	// A success resets the streak
	Execute(context.Background(), r, "storage", onePolicy(), func() (string, error) {
		return "ok", nil
	})
	if r.Failures("storage") != 0 {
		t.Errorf("expected streak reset after success, got %d", r.Failures("storage"))
	}

	// Four more failures still do not trip
	for i := 0; i < FailureThreshold-1; i++ {
		Execute(context.Background(), r, "storage", onePolicy(), failingOp(&invoked))
	}
	if r.State("storage") != gobreaker.StateClosed {
		t.Errorf("expected closed state, got %v", r.State("storage"))
	}
}

func TestExecute_ExhaustedRetriesCountAsOneFailure(t *testing.T) {
	r := NewRegistry()
	policy := retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Multiplier: 2.0}
	invoked := 0

	outcome := Execute(context.Background(), r, "storage", policy, failingOp(&invoked))

	if outcome.Attempts != 3 || invoked != 3 {
		t.Errorf("expected 3 attempts inside one call, got outcome=%d invoked=%d", outcome.Attempts, invoked)
	}
	if r.Failures("storage") != 1 {
		t.Errorf("one exhausted execution should count as one breaker failure, got %d", r.Failures("storage"))
	}
}

func TestRegistry_KeysAreIndependent(t *testing.T) {
	r := NewRegistry()
	invoked := 0

	tripKey(t, r, "storage", &invoked)

	if r.State("identity") != gobreaker.StateClosed {
		t.Errorf("unrelated key should stay closed, got %v", r.State("identity"))
	}

	outcome := Execute(context.Background(), r, "identity", onePolicy(), func() (string, error) {
		return "token", nil
	})
	if !outcome.Success {
		t.Errorf("expected call on unrelated key to pass, got %v", outcome.Err)
	}
}

func TestRegistry_ResetClosesOpenBreakers(t *testing.T) {
	r := NewRegistry()
	invoked := 0

	tripKey(t, r, "storage", &invoked)
	if r.State("storage") != gobreaker.StateOpen {
		t.Fatalf("expected open state, got %v", r.State("storage"))
	}

	r.Reset()

	if r.State("storage") != gobreaker.StateClosed {
		t.Fatalf("expected closed state after reset, got %v", r.State("storage"))
	}

	// The wrapped operation runs again after reset
	before := invoked
	outcome := Execute(context.Background(), r, "storage", onePolicy(), failingOp(&invoked))
	if invoked != before+1 {
		t.Error("operation should be invoked after reset")
	}
	if outcome.Attempts != 1 {
		t.Errorf("expected 1 attempt after reset, got %d", outcome.Attempts)
	}
}

func TestRegistry_StaysOpenWithoutReset(t *testing.T) {
	r := NewRegistry()
	invoked := 0

	tripKey(t, r, "storage", &invoked)

	// No half-open probe: repeated calls keep short-circuiting
	for i := 0; i < 3; i++ {
		outcome := Execute(context.Background(), r, "storage", onePolicy(), failingOp(&invoked))
		if outcome.Attempts != 0 {
			t.Fatalf("call %d: expected short-circuit, got %d attempts", i, outcome.Attempts)
		}
	}
	if invoked != FailureThreshold {
		t.Errorf("expected no invocations past the threshold, got %d", invoked)
	}
}

func TestRegistry_ConcurrentKeys(t *testing.T) {
	r := NewRegistry()

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		key := fmt.Sprintf("service-%d", i%4)
		g.Go(func() error {
			for j := 0; j < 50; j++ {
				outcome := Execute(context.Background(), r, key, onePolicy(), func() (int, error) {
					return j, nil
				})
				if !outcome.Success {
					return fmt.Errorf("key %s: unexpected failure: %w", key, outcome.Err)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 4; i++ {
		key := fmt.Sprintf("service-%d", i)
		if r.State(key) != gobreaker.StateClosed {
			t.Errorf("key %s: expected closed state, got %v", key, r.State(key))
		}
	}
}

func TestRegistry_UnknownKeyAccessors(t *testing.T) {
	r := NewRegistry()

	if r.State("never-used") != gobreaker.StateClosed {
		t.Error("unknown key should report closed")
	}
	if r.Failures("never-used") != 0 {
		t.Error("unknown key should report zero failures")
	}
	if _, ok := r.OpenedAt("never-used"); ok {
		t.Error("unknown key should report no openedAt")
	}
}
