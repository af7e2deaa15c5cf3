// Package circuitbreaker provides a per-key circuit breaker registry gating
// retry executions. It uses the github.com/sony/gobreaker library to prevent
// repeated retryable failures from turning into retry storms against a
// dependency that is already down.
package circuitbreaker

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"talentboard/internal/observability/logging"
	"talentboard/internal/observability/metrics"
	"talentboard/internal/resilience/retry"
)

const (
	// FailureThreshold is the number of consecutive exhausted calls on a key
	// before its breaker trips open.
	FailureThreshold = 5

	// holdOpen keeps a tripped breaker open until an explicit Reset. The
	// maximum representable duration (about 292 years) outlives any process,
	// so no automatic half-open probe ever fires: operators clear breakers
	// once the dependency has recovered.
	holdOpen = time.Duration(math.MaxInt64)
)

// Registry owns the keyed circuit breaker state. Construct one per process
// slice that needs fencing and pass it explicitly; there is no package-level
// singleton. Breakers are created lazily on first use of a key, and each key
// is guarded independently so unrelated keys never serialize on each other.
type Registry struct {
	mu       sync.RWMutex
	breakers map[string]*keyedBreaker
}

// keyedBreaker pairs a gobreaker instance with the time it opened.
type keyedBreaker struct {
	cb *gobreaker.CircuitBreaker

	mu       sync.Mutex
	openedAt time.Time
}

// NewRegistry creates an empty circuit breaker registry.
func NewRegistry() *Registry {
	return &Registry{breakers: make(map[string]*keyedBreaker)}
}

// breaker returns the breaker for key, creating it on first use.
func (r *Registry) breaker(key string) *keyedBreaker {
	r.mu.RLock()
	kb, ok := r.breakers[key]
	r.mu.RUnlock()
	if ok {
		return kb
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if kb, ok := r.breakers[key]; ok {
		return kb
	}

	kb = &keyedBreaker{}
	kb.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        key,
		MaxRequests: 1,
		Timeout:     holdOpen,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))

			open := to == gobreaker.StateOpen
			if open {
				kb.mu.Lock()
				kb.openedAt = time.Now()
				kb.mu.Unlock()
				metrics.RecordCircuitBreakerTrip(name)
			}
			metrics.SetCircuitBreakerOpen(name, open)
		},
	})
	r.breakers[key] = kb
	return kb
}

// Execute runs op under retry.Do through the breaker registered for key.
//
// While the breaker is closed, the call passes through to the retry executor
// and an exhausted execution counts as one failure against the key; a
// successful execution resets the key's failure streak. Once the streak
// reaches FailureThreshold the breaker opens and every subsequent call
// short-circuits with a zero-attempt outcome whose error reports that the
// circuit breaker is open; the operation is never invoked. An open breaker
// stays open until Registry.Reset.
func Execute[T any](ctx context.Context, r *Registry, key string, p retry.Policy, op retry.Operation[T]) retry.Outcome[T] {
	kb := r.breaker(key)

	var outcome retry.Outcome[T]
	_, err := kb.cb.Execute(func() (interface{}, error) {
		outcome = retry.Do(ctx, p, op)
		return nil, outcome.Err
	})

	if err != nil && outcome.Attempts == 0 {
		// The breaker rejected the call without running the operation.
		metrics.RecordCircuitBreakerShortCircuit(key)
		logging.FromContext(ctx).Warn("call short-circuited by open circuit breaker",
			slog.String("circuit", key))
		return retry.Outcome[T]{
			Err:      fmt.Errorf("circuit %q: %w", key, err),
			Attempts: 0,
		}
	}

	return outcome
}

// State returns the breaker state for key. A key that has never been used
// reports closed.
func (r *Registry) State(key string) gobreaker.State {
	r.mu.RLock()
	kb, ok := r.breakers[key]
	r.mu.RUnlock()
	if !ok {
		return gobreaker.StateClosed
	}
	return kb.cb.State()
}

// Failures returns the current consecutive failure streak for key.
func (r *Registry) Failures(key string) uint32 {
	r.mu.RLock()
	kb, ok := r.breakers[key]
	r.mu.RUnlock()
	if !ok {
		return 0
	}
	return kb.cb.Counts().ConsecutiveFailures
}

// OpenedAt returns when the breaker for key last opened. The second return
// value is false if the key is unknown or its breaker is not open.
func (r *Registry) OpenedAt(key string) (time.Time, bool) {
	r.mu.RLock()
	kb, ok := r.breakers[key]
	r.mu.RUnlock()
	if !ok || kb.cb.State() != gobreaker.StateOpen {
		return time.Time{}, false
	}
	kb.mu.Lock()
	defer kb.mu.Unlock()
	return kb.openedAt, true
}

// Reset wipes all keyed breaker state. Previously open keys behave as brand
// new closed breakers on their next call. This is the only path back from
// the open state.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.breakers {
		metrics.SetCircuitBreakerOpen(key, false)
	}
	r.breakers = make(map[string]*keyedBreaker)
	slog.Info("circuit breaker registry reset")
}
