// Package metrics provides centralized Prometheus metrics for the resilience layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Retry metrics track retry executor behavior
var (
	// RetryOutcomesTotal counts completed retry executions by result
	RetryOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resilience_retry_outcomes_total",
			Help: "Total number of completed retry executions",
		},
		[]string{"result"}, // result: success|failure
	)

	// RetryAttemptsPerExecution measures how many attempts an execution used
	RetryAttemptsPerExecution = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resilience_retry_attempts_per_execution",
			Help:    "Number of attempts used by a retry execution",
			Buckets: []float64{1, 2, 3, 4, 5, 7, 10},
		},
	)
)

// Circuit breaker metrics track per-key breaker state
var (
	// CircuitBreakerOpen reports whether a keyed breaker is currently open (1) or closed (0)
	CircuitBreakerOpen = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "resilience_circuit_breaker_open",
			Help: "Whether the circuit breaker for a key is open (1) or closed (0)",
		},
		[]string{"key"},
	)

	// CircuitBreakerTripsTotal counts breaker trip events per key
	CircuitBreakerTripsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resilience_circuit_breaker_trips_total",
			Help: "Total number of circuit breaker trip events",
		},
		[]string{"key"},
	)

	// CircuitBreakerShortCircuitsTotal counts calls rejected without invoking the operation
	CircuitBreakerShortCircuitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resilience_circuit_breaker_short_circuits_total",
			Help: "Total number of calls short-circuited by an open breaker",
		},
		[]string{"key"},
	)
)

// Fallback metrics track fallback chain behavior
var (
	// FallbackRunsTotal counts fallback chain runs by result
	FallbackRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resilience_fallback_runs_total",
			Help: "Total number of fallback chain runs",
		},
		[]string{"result"}, // result: success|failure
	)
)

// RecordRetryOutcome records a completed retry execution.
func RecordRetryOutcome(success bool, attempts int) {
	result := "success"
	if !success {
		result = "failure"
	}
	RetryOutcomesTotal.WithLabelValues(result).Inc()
	RetryAttemptsPerExecution.Observe(float64(attempts))
}

// SetCircuitBreakerOpen updates the open/closed gauge for a keyed breaker.
func SetCircuitBreakerOpen(key string, open bool) {
	value := 0.0
	if open {
		value = 1.0
	}
	CircuitBreakerOpen.WithLabelValues(key).Set(value)
}

// RecordCircuitBreakerTrip records a breaker transitioning to the open state.
func RecordCircuitBreakerTrip(key string) {
	CircuitBreakerTripsTotal.WithLabelValues(key).Inc()
}

// RecordCircuitBreakerShortCircuit records a call rejected by an open breaker.
func RecordCircuitBreakerShortCircuit(key string) {
	CircuitBreakerShortCircuitsTotal.WithLabelValues(key).Inc()
}

// RecordFallbackRun records a completed fallback chain run.
func RecordFallbackRun(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	FallbackRunsTotal.WithLabelValues(result).Inc()
}
