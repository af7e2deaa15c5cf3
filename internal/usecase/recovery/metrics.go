package recovery

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for recovery planner monitoring
var (
	// recoveryPlansTotal tracks created plans by failure kind and severity
	recoveryPlansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recovery_plans_created_total",
			Help: "Total number of recovery plans created",
		},
		[]string{"kind", "severity"},
	)

	// recoveryExecutionsTotal tracks plan executions by result
	recoveryExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recovery_executions_total",
			Help: "Total number of recovery plan executions",
		},
		[]string{"result"}, // result: success|failure|aborted
	)

	// errorPatternsTracked tracks the number of distinct error patterns
	errorPatternsTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recovery_error_patterns_tracked",
			Help: "Number of distinct error patterns currently tracked",
		},
	)
)

func recordPlanCreated(kind, severity string) {
	recoveryPlansTotal.WithLabelValues(kind, severity).Inc()
}

func recordExecution(result string) {
	recoveryExecutionsTotal.WithLabelValues(result).Inc()
}

func setPatternsTracked(n int) {
	errorPatternsTracked.Set(float64(n))
}
