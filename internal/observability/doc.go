// Package observability provides the observability infrastructure for the
// resilience layer: structured logging and Prometheus metrics.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//
// Example usage:
//
//	import (
//	    "talentboard/internal/observability/logging"
//	    "talentboard/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started")
//
//	    metrics.RecordRetryOutcome(true, 2)
//	}
package observability
