// Package recovery provides the error recovery planner use case. It turns
// classified failures plus an operation context into a structured plan of
// remediation actions, executes the executable parts of a plan, and tracks
// recurring-error statistics for observability.
package recovery

import "errors"

// Sentinel errors for recovery use case operations.
var (
	// ErrNoExecutableActions indicates that ExecuteRecovery was given a plan
	// whose actions are all advisory (manual, redirect) or unbound, so there
	// was nothing to run.
	ErrNoExecutableActions = errors.New("recovery plan has no executable actions")

	// ErrAllActionsFailed indicates that every executable action in the plan
	// ran and failed.
	ErrAllActionsFailed = errors.New("all executable recovery actions failed")

	// ErrRecoveryAborted indicates that recovery execution stopped because
	// the caller's context was canceled between actions.
	ErrRecoveryAborted = errors.New("recovery execution aborted")
)
