package recovery

import "time"

// ActionType identifies the remediation an action proposes.
type ActionType string

const (
	// ActionRetry re-invokes the original operation.
	ActionRetry ActionType = "retry"

	// ActionRedirect sends the user to a recovery path (login, setup).
	// Redirects are advisory: the UI acts on them, not ExecuteRecovery.
	ActionRedirect ActionType = "redirect"

	// ActionFallback invokes an alternate, degraded operation.
	ActionFallback ActionType = "fallback"

	// ActionManual signals that no automated recovery is possible and an
	// operator has to step in. It carries no executable payload.
	ActionManual ActionType = "manual"
)

// Severity ranks how serious a failure is for user-visible reporting.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Action is a single remediation step inside a plan.
//
// Only the field matching Type is meaningful: RedirectPath for redirect
// actions, Operation for retry and fallback actions. The planner cannot know
// the caller's original operation, so retry/fallback actions are created
// unbound; the caller assigns Operation before ExecuteRecovery (and may swap
// it at any point before execution). Unbound actions are skipped at
// execution time.
type Action struct {
	Type         ActionType
	RedirectPath string
	Operation    func() error
}

// executable reports whether ExecuteRecovery can run this action.
func (a Action) executable() bool {
	switch a.Type {
	case ActionRetry, ActionFallback:
		return a.Operation != nil
	default:
		return false
	}
}

// Plan describes how to remediate a classified failure. Plans are built
// fresh per call and never persisted; their shape is deterministic given the
// same failure kind and context fields.
type Plan struct {
	CanRecover bool

	// Actions is ordered by preference and always holds at least one entry;
	// an unrecoverable failure still carries a manual action.
	Actions []Action

	Severity Severity

	// UserMessage is the taxonomy's friendly message for the failure kind.
	// Never empty, never echoes raw error internals.
	UserMessage string

	// EstimatedRecoveryTime is how long a retry-bearing plan is expected to
	// take; zero means no meaningful estimate.
	EstimatedRecoveryTime time.Duration
}

// Result reports what ExecuteRecovery did.
type Result struct {
	Success bool

	// ExecutedActions lists the action types that actually ran, in order.
	ExecutedActions []ActionType

	// Err explains a failed execution; nil on success.
	Err error
}
