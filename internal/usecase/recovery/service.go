package recovery

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"talentboard/internal/domain/failure"
	"talentboard/internal/observability/logging"
	"talentboard/internal/pkg/config"
)

// Service plans and executes remediation for classified failures.
type Service interface {
	// CreateErrorContext builds the correlation context for a failed
	// operation. secondaryID is optional (e.g. a profile type) and may be
	// empty.
	CreateErrorContext(operation, subjectID, secondaryID string) ErrorContext

	// CreatePlan maps a failure to its remediation plan, parameterized by
	// the context. Every call increments the matching error pattern.
	CreatePlan(err error, ectx ErrorContext) Plan

	// ExecuteRecovery runs the plan's executable actions in order, skipping
	// advisory ones (manual, redirect), and stops at the first success.
	ExecuteRecovery(ctx context.Context, plan Plan, ectx ErrorContext) Result

	// Statistics returns the total error count and the tracked patterns
	// sorted by descending occurrence count.
	Statistics() Statistics

	// ClearPatterns resets the pattern store.
	ClearPatterns()
}

// ErrorContext correlates a failure with the operation that produced it.
// It is a statistics/correlation key only and is never mutated.
type ErrorContext struct {
	ContextID   string
	Operation   string
	SubjectID   string
	SecondaryID string
	CreatedAt   time.Time
}

// Config holds the recovery planner settings.
type Config struct {
	// LoginPath is the redirect target for authentication failures.
	LoginPath string

	// ProfileSetupPath is the redirect target for missing profiles. The
	// context's secondary identifier is appended as the profile type.
	ProfileSetupPath string

	// RetryEstimate is the recovery time reported on retry-bearing plans.
	RetryEstimate time.Duration
}

// DefaultConfig returns the planner settings used in production.
func DefaultConfig() Config {
	return Config{
		LoginPath:        "/auth/login",
		ProfileSetupPath: "/profiles/new",
		RetryEstimate:    30 * time.Second,
	}
}

// ConfigFromSettings builds planner settings from loaded resilience config.
func ConfigFromSettings(s config.RecoverySettings) Config {
	return Config{
		LoginPath:        s.LoginPath,
		ProfileSetupPath: s.ProfileSetupPath,
		RetryEstimate:    s.RetryEstimate.Std(),
	}
}

// service is the concrete implementation of Service. The pattern store is
// owned by the instance, so lifetime and concurrency discipline are visible
// at the call site; there is no process-wide registry.
type service struct {
	cfg   Config
	stats *patternStore
}

// NewService creates a recovery planner with the given configuration.
// Zero-value config fields fall back to DefaultConfig values.
func NewService(cfg Config) Service {
	defaults := DefaultConfig()
	if cfg.LoginPath == "" {
		cfg.LoginPath = defaults.LoginPath
	}
	if cfg.ProfileSetupPath == "" {
		cfg.ProfileSetupPath = defaults.ProfileSetupPath
	}
	if cfg.RetryEstimate <= 0 {
		cfg.RetryEstimate = defaults.RetryEstimate
	}

	return &service{
		cfg:   cfg,
		stats: newPatternStore(),
	}
}

// CreateErrorContext implements Service.CreateErrorContext.
func (s *service) CreateErrorContext(operation, subjectID, secondaryID string) ErrorContext {
	return ErrorContext{
		ContextID:   uuid.New().String(),
		Operation:   operation,
		SubjectID:   subjectID,
		SecondaryID: secondaryID,
		CreatedAt:   time.Now(),
	}
}

// CreatePlan implements Service.CreatePlan.
func (s *service) CreatePlan(err error, ectx ErrorContext) Plan {
	classified := failure.Classify(err)
	if classified == nil {
		// A nil error carries nothing to plan around; report it as
		// unrecoverable without polluting the pattern statistics.
		plan := manualPlan()
		plan.UserMessage = failure.UserMessage(nil)
		return plan
	}

	s.stats.record(classified.Kind, ectx.Operation)
	setPatternsTracked(s.stats.size())

	plan := s.planFor(classified, ectx)
	plan.UserMessage = failure.UserMessage(classified)

	recordPlanCreated(classified.Kind.String(), string(plan.Severity))
	slog.Info("recovery plan created",
		slog.String("context_id", ectx.ContextID),
		slog.String("operation", ectx.Operation),
		slog.String("kind", classified.Kind.String()),
		slog.String("code", classified.Code),
		slog.String("severity", string(plan.Severity)),
		slog.Bool("can_recover", plan.CanRecover))

	return plan
}

// planFor maps a classification to its plan template.
func (s *service) planFor(classified *failure.Classified, ectx ErrorContext) Plan {
	switch classified.Kind {
	case failure.KindAuthenticationFailed:
		return Plan{
			CanRecover: true,
			Actions: []Action{
				{Type: ActionRedirect, RedirectPath: s.cfg.LoginPath},
			},
			Severity: SeverityMedium,
		}

	case failure.KindProfileNotFound:
		return Plan{
			CanRecover: true,
			Actions: []Action{
				{Type: ActionRedirect, RedirectPath: s.profileSetupPath(ectx)},
			},
			Severity: SeverityMedium,
		}

	case failure.KindProfileCreationFailed:
		if !classified.Retryable {
			return manualPlan()
		}
		return Plan{
			CanRecover: true,
			Actions: []Action{
				{Type: ActionRetry},
			},
			Severity:              SeverityHigh,
			EstimatedRecoveryTime: s.cfg.RetryEstimate,
		}

	case failure.KindStorageConnection:
		if !classified.Retryable {
			return manualPlan()
		}
		return Plan{
			CanRecover: true,
			Actions: []Action{
				{Type: ActionRetry},
				{Type: ActionFallback},
			},
			Severity:              SeverityHigh,
			EstimatedRecoveryTime: s.cfg.RetryEstimate,
		}

	default:
		return manualPlan()
	}
}

// manualPlan is the template for failures with no automated remedy.
func manualPlan() Plan {
	return Plan{
		CanRecover: false,
		Actions: []Action{
			{Type: ActionManual},
		},
		Severity: SeverityCritical,
	}
}

// profileSetupPath builds the profile-creation redirect for the context's
// profile type.
func (s *service) profileSetupPath(ectx ErrorContext) string {
	if ectx.SecondaryID == "" {
		return s.cfg.ProfileSetupPath
	}
	return s.cfg.ProfileSetupPath + "?type=" + url.QueryEscape(ectx.SecondaryID)
}

// ExecuteRecovery implements Service.ExecuteRecovery.
func (s *service) ExecuteRecovery(ctx context.Context, plan Plan, ectx ErrorContext) Result {
	logger := logging.FromContext(ctx)
	executed := make([]ActionType, 0, len(plan.Actions))

	for _, action := range plan.Actions {
		if ctx.Err() != nil {
			recordExecution("aborted")
			return Result{ExecutedActions: executed, Err: ErrRecoveryAborted}
		}
		if !action.executable() {
			continue
		}

		err := action.Operation()
		executed = append(executed, action.Type)

		if err == nil {
			recordExecution("success")
			logger.Info("recovery action succeeded",
				slog.String("context_id", ectx.ContextID),
				slog.String("operation", ectx.Operation),
				slog.String("action", string(action.Type)))
			return Result{Success: true, ExecutedActions: executed}
		}

		logger.Warn("recovery action failed",
			slog.String("context_id", ectx.ContextID),
			slog.String("operation", ectx.Operation),
			slog.String("action", string(action.Type)),
			slog.Any("error", err))
	}

	recordExecution("failure")
	if len(executed) == 0 {
		return Result{ExecutedActions: executed, Err: ErrNoExecutableActions}
	}
	return Result{ExecutedActions: executed, Err: ErrAllActionsFailed}
}

// Statistics implements Service.Statistics.
func (s *service) Statistics() Statistics {
	return s.stats.snapshot()
}

// ClearPatterns implements Service.ClearPatterns.
func (s *service) ClearPatterns() {
	s.stats.clear()
	setPatternsTracked(0)
}
