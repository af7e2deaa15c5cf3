package retry

import "talentboard/internal/pkg/config"

// PolicyFromConfig builds a Policy from loaded resilience settings. The
// condition and retry hook are call-site concerns and stay at their
// defaults.
func PolicyFromConfig(s config.RetrySettings) Policy {
	return Policy{
		MaxAttempts: s.MaxAttempts,
		BaseDelay:   s.BaseDelay.Std(),
		MaxDelay:    s.MaxDelay.Std(),
		Multiplier:  s.Multiplier,
		Jitter:      s.Jitter,
	}
}
