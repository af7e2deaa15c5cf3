package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidateMinAttempts validates a retry attempt count. At least one attempt
// is required: the first invocation counts against the budget.
func ValidateMinAttempts(n int) error {
	if n < 1 {
		return fmt.Errorf("attempts must be at least 1, got %d", n)
	}
	return nil
}

// ValidatePositiveDuration validates that a duration is positive (greater than zero).
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	return nil
}

// ValidateNonNegativeDuration validates that a duration is non-negative (>= 0).
// Useful for optional delays where zero is acceptable but negative values are not.
func ValidateNonNegativeDuration(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("duration must be non-negative, got %v", d)
	}
	return nil
}

// ValidateMultiplier validates a backoff multiplier. Values below 1 would
// shrink the delay on every retry.
func ValidateMultiplier(m float64) error {
	if m < 1 {
		return fmt.Errorf("multiplier must be at least 1, got %v", m)
	}
	return nil
}

// ValidateRelativePath validates a redirect path used in recovery plans.
// Paths must be application-relative so plans can never redirect off-site.
func ValidateRelativePath(p string) error {
	if p == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if !strings.HasPrefix(p, "/") {
		return fmt.Errorf("path must start with '/', got %q", p)
	}
	if strings.HasPrefix(p, "//") {
		return fmt.Errorf("path must not be protocol-relative, got %q", p)
	}
	return nil
}
