package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names for resilience tuning. Environment values
// override the config file, which overrides the built-in defaults.
const (
	EnvRetryMaxAttempts = "RESILIENCE_RETRY_MAX_ATTEMPTS"
	EnvRetryBaseDelay   = "RESILIENCE_RETRY_BASE_DELAY"
	EnvRetryMaxDelay    = "RESILIENCE_RETRY_MAX_DELAY"
	EnvRetryMultiplier  = "RESILIENCE_RETRY_MULTIPLIER"
	EnvRetryJitter      = "RESILIENCE_RETRY_JITTER"

	EnvRecoveryLoginPath        = "RESILIENCE_RECOVERY_LOGIN_PATH"
	EnvRecoveryProfileSetupPath = "RESILIENCE_RECOVERY_PROFILE_SETUP_PATH"
	EnvRecoveryRetryEstimate    = "RESILIENCE_RECOVERY_RETRY_ESTIMATE"
)

// RetrySettings tunes the retry executor's default policy.
type RetrySettings struct {
	MaxAttempts int      `yaml:"max_attempts"`
	BaseDelay   Duration `yaml:"base_delay"`
	MaxDelay    Duration `yaml:"max_delay"`
	Multiplier  float64  `yaml:"multiplier"`
	Jitter      bool     `yaml:"jitter"`
}

// RecoverySettings tunes the recovery planner.
type RecoverySettings struct {
	LoginPath        string   `yaml:"login_path"`
	ProfileSetupPath string   `yaml:"profile_setup_path"`
	RetryEstimate    Duration `yaml:"retry_estimate"`
}

// Resilience is the root of the resilience config file.
//
// Example file:
//
//	retry:
//	  max_attempts: 3
//	  base_delay: 1s
//	  max_delay: 30s
//	  multiplier: 2
//	  jitter: true
//	recovery:
//	  login_path: /auth/login
//	  profile_setup_path: /profiles/new
//	  retry_estimate: 30s
type Resilience struct {
	Retry    RetrySettings    `yaml:"retry"`
	Recovery RecoverySettings `yaml:"recovery"`
}

// DefaultResilience returns the built-in resilience settings.
func DefaultResilience() Resilience {
	return Resilience{
		Retry: RetrySettings{
			MaxAttempts: 3,
			BaseDelay:   Duration(1 * time.Second),
			MaxDelay:    Duration(30 * time.Second),
			Multiplier:  2.0,
			Jitter:      true,
		},
		Recovery: RecoverySettings{
			LoginPath:        "/auth/login",
			ProfileSetupPath: "/profiles/new",
			RetryEstimate:    Duration(30 * time.Second),
		},
	}
}

// LoadResilience builds the resilience configuration: defaults, overridden
// by the YAML file at path (skipped when path is empty), overridden by
// environment variables. Invalid file contents fail loading; invalid
// environment values fall back with warnings.
func LoadResilience(path string) (Resilience, []string, error) {
	cfg := DefaultResilience()

	if path != "" {
		raw, err := os.ReadFile(path) // #nosec G304 -- path comes from deployment config
		if err != nil {
			return cfg, nil, fmt.Errorf("read resilience config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, nil, fmt.Errorf("parse resilience config %s: %w", path, err)
		}
		if err := cfg.validate(); err != nil {
			return cfg, nil, fmt.Errorf("invalid resilience config %s: %w", path, err)
		}
	}

	warnings := cfg.applyEnv()
	return cfg, warnings, nil
}

// validate rejects file-provided values the resilience layer cannot run with.
func (c Resilience) validate() error {
	if err := ValidateMinAttempts(c.Retry.MaxAttempts); err != nil {
		return fmt.Errorf("retry.max_attempts: %w", err)
	}
	if err := ValidateNonNegativeDuration(c.Retry.BaseDelay.Std()); err != nil {
		return fmt.Errorf("retry.base_delay: %w", err)
	}
	if err := ValidateNonNegativeDuration(c.Retry.MaxDelay.Std()); err != nil {
		return fmt.Errorf("retry.max_delay: %w", err)
	}
	if err := ValidateMultiplier(c.Retry.Multiplier); err != nil {
		return fmt.Errorf("retry.multiplier: %w", err)
	}
	if err := ValidateRelativePath(c.Recovery.LoginPath); err != nil {
		return fmt.Errorf("recovery.login_path: %w", err)
	}
	if err := ValidateRelativePath(c.Recovery.ProfileSetupPath); err != nil {
		return fmt.Errorf("recovery.profile_setup_path: %w", err)
	}
	if err := ValidatePositiveDuration(c.Recovery.RetryEstimate.Std()); err != nil {
		return fmt.Errorf("recovery.retry_estimate: %w", err)
	}
	return nil
}

// applyEnv overlays environment overrides, collecting fallback warnings.
func (c *Resilience) applyEnv() []string {
	var warnings []string

	attempts := LoadEnvInt(EnvRetryMaxAttempts, c.Retry.MaxAttempts, ValidateMinAttempts)
	c.Retry.MaxAttempts = attempts.Value
	warnings = append(warnings, attempts.Warnings...)

	baseDelay := LoadEnvDuration(EnvRetryBaseDelay, c.Retry.BaseDelay.Std(), ValidateNonNegativeDuration)
	c.Retry.BaseDelay = Duration(baseDelay.Value)
	warnings = append(warnings, baseDelay.Warnings...)

	maxDelay := LoadEnvDuration(EnvRetryMaxDelay, c.Retry.MaxDelay.Std(), ValidateNonNegativeDuration)
	c.Retry.MaxDelay = Duration(maxDelay.Value)
	warnings = append(warnings, maxDelay.Warnings...)

	multiplier := LoadEnvFloat(EnvRetryMultiplier, c.Retry.Multiplier, ValidateMultiplier)
	c.Retry.Multiplier = multiplier.Value
	warnings = append(warnings, multiplier.Warnings...)

	jitter := LoadEnvBool(EnvRetryJitter, c.Retry.Jitter)
	c.Retry.Jitter = jitter.Value
	warnings = append(warnings, jitter.Warnings...)

	c.Recovery.LoginPath = LoadEnvString(EnvRecoveryLoginPath, c.Recovery.LoginPath)
	c.Recovery.ProfileSetupPath = LoadEnvString(EnvRecoveryProfileSetupPath, c.Recovery.ProfileSetupPath)

	estimate := LoadEnvDuration(EnvRecoveryRetryEstimate, c.Recovery.RetryEstimate.Std(), ValidatePositiveDuration)
	c.Recovery.RetryEstimate = Duration(estimate.Value)
	warnings = append(warnings, estimate.Warnings...)

	return warnings
}
