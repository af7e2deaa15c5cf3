// Package config provides configuration loading for the resilience layer:
// typed environment loaders with validate-and-fallback semantics and a YAML
// file schema for resilience tuning.
//
// Loading never fails on a bad value: invalid input falls back to the
// default and produces a warning the caller is expected to log. Operators
// get a running process plus an actionable message instead of a crash loop.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Result carries a loaded configuration value together with any warnings
// generated while loading it.
type Result[T any] struct {
	// Value is the loaded value, or the default if loading fell back.
	Value T

	// Warnings holds one message per fallback applied.
	Warnings []string

	// FallbackApplied is true if the default was used because the
	// environment value was present but invalid.
	FallbackApplied bool
}

// LoadEnvString loads a string from an environment variable, returning the
// default when the variable is unset or empty. No validation is performed.
func LoadEnvString(envKey, defaultValue string) string {
	value := os.Getenv(envKey)
	if value == "" {
		return defaultValue
	}
	return value
}

// LoadEnvInt loads an integer from an environment variable.
// An unset variable yields the default silently; an unparsable or invalid
// value yields the default with a warning.
func LoadEnvInt(envKey string, defaultValue int, validate func(int) error) Result[int] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Result[int]{Value: defaultValue}
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback(envKey, raw, defaultValue, err)
	}
	if validate != nil {
		if err := validate(parsed); err != nil {
			return fallback(envKey, raw, defaultValue, err)
		}
	}
	return Result[int]{Value: parsed}
}

// LoadEnvFloat loads a float64 from an environment variable with the same
// fallback behavior as LoadEnvInt.
func LoadEnvFloat(envKey string, defaultValue float64, validate func(float64) error) Result[float64] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Result[float64]{Value: defaultValue}
	}

	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback(envKey, raw, defaultValue, err)
	}
	if validate != nil {
		if err := validate(parsed); err != nil {
			return fallback(envKey, raw, defaultValue, err)
		}
	}
	return Result[float64]{Value: parsed}
}

// LoadEnvBool loads a boolean from an environment variable. Accepts the
// forms strconv.ParseBool accepts ("1", "t", "true", "0", "false", ...).
func LoadEnvBool(envKey string, defaultValue bool) Result[bool] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Result[bool]{Value: defaultValue}
	}

	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback(envKey, raw, defaultValue, err)
	}
	return Result[bool]{Value: parsed}
}

// LoadEnvDuration loads a time.Duration from an environment variable using
// time.ParseDuration syntax ("100ms", "2s", "1m30s").
func LoadEnvDuration(envKey string, defaultValue time.Duration, validate func(time.Duration) error) Result[time.Duration] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Result[time.Duration]{Value: defaultValue}
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fallback(envKey, raw, defaultValue, err)
	}
	if validate != nil {
		if err := validate(parsed); err != nil {
			return fallback(envKey, raw, defaultValue, err)
		}
	}
	return Result[time.Duration]{Value: parsed}
}

func fallback[T any](envKey, raw string, defaultValue T, err error) Result[T] {
	return Result[T]{
		Value: defaultValue,
		Warnings: []string{
			fmt.Sprintf("%s=%q is invalid (%v); using default %v", envKey, raw, err, defaultValue),
		},
		FallbackApplied: true,
	}
}
