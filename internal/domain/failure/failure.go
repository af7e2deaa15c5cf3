// Package failure defines the closed set of classified failure kinds used by
// the resilience layer. Every error entering the layer is classified into
// exactly one kind carrying a retryability flag, a stable code, a
// user-facing message, and an HTTP-style status code.
package failure

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind identifies a classified failure category.
type Kind int

const (
	// KindUnclassified is the catch-all for errors that carry no explicit
	// classification and match no known message pattern.
	KindUnclassified Kind = iota

	// KindAuthenticationFailed indicates that credential verification or
	// session validation failed.
	KindAuthenticationFailed

	// KindProfileNotFound indicates that a requested profile does not exist.
	KindProfileNotFound

	// KindProfileCreationFailed indicates that persisting a new profile failed.
	KindProfileCreationFailed

	// KindStorageConnection indicates that the persistence layer could not
	// be reached.
	KindStorageConnection
)

// String returns the stable name of the kind for logging and metrics labels.
func (k Kind) String() string {
	switch k {
	case KindAuthenticationFailed:
		return "authentication_failed"
	case KindProfileNotFound:
		return "profile_not_found"
	case KindProfileCreationFailed:
		return "profile_creation_failed"
	case KindStorageConnection:
		return "storage_connection"
	default:
		return "unclassified"
	}
}

// Stable error codes, one per kind. Codes appear in structured logs and
// API error payloads; they are never shown directly to end users.
const (
	CodeAuthenticationFailed  = "AUTH_FAILED"
	CodeProfileNotFound       = "PROFILE_NOT_FOUND"
	CodeProfileCreationFailed = "PROFILE_CREATE_FAILED"
	CodeStorageConnection     = "STORAGE_UNAVAILABLE"
	CodeUnclassified          = "UNCLASSIFIED"
)

// Classified is an error that has been classified against the taxonomy.
// Instances are immutable once constructed; build them through the
// constructors or Classify, never by mutating fields after the fact.
type Classified struct {
	Kind       Kind
	Code       string
	Message    string
	Retryable  bool
	StatusCode int
	Cause      error
	OccurredAt time.Time
}

// Error implements the error interface. The cause is included for
// diagnostics; user-facing surfaces must use UserMessage instead.
func (e *Classified) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the originating cause, enabling errors.Is/As against the
// underlying error.
func (e *Classified) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a Classified of the same kind and code.
// Two classified failures compare equal on kind+code so recurring errors
// can be grouped for pattern tracking.
func (e *Classified) Is(target error) bool {
	t, ok := target.(*Classified)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// NewAuthenticationFailed classifies a credential or session failure.
// Authentication failures are never retryable; the remedy is re-login.
func NewAuthenticationFailed(cause error) *Classified {
	return &Classified{
		Kind:       KindAuthenticationFailed,
		Code:       CodeAuthenticationFailed,
		Message:    "authentication failed",
		Retryable:  false,
		StatusCode: 401,
		Cause:      cause,
		OccurredAt: time.Now(),
	}
}

// NewProfileNotFound classifies a missing-profile failure.
func NewProfileNotFound(cause error) *Classified {
	return &Classified{
		Kind:       KindProfileNotFound,
		Code:       CodeProfileNotFound,
		Message:    "profile not found",
		Retryable:  false,
		StatusCode: 404,
		Cause:      cause,
		OccurredAt: time.Now(),
	}
}

// NewProfileCreationFailed classifies a failed profile write. Creation
// failures are retryable: the write may succeed on a subsequent attempt.
func NewProfileCreationFailed(cause error) *Classified {
	return &Classified{
		Kind:       KindProfileCreationFailed,
		Code:       CodeProfileCreationFailed,
		Message:    "profile creation failed",
		Retryable:  true,
		StatusCode: 500,
		Cause:      cause,
		OccurredAt: time.Now(),
	}
}

// NewStorageConnection classifies a persistence-layer connectivity failure.
func NewStorageConnection(cause error) *Classified {
	return &Classified{
		Kind:       KindStorageConnection,
		Code:       CodeStorageConnection,
		Message:    "storage connection error",
		Retryable:  true,
		StatusCode: 503,
		Cause:      cause,
		OccurredAt: time.Now(),
	}
}

func newUnclassified(retryable bool, cause error) *Classified {
	return &Classified{
		Kind:       KindUnclassified,
		Code:       CodeUnclassified,
		Message:    "unclassified error",
		Retryable:  retryable,
		StatusCode: 500,
		Cause:      cause,
		OccurredAt: time.Now(),
	}
}

// retryablePatterns are matched case-insensitively against the message of
// errors that carry no explicit classification. A match marks the error as
// a transient, retryable failure.
var retryablePatterns = []string{
	"timeout",
	"connection",
	"network",
	"unavailable",
}

// Classify resolves an error to its classification.
//
// Precedence:
//  1. An error that already is (or wraps) a *Classified is used as-is.
//  2. Otherwise the error message is matched against a fixed set of
//     case-insensitive transient patterns; a match yields a retryable
//     Unclassified, anything else a non-retryable Unclassified.
//
// Classify is a pure function of its input and returns nil for a nil error.
func Classify(err error) *Classified {
	if err == nil {
		return nil
	}

	var classified *Classified
	if errors.As(err, &classified) {
		return classified
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range retryablePatterns {
		if strings.Contains(msg, pattern) {
			return newUnclassified(true, err)
		}
	}
	return newUnclassified(false, err)
}

// IsRetryable reports whether the classification of err allows a retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return Classify(err).Retryable
}

// userMessages holds the stable, non-technical message shown to end users
// for each kind. Raw error internals are never echoed here.
var userMessages = map[Kind]string{
	KindAuthenticationFailed:  "Your session has expired. Please sign in again.",
	KindProfileNotFound:       "We couldn't find your profile. You may need to set one up first.",
	KindProfileCreationFailed: "We couldn't save your profile right now. Please try again in a moment.",
	KindStorageConnection:     "We're having trouble reaching our servers. Please try again shortly.",
	KindUnclassified:          "Something went wrong. Please try again, and contact support if the problem persists.",
}

// UserMessage returns the user-facing message for the classification of err.
// The result is keyed by kind only and is safe to render directly.
func UserMessage(err error) string {
	c := Classify(err)
	if c == nil {
		return userMessages[KindUnclassified]
	}
	return userMessages[c.Kind]
}
