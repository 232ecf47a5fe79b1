// Package outcome defines the tagged failure codes surfaced by the lifecycle
// core. Every user-visible failure carries one of these codes so the host can
// match on it with errors.Is and key log entries by code.
package outcome

import (
	"errors"
	"fmt"
)

// Code distinct failure code, stable across releases
type Code string

const (
	CodeCapacityExhausted Code = "CAPACITY_EXHAUSTED"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeDrift             Code = "DRIFT"
	CodeUnknownContent    Code = "UNKNOWN_CONTENT"
	CodeWarmupFailed      Code = "WARMUP_FAILED"
	CodeTimeout           Code = "TIMEOUT"
	CodeDoubleRelease     Code = "DOUBLE_RELEASE"
	CodeCancelled         Code = "CANCELLED"
)

// Sentinel errors, one per code. Wrap with Wrapf to add context; errors.Is
// still matches the sentinel.
var (
	ErrCapacityExhausted = &Error{code: CodeCapacityExhausted, msg: "pool and factory cannot satisfy the composition"}
	ErrInvalidTransition = &Error{code: CodeInvalidTransition, msg: "slot state transition rejected"}
	ErrDrift             = &Error{code: CodeDrift, msg: "ready index integrity drift detected"}
	ErrUnknownContent    = &Error{code: CodeUnknownContent, msg: "no requirement record for content id"}
	ErrWarmupFailed      = &Error{code: CodeWarmupFailed, msg: "slot exhausted its warmup retry budget"}
	ErrTimeout           = &Error{code: CodeTimeout, msg: "reservation deadline passed without fulfillment"}
	ErrDoubleRelease     = &Error{code: CodeDoubleRelease, msg: "slot already released"}
	ErrCancelled         = &Error{code: CodeCancelled, msg: "request cancelled by consumer"}
)

// Error tagged outcome error
type Error struct {
	code Code
	msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

// Code returns the failure code
func (e *Error) Code() Code {
	return e.code
}

// Is matches any outcome error carrying the same code
func (e *Error) Is(target error) bool {
	var oe *Error
	if !errors.As(target, &oe) {
		return false
	}
	return e.code == oe.code
}

// Wrapf wraps a sentinel with request-specific context while keeping the code
// matchable via errors.Is.
func Wrapf(sentinel *Error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{sentinel}, args...)...)
}

// CodeOf extracts the failure code from err, or empty if err is not a tagged
// outcome.
func CodeOf(err error) Code {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.code
	}
	return ""
}
