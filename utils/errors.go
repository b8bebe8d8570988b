package utils

import "fmt"

// Error taxonomy shared by the core packages. Every failure is surfaced to the
// initiating request with a user-visible message; none is fatal to the process.

// ValidationError reports malformed input (bad phone, non-positive amount or
// points). Surfaced inline, no retry.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// AuthorizationError reports a phone number that is not registered for the
// requested role. The user may retry with a different number or role.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

// InsufficientPointsError reports a redemption attempted below balance.
// Missing carries the exact shortfall; no mutation was performed.
type InsufficientPointsError struct {
	Missing int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points: missing %d", e.Missing)
}

// PermissionDeniedError reports a refused capture device. The scan flow aborts.
type PermissionDeniedError struct {
	Msg string
}

func (e *PermissionDeniedError) Error() string { return e.Msg }
