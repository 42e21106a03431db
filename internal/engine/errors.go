package engine

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. Every typed engine error unwraps to exactly one of them.
var (
	ErrForbidden         = errors.New("access denied")
	ErrIllegalTransition = errors.New("illegal state transition")
	ErrValidation        = errors.New("validation failed")
	ErrConfiguration     = errors.New("invalid policy configuration")
)

// ForbiddenError reports that the actor's role lacks the capability.
// It carries no information about which role would have been allowed.
type ForbiddenError struct {
	Resource ResourceType
	Target   Target
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s on %s", e.Target, e.Resource)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// NotOwnerError is a self-scope violation by a patient actor.
// Callers treat it like ForbiddenError, so it unwraps to ErrForbidden too.
type NotOwnerError struct {
	Resource ResourceType
}

func (e *NotOwnerError) Error() string {
	return fmt.Sprintf("forbidden: actor does not own this %s", e.Resource)
}

func (e *NotOwnerError) Unwrap() error {
	return ErrForbidden
}

// IllegalTransitionError is returned when a state machine refuses a move
type IllegalTransitionError struct {
	From string
	To   string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition from %s to %s", e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// ValidationError names the field whose structural invariant was violated
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ConfigurationError means the capability table itself is broken.
// It is raised while building a Registry and should abort startup.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "policy configuration: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

func configErrorf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
