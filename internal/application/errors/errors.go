// Package apperrors defines application-level error types.
//
// Every error in this package is terminal: a half-applied sandbox is worse
// than none, so nothing here is retried or recovered locally.
package apperrors

import (
	"errors"
	"fmt"

	"github.com/reglet-dev/sst/internal/domain/abi"
	"github.com/reglet-dev/sst/internal/domain/rules"
)

// Rule and policy errors raised by the domain.
var (
	ErrMalformedRule  = rules.ErrMalformedRule
	ErrMissingTrigger = rules.ErrMissingTrigger
	ErrNoSandboxing   = rules.ErrNoSandboxing
	ErrVersionTooOld  = abi.ErrVersionTooOld
)

// Platform, resolution, construction and enforcement errors.
var (
	ErrPlatformUnsupported = errors.New("landlock not supported")
	ErrPlatformDisabled    = errors.New("landlock disabled")
	ErrPathNotFound        = errors.New("path not found")
	ErrPathUnreadable      = errors.New("path unreadable")
	ErrObjectKindMismatch  = errors.New("object kind mismatch")
	ErrRightsNotHandled    = errors.New("rights not handled by ruleset")
	ErrRuleRejected        = errors.New("rule rejected")
	ErrEnforcementFailed   = errors.New("enforcement failed")
)

// PlatformError indicates the running kernel cannot provide Landlock.
type PlatformError struct {
	Kind  error // ErrPlatformUnsupported or ErrPlatformDisabled
	Hint  string
	Cause error
}

func (e *PlatformError) Error() string {
	msg := e.Kind.Error()
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Hint != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Hint)
	}
	return msg
}

// Unwrap exposes both the taxonomy kind and the platform cause.
func (e *PlatformError) Unwrap() []error {
	return causes(e.Kind, e.Cause)
}

// PathError indicates a filesystem rule could not be bound to its object.
type PathError struct {
	Kind     error // ErrPathNotFound, ErrPathUnreadable or ErrObjectKindMismatch
	Cause    error
	Path     string
	Keyword  string
	Expected string
}

func (e *PathError) Error() string {
	switch {
	case errors.Is(e.Kind, ErrObjectKindMismatch):
		return fmt.Sprintf("%s: '%s' is not a %s", e.Keyword, e.Path, e.Expected)
	case e.Cause != nil:
		return fmt.Sprintf("cannot open '%s' for sandboxing: %v", e.Path, e.Cause)
	default:
		return fmt.Sprintf("cannot open '%s' for sandboxing", e.Path)
	}
}

// Unwrap exposes both the taxonomy kind and the platform cause.
func (e *PathError) Unwrap() []error {
	return causes(e.Kind, e.Cause)
}

// RulesetError indicates a rule could not be added to the ruleset.
type RulesetError struct {
	Kind    error // ErrRightsNotHandled or ErrRuleRejected
	Cause   error
	Subject string
}

func (e *RulesetError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Subject, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Subject)
}

// Unwrap exposes both the taxonomy kind and the platform cause.
func (e *RulesetError) Unwrap() []error {
	return causes(e.Kind, e.Cause)
}

// EnforcementError indicates the ruleset could not be applied. The target
// program must never be started after this error.
type EnforcementError struct {
	Cause error
	Step  string
}

func (e *EnforcementError) Error() string {
	return fmt.Sprintf("failed to apply Landlock ruleset: %s: %v", e.Step, e.Cause)
}

// Unwrap exposes both the taxonomy kind and the platform cause.
func (e *EnforcementError) Unwrap() []error {
	return causes(ErrEnforcementFailed, e.Cause)
}

// ConfigurationError indicates system config or setup issue.
type ConfigurationError struct {
	Cause   error
	Aspect  string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error (%s): %s: %v", e.Aspect, e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Aspect, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(aspect, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Aspect:  aspect,
		Message: message,
		Cause:   cause,
	}
}

func causes(kind, cause error) []error {
	if cause == nil {
		return []error{kind}
	}
	return []error{kind, cause}
}
