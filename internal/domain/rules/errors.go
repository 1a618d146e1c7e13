package rules

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRule marks bad rule syntax or arguments.
	ErrMalformedRule = errors.New("malformed rule")

	// ErrMissingTrigger marks a rule whose domain was never enabled.
	ErrMissingTrigger = errors.New("missing sandboxing trigger")

	// ErrNoSandboxing marks an option list that enables no domain at all.
	ErrNoSandboxing = errors.New("no sandboxing options given")
)

// RuleError reports a rejected rule token. Reason is the complete message.
type RuleError struct {
	Err    error // ErrMalformedRule or ErrMissingTrigger
	Token  string
	Reason string
}

func (e *RuleError) Error() string {
	return e.Reason
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

func malformed(token, format string, args ...any) *RuleError {
	return &RuleError{Err: ErrMalformedRule, Token: token, Reason: fmt.Sprintf(format, args...)}
}
