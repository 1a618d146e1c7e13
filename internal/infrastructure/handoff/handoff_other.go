//go:build !unix

// Package handoff replaces the sandboxing process with its target program.
package handoff

import "errors"

var errUnsupported = errors.New("execvpe failed: process replacement is not available on this platform")

// Launcher is unavailable on this platform.
type Launcher struct{}

// NewLauncher creates a launcher.
func NewLauncher() *Launcher {
	return &Launcher{}
}

// Resolve always fails on this platform.
func (l *Launcher) Resolve(string) (string, error) {
	return "", errUnsupported
}

// Exec always fails on this platform.
func (l *Launcher) Exec(string, []string, []string) error {
	return errUnsupported
}
