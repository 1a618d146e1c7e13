//go:build unix

// Package handoff replaces the sandboxing process with its target program.
package handoff

import (
	"fmt"
	"os/exec"

	"golang.org/x/sys/unix"
)

// Launcher execs target programs in place of the current process.
type Launcher struct{}

// NewLauncher creates a launcher.
func NewLauncher() *Launcher {
	return &Launcher{}
}

// Resolve searches PATH for name unless it contains a slash.
func (l *Launcher) Resolve(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("execvpe failed: %w", err)
	}
	return path, nil
}

// Exec replaces the process image with path. It only returns on failure.
func (l *Launcher) Exec(path string, argv []string, env []string) error {
	if err := unix.Exec(path, argv, env); err != nil {
		return fmt.Errorf("execvpe failed: %w", err)
	}
	return nil
}
