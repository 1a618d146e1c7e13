//go:build !linux

// Package fsref opens path-only references to filesystem objects.
package fsref

import (
	"errors"

	apperrors "github.com/reglet-dev/sst/internal/application/errors"
	"github.com/reglet-dev/sst/internal/application/ports"
)

// Opener is unavailable on non-Linux platforms.
type Opener struct{}

// NewOpener creates an opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Open always fails on non-Linux; O_PATH handles are Linux-only.
func (o *Opener) Open(path string) (ports.Handle, error) {
	return nil, &apperrors.PathError{
		Kind:  apperrors.ErrPathUnreadable,
		Path:  path,
		Cause: errors.New("path handles are not available on this platform"),
	}
}
