//go:build linux

// Package fsref opens path-only references to filesystem objects.
//
// A reference grants the opener no read or write access, and its object
// type is always inspected through the descriptor. The object a rule is
// checked against is therefore the object the rule is bound to, even if
// the path is swapped in between.
package fsref

import (
	"errors"

	"golang.org/x/sys/unix"

	apperrors "github.com/reglet-dev/sst/internal/application/errors"
	"github.com/reglet-dev/sst/internal/application/ports"
)

// Opener opens O_PATH handles.
type Opener struct{}

// NewOpener creates an opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Open opens path with O_PATH|O_CLOEXEC.
func (o *Opener) Open(path string) (ports.Handle, error) {
	var fd int
	var err error
	for {
		fd, err = unix.Open(path, unix.O_PATH|unix.O_CLOEXEC, 0)
		if !errors.Is(err, unix.EINTR) {
			break
		}
	}
	if err != nil {
		kind := apperrors.ErrPathUnreadable
		if errors.Is(err, unix.ENOENT) || errors.Is(err, unix.ENOTDIR) {
			kind = apperrors.ErrPathNotFound
		}
		return nil, &apperrors.PathError{Kind: kind, Path: path, Cause: err}
	}
	return &Handle{fd: fd, path: path}, nil
}

// Handle is an open O_PATH descriptor.
type Handle struct {
	fd   int
	path string
}

// Fd returns the underlying descriptor.
func (h *Handle) Fd() uintptr {
	return uintptr(h.fd)
}

// Type inspects the opened object with fstat.
func (h *Handle) Type() (ports.FileType, error) {
	var st unix.Stat_t
	if err := unix.Fstat(h.fd, &st); err != nil {
		return ports.FileTypeOther, err
	}
	switch st.Mode & unix.S_IFMT {
	case unix.S_IFREG:
		return ports.FileTypeRegular, nil
	case unix.S_IFDIR:
		return ports.FileTypeDirectory, nil
	case unix.S_IFCHR:
		return ports.FileTypeCharDevice, nil
	case unix.S_IFBLK:
		return ports.FileTypeBlockDevice, nil
	default:
		return ports.FileTypeOther, nil
	}
}

// Close releases the descriptor. It is safe to call more than once.
func (h *Handle) Close() error {
	if h.fd < 0 {
		return nil
	}
	err := unix.Close(h.fd)
	h.fd = -1
	return err
}
