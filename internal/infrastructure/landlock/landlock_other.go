//go:build !linux

package landlock

import (
	"errors"

	apperrors "github.com/reglet-dev/sst/internal/application/errors"
	"github.com/reglet-dev/sst/internal/application/ports"
	"github.com/reglet-dev/sst/internal/domain/abi"
	"github.com/reglet-dev/sst/internal/domain/rights"
	"github.com/reglet-dev/sst/internal/domain/values"
)

var errNotLinux = errors.New("landlock: not available on this platform")

// Kernel reports Landlock as unsupported on non-Linux platforms.
type Kernel struct{}

// NewKernel creates a Landlock kernel adapter.
func NewKernel() *Kernel {
	return &Kernel{}
}

// ABIVersion always fails on non-Linux.
func (k *Kernel) ABIVersion() (abi.Version, error) {
	return 0, &apperrors.PlatformError{Kind: apperrors.ErrPlatformUnsupported, Cause: errNotLinux}
}

// CreateRuleset always fails on non-Linux.
func (k *Kernel) CreateRuleset(rights.FS, rights.Net) (ports.RulesetHandle, error) {
	return nil, errNotLinux
}

// SetNoNewPrivs always fails on non-Linux.
func (k *Kernel) SetNoNewPrivs() error {
	return errNotLinux
}

// Release returns the zero value on non-Linux.
func (k *Kernel) Release() values.KernelRelease {
	return values.KernelRelease{}
}
