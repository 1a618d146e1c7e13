//go:build linux

package landlock

import (
	"errors"

	ll "github.com/landlock-lsm/go-landlock/landlock/syscall"
	"golang.org/x/sys/unix"

	apperrors "github.com/reglet-dev/sst/internal/application/errors"
	"github.com/reglet-dev/sst/internal/application/ports"
	"github.com/reglet-dev/sst/internal/domain/abi"
	"github.com/reglet-dev/sst/internal/domain/rights"
	"github.com/reglet-dev/sst/internal/domain/values"
)

// Kernel talks to the Landlock system calls of the running kernel.
type Kernel struct{}

// NewKernel creates a Landlock kernel adapter.
func NewKernel() *Kernel {
	return &Kernel{}
}

// ABIVersion queries the Landlock ABI version. This does NOT modify the
// process state.
func (k *Kernel) ABIVersion() (abi.Version, error) {
	v, err := ll.LandlockGetABIVersion()
	if err != nil {
		return 0, platformError(err)
	}
	return abi.Version(v), nil
}

func platformError(err error) error {
	switch {
	case errors.Is(err, unix.ENOSYS):
		return &apperrors.PlatformError{
			Kind:  apperrors.ErrPlatformUnsupported,
			Cause: err,
			Hint:  "Landlock is not supported by the kernel; Linux 6.7 or later is required",
		}
	case errors.Is(err, unix.EOPNOTSUPP):
		return &apperrors.PlatformError{
			Kind:  apperrors.ErrPlatformDisabled,
			Cause: err,
			Hint:  "Landlock is disabled in the kernel; add landlock to the lsm= boot parameter",
		}
	default:
		return &apperrors.PlatformError{
			Kind:  apperrors.ErrPlatformUnsupported,
			Cause: err,
			Hint:  "landlock_create_ruleset failed",
		}
	}
}

// CreateRuleset creates a ruleset handling fs and net.
func (k *Kernel) CreateRuleset(fs rights.FS, net rights.Net) (ports.RulesetHandle, error) {
	attr := ll.RulesetAttr{
		HandledAccessFS:  uint64(fs),
		HandledAccessNet: uint64(net),
	}
	fd, err := ll.LandlockCreateRuleset(&attr, 0)
	if err != nil {
		return nil, err
	}
	return &Ruleset{fd: fd}, nil
}

// SetNoNewPrivs sets PR_SET_NO_NEW_PRIVS on all threads. Landlock refuses
// to restrict an unprivileged process without it.
func (k *Kernel) SetNoNewPrivs() error {
	return ll.AllThreadsPrctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0)
}

// Release returns the running kernel's release, or the zero value if it
// cannot be determined.
func (k *Kernel) Release() values.KernelRelease {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return values.KernelRelease{}
	}
	release, err := values.ParseKernelRelease(unix.ByteSliceToString(uts.Release[:]))
	if err != nil {
		return values.KernelRelease{}
	}
	return release
}

// Ruleset is an open Landlock ruleset descriptor.
type Ruleset struct {
	fd int
}

// AddPathBeneath grants access beneath the object referenced by h.
func (r *Ruleset) AddPathBeneath(h ports.Handle, access rights.FS) error {
	attr := ll.PathBeneathAttr{
		AllowedAccess: uint64(access),
		ParentFd:      int(h.Fd()),
	}
	return ll.LandlockAddPathBeneathRule(r.fd, &attr, 0)
}

// AddNetPort grants access to a TCP port.
func (r *Ruleset) AddNetPort(port uint16, access rights.Net) error {
	attr := ll.NetPortAttr{
		AllowedAccess: uint64(access),
		Port:          uint64(port),
	}
	return ll.LandlockAddNetPortRule(r.fd, &attr, 0)
}

// RestrictSelf enforces the ruleset on every thread of the process.
func (r *Ruleset) RestrictSelf(flags abi.RestrictFlags) error {
	return ll.AllThreadsLandlockRestrictSelf(r.fd, int(flags))
}

// Close releases the ruleset descriptor.
func (r *Ruleset) Close() error {
	if r.fd < 0 {
		return nil
	}
	err := unix.Close(r.fd)
	r.fd = -1
	return err
}
