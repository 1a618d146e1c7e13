package ports

import (
	"github.com/reglet-dev/sst/internal/domain/abi"
	"github.com/reglet-dev/sst/internal/domain/rights"
	"github.com/reglet-dev/sst/internal/domain/values"
)

// Kernel abstracts the Landlock facility of the running kernel.
//
// Implementations report an absent facility as apperrors.ErrPlatformUnsupported
// and an administratively disabled one as apperrors.ErrPlatformDisabled.
type Kernel interface {
	// ABIVersion queries the supported Landlock ABI version.
	ABIVersion() (abi.Version, error)

	// CreateRuleset creates a ruleset handling the given rights.
	CreateRuleset(fs rights.FS, net rights.Net) (RulesetHandle, error)

	// SetNoNewPrivs sets PR_SET_NO_NEW_PRIVS on every thread of the process.
	SetNoNewPrivs() error

	// Release reports the kernel release string, best effort.
	Release() values.KernelRelease
}

// RulesetHandle is a kernel ruleset under construction.
type RulesetHandle interface {
	// AddPathBeneath grants access beneath the object referenced by h.
	AddPathBeneath(h Handle, access rights.FS) error

	// AddNetPort grants access to a TCP port.
	AddNetPort(port uint16, access rights.Net) error

	// RestrictSelf enforces the ruleset on every thread of the process.
	RestrictSelf(flags abi.RestrictFlags) error

	// Close releases the ruleset descriptor.
	Close() error
}

// FileType is the type of an opened filesystem object.
type FileType int

const (
	FileTypeOther FileType = iota
	FileTypeRegular
	FileTypeDirectory
	FileTypeCharDevice
	FileTypeBlockDevice
)

// String returns a human-readable representation of the file type.
func (t FileType) String() string {
	switch t {
	case FileTypeRegular:
		return "regular file"
	case FileTypeDirectory:
		return "directory"
	case FileTypeCharDevice:
		return "character device"
	case FileTypeBlockDevice:
		return "block device"
	default:
		return "other"
	}
}

// Handle is a path-only reference to an opened filesystem object.
type Handle interface {
	// Fd returns the underlying descriptor.
	Fd() uintptr

	// Type inspects the object through the handle itself, never by path.
	Type() (FileType, error)

	// Close releases the handle. It is safe to call more than once.
	Close() error
}

// PathOpener opens path-only handles.
//
// Implementations report a missing path as apperrors.ErrPathNotFound and
// any other open failure as apperrors.ErrPathUnreadable.
type PathOpener interface {
	Open(path string) (Handle, error)
}

// Launcher replaces the current process image with a target program.
type Launcher interface {
	// Resolve looks a command name up the way execvpe does.
	Resolve(name string) (string, error)

	// Exec replaces the process image. It does not return on success.
	Exec(path string, argv []string, env []string) error
}
