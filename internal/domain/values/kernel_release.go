package values

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

var releasePrefix = regexp.MustCompile(`^\d+(\.\d+){0,2}`)

// KernelRelease is a Linux kernel release string ("6.8.0-45-generic")
// together with its numeric version.
type KernelRelease struct {
	raw     string
	version *semver.Version
}

// ParseKernelRelease parses the leading major[.minor[.patch]] of a kernel
// release. Distribution suffixes are kept in String but ignored for
// comparisons.
func ParseKernelRelease(raw string) (KernelRelease, error) {
	prefix := releasePrefix.FindString(raw)
	if prefix == "" {
		return KernelRelease{}, fmt.Errorf("invalid kernel release %q", raw)
	}
	v, err := semver.NewVersion(prefix)
	if err != nil {
		return KernelRelease{}, fmt.Errorf("invalid kernel release %q: %w", raw, err)
	}
	return KernelRelease{raw: raw, version: v}, nil
}

// String returns the release as reported by the kernel.
func (k KernelRelease) String() string {
	if k.raw == "" {
		return "unknown"
	}
	return k.raw
}

// IsZero returns true if this is the zero value
func (k KernelRelease) IsZero() bool {
	return k.version == nil
}

// Major returns the major kernel version, or 0 for the zero value.
func (k KernelRelease) Major() uint64 {
	if k.version == nil {
		return 0
	}
	return k.version.Major()
}

// Minor returns the minor kernel version, or 0 for the zero value.
func (k KernelRelease) Minor() uint64 {
	if k.version == nil {
		return 0
	}
	return k.version.Minor()
}

// Satisfies reports whether the release matches a semver constraint such
// as ">= 6.7".
func (k KernelRelease) Satisfies(constraint string) (bool, error) {
	if k.version == nil {
		return false, nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid kernel constraint %q: %w", constraint, err)
	}
	return c.Check(k.version), nil
}
