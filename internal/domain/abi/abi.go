// Package abi describes what each Landlock ABI version can enforce.
//
// The kernel reports a single integer version. Every right and restrict
// flag was introduced at some version; the table below records when, so
// that negotiating an older version is a matter of removing everything
// introduced after it.
package abi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reglet-dev/sst/internal/domain/rights"
)

// Version is a Landlock ABI version as reported by the kernel.
type Version int

const (
	// Minimum is the oldest version supported: the first with TCP rules.
	Minimum Version = 4
	// Newest is the newest version whose additions are known to this build.
	Newest Version = 7
)

func (v Version) String() string {
	return fmt.Sprintf("v%d", int(v))
}

// RestrictFlags are flags passed when sealing a ruleset.
type RestrictFlags uint32

const (
	// RestrictLogSameExecOff silences denial logs for the sealing program itself.
	RestrictLogSameExecOff RestrictFlags = 1 << 0
	// RestrictLogNewExecOn logs denials of programs executed after sealing.
	RestrictLogNewExecOn RestrictFlags = 1 << 1
	// RestrictLogSubdomainsOff silences denial logs for nested domains.
	RestrictLogSubdomainsOff RestrictFlags = 1 << 2
)

// Names returns the names of the flags in f, lowest bit first.
func (f RestrictFlags) Names() []string {
	names := []string{}
	if f&RestrictLogSameExecOff != 0 {
		names = append(names, "log_same_exec_off")
	}
	if f&RestrictLogNewExecOn != 0 {
		names = append(names, "log_new_exec_on")
	}
	if f&RestrictLogSubdomainsOff != 0 {
		names = append(names, "log_subdomains_off")
	}
	return names
}

// String returns a "|"-separated list of flag names, or "none".
func (f RestrictFlags) String() string {
	if f == 0 {
		return "none"
	}
	return strings.Join(f.Names(), "|")
}

// Delta lists what a version added on top of its predecessor.
type Delta struct {
	Version Version
	FS      rights.FS
	Net     rights.Net
	Flags   RestrictFlags
}

// Deltas is ordered by version. Adding support for a new kernel release is
// a matter of appending a row and bumping Newest.
var Deltas = []Delta{
	{Version: 1, FS: rights.FSExecute | rights.FSWriteFile | rights.FSReadFile | rights.FSReadDir |
		rights.FSRemoveDir | rights.FSRemoveFile | rights.FSMakeChar | rights.FSMakeDir |
		rights.FSMakeReg | rights.FSMakeSock | rights.FSMakeFifo | rights.FSMakeBlock | rights.FSMakeSym},
	{Version: 2, FS: rights.FSRefer},
	{Version: 3, FS: rights.FSTruncate},
	{Version: 4, Net: rights.NetBindTCP | rights.NetConnectTCP},
	{Version: 5, FS: rights.FSIoctlDev},
	{Version: 6},
	{Version: 7, Flags: RestrictLogSameExecOff | RestrictLogNewExecOn | RestrictLogSubdomainsOff},
}

// ErrVersionTooOld marks a kernel whose ABI is below Minimum.
var ErrVersionTooOld = errors.New("landlock ABI version too old")

// VersionError reports an ABI below Minimum.
type VersionError struct {
	Version Version
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("Landlock ABI version %d is too old; version %d or later required", e.Version, Minimum)
}

func (e *VersionError) Unwrap() error {
	return ErrVersionTooOld
}

// Capabilities is what a negotiated version lets a ruleset handle.
type Capabilities struct {
	Version Version
	FS      rights.FS
	Net     rights.Net
	Flags   RestrictFlags

	// Newer is set when Version is past Newest; some kernel restrictions
	// may then be unknown to this build.
	Newer bool
}

// Negotiate computes the capabilities of v, starting from the requested
// defaults and stripping whatever v cannot represent.
func Negotiate(v Version, fs rights.FS, net rights.Net, flags RestrictFlags) (Capabilities, error) {
	if v < Minimum {
		return Capabilities{}, &VersionError{Version: v}
	}
	caps := Capabilities{
		Version: v,
		FS:      fs,
		Net:     net,
		Flags:   flags,
		Newer:   v > Newest,
	}
	for _, d := range Deltas {
		if d.Version <= v {
			continue
		}
		caps.FS = caps.FS.Without(d.FS)
		caps.Net = caps.Net.Without(d.Net)
		caps.Flags &^= d.Flags
	}
	return caps, nil
}

// Supported returns everything known to be supported at v.
func Supported(v Version) (rights.FS, rights.Net, RestrictFlags) {
	var fs rights.FS
	var net rights.Net
	var flags RestrictFlags
	for _, d := range Deltas {
		if d.Version > v {
			break
		}
		fs |= d.FS
		net |= d.Net
		flags |= d.Flags
	}
	return fs, net, flags
}
