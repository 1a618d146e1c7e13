// Package rights defines the filesystem and network access-right sets
// understood by the Landlock capability-restriction API.
//
// Bit values match <linux/landlock.h> so a set can be handed to the kernel
// without translation.
package rights

import "strings"

// FS is a set of filesystem access rights.
type FS uint64

// Filesystem access rights.
const (
	FSExecute    FS = 1 << 0
	FSWriteFile  FS = 1 << 1
	FSReadFile   FS = 1 << 2
	FSReadDir    FS = 1 << 3
	FSRemoveDir  FS = 1 << 4
	FSRemoveFile FS = 1 << 5
	FSMakeChar   FS = 1 << 6
	FSMakeDir    FS = 1 << 7
	FSMakeReg    FS = 1 << 8
	FSMakeSock   FS = 1 << 9
	FSMakeFifo   FS = 1 << 10
	FSMakeBlock  FS = 1 << 11
	FSMakeSym    FS = 1 << 12
	FSRefer      FS = 1 << 13
	FSTruncate   FS = 1 << 14
	FSIoctlDev   FS = 1 << 15
)

// Composite filesystem sets.
const (
	// FSAll is every filesystem right known to this build.
	FSAll FS = FSExecute | FSWriteFile | FSReadFile | FSReadDir |
		FSRemoveDir | FSRemoveFile | FSMakeChar | FSMakeDir | FSMakeReg |
		FSMakeSock | FSMakeFifo | FSMakeBlock | FSMakeSym | FSRefer |
		FSTruncate | FSIoctlDev

	// FSFile is the subset of rights that can be granted on a non-directory.
	FSFile FS = FSExecute | FSWriteFile | FSReadFile | FSTruncate | FSIoctlDev

	// FSRead grants reading files and listing directories.
	FSRead FS = FSReadFile | FSReadDir

	// FSReadExec adds execution to FSRead.
	FSReadExec FS = FSExecute | FSRead

	// FSReadWrite adds writing and truncating to FSRead.
	FSReadWrite FS = FSRead | FSWriteFile | FSTruncate

	// FSReadExecWrite is the union of FSReadExec and FSReadWrite.
	FSReadExecWrite FS = FSReadExec | FSReadWrite
)

var fsNames = []struct {
	right FS
	name  string
}{
	{FSExecute, "execute"},
	{FSWriteFile, "write_file"},
	{FSReadFile, "read_file"},
	{FSReadDir, "read_dir"},
	{FSRemoveDir, "remove_dir"},
	{FSRemoveFile, "remove_file"},
	{FSMakeChar, "make_char"},
	{FSMakeDir, "make_dir"},
	{FSMakeReg, "make_reg"},
	{FSMakeSock, "make_sock"},
	{FSMakeFifo, "make_fifo"},
	{FSMakeBlock, "make_block"},
	{FSMakeSym, "make_sym"},
	{FSRefer, "refer"},
	{FSTruncate, "truncate"},
	{FSIoctlDev, "ioctl_dev"},
}

// Union returns s ∪ other.
func (s FS) Union(other FS) FS { return s | other }

// Intersect returns s ∩ other.
func (s FS) Intersect(other FS) FS { return s & other }

// Without returns s with every right of other removed.
func (s FS) Without(other FS) FS { return s &^ other }

// SubsetOf reports whether every right in s is also in other.
func (s FS) SubsetOf(other FS) bool { return s&^other == 0 }

// IsEmpty reports whether s holds no rights.
func (s FS) IsEmpty() bool { return s == 0 }

// Names returns the names of the rights in s, lowest bit first.
// Bits unknown to this build are reported as a single "unknown" entry.
func (s FS) Names() []string {
	names := make([]string, 0, len(fsNames))
	for _, n := range fsNames {
		if s&n.right != 0 {
			names = append(names, n.name)
		}
	}
	if s.Without(FSAll) != 0 {
		names = append(names, "unknown")
	}
	return names
}

// String returns a "|"-separated list of right names, or "none".
func (s FS) String() string {
	if s == 0 {
		return "none"
	}
	return strings.Join(s.Names(), "|")
}

// Net is a set of network access rights.
type Net uint64

// Network access rights.
const (
	NetBindTCP    Net = 1 << 0
	NetConnectTCP Net = 1 << 1

	NetAll Net = NetBindTCP | NetConnectTCP
)

// Union returns s ∪ other.
func (s Net) Union(other Net) Net { return s | other }

// Intersect returns s ∩ other.
func (s Net) Intersect(other Net) Net { return s & other }

// Without returns s with every right of other removed.
func (s Net) Without(other Net) Net { return s &^ other }

// SubsetOf reports whether every right in s is also in other.
func (s Net) SubsetOf(other Net) bool { return s&^other == 0 }

// IsEmpty reports whether s holds no rights.
func (s Net) IsEmpty() bool { return s == 0 }

// Names returns the names of the rights in s, lowest bit first.
func (s Net) Names() []string {
	names := []string{}
	if s&NetBindTCP != 0 {
		names = append(names, "bind_tcp")
	}
	if s&NetConnectTCP != 0 {
		names = append(names, "connect_tcp")
	}
	if s.Without(NetAll) != 0 {
		names = append(names, "unknown")
	}
	return names
}

// String returns a "|"-separated list of right names, or "none".
func (s Net) String() string {
	if s == 0 {
		return "none"
	}
	return strings.Join(s.Names(), "|")
}
