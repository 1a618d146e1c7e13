// Package rules models user-declared sandboxing rules: which filesystem
// objects and TCP ports a sandboxed program may use, and how.
package rules

import "github.com/reglet-dev/sst/internal/domain/rights"

// ObjectKind is the kind of filesystem object a rule expects to name.
type ObjectKind int

const (
	// FileLike is a regular file or a device node.
	FileLike ObjectKind = iota
	// Directory is a directory; rights apply to the whole subtree.
	Directory
)

// String returns a human-readable representation of the kind.
func (k ObjectKind) String() string {
	switch k {
	case FileLike:
		return "regular file or device"
	case Directory:
		return "directory"
	default:
		return "unknown"
	}
}

// Meaningful returns the rights that can be granted on an object of kind k.
func (k ObjectKind) Meaningful() rights.FS {
	if k == Directory {
		return rights.FSAll
	}
	return rights.FSFile
}

// Direction is a set of TCP traffic directions.
type Direction uint8

const (
	// Incoming allows binding (listening) on a port.
	Incoming Direction = 1 << iota
	// Outgoing allows connecting to a port.
	Outgoing
)

// Has reports whether d contains every direction of other.
func (d Direction) Has(other Direction) bool { return d&other == other }

// Rights maps a direction set onto network access rights.
func (d Direction) Rights() rights.Net {
	var r rights.Net
	if d.Has(Incoming) {
		r |= rights.NetBindTCP
	}
	if d.Has(Outgoing) {
		r |= rights.NetConnectTCP
	}
	return r
}

// String returns a human-readable representation of the direction set.
func (d Direction) String() string {
	switch d {
	case Incoming:
		return "incoming"
	case Outgoing:
		return "outgoing"
	case Incoming | Outgoing:
		return "incoming+outgoing"
	default:
		return "none"
	}
}
