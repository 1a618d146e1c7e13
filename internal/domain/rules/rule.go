package rules

import (
	"fmt"

	"github.com/reglet-dev/sst/internal/domain/rights"
)

// FilesystemRule grants rights on one file-like object or one directory
// subtree. It is immutable once constructed.
type FilesystemRule struct {
	path      string
	kind      ObjectKind
	requested rights.FS
}

// NewFilesystemRule creates a rule for path. Rights that are not meaningful
// for kind are dropped, so a file rule never carries directory-only rights.
func NewFilesystemRule(path string, kind ObjectKind, requested rights.FS) (FilesystemRule, error) {
	if path == "" {
		return FilesystemRule{}, malformed("", "missing path")
	}
	return FilesystemRule{
		path:      path,
		kind:      kind,
		requested: requested.Intersect(kind.Meaningful()),
	}, nil
}

// Path returns the caller-supplied target path.
func (r FilesystemRule) Path() string { return r.path }

// Kind returns the object kind the rule expects.
func (r FilesystemRule) Kind() ObjectKind { return r.kind }

// Requested returns the rights the rule asks for.
func (r FilesystemRule) Requested() rights.FS { return r.requested }

func (r FilesystemRule) String() string {
	return fmt.Sprintf("%s %q (%s)", r.kind, r.path, r.requested)
}

// MaxPort is the largest valid TCP port.
const MaxPort = 65535

// NetworkRule allows TCP traffic on one port in the given directions.
type NetworkRule struct {
	Port      uint16
	Direction Direction
}

// Rights returns the network rights the rule asks for.
func (r NetworkRule) Rights() rights.Net {
	return r.Direction.Rights()
}

func (r NetworkRule) String() string {
	return fmt.Sprintf("tcp/%d (%s)", r.Port, r.Direction)
}

// CoalescePorts merges rules naming the same port by OR-ing their
// directions. The result keeps the order of first appearance.
func CoalescePorts(in []NetworkRule) []NetworkRule {
	out := make([]NetworkRule, 0, len(in))
	index := make(map[uint16]int, len(in))
	for _, r := range in {
		if i, ok := index[r.Port]; ok {
			out[i].Direction |= r.Direction
			continue
		}
		index[r.Port] = len(out)
		out = append(out, r)
	}
	return out
}
