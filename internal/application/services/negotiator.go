package services

import (
	"log/slog"

	"github.com/reglet-dev/sst/internal/application/ports"
	"github.com/reglet-dev/sst/internal/domain/abi"
	"github.com/reglet-dev/sst/internal/domain/rights"
)

// Negotiator determines what the running kernel can enforce.
type Negotiator struct {
	kernel ports.Kernel
	logger *slog.Logger
}

// NewNegotiator creates a negotiator backed by kernel.
func NewNegotiator(kernel ports.Kernel, logger *slog.Logger) *Negotiator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Negotiator{kernel: kernel, logger: logger}
}

// Negotiate queries the ABI version and clips every known right, and the
// requested restrict flags, to what that version supports.
//
// Versions newer than abi.Newest are accepted with a warning.
func (n *Negotiator) Negotiate(flags abi.RestrictFlags) (abi.Capabilities, error) {
	version, err := n.kernel.ABIVersion()
	if err != nil {
		return abi.Capabilities{}, err
	}

	caps, err := abi.Negotiate(version, rights.FSAll, rights.NetAll, flags)
	if err != nil {
		return abi.Capabilities{}, err
	}

	if caps.Newer {
		n.logger.Warn("Landlock ABI version is newer than this tool was designed for; some restrictions may not work as expected",
			"abi", int(caps.Version), "newest_known", int(abi.Newest))
	}
	n.logger.Debug("negotiated Landlock ABI",
		"abi", int(caps.Version),
		"fs", caps.FS.String(),
		"net", caps.Net.String(),
		"flags", caps.Flags.String())

	return caps, nil
}
