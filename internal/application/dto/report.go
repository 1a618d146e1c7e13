// Package dto contains data transfer objects for application layer use cases.
package dto

import (
	"github.com/reglet-dev/sst/internal/domain/abi"
	"github.com/reglet-dev/sst/internal/domain/rights"
	"github.com/reglet-dev/sst/internal/domain/values"
)

// SandboxReport describes what a sandbox handles and grants. It is built
// either from a negotiation alone or from a built ruleset.
type SandboxReport struct {
	Kernel            string       `json:"kernel" yaml:"kernel"`
	Stage             string       `json:"stage,omitempty" yaml:"stage,omitempty"`
	HandledFilesystem []string     `json:"handled_filesystem" yaml:"handled_filesystem"`
	HandledNetwork    []string     `json:"handled_network" yaml:"handled_network"`
	RestrictFlags     []string     `json:"restrict_flags" yaml:"restrict_flags"`
	Rules             []RuleReport `json:"rules,omitempty" yaml:"rules,omitempty"`
	Command           []string     `json:"command,omitempty" yaml:"command,omitempty"`
	CommandPath       string       `json:"command_path,omitempty" yaml:"command_path,omitempty"`
	ABI               int          `json:"abi" yaml:"abi"`
	NewestKnownABI    int          `json:"newest_known_abi" yaml:"newest_known_abi"`
	Newer             bool         `json:"newer" yaml:"newer"`
}

// RuleReport is one registered rule and what it effectively grants.
type RuleReport struct {
	Subject string   `json:"subject" yaml:"subject"`
	Granted []string `json:"granted" yaml:"granted"`
}

// NewCapabilitiesReport describes a negotiation result.
func NewCapabilitiesReport(caps abi.Capabilities, kernel values.KernelRelease) *SandboxReport {
	return &SandboxReport{
		ABI:               int(caps.Version),
		NewestKnownABI:    int(abi.Newest),
		Newer:             caps.Newer,
		Kernel:            kernel.String(),
		HandledFilesystem: caps.FS.Names(),
		HandledNetwork:    caps.Net.Names(),
		RestrictFlags:     caps.Flags.Names(),
	}
}

// WithRuleset records the handled sets of a built ruleset and the stage it
// reached.
func (r *SandboxReport) WithRuleset(stage string, fs rights.FS, net rights.Net) *SandboxReport {
	r.Stage = stage
	r.HandledFilesystem = fs.Names()
	r.HandledNetwork = net.Names()
	if r.Rules == nil {
		r.Rules = []RuleReport{}
	}
	return r
}

// AddRule records a registered rule. Filesystem rules report fs, network
// rules report net.
func (r *SandboxReport) AddRule(subject string, fs rights.FS, net rights.Net) {
	granted := fs.Names()
	if fs.IsEmpty() {
		granted = net.Names()
	}
	r.Rules = append(r.Rules, RuleReport{Subject: subject, Granted: granted})
}

// WithCommand records the command the sandbox guards.
func (r *SandboxReport) WithCommand(path string, argv []string) *SandboxReport {
	r.CommandPath = path
	r.Command = argv
	return r
}
