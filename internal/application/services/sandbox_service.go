package services

import (
	"fmt"
	"log/slog"

	"github.com/reglet-dev/sst/internal/application/ports"
	"github.com/reglet-dev/sst/internal/domain/abi"
	"github.com/reglet-dev/sst/internal/domain/rights"
	"github.com/reglet-dev/sst/internal/domain/rules"
)

// Stage is a step of the one-way sandboxing sequence.
type Stage int

const (
	StageUnconfigured Stage = iota
	StageVersionNegotiated
	StageRulesValidated
	StageRulesetBuilt
	StageSealed
)

// String returns a human-readable representation of the stage.
func (s Stage) String() string {
	switch s {
	case StageUnconfigured:
		return "unconfigured"
	case StageVersionNegotiated:
		return "version negotiated"
	case StageRulesValidated:
		return "rules validated"
	case StageRulesetBuilt:
		return "ruleset built"
	case StageSealed:
		return "sealed"
	default:
		return "unknown"
	}
}

// ApplyOptions controls one sandboxing run.
type ApplyOptions struct {
	// Flags are the restrict flags requested before negotiation.
	Flags abi.RestrictFlags

	// DryRun stops after the ruleset is built and discards it unsealed.
	DryRun bool
}

// Report describes the outcome of a sandboxing run.
type Report struct {
	Capabilities abi.Capabilities
	HandledFS    rights.FS
	HandledNet   rights.Net
	Entries      []Entry
	Stage        Stage
}

// SandboxService drives a policy from negotiation to enforcement.
//
// A service is single-use: every stage is entered at most once and any
// failure leaves it unusable, so a caller can never retry into an
// ambiguous, partly restricted state.
type SandboxService struct {
	negotiator *Negotiator
	resolver   *Resolver
	builder    *RulesetBuilder
	sealer     *Sealer
	logger     *slog.Logger
	stage      Stage
	failed     bool
}

// NewSandboxService wires a service from the kernel and filesystem ports.
func NewSandboxService(kernel ports.Kernel, opener ports.PathOpener, logger *slog.Logger) *SandboxService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SandboxService{
		negotiator: NewNegotiator(kernel, logger),
		resolver:   NewResolver(opener),
		builder:    NewRulesetBuilder(kernel),
		sealer:     NewSealer(kernel),
		logger:     logger,
	}
}

// Stage returns the last stage reached.
func (s *SandboxService) Stage() Stage {
	return s.stage
}

// Apply negotiates the ABI, binds and registers every rule of policy and
// seals the ruleset. On success the calling process is permanently
// restricted, unless opts.DryRun is set.
func (s *SandboxService) Apply(policy *rules.Policy, opts ApplyOptions) (*Report, error) {
	if s.failed || s.stage != StageUnconfigured {
		return nil, fmt.Errorf("sandbox already applied (stage: %s)", s.stage)
	}
	report, err := s.apply(policy, opts)
	if err != nil {
		s.failed = true
		return nil, err
	}
	return report, nil
}

func (s *SandboxService) apply(policy *rules.Policy, opts ApplyOptions) (*Report, error) {
	if policy.IsEmpty() {
		return nil, rules.ErrNoSandboxing
	}

	caps, err := s.negotiator.Negotiate(opts.Flags)
	if err != nil {
		return nil, err
	}
	s.stage = StageVersionNegotiated

	var handledFS rights.FS
	var handledNet rights.Net
	if policy.FilesystemEnabled {
		handledFS = caps.FS
	}
	if policy.NetworkEnabled {
		handledNet = caps.Net
	}

	rs, err := s.builder.New(handledFS, handledNet)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	for _, rule := range policy.Filesystem {
		if err := s.bindAndRegister(rs, rule, caps.FS); err != nil {
			return nil, err
		}
	}
	s.stage = StageRulesValidated

	for _, rule := range rules.CoalescePorts(policy.Network) {
		if err := s.builder.RegisterNetwork(rs, rule); err != nil {
			return nil, err
		}
		s.logger.Debug("registered network rule", "port", rule.Port, "direction", rule.Direction.String())
	}
	s.stage = StageRulesetBuilt

	report := &Report{
		Capabilities: caps,
		HandledFS:    rs.HandledFS(),
		HandledNet:   rs.HandledNet(),
		Entries:      rs.Entries(),
		Stage:        StageRulesetBuilt,
	}
	if opts.DryRun {
		return report, nil
	}

	if err := s.sealer.Seal(rs, caps.Flags); err != nil {
		return nil, err
	}
	s.stage = StageSealed
	report.Stage = StageSealed

	s.logger.Debug("Landlock ruleset applied",
		"abi", int(caps.Version),
		"handled_fs", handledFS.String(),
		"handled_net", handledNet.String(),
		"rules", len(report.Entries))
	return report, nil
}

// bindAndRegister keeps the rule's handle open only for the duration of its
// registration.
func (s *SandboxService) bindAndRegister(rs *PolicyRuleset, rule rules.FilesystemRule, max rights.FS) error {
	binding, err := s.resolver.Resolve(rule, max)
	if err != nil {
		return err
	}
	defer binding.Release()

	if err := s.builder.RegisterFilesystem(rs, binding); err != nil {
		return err
	}
	s.logger.Debug("registered filesystem rule", "rule", rule.Token(), "access", binding.Effective.String())
	return nil
}
