package services

import (
	"errors"
	"fmt"

	apperrors "github.com/reglet-dev/sst/internal/application/errors"
	"github.com/reglet-dev/sst/internal/application/ports"
	"github.com/reglet-dev/sst/internal/domain/rights"
	"github.com/reglet-dev/sst/internal/domain/rules"
)

var errRulesetConsumed = errors.New("ruleset is no longer open")

// Entry is one rule registered with a ruleset.
type Entry struct {
	Subject string
	FS      rights.FS
	Net     rights.Net
}

// PolicyRuleset is a kernel ruleset under construction. Its handled rights
// are fixed at creation; rules are appended until it is sealed.
type PolicyRuleset struct {
	handle     ports.RulesetHandle
	handledFS  rights.FS
	handledNet rights.Net
	entries    []Entry
	sealed     bool
}

// HandledFS returns the filesystem rights the ruleset restricts.
func (p *PolicyRuleset) HandledFS() rights.FS { return p.handledFS }

// HandledNet returns the network rights the ruleset restricts.
func (p *PolicyRuleset) HandledNet() rights.Net { return p.handledNet }

// Entries returns the registered rules in registration order.
func (p *PolicyRuleset) Entries() []Entry { return p.entries }

// Sealed reports whether the ruleset has been enforced.
func (p *PolicyRuleset) Sealed() bool { return p.sealed }

// Close releases the kernel ruleset. It is safe to call more than once.
func (p *PolicyRuleset) Close() error {
	if p.handle == nil {
		return nil
	}
	err := p.handle.Close()
	p.handle = nil
	return err
}

// RulesetBuilder creates rulesets and registers rules against them.
type RulesetBuilder struct {
	kernel ports.Kernel
}

// NewRulesetBuilder creates a builder backed by kernel.
func NewRulesetBuilder(kernel ports.Kernel) *RulesetBuilder {
	return &RulesetBuilder{kernel: kernel}
}

// New creates a ruleset handling exactly fs and net. The handled sets cannot
// be widened later, so they must already cover every rule to be registered.
func (b *RulesetBuilder) New(fs rights.FS, net rights.Net) (*PolicyRuleset, error) {
	h, err := b.kernel.CreateRuleset(fs, net)
	if err != nil {
		return nil, fmt.Errorf("failed to create Landlock ruleset: %w", err)
	}
	return &PolicyRuleset{handle: h, handledFS: fs, handledNet: net}, nil
}

// RegisterFilesystem adds a path-beneath rule for a resolved binding.
func (b *RulesetBuilder) RegisterFilesystem(rs *PolicyRuleset, binding *Binding) error {
	subject := binding.Rule.Token()
	if err := rs.mutable(subject); err != nil {
		return err
	}
	if !binding.Effective.SubsetOf(rs.handledFS) {
		return &apperrors.RulesetError{
			Kind:    apperrors.ErrRightsNotHandled,
			Subject: fmt.Sprintf("%s requests %s", subject, binding.Effective.Without(rs.handledFS)),
		}
	}
	if err := rs.handle.AddPathBeneath(binding.Handle, binding.Effective); err != nil {
		return &apperrors.RulesetError{Kind: apperrors.ErrRuleRejected, Subject: "failed to add filesystem rule " + subject, Cause: err}
	}
	rs.entries = append(rs.entries, Entry{Subject: subject, FS: binding.Effective})
	return nil
}

// RegisterNetwork adds a TCP port rule.
func (b *RulesetBuilder) RegisterNetwork(rs *PolicyRuleset, rule rules.NetworkRule) error {
	subject := rule.String()
	if err := rs.mutable(subject); err != nil {
		return err
	}
	access := rule.Rights()
	if !access.SubsetOf(rs.handledNet) {
		return &apperrors.RulesetError{
			Kind:    apperrors.ErrRightsNotHandled,
			Subject: fmt.Sprintf("%s requests %s", subject, access.Without(rs.handledNet)),
		}
	}
	if err := rs.handle.AddNetPort(rule.Port, access); err != nil {
		return &apperrors.RulesetError{Kind: apperrors.ErrRuleRejected, Subject: "failed to add network rule " + subject, Cause: err}
	}
	rs.entries = append(rs.entries, Entry{Subject: subject, Net: access})
	return nil
}

func (p *PolicyRuleset) mutable(subject string) error {
	if p.sealed || p.handle == nil {
		return &apperrors.RulesetError{Kind: apperrors.ErrRuleRejected, Subject: subject, Cause: errRulesetConsumed}
	}
	return nil
}
