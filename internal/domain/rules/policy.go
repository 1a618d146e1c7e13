package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// Per-domain limits on the number of rules accepted in one invocation.
const (
	MaxFilesystemRules = 1024
	MaxNetworkRules    = 1024
)

// Policy is the set of rules declared for one invocation.
type Policy struct {
	Filesystem        []FilesystemRule
	Network           []NetworkRule
	FilesystemEnabled bool
	NetworkEnabled    bool
}

// IsEmpty reports whether no domain is enabled.
func (p *Policy) IsEmpty() bool {
	return !p.FilesystemEnabled && !p.NetworkEnabled
}

// Tokens renders p back into the command-line vocabulary, triggers first.
func (p *Policy) Tokens() []string {
	var out []string
	if p.FilesystemEnabled {
		out = append(out, TriggerFilesystem)
	}
	if p.NetworkEnabled {
		out = append(out, TriggerNetwork)
	}
	for _, r := range p.Filesystem {
		out = append(out, r.Token())
	}
	for _, r := range p.Network {
		for _, d := range []Direction{Incoming, Outgoing} {
			if !r.Direction.Has(d) {
				continue
			}
			kw := KeywordIncomingPort
			if d == Outgoing {
				kw = KeywordOutgoingPort
			}
			out = append(out, kw+":"+strconv.Itoa(int(r.Port)))
		}
	}
	return out
}

// CheckArguments rejects empty tokens. Positions are 1-based within tokens.
func CheckArguments(tokens []string) error {
	for i, tok := range tokens {
		if tok == "" {
			return malformed("", "empty argument at position %d", i+1)
		}
	}
	return nil
}

// Parse builds a Policy from already tokenized options.
//
// Triggers are honored wherever they appear. A rule whose domain was not
// triggered, an unknown keyword, an empty token or a bad argument fails the
// whole parse. An option list that enables no domain fails with
// ErrNoSandboxing.
func Parse(tokens []string) (*Policy, error) {
	p := &Policy{}
	for _, tok := range tokens {
		switch tok {
		case TriggerFilesystem:
			p.FilesystemEnabled = true
		case TriggerNetwork:
			p.NetworkEnabled = true
		}
	}

	for i, tok := range tokens {
		if tok == TriggerFilesystem || tok == TriggerNetwork {
			continue
		}
		if tok == "" {
			return nil, malformed("", "empty argument at position %d", i+1)
		}
		if err := p.add(tok); err != nil {
			return nil, err
		}
	}

	if p.IsEmpty() {
		return nil, ErrNoSandboxing
	}
	return p, nil
}

func (p *Policy) add(tok string) error {
	keyword, arg, found := strings.Cut(tok, ":")
	if !found {
		return malformed(tok, "unrecognized option: %s", tok)
	}

	if row, ok := fsKeywords[keyword]; ok {
		if !p.FilesystemEnabled {
			return &RuleError{
				Err:    ErrMissingTrigger,
				Token:  tok,
				Reason: fmt.Sprintf("%s requires %s", row.canonical, TriggerFilesystem),
			}
		}
		if arg == "" {
			return malformed(tok, "%s: missing path", row.canonical)
		}
		if len(p.Filesystem) >= MaxFilesystemRules {
			return malformed(tok, "too many filesystem rules")
		}
		rule, err := NewFilesystemRule(arg, row.kind, row.access)
		if err != nil {
			return err
		}
		p.Filesystem = append(p.Filesystem, rule)
		return nil
	}

	if dir, ok := netKeywords[keyword]; ok {
		if !p.NetworkEnabled {
			return &RuleError{
				Err:    ErrMissingTrigger,
				Token:  tok,
				Reason: fmt.Sprintf("%s requires %s", keyword, TriggerNetwork),
			}
		}
		port, err := ParsePort(arg)
		if err != nil {
			return malformed(tok, "%s: invalid port '%s'", keyword, arg)
		}
		if len(p.Network) >= MaxNetworkRules {
			return malformed(tok, "too many network rules")
		}
		p.Network = append(p.Network, NetworkRule{Port: port, Direction: dir})
		return nil
	}

	return malformed(tok, "unrecognized option: %s", tok)
}

// ParsePort parses a base-10 TCP port of one to five ASCII digits.
// Signs, whitespace and other prefixes are rejected.
func ParsePort(s string) (uint16, error) {
	if len(s) == 0 || len(s) > 5 {
		return 0, fmt.Errorf("port must have 1 to 5 digits")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("port must be decimal digits only")
		}
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	if n > MaxPort {
		return 0, fmt.Errorf("port %d out of range", n)
	}
	return uint16(n), nil
}
