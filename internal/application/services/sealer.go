package services

import (
	apperrors "github.com/reglet-dev/sst/internal/application/errors"
	"github.com/reglet-dev/sst/internal/application/ports"
	"github.com/reglet-dev/sst/internal/domain/abi"
)

// Sealer enforces rulesets on the current process.
type Sealer struct {
	kernel ports.Kernel
}

// NewSealer creates a sealer backed by kernel.
func NewSealer(kernel ports.Kernel) *Sealer {
	return &Sealer{kernel: kernel}
}

// Seal sets no_new_privs and enforces rs on every thread of the process.
// After success the restriction is permanent for this process and all of
// its descendants, and rs is consumed.
func (s *Sealer) Seal(rs *PolicyRuleset, flags abi.RestrictFlags) error {
	if rs.sealed || rs.handle == nil {
		return &apperrors.EnforcementError{Step: "seal", Cause: errRulesetConsumed}
	}
	if err := s.kernel.SetNoNewPrivs(); err != nil {
		return &apperrors.EnforcementError{Step: "prctl(PR_SET_NO_NEW_PRIVS)", Cause: err}
	}
	if err := rs.handle.RestrictSelf(flags); err != nil {
		return &apperrors.EnforcementError{Step: "landlock_restrict_self", Cause: err}
	}
	rs.sealed = true
	_ = rs.Close()
	return nil
}
