package services

import (
	apperrors "github.com/reglet-dev/sst/internal/application/errors"
	"github.com/reglet-dev/sst/internal/application/ports"
	"github.com/reglet-dev/sst/internal/domain/rights"
	"github.com/reglet-dev/sst/internal/domain/rules"
)

// Binding ties a validated filesystem rule to the exact object it was
// validated against.
type Binding struct {
	Rule      rules.FilesystemRule
	Handle    ports.Handle
	Effective rights.FS
}

// Release closes the bound handle.
func (b *Binding) Release() {
	if b.Handle != nil {
		_ = b.Handle.Close()
	}
}

// Resolver opens and type-checks the objects named by filesystem rules.
type Resolver struct {
	opener ports.PathOpener
}

// NewResolver creates a resolver backed by opener.
func NewResolver(opener ports.PathOpener) *Resolver {
	return &Resolver{opener: opener}
}

// Resolve opens rule's path and checks, through the opened handle, that the
// object has the kind the rule expects. The effective rights are the
// requested rights clipped to max.
//
// On success the caller owns the binding and must Release it. On failure
// no handle is left open.
func (r *Resolver) Resolve(rule rules.FilesystemRule, max rights.FS) (*Binding, error) {
	h, err := r.opener.Open(rule.Path())
	if err != nil {
		return nil, err
	}

	typ, err := h.Type()
	if err != nil {
		_ = h.Close()
		return nil, &apperrors.PathError{Kind: apperrors.ErrPathUnreadable, Path: rule.Path(), Cause: err}
	}
	if !kindMatches(rule.Kind(), typ) {
		_ = h.Close()
		return nil, &apperrors.PathError{
			Kind:     apperrors.ErrObjectKindMismatch,
			Path:     rule.Path(),
			Keyword:  keywordFamily(rule.Kind()),
			Expected: rule.Kind().String(),
		}
	}

	return &Binding{
		Rule:      rule,
		Handle:    h,
		Effective: rule.Requested().Intersect(max),
	}, nil
}

func kindMatches(want rules.ObjectKind, got ports.FileType) bool {
	switch want {
	case rules.Directory:
		return got == ports.FileTypeDirectory
	case rules.FileLike:
		return got == ports.FileTypeRegular || got == ports.FileTypeCharDevice || got == ports.FileTypeBlockDevice
	default:
		return false
	}
}

func keywordFamily(kind rules.ObjectKind) string {
	if kind == rules.Directory {
		return "PATH_BENEATH_*"
	}
	return "FILE_*"
}
