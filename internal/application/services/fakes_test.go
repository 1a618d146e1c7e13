package services

import (
	"errors"
	"syscall"

	apperrors "github.com/reglet-dev/sst/internal/application/errors"
	"github.com/reglet-dev/sst/internal/application/ports"
	"github.com/reglet-dev/sst/internal/domain/abi"
	"github.com/reglet-dev/sst/internal/domain/rights"
	"github.com/reglet-dev/sst/internal/domain/values"
)

type pathRule struct {
	path   string
	access rights.FS
}

type portRule struct {
	port   uint16
	access rights.Net
}

// fakeKernel records every call made against it.
type fakeKernel struct {
	version    abi.Version
	versionErr error

	createErr   error
	addPathErr  error
	addPortErr  error
	restrictErr error
	nnpErr      error

	calls      []string
	handledFS  rights.FS
	handledNet rights.Net
	paths      []pathRule
	ports      []portRule
	flags      abi.RestrictFlags
	noNewPrivs bool
	restricted bool
	closed     int
}

func (k *fakeKernel) ABIVersion() (abi.Version, error) {
	k.calls = append(k.calls, "abi")
	return k.version, k.versionErr
}

func (k *fakeKernel) CreateRuleset(fs rights.FS, net rights.Net) (ports.RulesetHandle, error) {
	k.calls = append(k.calls, "create")
	if k.createErr != nil {
		return nil, k.createErr
	}
	k.handledFS, k.handledNet = fs, net
	return &fakeRuleset{k: k}, nil
}

func (k *fakeKernel) SetNoNewPrivs() error {
	k.calls = append(k.calls, "no_new_privs")
	if k.nnpErr != nil {
		return k.nnpErr
	}
	k.noNewPrivs = true
	return nil
}

func (k *fakeKernel) Release() values.KernelRelease {
	r, _ := values.ParseKernelRelease("6.8.0-test")
	return r
}

type fakeRuleset struct {
	k *fakeKernel
}

func (r *fakeRuleset) AddPathBeneath(h ports.Handle, access rights.FS) error {
	r.k.calls = append(r.k.calls, "add_path")
	if r.k.addPathErr != nil {
		return r.k.addPathErr
	}
	fh := h.(*fakeHandle)
	if fh.closed {
		return errors.New("handle used after close")
	}
	r.k.paths = append(r.k.paths, pathRule{path: fh.path, access: access})
	return nil
}

func (r *fakeRuleset) AddNetPort(port uint16, access rights.Net) error {
	r.k.calls = append(r.k.calls, "add_port")
	if r.k.addPortErr != nil {
		return r.k.addPortErr
	}
	r.k.ports = append(r.k.ports, portRule{port: port, access: access})
	return nil
}

func (r *fakeRuleset) RestrictSelf(flags abi.RestrictFlags) error {
	r.k.calls = append(r.k.calls, "restrict")
	if r.k.restrictErr != nil {
		return r.k.restrictErr
	}
	r.k.flags = flags
	r.k.restricted = true
	return nil
}

func (r *fakeRuleset) Close() error {
	r.k.closed++
	return nil
}

// fakeFS serves handles for a fixed set of paths.
type fakeFS struct {
	types   map[string]ports.FileType
	typeErr map[string]error
	handles []*fakeHandle
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		types: map[string]ports.FileType{
			"/":             ports.FileTypeDirectory,
			"/workspace":    ports.FileTypeDirectory,
			"/usr":          ports.FileTypeDirectory,
			"/etc/passwd":   ports.FileTypeRegular,
			"/bin/ls":       ports.FileTypeRegular,
			"/dev/null":     ports.FileTypeCharDevice,
			"/run/app.sock": ports.FileTypeOther,
		},
		typeErr: map[string]error{},
	}
}

func (f *fakeFS) Open(path string) (ports.Handle, error) {
	typ, ok := f.types[path]
	if !ok {
		return nil, &apperrors.PathError{Kind: apperrors.ErrPathNotFound, Path: path, Cause: syscall.ENOENT}
	}
	h := &fakeHandle{path: path, typ: typ, typeErr: f.typeErr[path]}
	f.handles = append(f.handles, h)
	return h, nil
}

func (f *fakeFS) openHandles() int {
	n := 0
	for _, h := range f.handles {
		if !h.closed {
			n++
		}
	}
	return n
}

type fakeHandle struct {
	path    string
	typ     ports.FileType
	typeErr error
	closed  bool
}

func (h *fakeHandle) Fd() uintptr { return 3 }

func (h *fakeHandle) Type() (ports.FileType, error) {
	return h.typ, h.typeErr
}

func (h *fakeHandle) Close() error {
	h.closed = true
	return nil
}
