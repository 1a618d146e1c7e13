package main

import (
	"bytes"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/reglet-dev/sst/internal/application/ports"
	"github.com/reglet-dev/sst/internal/domain/abi"
	"github.com/reglet-dev/sst/internal/domain/rights"
	"github.com/reglet-dev/sst/internal/domain/values"
	"github.com/reglet-dev/sst/internal/infrastructure/system"
)

type fakeKernel struct {
	version    abi.Version
	versionErr error
	restricted bool
	flags      abi.RestrictFlags
	paths      map[string]rights.FS
	ports      map[uint16]rights.Net
}

func (k *fakeKernel) ABIVersion() (abi.Version, error) { return k.version, k.versionErr }

func (k *fakeKernel) CreateRuleset(rights.FS, rights.Net) (ports.RulesetHandle, error) {
	return &fakeRuleset{k: k}, nil
}

func (k *fakeKernel) SetNoNewPrivs() error { return nil }

func (k *fakeKernel) Release() values.KernelRelease {
	r, _ := values.ParseKernelRelease("6.12.1-arch1")
	return r
}

type fakeRuleset struct{ k *fakeKernel }

func (r *fakeRuleset) AddPathBeneath(h ports.Handle, access rights.FS) error {
	r.k.paths[h.(*fakeHandle).path] = access
	return nil
}

func (r *fakeRuleset) AddNetPort(port uint16, access rights.Net) error {
	r.k.ports[port] = access
	return nil
}

func (r *fakeRuleset) RestrictSelf(flags abi.RestrictFlags) error {
	r.k.restricted = true
	r.k.flags = flags
	return nil
}

func (r *fakeRuleset) Close() error { return nil }

type fakeOpener map[string]ports.FileType

func (o fakeOpener) Open(path string) (ports.Handle, error) {
	t, ok := o[path]
	if !ok {
		return nil, syscall.ENOENT
	}
	return &fakeHandle{path: path, typ: t}, nil
}

type fakeHandle struct {
	path string
	typ  ports.FileType
}

func (h *fakeHandle) Fd() uintptr                   { return 3 }
func (h *fakeHandle) Type() (ports.FileType, error) { return h.typ, nil }
func (h *fakeHandle) Close() error                  { return nil }

type fakeLauncher struct {
	path string
	argv []string
	env  []string
}

func (l *fakeLauncher) Resolve(name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}
	return "/usr/bin/" + name, nil
}

func (l *fakeLauncher) Exec(path string, argv, env []string) error {
	l.path, l.argv, l.env = path, argv, env
	return nil
}

type harness struct {
	app      *app
	kernel   *fakeKernel
	launcher *fakeLauncher
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
}

func newHarness(t *testing.T, version abi.Version) *harness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	h := &harness{
		kernel: &fakeKernel{
			version: version,
			paths:   map[string]rights.FS{},
			ports:   map[uint16]rights.Net{},
		},
		launcher: &fakeLauncher{},
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
	}
	h.app = &app{
		kernel: h.kernel,
		opener: fakeOpener{
			"/":           ports.FileTypeDirectory,
			"/workspace":  ports.FileTypeDirectory,
			"/etc/passwd": ports.FileTypeRegular,
		},
		launcher: h.launcher,
		configs:  system.NewConfigLoader(),
		environ:  func() []string { return []string{"PATH=/usr/bin"} },
		stdout:   h.stdout,
		stderr:   h.stderr,
	}
	return h
}

func (h *harness) run(args ...string) error {
	cmd := newRootCmd(h.app)
	cmd.SetArgs(args)
	return cmd.Execute()
}
