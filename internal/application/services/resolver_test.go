package services

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/reglet-dev/sst/internal/application/errors"
	"github.com/reglet-dev/sst/internal/application/ports"
	"github.com/reglet-dev/sst/internal/domain/rights"
	"github.com/reglet-dev/sst/internal/domain/rules"
)

func mustRule(t *testing.T, path string, kind rules.ObjectKind, requested rights.FS) rules.FilesystemRule {
	t.Helper()
	r, err := rules.NewFilesystemRule(path, kind, requested)
	require.NoError(t, err)
	return r
}

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name string
		path string
		kind rules.ObjectKind
	}{
		{"directory", "/usr", rules.Directory},
		{"regular file", "/etc/passwd", rules.FileLike},
		{"character device", "/dev/null", rules.FileLike},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFakeFS()
			r := NewResolver(fs)

			b, err := r.Resolve(mustRule(t, tt.path, tt.kind, rights.FSRead), rights.FSAll)
			require.NoError(t, err)
			assert.Equal(t, 1, fs.openHandles())

			b.Release()
			assert.Equal(t, 0, fs.openHandles())
		})
	}
}

func TestResolver_EffectiveIsClippedToMax(t *testing.T) {
	r := NewResolver(newFakeFS())

	b, err := r.Resolve(mustRule(t, "/workspace", rules.Directory, rights.FSReadExecWrite), rights.FSRead|rights.FSWriteFile)
	require.NoError(t, err)
	defer b.Release()

	assert.Equal(t, rights.FSRead|rights.FSWriteFile, b.Effective)
}

func TestResolver_KindMismatch(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		kind    rules.ObjectKind
		keyword string
	}{
		{"file where directory expected", "/etc/passwd", rules.Directory, "PATH_BENEATH_*"},
		{"directory where file expected", "/usr", rules.FileLike, "FILE_*"},
		{"socket where file expected", "/run/app.sock", rules.FileLike, "FILE_*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFakeFS()
			_, err := NewResolver(fs).Resolve(mustRule(t, tt.path, tt.kind, rights.FSRead), rights.FSAll)
			require.Error(t, err)

			var pathErr *apperrors.PathError
			require.True(t, errors.As(err, &pathErr))
			assert.ErrorIs(t, err, apperrors.ErrObjectKindMismatch)
			assert.Equal(t, tt.keyword, pathErr.Keyword)
			assert.Equal(t, 0, fs.openHandles())
		})
	}
}

func TestResolver_OpenAndTypeFailures(t *testing.T) {
	fs := newFakeFS()
	r := NewResolver(fs)

	_, err := r.Resolve(mustRule(t, "/nope", rules.Directory, rights.FSRead), rights.FSAll)
	assert.ErrorIs(t, err, apperrors.ErrPathNotFound)

	fs.types["/broken"] = ports.FileTypeDirectory
	fs.typeErr["/broken"] = syscall.EIO
	_, err = r.Resolve(mustRule(t, "/broken", rules.Directory, rights.FSRead), rights.FSAll)
	assert.ErrorIs(t, err, apperrors.ErrPathUnreadable)
	assert.ErrorIs(t, err, syscall.EIO)
	assert.Equal(t, 0, fs.openHandles())
}
