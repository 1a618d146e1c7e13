package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseKernelRelease(t *testing.T) {
	tests := []struct {
		raw   string
		major uint64
		minor uint64
	}{
		{"6.8.0-45-generic", 6, 8},
		{"6.18.44-fc-v139", 6, 18},
		{"5.15.167.4-microsoft-standard-WSL2", 5, 15},
		{"4.19.112+", 4, 19},
		{"6.1", 6, 1},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			k, err := ParseKernelRelease(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.raw, k.String())
			assert.Equal(t, tt.major, k.Major())
			assert.Equal(t, tt.minor, k.Minor())
		})
	}
}

func Test_ParseKernelRelease_Invalid(t *testing.T) {
	for _, raw := range []string{"", "linux", "v6.1"} {
		_, err := ParseKernelRelease(raw)
		assert.Error(t, err, raw)
	}
}

func Test_KernelRelease_Satisfies(t *testing.T) {
	k, err := ParseKernelRelease("6.8.0-45-generic")
	require.NoError(t, err)

	ok, err := k.Satisfies(">= 6.7")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = k.Satisfies("< 6")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = k.Satisfies("not a constraint")
	assert.Error(t, err)

	var zero KernelRelease
	ok, err = zero.Satisfies(">= 1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "unknown", zero.String())
}
