package abi

import (
	"testing"

	"github.com/reglet-dev/sst/internal/domain/rights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNegotiate_PerVersion(t *testing.T) {
	tests := []struct {
		version   Version
		wantFS    rights.FS
		wantFlags RestrictFlags
		newer     bool
	}{
		{4, rights.FSAll.Without(rights.FSIoctlDev), 0, false},
		{5, rights.FSAll, 0, false},
		{6, rights.FSAll, 0, false},
		{7, rights.FSAll, RestrictLogNewExecOn, false},
		{8, rights.FSAll, RestrictLogNewExecOn, true},
		{42, rights.FSAll, RestrictLogNewExecOn, true},
	}

	for _, tt := range tests {
		t.Run(tt.version.String(), func(t *testing.T) {
			caps, err := Negotiate(tt.version, rights.FSAll, rights.NetAll, RestrictLogNewExecOn)
			require.NoError(t, err)
			assert.Equal(t, tt.version, caps.Version)
			assert.Equal(t, tt.wantFS, caps.FS)
			assert.Equal(t, rights.NetAll, caps.Net)
			assert.Equal(t, tt.wantFlags, caps.Flags)
			assert.Equal(t, tt.newer, caps.Newer)
		})
	}
}

func TestNegotiate_TooOld(t *testing.T) {
	for _, v := range []Version{-1, 0, 1, 2, 3} {
		_, err := Negotiate(v, rights.FSAll, rights.NetAll, 0)
		require.ErrorIs(t, err, ErrVersionTooOld)

		var verr *VersionError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, v, verr.Version)
	}
}

func TestNegotiate_NeverWidens(t *testing.T) {
	requested := rights.FSReadFile | rights.FSIoctlDev
	for v := Minimum; v <= Newest+1; v++ {
		caps, err := Negotiate(v, requested, rights.NetConnectTCP, 0)
		require.NoError(t, err)
		assert.True(t, caps.FS.SubsetOf(requested))
		assert.Equal(t, rights.NetConnectTCP, caps.Net)
		assert.Zero(t, caps.Flags)
	}
}

func TestSupported(t *testing.T) {
	fs, net, flags := Supported(3)
	assert.Equal(t, rights.FSAll.Without(rights.FSIoctlDev), fs)
	assert.Zero(t, net)
	assert.Zero(t, flags)

	fs, net, _ = Supported(Newest)
	assert.Equal(t, rights.FSAll, fs)
	assert.Equal(t, rights.NetAll, net)
}

func TestDeltas_Ordered(t *testing.T) {
	for i := 1; i < len(Deltas); i++ {
		assert.Less(t, Deltas[i-1].Version, Deltas[i].Version)
	}
	assert.Equal(t, Newest, Deltas[len(Deltas)-1].Version)
}
