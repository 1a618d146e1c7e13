package policyfile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/reglet-dev/sst/internal/application/errors"
	"github.com/reglet-dev/sst/internal/domain/rules"
	"github.com/reglet-dev/sst/internal/domain/values"
)

func testConditions(t *testing.T) Conditions {
	t.Helper()
	kernel, err := values.ParseKernelRelease("6.8.0-45-generic")
	require.NoError(t, err)
	return Conditions{
		OS:     "linux",
		Arch:   "amd64",
		Kernel: kernel,
		Env:    map[string]string{"CI": "true"},
	}
}

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	l, err := NewLoader(testConditions(t), nil)
	require.NoError(t, err)
	return l
}

func TestLoader_RendersTokens(t *testing.T) {
	doc := `
filesystem:
  enabled: true
  rules:
    - access: PATH_BENEATH_EXEC
      path: /
    - access: FILE_READ
      path: /etc/passwd
      when: 'arch == "amd64"'
    - access: PATH_BENEATH_EXEC_WRITE
      path: /srv
      when: 'arch == "arm64"'
network:
  enabled: true
  rules:
    - direction: outgoing
      port: 443
    - direction: incoming
      port: 8080
      when: 'env["CI"] == "true"'
`
	tokens, err := newTestLoader(t).Load("policy.yaml", []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{
		rules.TriggerFilesystem,
		"PATH_BENEATH_EXEC:/",
		"FILE_READ:/etc/passwd",
		rules.TriggerNetwork,
		"ALLOW_OUTGOING_TCP_PORT:443",
		"ALLOW_INCOMING_TCP_PORT:8080",
	}, tokens)

	policy, err := rules.Parse(tokens)
	require.NoError(t, err)
	assert.Len(t, policy.Filesystem, 2)
	assert.Len(t, policy.Network, 2)
}

func TestLoader_DisabledSectionEmitsNoTrigger(t *testing.T) {
	doc := `
network:
  enabled: false
`
	tokens, err := newTestLoader(t).Load("policy.yaml", []byte(doc))
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestLoader_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "   \n", "empty policy document"},
		{"not yaml", "filesystem: [", "invalid YAML"},
		{"unknown key", "filesystm:\n  enabled: true\n", "schema validation failed"},
		{"unknown keyword", "filesystem:\n  enabled: true\n  rules:\n    - access: FILE_EVERYTHING\n      path: /x\n", "schema validation failed"},
		{"missing path", "filesystem:\n  enabled: true\n  rules:\n    - access: FILE_READ\n", "schema validation failed"},
		{"port out of range", "network:\n  enabled: true\n  rules:\n    - direction: outgoing\n      port: 70000\n", "schema validation failed"},
		{"fractional port", "network:\n  enabled: true\n  rules:\n    - direction: outgoing\n      port: 443.5\n", "schema validation failed"},
		{"bad direction", "network:\n  enabled: true\n  rules:\n    - direction: sideways\n      port: 80\n", "schema validation failed"},
		{"bad condition", "network:\n  enabled: true\n  rules:\n    - direction: outgoing\n      port: 80\n      when: 'arch =='\n", "invalid condition"},
	}

	l := newTestLoader(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Load("policy.yaml", []byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)

			var cfgErr *apperrors.ConfigurationError
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestLoader_LoadFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "fs.yaml")
	second := filepath.Join(dir, "net.yaml")
	require.NoError(t, os.WriteFile(first, []byte("filesystem:\n  enabled: true\n  rules:\n    - access: PATH_BENEATH_READ\n      path: /usr\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("network:\n  enabled: true\n"), 0o600))

	tokens, err := newTestLoader(t).LoadFiles([]string{first, second})
	require.NoError(t, err)
	assert.Equal(t, []string{rules.TriggerFilesystem, "PATH_BENEATH_READ:/usr", rules.TriggerNetwork}, tokens)

	_, err = newTestLoader(t).LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot read")
}

func TestConditions_Eval(t *testing.T) {
	c := testConditions(t)

	tests := []struct {
		expr string
		want bool
	}{
		{"", true},
		{`os == "linux"`, true},
		{`kernel_major >= 6 && kernel_minor >= 8`, true},
		{`kernel_at_least("6.7")`, true},
		{`kernel_at_least("6.9")`, false},
		{`env["HOME"] == "/root"`, false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := c.Eval(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := c.Eval(`kernel_major + 1`)
	assert.Error(t, err)
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, "https://json-schema.org/draft/2020-12/schema", schema["$schema"])
	assert.Contains(t, string(data), "PATH_BENEATH_EXEC_WRITE")
	assert.Contains(t, string(data), "outgoing")
}
