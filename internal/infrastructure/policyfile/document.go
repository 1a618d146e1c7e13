// Package policyfile loads sandbox policies from YAML documents.
//
// A policy file is rendered into the same rule tokens the command line
// accepts, so every entry goes through the one token parser.
package policyfile

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/invopop/jsonschema"
	"github.com/reglet-dev/sst/internal/domain/rules"
)

// Document is the top level of a policy file.
type Document struct {
	Filesystem *FilesystemSection `json:"filesystem,omitempty" yaml:"filesystem,omitempty" jsonschema:"description=Filesystem access rules"`
	Network    *NetworkSection    `json:"network,omitempty" yaml:"network,omitempty" jsonschema:"description=TCP port rules"`
}

// FilesystemSection enables filesystem sandboxing and lists its rules.
type FilesystemSection struct {
	Rules   []FilesystemEntry `json:"rules,omitempty" yaml:"rules,omitempty" validate:"dive"`
	Enabled bool              `json:"enabled" yaml:"enabled" jsonschema:"description=Deny every filesystem access not granted by a rule"`
}

// FilesystemEntry grants one access keyword on one path.
type FilesystemEntry struct {
	Access string `json:"access" yaml:"access" validate:"required"`
	Path   string `json:"path" yaml:"path" validate:"required" jsonschema:"minLength=1"`
	When   string `json:"when,omitempty" yaml:"when,omitempty" jsonschema:"description=Boolean condition deciding whether the rule applies"`
}

// JSONSchemaExtend restricts access to the known keywords.
func (FilesystemEntry) JSONSchemaExtend(s *jsonschema.Schema) {
	prop, ok := s.Properties.Get("access")
	if !ok {
		return
	}
	for _, kw := range rules.FilesystemKeywords() {
		prop.Enum = append(prop.Enum, kw)
	}
}

// NetworkSection enables network sandboxing and lists its rules.
type NetworkSection struct {
	Rules   []NetworkEntry `json:"rules,omitempty" yaml:"rules,omitempty" validate:"dive"`
	Enabled bool           `json:"enabled" yaml:"enabled" jsonschema:"description=Deny every TCP bind and connect not granted by a rule"`
}

// NetworkEntry grants one direction on one TCP port.
type NetworkEntry struct {
	Port      *int   `json:"port" yaml:"port" validate:"required,min=0,max=65535" jsonschema:"minimum=0,maximum=65535"`
	Direction string `json:"direction" yaml:"direction" validate:"oneof=incoming outgoing" jsonschema:"enum=incoming,enum=outgoing"`
	When      string `json:"when,omitempty" yaml:"when,omitempty" jsonschema:"description=Boolean condition deciding whether the rule applies"`
}

// Token renders the entry in command-line form.
func (e FilesystemEntry) Token() string {
	return e.Access + ":" + e.Path
}

// Token renders the entry in command-line form.
func (e NetworkEntry) Token() string {
	kw := rules.KeywordOutgoingPort
	if e.Direction == "incoming" {
		kw = rules.KeywordIncomingPort
	}
	port := 0
	if e.Port != nil {
		port = *e.Port
	}
	return kw + ":" + strconv.Itoa(port)
}

// GenerateSchema returns the JSON Schema (draft 2020-12) of a policy file.
func GenerateSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
		Anonymous:      true,
	}
	schema := reflector.Reflect(&Document{})
	schema.Title = "sst policy"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}
