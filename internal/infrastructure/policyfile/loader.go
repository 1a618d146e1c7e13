package policyfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	apperrors "github.com/reglet-dev/sst/internal/application/errors"
	"github.com/reglet-dev/sst/internal/domain/rules"
)

const schemaResource = "sst-policy.json"

var validate = validator.New()

// Loader reads policy files and renders them into rule tokens.
type Loader struct {
	schema     *jsonschema.Schema
	logger     *slog.Logger
	conditions Conditions
}

// NewLoader compiles the policy schema.
func NewLoader(conditions Conditions, logger *slog.Logger) (*Loader, error) {
	if logger == nil {
		logger = slog.Default()
	}

	schemaBytes, err := GenerateSchema()
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaResource, bytes.NewReader(schemaBytes)); err != nil {
		return nil, fmt.Errorf("failed to add policy schema: %w", err)
	}
	schema, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile policy schema: %w", err)
	}

	return &Loader{schema: schema, conditions: conditions, logger: logger}, nil
}

// LoadFiles loads each file in order and concatenates their tokens.
func (l *Loader) LoadFiles(paths []string) ([]string, error) {
	var tokens []string
	for _, path := range paths {
		t, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t...)
	}
	return tokens, nil
}

// LoadFile loads one policy file.
func (l *Loader) LoadFile(path string) ([]string, error) {
	//nolint:gosec // G304: policy path is supplied by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigurationError("policy", fmt.Sprintf("cannot read %s", path), err)
	}
	return l.Load(path, data)
}

// Load renders a policy document into rule tokens. name is only used in
// error messages.
func (l *Loader) Load(name string, data []byte) ([]string, error) {
	doc, err := l.decode(data)
	if err != nil {
		return nil, apperrors.NewConfigurationError("policy", name, err)
	}

	tokens, err := l.render(name, doc)
	if err != nil {
		return nil, apperrors.NewConfigurationError("policy", name, err)
	}
	return tokens, nil
}

func (l *Loader) decode(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty policy document")
	}

	jsonBytes, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	var instance interface{}
	dec := json.NewDecoder(bytes.NewReader(jsonBytes))
	dec.UseNumber()
	if err := dec.Decode(&instance); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if err := l.schema.Validate(instance); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return nil, formatSchemaError(validationErr)
		}
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &doc, nil
}

func (l *Loader) render(name string, doc *Document) ([]string, error) {
	var tokens []string

	if fs := doc.Filesystem; fs != nil {
		if fs.Enabled {
			tokens = append(tokens, rules.TriggerFilesystem)
		}
		for i, entry := range fs.Rules {
			ok, err := l.conditions.Eval(entry.When)
			if err != nil {
				return nil, fmt.Errorf("filesystem rule %d: %w", i, err)
			}
			if !ok {
				l.logger.Info("policy rule skipped", "file", name, "rule", entry.Token(), "when", entry.When)
				continue
			}
			tokens = append(tokens, entry.Token())
		}
	}

	if network := doc.Network; network != nil {
		if network.Enabled {
			tokens = append(tokens, rules.TriggerNetwork)
		}
		for i, entry := range network.Rules {
			ok, err := l.conditions.Eval(entry.When)
			if err != nil {
				return nil, fmt.Errorf("network rule %d: %w", i, err)
			}
			if !ok {
				l.logger.Info("policy rule skipped", "file", name, "rule", entry.Token(), "when", entry.When)
				continue
			}
			tokens = append(tokens, entry.Token())
		}
	}

	return tokens, nil
}

func formatSchemaError(err *jsonschema.ValidationError) error {
	var messages []string

	var collect func(*jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 && e.Message != "" {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(err)

	if len(messages) == 0 {
		return errors.New("schema validation failed")
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(messages, "; "))
}
