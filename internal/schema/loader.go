// Package schema provides flow definition loading from JSON and YAML files.
package schema

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed default_flows.json
var defaultFlows []byte

// ParseJSON decodes and validates a JSON flow definition document.
func ParseJSON(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse flow definition JSON: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseYAML decodes and validates a YAML flow definition document.
func ParseYAML(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse flow definition YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads a flow definition from disk, selecting the decoder by file
// extension (.yaml/.yml for YAML, anything else JSON).
func LoadFile(path string) (*Schema, error) {
	slog.Debug("Loading flow definition file", "path", path)
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read flow definition file", "error", err, "path", path)
		return nil, fmt.Errorf("failed to read flow definition %s: %w", path, err)
	}
	var s *Schema
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s, err = ParseYAML(data)
	default:
		s, err = ParseJSON(data)
	}
	if err != nil {
		slog.Error("Failed to parse flow definition file", "error", err, "path", path)
		return nil, fmt.Errorf("flow definition %s: %w", path, err)
	}
	slog.Info("Flow definition loaded", "path", path, "flows", len(s.Flows), "starting_points", len(s.StartingPoints))
	return s, nil
}

// Default returns the embedded default flow definition.
func Default() *Schema {
	s, err := ParseJSON(defaultFlows)
	if err != nil {
		// The embedded definition is validated by tests; failing to parse it
		// is a build defect, not a runtime condition.
		panic(fmt.Sprintf("embedded flow definition is invalid: %v", err))
	}
	return s
}
