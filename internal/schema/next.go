// Package schema defines the step transition specification.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gavelworks/clerkpipe/internal/models"
)

// NextSpec describes where a step transitions after a value is chosen. It is
// one of three shapes in the definition file: a fixed next-step identifier, a
// terminal null, or a mapping from chosen value to next step with a "default"
// fallback. A mapped value of null marks that branch terminal.
type NextSpec struct {
	Fixed    models.StepID
	Branches map[string]models.StepID
}

// Terminal reports whether the spec has no transitions at all.
func (n NextSpec) Terminal() bool {
	return n.Fixed == "" && len(n.Branches) == 0
}

// Target resolves the next step for the chosen value. An empty result means
// the flow terminates after this step.
func (n NextSpec) Target(value string) models.StepID {
	if len(n.Branches) > 0 {
		if t, ok := n.Branches[value]; ok {
			return t
		}
		return n.Branches[models.DefaultBranchKey]
	}
	return n.Fixed
}

// Targets returns every non-terminal step the spec can transition to.
func (n NextSpec) Targets() []models.StepID {
	var out []models.StepID
	if n.Fixed != "" {
		out = append(out, n.Fixed)
	}
	for _, t := range n.Branches {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// UnmarshalJSON accepts a string, null, or an object of value -> step|null.
func (n *NextSpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*n = NextSpec{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to parse next step: %w", err)
		}
		*n = NextSpec{Fixed: models.StepID(s)}
		return nil
	}
	var m map[string]*string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("failed to parse next branches: %w", err)
	}
	branches := make(map[string]models.StepID, len(m))
	for value, target := range m {
		if target == nil {
			branches[value] = ""
			continue
		}
		branches[value] = models.StepID(*target)
	}
	*n = NextSpec{Branches: branches}
	return nil
}

// MarshalJSON renders the spec back in its definition-file shape.
func (n NextSpec) MarshalJSON() ([]byte, error) {
	if len(n.Branches) > 0 {
		m := make(map[string]*string, len(n.Branches))
		for value, target := range n.Branches {
			if target == "" {
				m[value] = nil
				continue
			}
			t := string(target)
			m[value] = &t
		}
		return json.Marshal(m)
	}
	if n.Fixed == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(n.Fixed))
}

// UnmarshalYAML accepts the same three shapes from YAML definition files.
func (n *NextSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*n = NextSpec{}
			return nil
		}
		*n = NextSpec{Fixed: models.StepID(value.Value)}
		return nil
	case yaml.MappingNode:
		var m map[string]*string
		if err := value.Decode(&m); err != nil {
			return fmt.Errorf("failed to parse next branches: %w", err)
		}
		branches := make(map[string]models.StepID, len(m))
		for v, target := range m {
			if target == nil {
				branches[v] = ""
				continue
			}
			branches[v] = models.StepID(*target)
		}
		*n = NextSpec{Branches: branches}
		return nil
	default:
		return fmt.Errorf("unsupported next specification (line %d)", value.Line)
	}
}
