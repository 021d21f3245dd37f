// Package schema loads and validates flow definitions.
//
// A flow definition is a declarative tree of steps: each step names its option
// source, its transition to the next step (possibly conditional on the chosen
// value), and whether it is optional or a compound module step. Definitions are
// loaded once at startup; a malformed definition is fatal to initialization.
package schema

import (
	"errors"
	"fmt"

	"github.com/gavelworks/clerkpipe/internal/models"
)

// StepTypeModule marks a step whose value is a compound sub-form result
// (e.g. a vote tally) rather than a single chosen string.
const StepTypeModule = "module"

// Error variables for schema validation failures.
var (
	ErrNoFlows           = errors.New("schema defines no flows")
	ErrNoStartingPoints  = errors.New("schema defines no starting points")
	ErrEmptyFlow         = errors.New("flow has no steps")
	ErrDuplicateStep     = errors.New("duplicate step identifier in flow")
	ErrUnknownNextTarget = errors.New("next transition targets an unknown step")
	ErrUnknownFlow       = errors.New("starting point references an unknown flow")
	ErrNoOptions         = errors.New("step declares neither options nor an option source")
)

// StepDef describes a single decision point within a flow.
type StepDef struct {
	Step          models.StepID     `json:"step" yaml:"step"`
	Options       []string          `json:"options,omitempty" yaml:"options,omitempty"`
	OptionsSource models.SourceName `json:"optionsSource,omitempty" yaml:"optionsSource,omitempty"`
	Next          NextSpec          `json:"next" yaml:"next"`
	Optional      bool              `json:"optional,omitempty" yaml:"optional,omitempty"`
	Type          string            `json:"type,omitempty" yaml:"type,omitempty"`
}

// IsModule reports whether the step's value is a compound module result.
func (s *StepDef) IsModule() bool {
	return s.Type == StepTypeModule
}

// Flow is an ordered list of step definitions.
type Flow struct {
	Steps []StepDef `json:"steps" yaml:"steps"`

	index map[models.StepID]int
}

// Step returns the definition for the given step identifier.
func (f *Flow) Step(id models.StepID) (*StepDef, bool) {
	i, ok := f.index[id]
	if !ok {
		return nil, false
	}
	return &f.Steps[i], true
}

// First returns the identifier of the flow's first step, or "" for an empty flow.
func (f *Flow) First() models.StepID {
	if len(f.Steps) == 0 {
		return ""
	}
	return f.Steps[0].Step
}

// HasStep reports whether the flow defines the given step.
func (f *Flow) HasStep(id models.StepID) bool {
	_, ok := f.index[id]
	return ok
}

// buildIndex populates the step lookup index. Called after load.
func (f *Flow) buildIndex() error {
	f.index = make(map[models.StepID]int, len(f.Steps))
	for i := range f.Steps {
		id := f.Steps[i].Step
		if _, dup := f.index[id]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateStep, id)
		}
		f.index[id] = i
	}
	return nil
}

// StartingPoint associates a top-level option set with a flow and the
// statement type tag recorded on the resulting path's first entry.
type StartingPoint struct {
	Options       []string             `json:"options,omitempty" yaml:"options,omitempty"`
	OptionsSource models.SourceName    `json:"optionsSource,omitempty" yaml:"optionsSource,omitempty"`
	Flow          models.FlowName      `json:"flow" yaml:"flow"`
	Type          models.StatementType `json:"type" yaml:"type"`
	// FirstStep overrides the entered flow's first step when set.
	FirstStep models.StepID `json:"firstStep,omitempty" yaml:"firstStep,omitempty"`
}

// Schema is a full flow definition document.
type Schema struct {
	StartingPoints []StartingPoint           `json:"startingPoints" yaml:"startingPoints"`
	Flows          map[models.FlowName]*Flow `json:"flows" yaml:"flows"`
}

// Flow returns the named flow definition.
func (s *Schema) Flow(name models.FlowName) (*Flow, bool) {
	f, ok := s.Flows[name]
	return f, ok
}

// Validate checks the structural invariants of the schema: every flow has
// steps with unique identifiers, every non-terminal transition resolves to a
// step present in the same flow, and every starting point names a known flow.
func (s *Schema) Validate() error {
	if len(s.Flows) == 0 {
		return ErrNoFlows
	}
	if len(s.StartingPoints) == 0 {
		return ErrNoStartingPoints
	}
	for name, flow := range s.Flows {
		if len(flow.Steps) == 0 {
			return fmt.Errorf("flow %s: %w", name, ErrEmptyFlow)
		}
		if err := flow.buildIndex(); err != nil {
			return fmt.Errorf("flow %s: %w", name, err)
		}
		for i := range flow.Steps {
			step := &flow.Steps[i]
			if len(step.Options) == 0 && step.OptionsSource == "" && !step.IsModule() {
				return fmt.Errorf("flow %s step %s: %w", name, step.Step, ErrNoOptions)
			}
			for _, target := range step.Next.Targets() {
				if !flow.HasStep(target) {
					return fmt.Errorf("flow %s step %s: %w: %s", name, step.Step, ErrUnknownNextTarget, target)
				}
			}
		}
	}
	for i := range s.StartingPoints {
		sp := &s.StartingPoints[i]
		flow, ok := s.Flows[sp.Flow]
		if !ok {
			return fmt.Errorf("starting point %d: %w: %s", i, ErrUnknownFlow, sp.Flow)
		}
		if sp.FirstStep != "" && !flow.HasStep(sp.FirstStep) {
			return fmt.Errorf("starting point %d: first step %s not in flow %s", i, sp.FirstStep, sp.Flow)
		}
	}
	return nil
}
