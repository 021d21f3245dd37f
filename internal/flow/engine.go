// Package flow implements the path engine state machine.
package flow

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gavelworks/clerkpipe/internal/models"
	"github.com/gavelworks/clerkpipe/internal/schema"
)

// Engine walks flow definitions on behalf of a session. It holds only
// immutable collaborators; all mutable state lives on the SessionState.
type Engine struct {
	schema *schema.Schema
	dir    Directory
}

// NewEngine creates a path engine over a validated schema and a directory.
func NewEngine(sch *schema.Schema, dir Directory) *Engine {
	slog.Debug("Creating flow engine", "flows", len(sch.Flows), "starting_points", len(sch.StartingPoints))
	return &Engine{schema: sch, dir: dir}
}

// Schema exposes the loaded flow definition, for callers that present it.
func (e *Engine) Schema() *schema.Schema {
	return e.schema
}

// SelectOption advances the session by one chosen value. With no flow active
// it enters the starting point matching the value; with a flow active it
// records the value for the current step and computes the next step. A value
// matching no starting point is a no-op, since the UI only offers options the
// resolver produced.
func (e *Engine) SelectOption(s *SessionState, value string) error {
	if !s.Active() {
		return e.enterFlow(s, value)
	}
	fl, ok := e.schema.Flow(s.CurrentFlow)
	if !ok {
		return models.ErrNoActiveFlow
	}
	if s.CurrentStep == "" {
		// Path is complete; nothing to select.
		return nil
	}
	def, ok := fl.Step(s.CurrentStep)
	if !ok {
		return models.ErrUnknownStep
	}
	if def.IsModule() {
		return models.ErrModuleStep
	}
	s.Path = append(s.Path, models.PathEntry{Step: def.Step, Value: value})
	s.CurrentStep = e.nextStep(fl, def, value, s)
	slog.Debug("Option selected", "flow", s.CurrentFlow, "step", def.Step, "next", s.CurrentStep)
	return nil
}

// SelectModule records a compound module result for the current step. The
// module sub-form itself is external; the caller supplies the finished tally.
func (e *Engine) SelectModule(s *SessionState, tally models.VoteTally) error {
	if !s.Active() {
		return models.ErrNoActiveFlow
	}
	fl, ok := e.schema.Flow(s.CurrentFlow)
	if !ok {
		return models.ErrNoActiveFlow
	}
	def, ok := fl.Step(s.CurrentStep)
	if !ok {
		return models.ErrUnknownStep
	}
	if !def.IsModule() {
		return models.ErrNotModuleStep
	}
	s.Path = append(s.Path, models.PathEntry{
		Step:    def.Step,
		Value:   tally.Encode(),
		Display: tally.Display(),
	})
	s.CurrentStep = e.nextStep(fl, def, "", s)
	slog.Debug("Module recorded", "flow", s.CurrentFlow, "step", def.Step, "tally", tally.Display(), "next", s.CurrentStep)
	return nil
}

// Skip advances past the current step without choosing a value. Only optional
// steps can be skipped.
func (e *Engine) Skip(s *SessionState) error {
	if !s.Active() || s.CurrentStep == "" {
		return models.ErrNoActiveFlow
	}
	fl, ok := e.schema.Flow(s.CurrentFlow)
	if !ok {
		return models.ErrNoActiveFlow
	}
	def, ok := fl.Step(s.CurrentStep)
	if !ok {
		return models.ErrUnknownStep
	}
	if !def.Optional {
		return models.ErrStepNotOptional
	}
	s.CurrentStep = def.Next.Target("")
	return nil
}

// RemoveLast pops the last path entry. An emptied path clears the active
// flow; otherwise the current flow and step are re-derived from what remains.
func (e *Engine) RemoveLast(s *SessionState) {
	if len(s.Path) == 0 {
		return
	}
	s.Path = s.Path[:len(s.Path)-1]
	if len(s.Path) == 0 {
		s.CurrentFlow = ""
		s.CurrentStep = ""
		s.PathStart = time.Time{}
		return
	}
	sp := e.startingPointFor(s.Path.Type())
	if sp == nil {
		s.CurrentFlow = ""
		s.CurrentStep = ""
		return
	}
	s.CurrentFlow = sp.Flow
	fl, ok := e.schema.Flow(sp.Flow)
	if !ok {
		s.CurrentStep = ""
		return
	}
	if len(s.Path) == 1 {
		s.CurrentStep = e.entryStep(sp, fl)
		return
	}
	last := s.Path[len(s.Path)-1]
	if def, ok := fl.Step(last.Step); ok {
		s.CurrentStep = e.nextStep(fl, def, last.Value, s)
	} else {
		s.CurrentStep = ""
	}
}

// Cancel discards the in-progress path but keeps the session's working memory.
func (e *Engine) Cancel(s *SessionState) {
	s.Path = nil
	s.CurrentFlow = ""
	s.CurrentStep = ""
	s.PathStart = time.Time{}
	s.MarkedTime = time.Time{}
}

// IsTerminal reports whether the path represents a complete statement. Many
// flows also allow finalizing early; this only signals that no further step
// is expected.
func (e *Engine) IsTerminal(s *SessionState) bool {
	return len(s.Path) > 0 && s.CurrentStep == ""
}

// Finalize snapshots and clears the path, computes the statement time, and
// folds the statement into the session's working memory. The context memory
// survives finalize; only an explicit history clear resets it.
func (e *Engine) Finalize(s *SessionState) (models.Path, time.Time, error) {
	if len(s.Path) == 0 {
		return nil, time.Time{}, models.ErrEmptyPath
	}
	snapshot := s.Path.Clone()
	at := s.statementTime()
	e.updateContext(s, snapshot)
	s.Path = nil
	s.CurrentFlow = ""
	s.CurrentStep = ""
	s.PathStart = time.Time{}
	s.MarkedTime = time.Time{}
	slog.Info("Path finalized", "type", snapshot.Type(), "entries", len(snapshot))
	return snapshot, at, nil
}

// enterFlow identifies the starting point matching the first chosen value and
// pushes the type-tagged first entry. Committee membership wins over static
// starting point lists.
func (e *Engine) enterFlow(s *SessionState, value string) error {
	sp := e.matchStartingPoint(s, value)
	if sp == nil {
		slog.Debug("No starting point matches option, ignoring", "value", value)
		return nil
	}
	fl, ok := e.schema.Flow(sp.Flow)
	if !ok {
		return models.ErrNoActiveFlow
	}
	s.Path = models.Path{{Step: models.StepID(sp.Type), Value: value}}
	s.CurrentFlow = sp.Flow
	s.CurrentStep = e.entryStep(sp, fl)
	if s.PathStart.IsZero() {
		s.PathStart = time.Now()
	}
	slog.Debug("Flow entered", "flow", sp.Flow, "type", sp.Type, "first_step", s.CurrentStep)
	return nil
}

// matchStartingPoint finds the starting point whose option pool contains value.
func (e *Engine) matchStartingPoint(s *SessionState, value string) *schema.StartingPoint {
	var fallback *schema.StartingPoint
	for i := range e.schema.StartingPoints {
		sp := &e.schema.StartingPoints[i]
		if sp.OptionsSource != "" {
			if containsOption(e.sourceOptions(sp.OptionsSource, s), value) {
				return sp
			}
			continue
		}
		if fallback == nil && containsOption(sp.Options, value) {
			fallback = sp
		}
	}
	return fallback
}

// startingPointFor finds the starting point that produces the given type tag.
func (e *Engine) startingPointFor(st models.StatementType) *schema.StartingPoint {
	for i := range e.schema.StartingPoints {
		if e.schema.StartingPoints[i].Type == st {
			return &e.schema.StartingPoints[i]
		}
	}
	return nil
}

// entryStep picks the step a freshly entered flow starts on.
func (e *Engine) entryStep(sp *schema.StartingPoint, fl *schema.Flow) models.StepID {
	if sp.FirstStep != "" {
		return sp.FirstStep
	}
	return fl.First()
}

// nextStep resolves the transition out of a step, applying the engine-level
// special cases layered on top of the declared mapping: a rereferral always
// advances to the flow's vote module when it has one, a finished module skips
// the carrier prompt when the base motion was a reconsideration, and the
// carrier prompt branches only on the exact carried-the-bill option.
func (e *Engine) nextStep(fl *schema.Flow, def *schema.StepDef, value string, s *SessionState) models.StepID {
	switch {
	case def.Step == models.StepRereferCommittee && fl.HasStep(models.StepVoteModule):
		return models.StepVoteModule
	case def.IsModule():
		if e.baseMotion(s) == models.OptionReconsider {
			return ""
		}
		if fl.HasStep(models.StepCarryBillPrompt) {
			return models.StepCarryBillPrompt
		}
		return def.Next.Target(value)
	case def.Step == models.StepCarryBillPrompt:
		if value == models.OptionCarriedTheBill && fl.HasStep(models.StepBillCarrier) {
			return models.StepBillCarrier
		}
		return ""
	}
	return def.Next.Target(value)
}

// baseMotion finds the base motion type for the in-progress path: a recorded
// motion step wins, then the remembered last moved detail.
func (e *Engine) baseMotion(s *SessionState) string {
	if entry := s.Path.Find(models.StepMotionType); entry != nil {
		return entry.Value
	}
	if entry := s.Path.Find(models.StepMovedDetail); entry != nil {
		return entry.Value
	}
	return s.Context.LastMovedDetail
}

// updateContext folds a finalized path into the session's working memory.
func (e *Engine) updateContext(s *SessionState, p models.Path) {
	switch p.Type() {
	case models.StatementMemberAction:
		if entry := p.Find(models.StepAction); entry != nil {
			s.Context.LastAction = entry.Value
		}
		if entry := p.Find(models.StepMovedDetail); entry != nil {
			s.Context.LastMovedDetail = entry.Value
		}
		if entry := p.Find(models.StepRereferCommittee); entry != nil {
			s.Context.LastRereferCommittee = entry.Value
		}
	case models.StatementVoteAction:
		if entry := p.Find(models.StepMotionType); entry != nil {
			s.Context.LastMovedDetail = entry.Value
		}
		if entry := p.Find(models.StepRereferCommittee); entry != nil {
			s.Context.LastRereferCommittee = entry.Value
		}
	case models.StatementVoiceVote:
		subject := p.Find(models.StepVoiceSubject)
		outcome := p.Find(models.StepVoiceOutcome)
		if subject != nil && outcome != nil &&
			strings.Contains(subject.Value, models.OptionAmendment) &&
			outcome.Value == models.OptionPassed {
			// Sticky until the history is cleared.
			s.Context.AmendmentPassed = true
		}
	}
}
