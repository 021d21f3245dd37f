// Package flow implements retroactive step editing with downstream invalidation.
package flow

import (
	"log/slog"

	"github.com/gavelworks/clerkpipe/internal/models"
	"github.com/gavelworks/clerkpipe/internal/schema"
)

// EditStep replaces the value of an arbitrary past step, then re-derives the
// downstream path. Entries that remain valid options under the new branch are
// kept; the path truncates at the first invalidation. For the modifier steps
// of a vote flow, a branch change tries to preserve an already-entered vote
// tally and its successors when the module step is still reachable from the
// new branch, re-inserting a synthetic default rereferral when the new branch
// requires one the old path lacked.
func (e *Engine) EditStep(s *SessionState, index int, newValue string) error {
	if index < 0 || index >= len(s.Path) {
		return models.ErrIndexOutOfRange
	}
	if index == 0 {
		return e.editFirst(s, newValue)
	}
	fl, ok := e.schema.Flow(s.CurrentFlow)
	if !ok {
		// A finalized path being edited in history: derive the flow from the tag.
		sp := e.startingPointFor(s.Path.Type())
		if sp == nil {
			return models.ErrNoActiveFlow
		}
		s.CurrentFlow = sp.Flow
		fl, ok = e.schema.Flow(sp.Flow)
		if !ok {
			return models.ErrNoActiveFlow
		}
	}
	def, ok := fl.Step(s.Path[index].Step)
	if !ok {
		return models.ErrUnknownStep
	}

	oldValue := s.Path[index].Value
	oldPath := s.Path.Clone()
	s.Path[index].Value = newValue

	oldNext := e.nextStep(fl, def, oldValue, s)
	newNext := e.nextStep(fl, def, newValue, s)
	if oldNext == newNext {
		// Same branch target: downstream entries stay untouched.
		return nil
	}

	kept, cur := e.revalidateForward(fl, s, oldPath, index, newNext)

	// Preserve-if-reachable carve-out for the vote flow's modifier steps: do
	// not discard an entered tally merely because "as Amended" was toggled.
	if e.preservesVoteModule(fl, def.Step) {
		if preserved, pcur, ok := e.preserveVoteModule(fl, s, oldPath, index, newNext, kept); ok {
			s.Path = preserved
			s.CurrentStep = pcur
			slog.Debug("Edit preserved vote module", "step", def.Step, "entries", len(preserved))
			return nil
		}
	}

	s.Path = kept
	s.CurrentStep = cur
	slog.Debug("Edit revalidated downstream path", "step", def.Step, "kept", len(kept), "next", cur)
	return nil
}

// editFirst replaces the first token. A value entering the same flow keeps the
// downstream entries; a value matching a different starting point re-enters
// from scratch.
func (e *Engine) editFirst(s *SessionState, newValue string) error {
	sp := e.matchStartingPoint(s, newValue)
	if sp == nil || models.StepID(sp.Type) == s.Path[0].Step {
		s.Path[0].Value = newValue
		return nil
	}
	s.Path = nil
	s.CurrentFlow = ""
	s.CurrentStep = ""
	return e.enterFlow(s, newValue)
}

// revalidateForward simulates the flow from the edited step's new branch over
// the old downstream entries, keeping each entry whose value is still a valid
// option at the step the walk expects. Returns the kept path and the step the
// walk ends on.
func (e *Engine) revalidateForward(fl *schema.Flow, s *SessionState, oldPath models.Path, index int, newNext models.StepID) (models.Path, models.StepID) {
	kept := oldPath[:index+1].Clone()
	kept[index].Value = s.Path[index].Value
	cur := newNext
	for m := index + 1; m < len(oldPath); m++ {
		if cur == "" {
			break
		}
		def, ok := fl.Step(cur)
		if !ok || oldPath[m].Step != cur {
			break
		}
		if !def.IsModule() && !containsOption(e.resolveStep(def, s), oldPath[m].Value) {
			break
		}
		kept = append(kept, oldPath[m])
		cur = e.nextStep(fl, def, oldPath[m].Value, s)
	}
	return kept, cur
}

// preservesVoteModule reports whether the edited step participates in the
// vote-module preservation carve-out.
func (e *Engine) preservesVoteModule(fl *schema.Flow, step models.StepID) bool {
	if !fl.HasStep(models.StepVoteModule) {
		return false
	}
	return step == models.StepMotionModifiers || step == models.StepAfterAmended
}

// preserveVoteModule attempts to retain the old path's trailing vote module
// entry and everything after it. The module must be reachable by walking the
// flow graph forward from where the revalidated prefix left off; the walk
// advances through default transitions and inserts a synthetic default
// rereferral entry when it lands on the rereferral step without an old entry
// to reuse.
func (e *Engine) preserveVoteModule(fl *schema.Flow, s *SessionState, oldPath models.Path, index int, newNext models.StepID, kept models.Path) (models.Path, models.StepID, bool) {
	j := -1
	for m := index + 1; m < len(oldPath); m++ {
		if oldPath[m].Step == models.StepVoteModule {
			j = m
			break
		}
	}
	if j == -1 {
		return nil, "", false
	}
	// Did the revalidated prefix already keep the module? Nothing to rescue.
	for _, entry := range kept {
		if entry.Step == models.StepVoteModule {
			return nil, "", false
		}
	}
	cur := newNext
	if len(kept) > index+1 {
		last := kept[len(kept)-1]
		if def, ok := fl.Step(last.Step); ok {
			cur = e.nextStep(fl, def, last.Value, s)
		}
	}
	if !reachable(fl, cur, models.StepVoteModule) {
		return nil, "", false
	}

	out := kept.Clone()
	// Bridge from cur to the module, consuming at most the flow's step count.
	for guard := 0; cur != models.StepVoteModule && guard < len(fl.Steps); guard++ {
		def, ok := fl.Step(cur)
		if !ok {
			return nil, "", false
		}
		if cur == models.StepRereferCommittee {
			entry := bridgeRereferEntry(oldPath, index, j)
			if entry == nil {
				entry = &models.PathEntry{
					Step:  models.StepRereferCommittee,
					Value: e.dir.DefaultRereferTarget(s.Committee),
				}
			}
			out = append(out, *entry)
			cur = e.nextStep(fl, def, entry.Value, s)
			continue
		}
		// Steps without a recorded value pass through their default branch.
		next := def.Next.Target("")
		if next == "" || !reachable(fl, next, models.StepVoteModule) {
			return nil, "", false
		}
		cur = next
	}
	if cur != models.StepVoteModule {
		return nil, "", false
	}

	out = append(out, oldPath[j:]...)
	for m := j; m < len(oldPath); m++ {
		def, ok := fl.Step(oldPath[m].Step)
		if !ok {
			cur = ""
			break
		}
		cur = e.nextStep(fl, def, oldPath[m].Value, s)
	}
	return out, cur, true
}

// bridgeRereferEntry finds an old rereferral entry between the edit point and
// the vote module, for reuse when the new branch routes through a rereferral.
func bridgeRereferEntry(oldPath models.Path, index, j int) *models.PathEntry {
	for m := index + 1; m < j; m++ {
		if oldPath[m].Step == models.StepRereferCommittee {
			entry := oldPath[m]
			return &entry
		}
	}
	return nil
}

// reachable walks the flow graph from start following every declared
// transition and reports whether target can be reached.
func reachable(fl *schema.Flow, start, target models.StepID) bool {
	if start == target {
		return true
	}
	seen := make(map[models.StepID]bool)
	queue := []models.StepID{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == target {
			return true
		}
		if cur == "" || seen[cur] {
			continue
		}
		seen[cur] = true
		def, ok := fl.Step(cur)
		if !ok {
			continue
		}
		queue = append(queue, def.Next.Targets()...)
	}
	return false
}
