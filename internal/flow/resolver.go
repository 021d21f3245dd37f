// Package flow implements option resolution with context-sensitive reordering.
package flow

import (
	"github.com/gavelworks/clerkpipe/internal/models"
	"github.com/gavelworks/clerkpipe/internal/schema"
)

// Directory serves the dynamic option sources. Implemented by roster.Directory.
type Directory interface {
	CommitteeMembers(committee string) []string
	OtherCommittees(committee string) []string
	AllMembers(committee string) []string
	DefaultRereferTarget(committee string) string
}

// Options returns the ordered option list for the session's current position.
// At the top level (no flow entered) it concatenates every starting point's
// option pool. The resolver never mutates session state.
func (e *Engine) Options(s *SessionState) []string {
	if !s.Active() {
		return e.topLevelOptions(s)
	}
	fl, ok := e.schema.Flow(s.CurrentFlow)
	if !ok || s.CurrentStep == "" {
		return nil
	}
	def, ok := fl.Step(s.CurrentStep)
	if !ok {
		return nil
	}
	return e.resolveStep(def, s)
}

// topLevelOptions builds the combined candidate pool before a flow is entered.
func (e *Engine) topLevelOptions(s *SessionState) []string {
	var out []string
	for i := range e.schema.StartingPoints {
		sp := &e.schema.StartingPoints[i]
		if sp.OptionsSource != "" {
			out = append(out, e.sourceOptions(sp.OptionsSource, s)...)
			continue
		}
		out = append(out, sp.Options...)
	}
	return out
}

// resolveStep computes the ordered options for one step definition.
func (e *Engine) resolveStep(def *schema.StepDef, s *SessionState) []string {
	if def.OptionsSource != "" {
		opts := e.sourceOptions(def.OptionsSource, s)
		if def.Step == models.StepMotionType && s.Context.LastMovedDetail != "" {
			opts = promoteFront(opts, s.Context.LastMovedDetail)
		}
		return opts
	}
	opts := append([]string(nil), def.Options...)
	switch def.Step {
	case models.StepMotionModifiers:
		return reorderModifiers(opts, s.Context)
	case models.StepAfterAmended:
		return reorderAfterAmended(opts, s.Context)
	case models.StepAction:
		return reorderAction(opts, s.Context)
	}
	return opts
}

// sourceOptions dispatches a named dynamic option provider.
func (e *Engine) sourceOptions(src models.SourceName, s *SessionState) []string {
	switch src {
	case models.SourceCommitteeMembers:
		return e.dir.CommitteeMembers(s.Committee)
	case models.SourceOtherCommittees:
		return e.dir.OtherCommittees(s.Committee)
	case models.SourceAllMembers:
		return e.dir.AllMembers(s.Committee)
	case models.SourceMotionTypes:
		return append([]string(nil), models.SuggestedMotionTypes...)
	case models.SourceFailureReasons:
		return append([]string(nil), models.SuggestedFailureReasons...)
	}
	return nil
}

// reorderModifiers orders the post-motion modifier options from the session's
// working memory: a passed amendment and a remembered rereferral each pull
// their option forward.
func reorderModifiers(declared []string, ctx models.ContextMemory) []string {
	var order []string
	switch {
	case ctx.AmendmentPassed && ctx.LastRereferCommittee != "":
		order = []string{models.OptionAsAmended, models.OptionAndRereferred, models.OptionTakeTheVote}
	case ctx.AmendmentPassed:
		order = []string{models.OptionAsAmended, models.OptionTakeTheVote, models.OptionAndRereferred}
	case ctx.LastRereferCommittee != "":
		order = []string{models.OptionAndRereferred, models.OptionTakeTheVote, models.OptionAsAmended}
	default:
		order = []string{models.OptionTakeTheVote, models.OptionAsAmended, models.OptionAndRereferred}
	}
	return applyOrder(order, declared)
}

// reorderAfterAmended orders the follow-up options after "as Amended".
func reorderAfterAmended(declared []string, ctx models.ContextMemory) []string {
	order := []string{models.OptionTakeTheVote, models.OptionAndRereferred}
	if ctx.LastRereferCommittee != "" {
		order = []string{models.OptionAndRereferred, models.OptionTakeTheVote}
	}
	return applyOrder(order, declared)
}

// reorderAction promotes the likely next member action: a remembered "Moved"
// suggests "Seconded" comes next, and vice versa.
func reorderAction(declared []string, ctx models.ContextMemory) []string {
	switch ctx.LastAction {
	case models.OptionMoved:
		return promoteFront(declared, models.OptionSeconded)
	case models.OptionSeconded, models.OptionWithdrew:
		return promoteFront(declared, models.OptionMoved)
	}
	return declared
}

// applyOrder keeps the preferred order for options the step declares, then
// appends any remaining declared options in their original order.
func applyOrder(order, declared []string) []string {
	declaredSet := make(map[string]bool, len(declared))
	for _, o := range declared {
		declaredSet[o] = true
	}
	out := make([]string, 0, len(declared))
	used := make(map[string]bool, len(declared))
	for _, o := range order {
		if declaredSet[o] && !used[o] {
			out = append(out, o)
			used[o] = true
		}
	}
	for _, o := range declared {
		if !used[o] {
			out = append(out, o)
		}
	}
	return out
}

// promoteFront moves value to the front of opts when present.
func promoteFront(opts []string, value string) []string {
	for i, o := range opts {
		if o == value {
			out := make([]string, 0, len(opts))
			out = append(out, value)
			out = append(out, opts[:i]...)
			out = append(out, opts[i+1:]...)
			return out
		}
	}
	return opts
}

// containsOption reports membership in an option list.
func containsOption(opts []string, value string) bool {
	for _, o := range opts {
		if o == value {
			return true
		}
	}
	return false
}
