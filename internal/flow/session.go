// Package flow implements the path engine and option resolver that drive
// statement entry.
//
// A session walks one flow definition at a time: selecting an option advances
// the path, any past step can be edited with downstream invalidation, and the
// last step can be removed. The engine owns no global state; everything lives
// on the SessionState passed into each operation.
package flow

import (
	"time"

	"github.com/gavelworks/clerkpipe/internal/models"
)

// SessionState is the complete mutable state of one entry session.
type SessionState struct {
	Path        models.Path          `json:"path"`
	CurrentFlow models.FlowName      `json:"currentFlow,omitempty"`
	CurrentStep models.StepID        `json:"currentStep,omitempty"`
	Context     models.ContextMemory `json:"context"`
	Committee   string               `json:"committee,omitempty"`

	// PathStart is set the first time the path becomes non-empty and is the
	// fallback statement time when the clerk did not pre-mark a moment.
	PathStart  time.Time `json:"pathStart,omitempty"`
	MarkedTime time.Time `json:"markedTime,omitempty"`
}

// Active reports whether a flow has been entered.
func (s *SessionState) Active() bool {
	return s.CurrentFlow != ""
}

// MarkTime records a pre-marked moment used as the next statement's time.
func (s *SessionState) MarkTime(t time.Time) {
	s.MarkedTime = t
}

// statementTime picks the time for a finalizing statement: the marked time if
// set, else the time the first token was chosen, else now.
func (s *SessionState) statementTime() time.Time {
	if !s.MarkedTime.IsZero() {
		return s.MarkedTime
	}
	if !s.PathStart.IsZero() {
		return s.PathStart
	}
	return time.Now()
}
