// Package models defines the core data structures for ClerkPipe.
//
// It includes the path/statement types shared by the flow engine, the text
// constructors, and the history store.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StatementType classifies a finished or in-progress path. The first entry of
// a path carries its statement type as the entry's step identifier, so a
// stored path remains self-describing.
type StatementType string

const (
	// StatementMemberAction covers plain member actions (Moved/Seconded/Withdrew).
	StatementMemberAction StatementType = "member"
	// StatementVoteAction covers roll call votes with a tally module.
	StatementVoteAction StatementType = "voteAction"
	// StatementVoiceVote covers voice votes on a subject.
	StatementVoiceVote StatementType = "voiceVote"
	// StatementMotionFailed covers motions that failed without a vote.
	StatementMotionFailed StatementType = "motionFailed"
	// StatementMeetingAction covers procedural meeting events.
	StatementMeetingAction StatementType = "meetingAction"
	// StatementIntroducedBill covers bill introductions by a member.
	StatementIntroducedBill StatementType = "introducedBill"
	// StatementTestimony covers testimony entries built by the testimony sub-flow.
	StatementTestimony StatementType = "testimony"
	// StatementCustom covers free-text statements ingested from outside.
	StatementCustom StatementType = "custom"
)

// IsValidStatementType checks if the given statement type is supported.
func IsValidStatementType(st StatementType) bool {
	switch st {
	case StatementMemberAction, StatementVoteAction, StatementVoiceVote,
		StatementMotionFailed, StatementMeetingAction, StatementIntroducedBill,
		StatementTestimony, StatementCustom:
		return true
	default:
		return false
	}
}

// Error variables for better error handling and testability
var (
	ErrNoActiveFlow       = errors.New("no flow is active")
	ErrNoMatchingStart    = errors.New("option does not match any starting point")
	ErrUnknownStep        = errors.New("step not defined in active flow")
	ErrNotModuleStep      = errors.New("current step is not a module step")
	ErrModuleStep         = errors.New("current step requires a module value")
	ErrIndexOutOfRange    = errors.New("path index out of range")
	ErrStepNotOptional    = errors.New("current step cannot be skipped")
	ErrEmptyPath          = errors.New("path is empty")
	ErrMissingPosition    = errors.New("testimony position is required")
	ErrTestimonyFinalized = errors.New("testimony entry is already finalized")
	ErrNoPendingQuestion  = errors.New("no confirmation is pending")
	ErrEntryNotFound      = errors.New("history entry not found")
)

// PathEntry records one chosen step of a statement path.
//
// Value holds either the literal option string or, for module steps, a
// JSON-serialized compound result. Display caches a human-readable rendering
// of module values so raw JSON is never shown. Details is populated only for
// testimony paths.
type PathEntry struct {
	Step     StepID            `json:"step"`
	Value    string            `json:"value"`
	MemberNo string            `json:"memberNo,omitempty"`
	Display  string            `json:"display,omitempty"`
	Details  *TestimonyDetails `json:"details,omitempty"`
}

// Path is the ordered record of choices for one statement. The first entry's
// step identifier doubles as the path's statement type tag.
type Path []PathEntry

// Type returns the statement type tag recorded in the first entry, or
// StatementCustom for tags this build does not recognize.
func (p Path) Type() StatementType {
	if len(p) == 0 {
		return StatementCustom
	}
	st := StatementType(p[0].Step)
	if !IsValidStatementType(st) {
		return StatementCustom
	}
	return st
}

// Find returns the first entry whose step matches id, or nil.
func (p Path) Find(id StepID) *PathEntry {
	for i := range p {
		if p[i].Step == id {
			return &p[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the path safe to store or mutate independently.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	for i := range out {
		if out[i].Details != nil {
			d := *out[i].Details
			out[i].Details = &d
		}
	}
	return out
}

// VoteTally is the compound result of a vote module step.
type VoteTally struct {
	For     int `json:"for"`
	Against int `json:"against"`
	Neutral int `json:"neutral"`
}

// Outcome reports "Passed" or "Failed" for the tally. Ties fail.
func (v VoteTally) Outcome() string {
	if v.For > v.Against {
		return "Passed"
	}
	return "Failed"
}

// Display renders the tally as "for-against-neutral".
func (v VoteTally) Display() string {
	return fmt.Sprintf("%d-%d-%d", v.For, v.Against, v.Neutral)
}

// Encode serializes the tally for storage in a module path entry.
func (v VoteTally) Encode() string {
	data, err := json.Marshal(v)
	if err != nil {
		// VoteTally has no unmarshalable fields; this cannot happen.
		return "{}"
	}
	return string(data)
}

// ParseVoteTally decodes a module entry value back into a tally.
func ParseVoteTally(value string) (VoteTally, error) {
	var v VoteTally
	if err := json.Unmarshal([]byte(value), &v); err != nil {
		return VoteTally{}, fmt.Errorf("failed to parse vote tally %q: %w", value, err)
	}
	return v, nil
}

// HistoryEntry is one finalized statement in the session history.
type HistoryEntry struct {
	ID   string    `json:"id"`
	Time time.Time `json:"time"`
	Path Path      `json:"path"`
	Text string    `json:"text"`
	Link string    `json:"link,omitempty"`
	Bill string    `json:"bill,omitempty"`
}

// UncategorizedBill is the grouping key for entries without a bill.
const UncategorizedBill = "Uncategorized"

// NormalizeBill maps blank bill names to UncategorizedBill.
func NormalizeBill(bill string) string {
	if bill == "" {
		return UncategorizedBill
	}
	return bill
}

// ContextMemory is the session-scoped working memory that biases option
// ordering for the next statement. It survives finalize and is reset only by
// an explicit history clear.
type ContextMemory struct {
	LastAction           string `json:"lastAction,omitempty"`
	LastMovedDetail      string `json:"lastMovedDetail,omitempty"`
	LastRereferCommittee string `json:"lastRereferCommittee,omitempty"`
	AmendmentPassed      bool   `json:"amendmentPassed,omitempty"`
}

// Reset clears all remembered bias state.
func (c *ContextMemory) Reset() {
	*c = ContextMemory{}
}
