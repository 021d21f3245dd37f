// Package flow implements the testimony sub-flow state machine.
package flow

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/gavelworks/clerkpipe/internal/models"
)

// memberKeywordRe matches role or organization text that suggests the witness
// is a sitting member, triggering the one-shot member confirmation prompt.
var memberKeywordRe = regexp.MustCompile(`(?i)\b(senator|representative|senate|house)\b`)

// MemberLookup resolves member numbers from the roster feed. Implemented by
// roster.Directory.
type MemberLookup interface {
	LookupMemberNo(lastName, title, firstInitial string) string
}

// Testimony is one testimony entry moving through the sub-flow. At most one
// confirmation chain is outstanding per entry, and the chain is serialized:
// the bill prompt is only offered after the member prompt resolves.
type Testimony struct {
	Details models.TestimonyDetails `json:"details"`
	State   models.TestimonyState   `json:"state"`
	Pending *models.Question        `json:"pending,omitempty"`
}

// TestimonyMachine drives testimony entries through submission and the
// confirmation chain.
type TestimonyMachine struct {
	lookup MemberLookup
}

// NewTestimonyMachine creates a testimony machine over a member lookup.
func NewTestimonyMachine(lookup MemberLookup) *TestimonyMachine {
	return &TestimonyMachine{lookup: lookup}
}

// Begin opens a new testimony entry in the collecting state.
func (m *TestimonyMachine) Begin() *Testimony {
	return &Testimony{State: models.TestimonyCollecting}
}

// Submit records the collected form fields. Position is required; submissions
// without one are rejected before any entry is created. When the role or
// organization text matches a member keyword and the entry has not been
// prompted before, the member confirmation question is returned for the
// caller to answer; otherwise the entry finalizes immediately.
func (m *TestimonyMachine) Submit(t *Testimony, details models.TestimonyDetails) (*models.Question, error) {
	if t.State == models.TestimonyFinalized {
		return nil, models.ErrTestimonyFinalized
	}
	// The prompt latch survives edits; carry it over from the prior details.
	details.PromptedForMember = details.PromptedForMember || t.Details.PromptedForMember
	if err := details.Validate(); err != nil {
		slog.Warn("Testimony submission rejected", "error", err)
		return nil, err
	}
	t.Details = details
	t.State = models.TestimonySubmitted

	if !t.Details.PromptedForMember &&
		(memberKeywordRe.MatchString(t.Details.Role) || memberKeywordRe.MatchString(t.Details.Organization)) {
		t.Details.PromptedForMember = true
		t.State = models.TestimonyAwaitingMember
		t.Pending = &models.Question{
			Kind: models.QuestionMember,
			Text: "Is this person a sitting senator or representative?",
		}
		slog.Debug("Testimony awaiting member confirmation", "name", t.Details.Name)
		return t.Pending, nil
	}
	m.finalize(t)
	return nil, nil
}

// Answer resolves the pending confirmation. A "no" at either prompt finalizes
// with the plain testimony phrasing; a "yes" at the member prompt with a
// determinable title advances to the bill prompt and attempts a member-number
// lookup.
func (m *TestimonyMachine) Answer(t *Testimony, yes bool) (*models.Question, error) {
	switch t.State {
	case models.TestimonyAwaitingMember:
		t.Pending = nil
		if !yes {
			m.finalize(t)
			return nil, nil
		}
		title := titleFromText(t.Details.Role)
		if title == "" {
			title = titleFromText(t.Details.Organization)
		}
		if title == "" {
			m.finalize(t)
			return nil, nil
		}
		t.Details.Title = title
		lastName, firstInitial := splitWitnessName(t.Details.Name)
		if lastName != "" {
			t.Details.MemberNo = m.lookup.LookupMemberNo(lastName, title, firstInitial)
		}
		t.State = models.TestimonyAwaitingBill
		t.Pending = &models.Question{
			Kind: models.QuestionBill,
			Text: "Are they introducing a bill?",
		}
		return t.Pending, nil
	case models.TestimonyAwaitingBill:
		t.Pending = nil
		if yes {
			t.Details.IntroducingBill = true
		}
		m.finalize(t)
		return nil, nil
	default:
		return nil, models.ErrNoPendingQuestion
	}
}

// ResetPrompt explicitly clears the one-shot member prompt latch so a later
// edit can re-trigger the confirmation chain.
func (m *TestimonyMachine) ResetPrompt(t *Testimony) {
	t.Details.PromptedForMember = false
}

// finalize closes the entry.
func (m *TestimonyMachine) finalize(t *Testimony) {
	t.Pending = nil
	t.State = models.TestimonyFinalized
	slog.Debug("Testimony finalized", "name", t.Details.Name, "member_no_set", t.Details.MemberNo != "")
}

// Path builds the one-entry statement path for a finalized testimony.
func (t *Testimony) Path() models.Path {
	details := t.Details
	return models.Path{{
		Step:     models.StepID(models.StatementTestimony),
		Value:    testimonyValue(&details),
		MemberNo: details.MemberNo,
		Details:  &details,
	}}
}

// testimonyValue renders the serialized display value stored on the entry.
func testimonyValue(d *models.TestimonyDetails) string {
	var parts []string
	for _, part := range []string{d.Name, d.Role, d.Organization, d.Position} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if d.Number != "" {
		parts = append(parts, "Testimony#"+d.Number)
	}
	return strings.Join(parts, " - ")
}

// titleFromText infers a chamber title from free role/organization text.
func titleFromText(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "senator"), strings.Contains(lower, "senate"):
		return "Senator"
	case strings.Contains(lower, "representative"), strings.Contains(lower, "house"):
		return "Representative"
	}
	return ""
}

// splitWitnessName extracts the surname and first initial from a witness name.
func splitWitnessName(name string) (lastName, firstInitial string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	lastName = parts[len(parts)-1]
	if len(parts) > 1 {
		firstInitial = parts[0][:1]
	}
	return lastName, firstInitial
}
