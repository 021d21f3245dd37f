package flow

import (
	"testing"

	"github.com/gavelworks/clerkpipe/internal/models"
)

// stubLookup resolves a single known member number.
type stubLookup struct{}

func (stubLookup) LookupMemberNo(lastName, title, firstInitial string) string {
	if lastName == "Smith" && title == "Senator" {
		return "417"
	}
	return ""
}

func TestTestimonyRequiresPosition(t *testing.T) {
	m := NewTestimonyMachine(stubLookup{})
	entry := m.Begin()
	_, err := m.Submit(entry, models.TestimonyDetails{Name: "Pat Jones"})
	if err == nil {
		t.Fatal("expected rejection of testimony without a position")
	}
	if entry.State == models.TestimonyFinalized {
		t.Error("rejected submission must not finalize")
	}
}

func TestTestimonyPlainWitnessFinalizes(t *testing.T) {
	m := NewTestimonyMachine(stubLookup{})
	entry := m.Begin()
	q, err := m.Submit(entry, models.TestimonyDetails{
		Name:     "Pat Jones",
		Role:     "Director",
		Position: models.PositionFavor,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if q != nil {
		t.Fatalf("expected no prompt for a plain witness, got %v", q)
	}
	if entry.State != models.TestimonyFinalized {
		t.Errorf("expected finalized state, got %q", entry.State)
	}
}

func TestTestimonyMemberKeywordPrompts(t *testing.T) {
	m := NewTestimonyMachine(stubLookup{})
	entry := m.Begin()
	q, err := m.Submit(entry, models.TestimonyDetails{
		Name:         "John Smith",
		Organization: "Senate Judiciary",
		Position:     models.PositionNeutral,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if q == nil || q.Kind != models.QuestionMember {
		t.Fatalf("expected member confirmation question, got %v", q)
	}
	if !entry.Details.PromptedForMember {
		t.Error("expected prompt latch set")
	}
}

func TestTestimonyPromptLatchIsOneShot(t *testing.T) {
	m := NewTestimonyMachine(stubLookup{})
	entry := m.Begin()
	if q, _ := m.Submit(entry, models.TestimonyDetails{
		Name:     "John Smith",
		Role:     "Senator",
		Position: models.PositionFavor,
	}); q == nil {
		t.Fatal("expected first submission to prompt")
	}

	// Editing and resubmitting before answering must not prompt again.
	q, err := m.Submit(entry, models.TestimonyDetails{
		Name:     "John Smith",
		Role:     "Senator",
		Position: models.PositionOpposition,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if q != nil {
		t.Fatalf("expected latched entry to finalize without prompting, got %v", q)
	}
	if entry.State != models.TestimonyFinalized {
		t.Errorf("expected finalized state, got %q", entry.State)
	}
}

func TestTestimonyResetPromptReenables(t *testing.T) {
	m := NewTestimonyMachine(stubLookup{})
	entry := m.Begin()
	entry.Details.PromptedForMember = true
	m.ResetPrompt(entry)
	q, err := m.Submit(entry, models.TestimonyDetails{
		Name:     "John Smith",
		Role:     "Senator",
		Position: models.PositionFavor,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if q == nil {
		t.Fatal("expected prompt after explicit latch reset")
	}
}

func TestTestimonyMemberNoAtEitherPromptFinalizes(t *testing.T) {
	m := NewTestimonyMachine(stubLookup{})
	entry := m.Begin()
	if q, _ := m.Submit(entry, models.TestimonyDetails{
		Name:     "John Smith",
		Role:     "Senator",
		Position: models.PositionFavor,
	}); q == nil {
		t.Fatal("expected member prompt")
	}
	q, err := m.Answer(entry, false)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if q != nil || entry.State != models.TestimonyFinalized {
		t.Fatalf("expected finalize on member 'no', state %q", entry.State)
	}
	if entry.Details.IntroducingBill {
		t.Error("a declined member prompt must not mark a bill introduction")
	}
}

func TestTestimonyConfirmationChain(t *testing.T) {
	m := NewTestimonyMachine(stubLookup{})
	entry := m.Begin()
	if q, _ := m.Submit(entry, models.TestimonyDetails{
		Name:     "John Smith",
		Role:     "Senator",
		Position: models.PositionFavor,
		Number:   "12",
	}); q == nil {
		t.Fatal("expected member prompt")
	}

	q, err := m.Answer(entry, true)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if q == nil || q.Kind != models.QuestionBill {
		t.Fatalf("expected serialized bill question, got %v", q)
	}
	if entry.Details.Title != "Senator" {
		t.Errorf("expected inferred title, got %q", entry.Details.Title)
	}
	if entry.Details.MemberNo != "417" {
		t.Errorf("expected member number resolved, got %q", entry.Details.MemberNo)
	}

	if _, err := m.Answer(entry, true); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if entry.State != models.TestimonyFinalized || !entry.Details.IntroducingBill {
		t.Fatalf("expected finalized bill introduction, state %q", entry.State)
	}

	path := entry.Path()
	if path.Type() != models.StatementTestimony {
		t.Errorf("expected testimony type tag, got %q", path.Type())
	}
	if path[0].MemberNo != "417" {
		t.Errorf("expected member number on path entry, got %q", path[0].MemberNo)
	}
	if path[0].Details == nil || path[0].Details.Number != "12" {
		t.Error("expected structured details carried on the path")
	}
}

func TestTestimonyAnswerWithoutPrompt(t *testing.T) {
	m := NewTestimonyMachine(stubLookup{})
	entry := m.Begin()
	if _, err := m.Answer(entry, true); err != models.ErrNoPendingQuestion {
		t.Fatalf("expected ErrNoPendingQuestion, got %v", err)
	}
}

func TestTestimonySubmitAfterFinalize(t *testing.T) {
	m := NewTestimonyMachine(stubLookup{})
	entry := m.Begin()
	if _, err := m.Submit(entry, models.TestimonyDetails{
		Name:     "Pat Jones",
		Position: models.PositionFavor,
	}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := m.Submit(entry, models.TestimonyDetails{
		Name:     "Pat Jones",
		Position: models.PositionNeutral,
	}); err != models.ErrTestimonyFinalized {
		t.Fatalf("expected ErrTestimonyFinalized, got %v", err)
	}
}
