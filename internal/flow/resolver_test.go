package flow

import (
	"reflect"
	"testing"

	"github.com/gavelworks/clerkpipe/internal/models"
)

func TestReorderModifiers(t *testing.T) {
	declared := []string{models.OptionTakeTheVote, models.OptionAsAmended, models.OptionAndRereferred}
	tests := []struct {
		name string
		ctx  models.ContextMemory
		want []string
	}{
		{
			name: "no memory keeps vote first",
			ctx:  models.ContextMemory{},
			want: []string{models.OptionTakeTheVote, models.OptionAsAmended, models.OptionAndRereferred},
		},
		{
			name: "passed amendment promotes as amended",
			ctx:  models.ContextMemory{AmendmentPassed: true},
			want: []string{models.OptionAsAmended, models.OptionTakeTheVote, models.OptionAndRereferred},
		},
		{
			name: "remembered rereferral promotes and rereferred",
			ctx:  models.ContextMemory{LastRereferCommittee: "Senate Appropriations Committee"},
			want: []string{models.OptionAndRereferred, models.OptionTakeTheVote, models.OptionAsAmended},
		},
		{
			name: "both promote amendment then rereferral",
			ctx: models.ContextMemory{
				AmendmentPassed:      true,
				LastRereferCommittee: "Senate Appropriations Committee",
			},
			want: []string{models.OptionAsAmended, models.OptionAndRereferred, models.OptionTakeTheVote},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reorderModifiers(declared, tt.ctx)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("reorderModifiers() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReorderModifiersKeepsUndeclaredOut(t *testing.T) {
	// The member flow declares no "Take the Vote"; the order must not invent it.
	declared := []string{models.OptionAsAmended, models.OptionAndRereferred}
	got := reorderModifiers(declared, models.ContextMemory{})
	want := []string{models.OptionAsAmended, models.OptionAndRereferred}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("reorderModifiers() = %v, want %v", got, want)
	}
}

func TestReorderAfterAmended(t *testing.T) {
	declared := []string{models.OptionTakeTheVote, models.OptionAndRereferred}

	got := reorderAfterAmended(declared, models.ContextMemory{})
	if !reflect.DeepEqual(got, declared) {
		t.Errorf("expected declared order without memory, got %v", got)
	}

	got = reorderAfterAmended(declared, models.ContextMemory{LastRereferCommittee: "Senate Education Committee"})
	want := []string{models.OptionAndRereferred, models.OptionTakeTheVote}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("reorderAfterAmended() = %v, want %v", got, want)
	}
}

func TestReorderAction(t *testing.T) {
	declared := []string{models.OptionMoved, models.OptionSeconded, models.OptionWithdrew}
	tests := []struct {
		name string
		last string
		want []string
	}{
		{"no memory", "", declared},
		{"after moved", models.OptionMoved, []string{models.OptionSeconded, models.OptionMoved, models.OptionWithdrew}},
		{"after seconded", models.OptionSeconded, []string{models.OptionMoved, models.OptionSeconded, models.OptionWithdrew}},
		{"after withdrew", models.OptionWithdrew, []string{models.OptionMoved, models.OptionSeconded, models.OptionWithdrew}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reorderAction(declared, models.ContextMemory{LastAction: tt.last})
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("reorderAction() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTopLevelOptionsConcatenatePools(t *testing.T) {
	e := newTestEngine(t)
	var s SessionState
	s.Committee = "Senate Judiciary Committee"

	opts := e.Options(&s)
	for _, want := range []string{"Senator Doe", "Roll Call Vote", "Voice Vote", "Motion Failed", "Meeting Adjourned", "Introduced Bill"} {
		if !containsOption(opts, want) {
			t.Errorf("top-level options missing %q: %v", want, opts)
		}
	}
}

func TestOptionsDoNotMutateSession(t *testing.T) {
	e := newTestEngine(t)
	var s SessionState
	s.Committee = "Senate Judiciary Committee"

	mustSelect(t, e, &s, "Senator Doe")
	before := s.Path.Clone()
	step := s.CurrentStep
	e.Options(&s)
	if !reflect.DeepEqual(before, s.Path) || step != s.CurrentStep {
		t.Fatal("Options mutated the session")
	}
}
