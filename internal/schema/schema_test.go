package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gavelworks/clerkpipe/internal/models"
)

func TestDefaultSchemaIsValid(t *testing.T) {
	s := Default()
	if len(s.StartingPoints) != 6 {
		t.Errorf("expected 6 starting points, got %d", len(s.StartingPoints))
	}
	for _, name := range []models.FlowName{"memberAction", "voteAction", "voiceVote", "motionFailed", "meetingAction", "introducedBill"} {
		if _, ok := s.Flow(name); !ok {
			t.Errorf("missing flow %s", name)
		}
	}

	vote, _ := s.Flow("voteAction")
	module, ok := vote.Step(models.StepVoteModule)
	if !ok || !module.IsModule() {
		t.Error("expected voteModule to be a module step")
	}
	if vote.First() != models.StepMotionType {
		t.Errorf("expected motionType first, got %q", vote.First())
	}
}

func TestNextSpecShapes(t *testing.T) {
	doc := []byte(`{
		"startingPoints": [{"options": ["Go"], "flow": "f", "type": "custom"}],
		"flows": {
			"f": {"steps": [
				{"step": "a", "options": ["x", "y"], "next": {"x": "b", "default": null}},
				{"step": "b", "options": ["z"], "next": "c"},
				{"step": "c", "options": ["w"], "next": null}
			]}
		}
	}`)
	s, err := ParseJSON(doc)
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	f, _ := s.Flow("f")

	a, _ := f.Step("a")
	if got := a.Next.Target("x"); got != "b" {
		t.Errorf("branch target = %q, want b", got)
	}
	if got := a.Next.Target("y"); got != "" {
		t.Errorf("default branch = %q, want terminal", got)
	}

	b, _ := f.Step("b")
	if got := b.Next.Target("anything"); got != "c" {
		t.Errorf("fixed target = %q, want c", got)
	}

	c, _ := f.Step("c")
	if !c.Next.Terminal() {
		t.Error("expected terminal next")
	}
}

func TestValidateRejectsUnknownTarget(t *testing.T) {
	doc := []byte(`{
		"startingPoints": [{"options": ["Go"], "flow": "f", "type": "custom"}],
		"flows": {
			"f": {"steps": [{"step": "a", "options": ["x"], "next": "ghost"}]}
		}
	}`)
	if _, err := ParseJSON(doc); !errors.Is(err, ErrUnknownNextTarget) {
		t.Fatalf("expected ErrUnknownNextTarget, got %v", err)
	}
}

func TestValidateRejectsDuplicateStep(t *testing.T) {
	doc := []byte(`{
		"startingPoints": [{"options": ["Go"], "flow": "f", "type": "custom"}],
		"flows": {
			"f": {"steps": [
				{"step": "a", "options": ["x"], "next": null},
				{"step": "a", "options": ["y"], "next": null}
			]}
		}
	}`)
	if _, err := ParseJSON(doc); !errors.Is(err, ErrDuplicateStep) {
		t.Fatalf("expected ErrDuplicateStep, got %v", err)
	}
}

func TestValidateRejectsUnknownFlow(t *testing.T) {
	doc := []byte(`{
		"startingPoints": [{"options": ["Go"], "flow": "ghost", "type": "custom"}],
		"flows": {
			"f": {"steps": [{"step": "a", "options": ["x"], "next": null}]}
		}
	}`)
	if _, err := ParseJSON(doc); !errors.Is(err, ErrUnknownFlow) {
		t.Fatalf("expected ErrUnknownFlow, got %v", err)
	}
}

func TestValidateRejectsStepWithoutOptions(t *testing.T) {
	doc := []byte(`{
		"startingPoints": [{"options": ["Go"], "flow": "f", "type": "custom"}],
		"flows": {
			"f": {"steps": [{"step": "a", "next": null}]}
		}
	}`)
	if _, err := ParseJSON(doc); !errors.Is(err, ErrNoOptions) {
		t.Fatalf("expected ErrNoOptions, got %v", err)
	}
}

func TestLoadFileYAML(t *testing.T) {
	doc := `
startingPoints:
  - options: ["Go"]
    flow: f
    type: custom
flows:
  f:
    steps:
      - step: a
        options: ["x", "y"]
        next:
          x: b
          default: null
      - step: b
        options: ["z"]
        next: null
`
	path := filepath.Join(t.TempDir(), "flows.yaml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	f, ok := s.Flow("f")
	if !ok {
		t.Fatal("missing flow f")
	}
	a, _ := f.Step("a")
	if got := a.Next.Target("x"); got != "b" {
		t.Errorf("YAML branch target = %q, want b", got)
	}
	if got := a.Next.Target("y"); got != "" {
		t.Errorf("YAML default branch = %q, want terminal", got)
	}
}

func TestNextSpecRoundTrip(t *testing.T) {
	s := Default()
	member, _ := s.Flow("memberAction")
	action, _ := member.Step(models.StepAction)
	data, err := action.Next.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	var back NextSpec
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON failed: %v", err)
	}
	if back.Target(models.OptionMoved) != models.StepMovedDetail {
		t.Errorf("round-tripped branch lost: %v", back)
	}
	if back.Target("other") != "" {
		t.Errorf("round-tripped default lost: %v", back)
	}
}
