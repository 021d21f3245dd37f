package text

import (
	"testing"
	"time"
)

func TestClockRegisters(t *testing.T) {
	tests := []struct {
		name       string
		time       time.Time
		tech       string
		procedural string
	}{
		{"afternoon", time.Date(2025, 1, 15, 15, 4, 0, 0, time.UTC), "3:04 PM", "3:04 p.m."},
		{"morning", time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC), "9:30 AM", "9:30 a.m."},
		{"midnight", time.Date(2025, 1, 15, 0, 5, 0, 0, time.UTC), "12:05 AM", "12:05 a.m."},
		{"noon", time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC), "12:00 PM", "12:00 p.m."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TechClock(tt.time); got != tt.tech {
				t.Errorf("TechClock = %q, want %q", got, tt.tech)
			}
			if got := ProceduralClock(tt.time); got != tt.procedural {
				t.Errorf("ProceduralClock = %q, want %q", got, tt.procedural)
			}
		})
	}
}

func TestMemberTitle(t *testing.T) {
	rc := testContext()
	tests := []struct {
		name      string
		member    string
		wantTitle string
		wantLast  string
	}{
		{"explicit senator", "Senator Paul Thompson", "Senator", "Thompson"},
		{"explicit representative", "Representative Mary Adams", "Representative", "Adams"},
		{"male chairman", "Lawrence Klemin - Chairman", "Chairman", "Klemin"},
		{"female chairman", "Jane Larson - Chairman", "Chairwoman", "Larson"},
		{"female vice chairman", "Claire Dever - Vice Chairman", "Vice Chairwoman", "Dever"},
		{"bare name defaults to chamber", "Paul Thompson", "Senator", "Thompson"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, last := MemberTitle(tt.member, rc)
			if title != tt.wantTitle || last != tt.wantLast {
				t.Errorf("MemberTitle(%q) = %q %q, want %q %q", tt.member, title, last, tt.wantTitle, tt.wantLast)
			}
		})
	}
}

func TestMemberTitleHouseDefault(t *testing.T) {
	rc := testContext()
	rc.Committee = "House Judiciary Committee"
	title, last := MemberTitle("Steve Vetter", rc)
	if title != "Representative" || last != "Vetter" {
		t.Errorf("MemberTitle = %q %q", title, last)
	}
}

func TestShortCommitteeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Senate Appropriations Committee", "Appropriations"},
		{"House Finance and Taxation Committee", "Finance and Taxation"},
		{"Education", "Education"},
	}
	for _, tt := range tests {
		if got := shortCommitteeName(tt.in); got != tt.want {
			t.Errorf("shortCommitteeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMotionPhrase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Do Pass", "a do pass"},
		{"Amend", "an amend"},
		{"Rerefer", "a rerefer"},
	}
	for _, tt := range tests {
		if got := motionPhrase(tt.in); got != tt.want {
			t.Errorf("motionPhrase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
