package text

import (
	"testing"
	"time"

	"github.com/gavelworks/clerkpipe/internal/models"
)

func TestSpecialFormat(t *testing.T) {
	at := time.Date(2025, 1, 15, 14, 5, 0, 0, time.UTC)
	entry := models.HistoryEntry{
		Time: at,
		Text: "Senator Doe moved Do Pass",
		Link: "https://example.org/hearing/42",
	}
	got := SpecialFormat(entry)
	want := "2:05 PM | Senator Doe moved Do Pass |  |https://example.org/hearing/42"
	if got != want {
		t.Errorf("SpecialFormat = %q, want %q", got, want)
	}
}

func TestSpecialFormatWithMemberNo(t *testing.T) {
	at := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	entry := models.HistoryEntry{
		Time: at,
		Text: "Senator Smith - Introduced Bill - Testimony#12",
		Path: models.Path{{
			Step:    models.StepID(models.StatementTestimony),
			Value:   "John Smith",
			Details: &models.TestimonyDetails{MemberNo: "417"},
		}},
	}
	got := SpecialFormat(entry)
	want := "10:00 AM | Senator Smith - Introduced Bill - Testimony#12 | member-no:417;Mic: |"
	if got != want {
		t.Errorf("SpecialFormat = %q, want %q", got, want)
	}
}
