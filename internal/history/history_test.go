package history

import (
	"testing"
	"time"

	"github.com/gavelworks/clerkpipe/internal/models"
)

func entryAt(id, bill string, at time.Time) models.HistoryEntry {
	return models.HistoryEntry{ID: id, Time: at, Text: "statement " + id, Bill: bill}
}

func TestInMemoryStoreCRUD(t *testing.T) {
	store := NewInMemoryStore()
	base := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

	if err := store.AddEntry(entryAt("a", "HB 1001", base)); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	if err := store.AddEntry(entryAt("b", "HB 1001", base.Add(time.Hour))); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	got, err := store.GetEntry("a")
	if err != nil || got == nil {
		t.Fatalf("GetEntry failed: %v %v", got, err)
	}
	if got.Text != "statement a" {
		t.Errorf("unexpected entry %+v", got)
	}

	got.Text = "edited"
	if err := store.UpdateEntry(*got); err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}
	got, _ = store.GetEntry("a")
	if got.Text != "edited" {
		t.Errorf("expected updated text, got %q", got.Text)
	}

	if err := store.UpdateEntry(entryAt("missing", "", base)); err != models.ErrEntryNotFound {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}

	if err := store.DeleteEntry("a"); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	if err := store.DeleteEntry("a"); err != models.ErrEntryNotFound {
		t.Errorf("expected ErrEntryNotFound on double delete, got %v", err)
	}

	entries, err := store.ListEntries()
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "b" {
		t.Errorf("unexpected entries %+v", entries)
	}
}

func TestInMemoryStoreListSortsByTime(t *testing.T) {
	store := NewInMemoryStore()
	base := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	store.AddEntry(entryAt("late", "", base.Add(2*time.Hour)))
	store.AddEntry(entryAt("early", "", base))
	store.AddEntry(entryAt("middle", "", base.Add(time.Hour)))

	entries, err := store.ListEntries()
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	want := []string{"early", "middle", "late"}
	for i, id := range want {
		if entries[i].ID != id {
			t.Fatalf("expected order %v, got %+v", want, entries)
		}
	}
}

func TestInMemoryStorePreferences(t *testing.T) {
	store := NewInMemoryStore()
	if err := store.SetPreference(PrefCurrentBill, "HB 1001"); err != nil {
		t.Fatalf("SetPreference failed: %v", err)
	}
	got, err := store.GetPreference(PrefCurrentBill)
	if err != nil || got != "HB 1001" {
		t.Fatalf("GetPreference = %q, %v", got, err)
	}
	got, err = store.GetPreference("unset")
	if err != nil || got != "" {
		t.Fatalf("expected empty value for unset key, got %q, %v", got, err)
	}
}

func TestGroupByBill(t *testing.T) {
	base := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	entries := []models.HistoryEntry{
		entryAt("a1", "HB 1001", base),
		entryAt("b1", "SB 2002", base.Add(time.Hour)),
		entryAt("a2", "HB 1001", base.Add(2*time.Hour)),
		entryAt("u1", "", base.Add(30*time.Minute)),
	}
	groups := GroupByBill(entries)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	// Groups ordered by earliest entry descending: SB 2002 (10:00),
	// Uncategorized (9:30), HB 1001 (9:00).
	wantOrder := []string{"SB 2002", models.UncategorizedBill, "HB 1001"}
	for i, bill := range wantOrder {
		if groups[i].Bill != bill {
			t.Fatalf("expected group order %v, got %q at %d", wantOrder, groups[i].Bill, i)
		}
	}

	// Entries within a group newest first.
	hb := groups[2]
	if hb.Entries[0].ID != "a2" || hb.Entries[1].ID != "a1" {
		t.Errorf("expected newest-first entries, got %+v", hb.Entries)
	}
}

func TestRenameBillIsolation(t *testing.T) {
	store := NewInMemoryStore()
	base := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	store.AddEntry(entryAt("a", "HB 1001", base))
	store.AddEntry(entryAt("b", "SB 2002", base))
	store.AddEntry(entryAt("c", "HB 1001", base))

	count, err := store.RenameBill("HB 1001", "HB 1001 (Engrossed)")
	if err != nil {
		t.Fatalf("RenameBill failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 renamed, got %d", count)
	}
	other, _ := store.GetEntry("b")
	if other.Bill != "SB 2002" {
		t.Errorf("rename leaked into other bill: %+v", other)
	}
}
