package history

import (
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/gavelworks/clerkpipe/internal/models"
)

func newTempSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(WithDSN(filepath.Join(t.TempDir(), "clerkpipe.db")))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := newTempSQLiteStore(t)
	at := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	entry := models.HistoryEntry{
		ID:   "e1",
		Time: at,
		Path: models.Path{
			{Step: models.StepID(models.StatementMemberAction), Value: "Senator Doe"},
			{Step: models.StepAction, Value: models.OptionMoved},
		},
		Text: "Senator Doe moved",
		Link: "https://example.org/42",
		Bill: "HB 1001",
	}
	if err := store.AddEntry(entry); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	got, err := store.GetEntry("e1")
	if err != nil || got == nil {
		t.Fatalf("GetEntry failed: %v %v", got, err)
	}
	if got.Text != entry.Text || got.Link != entry.Link || got.Bill != entry.Bill {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if len(got.Path) != 2 || got.Path[1].Value != models.OptionMoved {
		t.Errorf("path not preserved: %+v", got.Path)
	}
}

func TestSQLiteStoreRejectsEntryWithoutID(t *testing.T) {
	store := newTempSQLiteStore(t)
	if err := store.AddEntry(models.HistoryEntry{Text: "x"}); err == nil {
		t.Fatal("expected rejection of entry without ID")
	}
}

func TestSQLiteStoreUpdateDeleteRename(t *testing.T) {
	store := newTempSQLiteStore(t)
	at := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	store.AddEntry(models.HistoryEntry{ID: "a", Time: at, Text: "a", Bill: "HB 1001"})
	store.AddEntry(models.HistoryEntry{ID: "b", Time: at.Add(time.Hour), Text: "b", Bill: "HB 1001"})

	if err := store.UpdateEntry(models.HistoryEntry{ID: "a", Time: at, Text: "edited", Bill: "HB 1001"}); err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}
	got, _ := store.GetEntry("a")
	if got == nil || got.Text != "edited" {
		t.Errorf("expected updated entry, got %+v", got)
	}
	if err := store.UpdateEntry(models.HistoryEntry{ID: "missing"}); err != models.ErrEntryNotFound {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}

	count, err := store.RenameBill("HB 1001", "SB 2002")
	if err != nil || count != 2 {
		t.Fatalf("RenameBill = %d, %v", count, err)
	}

	if err := store.DeleteEntry("a"); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	if err := store.DeleteEntry("a"); err != models.ErrEntryNotFound {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}

	entries, err := store.ListEntries()
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Bill != "SB 2002" {
		t.Errorf("unexpected entries %+v", entries)
	}
}

func TestSQLiteStorePreferences(t *testing.T) {
	store := newTempSQLiteStore(t)
	if err := store.SetPreference(PrefCurrentBill, "HB 1001"); err != nil {
		t.Fatalf("SetPreference failed: %v", err)
	}
	// Upsert overwrites.
	if err := store.SetPreference(PrefCurrentBill, "SB 2002"); err != nil {
		t.Fatalf("SetPreference failed: %v", err)
	}
	got, err := store.GetPreference(PrefCurrentBill)
	if err != nil || got != "SB 2002" {
		t.Fatalf("GetPreference = %q, %v", got, err)
	}
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	// This test requires a running PostgreSQL instance.
	// Set the DATABASE_URL environment variable for the connection string.
	connStr := getenvOrSkip(t, "DATABASE_URL")
	store, err := NewPostgresStore(WithDSN(connStr))
	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}
	defer store.Close()
	store.db.Exec("DELETE FROM history")

	at := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	if err := store.AddEntry(models.HistoryEntry{ID: "pg1", Time: at, Text: "x", Bill: "HB 1001"}); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	entries, err := store.ListEntries()
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "pg1" {
		t.Errorf("unexpected entries %+v", entries)
	}
}

func getenvOrSkip(t *testing.T, key string) string {
	v := ""
	if val, ok := syscall.Getenv(key); ok {
		v = val
	}
	if v == "" {
		t.Skipf("env %s not set", key)
	}
	return v
}
