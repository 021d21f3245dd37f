package testutil

import (
	"net/http"
	"testing"

	"github.com/gavelworks/clerkpipe/internal/history"
)

func TestNewTestServer(t *testing.T) {
	server := NewTestServer()
	if server == nil {
		t.Fatal("NewTestServer returned nil")
	}
}

func TestCreateHTTPRequest(t *testing.T) {
	req := CreateHTTPRequest(t, http.MethodPost, "/session/select", map[string]string{"value": "Moved"})
	if req.Method != http.MethodPost {
		t.Errorf("expected POST, got %s", req.Method)
	}
	if req.URL.Path != "/session/select" {
		t.Errorf("unexpected path %s", req.URL.Path)
	}

	req = CreateHTTPRequest(t, http.MethodGet, "/history", nil)
	if req.Body == nil {
		t.Error("expected non-nil body reader")
	}
}

func TestSeedTestHistory(t *testing.T) {
	hist := history.NewService(history.NewInMemoryStore())
	stored := SeedTestHistory(t, hist)
	if len(stored) != 2 {
		t.Fatalf("expected 2 seeded entries, got %d", len(stored))
	}
	for _, entry := range stored {
		if entry.ID == "" {
			t.Error("seeded entry missing generated ID")
		}
	}
	AssertEntryCount(t, hist, 2, "after seeding")
}
