// Package testutil provides common test utilities and helpers for ClerkPipe tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gavelworks/clerkpipe/internal/api"
	"github.com/gavelworks/clerkpipe/internal/flow"
	"github.com/gavelworks/clerkpipe/internal/history"
	"github.com/gavelworks/clerkpipe/internal/models"
	"github.com/gavelworks/clerkpipe/internal/roster"
	"github.com/gavelworks/clerkpipe/internal/schema"
)

// NewTestServer creates a test API server with in-memory dependencies,
// built-in flows, and the built-in committee directory.
func NewTestServer() *api.Server {
	dir := roster.DefaultDirectory(nil)
	engine := flow.NewEngine(schema.Default(), dir)
	hist := history.NewService(history.NewInMemoryStore())
	return api.NewServer(engine, hist, dir)
}

// NewTestDirectory returns the built-in committee directory without a roster feed.
func NewTestDirectory() *roster.Directory {
	return roster.DefaultDirectory(nil)
}

// AssertHTTPStatus checks the HTTP status code and fails the test if it doesn't match.
func AssertHTTPStatus(t *testing.T, expected, actual int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected status %d, got %d", context, expected, actual)
	}
}

// AssertJSONResponse decodes JSON response and validates the status field.
func AssertJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus string) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}

	if status, ok := response["status"].(string); ok {
		if status != expectedStatus {
			t.Errorf("expected status '%s', got '%s'", expectedStatus, status)
		}
	} else {
		t.Error("response missing or invalid 'status' field")
	}

	return response
}

// CreateHTTPRequest creates an HTTP request with optional JSON body for testing.
func CreateHTTPRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to create HTTP request: %v", err)
	}
	return req
}

// AssertEntryCount validates the number of history entries matches expected.
func AssertEntryCount(t *testing.T, hist *history.Service, expected int, context string) {
	t.Helper()
	entries, err := hist.List()
	if err != nil {
		t.Fatalf("%s: failed to list history: %v", context, err)
	}
	if len(entries) != expected {
		t.Errorf("%s: expected %d entries, got %d", context, expected, len(entries))
	}
}

// SeedTestHistory adds sample entries to the history service for testing.
func SeedTestHistory(t *testing.T, hist *history.Service) []models.HistoryEntry {
	t.Helper()
	seeds := []models.HistoryEntry{
		{
			Text: "Senator Doe moved Do Pass",
			Path: models.Path{
				{Step: models.StepID(models.StatementMemberAction), Value: "Senator Doe"},
				{Step: models.StepAction, Value: models.OptionMoved},
				{Step: models.StepMovedDetail, Value: "Do Pass"},
			},
			Bill: "HB 1001",
		},
		{
			Text: "Voice Vote on Adoption of Amendment - Passed",
			Path: models.Path{
				{Step: models.StepID(models.StatementVoiceVote), Value: "Voice Vote"},
				{Step: models.StepVoiceSubject, Value: "Adoption of Amendment"},
				{Step: models.StepVoiceOutcome, Value: models.OptionPassed},
			},
			Bill: "HB 1001",
		},
	}
	var stored []models.HistoryEntry
	for _, seed := range seeds {
		entry, err := hist.Add(seed)
		if err != nil {
			t.Fatalf("failed to seed history entry: %v", err)
		}
		stored = append(stored, entry)
	}
	return stored
}
