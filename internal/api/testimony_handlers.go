// Package api provides the testimony and ingestion HTTP handlers.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gavelworks/clerkpipe/internal/history"
	"github.com/gavelworks/clerkpipe/internal/models"
	"github.com/gavelworks/clerkpipe/internal/text"
)

// testimonyView reports the sub-flow state after a submission or answer. The
// entry field is populated only once the testimony has been finalized and
// persisted.
type testimonyView struct {
	State    models.TestimonyState `json:"state"`
	Question *models.Question      `json:"question,omitempty"`
	Entry    *models.HistoryEntry  `json:"entry,omitempty"`
}

func (s *Server) testimonySubmitHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if !requirePost(w, r) {
		return
	}
	var details models.TestimonyDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		slog.Warn("Server.testimonySubmitHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil || s.pending.State == models.TestimonyFinalized {
		s.pending = s.testimony.Begin()
	}
	question, err := s.testimony.Submit(s.pending, details)
	if err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}
	if question != nil {
		writeJSONResponse(w, http.StatusOK, models.Success(testimonyView{
			State:    s.pending.State,
			Question: question,
		}))
		return
	}
	s.persistTestimony(w)
}

func (s *Server) testimonyAnswerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if !requirePost(w, r) {
		return
	}
	var req struct {
		Yes bool `json:"yes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.testimonyAnswerHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error(models.ErrNoPendingQuestion.Error()))
		return
	}
	question, err := s.testimony.Answer(s.pending, req.Yes)
	if err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}
	if question != nil {
		writeJSONResponse(w, http.StatusOK, models.Success(testimonyView{
			State:    s.pending.State,
			Question: question,
		}))
		return
	}
	s.persistTestimony(w)
}

// persistTestimony renders and stores the finalized pending testimony. Caller
// holds the session lock.
func (s *Server) persistTestimony(w http.ResponseWriter) {
	path := s.pending.Path()
	at := time.Now()
	rc := s.renderContext()
	rc.Time = at
	tech, err := text.Tech(path, rc)
	if err != nil {
		slog.Error("Server.persistTestimony: failed to render statement", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to render statement"))
		return
	}
	bill, _ := s.hist.Preference(history.PrefCurrentBill)
	entry, err := s.hist.Add(models.HistoryEntry{
		Time: at,
		Path: path,
		Text: tech,
		Link: s.pending.Details.Link,
		Bill: bill,
	})
	if err != nil {
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to persist statement"))
		return
	}
	slog.Info("Server.persistTestimony: testimony stored", "id", entry.ID, "name", s.pending.Details.Name)
	state := s.pending.State
	s.pending = nil
	writeJSONResponse(w, http.StatusOK, models.Success(testimonyView{State: state, Entry: &entry}))
}

// ingestEnvelope is the payload pushed by external capture windows. A string
// payload becomes a free-text history entry; a structured payload pre-fills a
// testimony submission and runs it through the usual sub-flow.
type ingestEnvelope struct {
	Source    string          `json:"source"`
	Type      string          `json:"type"`
	Statement string          `json:"statement,omitempty"`
	Testimony json.RawMessage `json:"testimony,omitempty"`
}

func (s *Server) ingestHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if !requirePost(w, r) {
		return
	}
	var env ingestEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		slog.Warn("Server.ingestHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if env.Type != "HEARING_STATEMENT" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Unknown ingest type"))
		return
	}
	slog.Debug("Server.ingestHandler: statement received", "source", env.Source)

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(env.Testimony) > 0 {
		var details models.TestimonyDetails
		if err := json.Unmarshal(env.Testimony, &details); err != nil {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid testimony payload"))
			return
		}
		if s.pending == nil || s.pending.State == models.TestimonyFinalized {
			s.pending = s.testimony.Begin()
		}
		question, err := s.testimony.Submit(s.pending, details)
		if err != nil {
			writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
			return
		}
		if question != nil {
			writeJSONResponse(w, http.StatusOK, models.Success(testimonyView{
				State:    s.pending.State,
				Question: question,
			}))
			return
		}
		s.persistTestimony(w)
		return
	}
	if env.Statement == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Empty statement"))
		return
	}
	at := time.Now()
	path := models.Path{{
		Step:  models.StepID(models.StatementCustom),
		Value: env.Statement,
	}}
	bill, _ := s.hist.Preference(history.PrefCurrentBill)
	entry, err := s.hist.Add(models.HistoryEntry{
		Time: at,
		Path: path,
		Text: env.Statement,
		Bill: bill,
	})
	if err != nil {
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to persist statement"))
		return
	}
	slog.Info("Server.ingestHandler: custom statement stored", "id", entry.ID, "source", env.Source)
	writeJSONResponse(w, http.StatusOK, models.Success(entry))
}
