// Package api provides the entry-session HTTP handlers.
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

// sessionView is the session state snapshot returned to the presentation layer.
type sessionView struct {
	Path     models.Path   `json:"path"`
	Step     models.StepID `json:"step,omitempty"`
	Terminal bool          `json:"terminal"`
	Options  []string      `json:"options"`
}

// view builds the snapshot under the session lock.
func (s *Server) view() sessionView {
	return sessionView{
		Path:     s.session.Path.Clone(),
		Step:     s.session.CurrentStep,
		Terminal: s.engine.IsTerminal(&s.session),
		Options:  s.engine.Options(&s.session),
	}
}

func (s *Server) sessionHandler(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSONResponse(w, http.StatusOK, models.Success(s.view()))
}

func (s *Server) optionsHandler(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSONResponse(w, http.StatusOK, models.Success(s.engine.Options(&s.session)))
}

func (s *Server) selectHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if !requirePost(w, r) {
		return
	}
	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.selectHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.SelectOption(&s.session, req.Value); err != nil {
		slog.Warn("Server.selectHandler: selection rejected", "error", err, "value", req.Value)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(s.view()))
}

func (s *Server) moduleHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if !requirePost(w, r) {
		return
	}
	var tally models.VoteTally
	if err := json.NewDecoder(r.Body).Decode(&tally); err != nil {
		slog.Warn("Server.moduleHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.SelectModule(&s.session, tally); err != nil {
		slog.Warn("Server.moduleHandler: module rejected", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(s.view()))
}

func (s *Server) skipHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.Skip(&s.session); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(s.view()))
}

func (s *Server) editHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if !requirePost(w, r) {
		return
	}
	var req struct {
		Index int    `json:"index"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.editHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.EditStep(&s.session, req.Index, req.Value); err != nil {
		slog.Warn("Server.editHandler: edit rejected", "error", err, "index", req.Index)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(s.view()))
}

func (s *Server) removeHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.RemoveLast(&s.session)
	writeJSONResponse(w, http.StatusOK, models.Success(s.view()))
}

func (s *Server) cancelHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Cancel(&s.session)
	writeJSONResponse(w, http.StatusOK, models.Success(s.view()))
}

func (s *Server) markTimeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if !requirePost(w, r) {
		return
	}
	var req struct {
		Time time.Time `json:"time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.markTimeHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if req.Time.IsZero() {
		req.Time = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.MarkTime(req.Time)
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Time marked", req.Time))
}

// finalizedView carries both output registers back to the caller; only the
// tech transcript is persisted as the entry text.
type finalizedView struct {
	Entry      models.HistoryEntry `json:"entry"`
	Procedural string              `json:"procedural"`
}

func (s *Server) finalizeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if !requirePost(w, r) {
		return
	}
	var req struct {
		Bill string `json:"bill,omitempty"`
		Link string `json:"link,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.finalizeHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rc := s.renderContext()
	path, at, err := s.engine.Finalize(&s.session)
	if err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}
	rc.Time = at
	tech, err := text.Tech(path, rc)
	if err != nil {
		slog.Error("Server.finalizeHandler: failed to render statement", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to render statement"))
		return
	}
	procedural, err := text.Procedural(path, rc)
	if err != nil {
		slog.Error("Server.finalizeHandler: failed to render statement", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to render statement"))
		return
	}
	bill := req.Bill
	if bill == "" {
		bill, _ = s.hist.Preference(history.PrefCurrentBill)
	}
	entry, err := s.hist.Add(models.HistoryEntry{
		Time: at,
		Path: path,
		Text: tech,
		Link: req.Link,
		Bill: bill,
	})
	if err != nil {
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to persist statement"))
		return
	}
	slog.Info("Server.finalizeHandler: statement finalized", "id", entry.ID, "type", path.Type())
	writeJSONResponse(w, http.StatusOK, models.Success(finalizedView{Entry: entry, Procedural: procedural}))
}

func (s *Server) preferencesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	switch r.Method {
	case http.MethodGet:
		prefs := map[string]string{}
		for _, key := range []string{history.PrefSelectedCommittee, history.PrefCurrentBill, history.PrefBillType} {
			value, err := s.hist.Preference(key)
			if err != nil {
				writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to read preferences"))
				return
			}
			prefs[key] = value
		}
		writeJSONResponse(w, http.StatusOK, models.Success(prefs))
	case http.MethodPost:
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for key, value := range req {
			if err := s.hist.SetPreference(key, value); err != nil {
				writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to write preferences"))
				return
			}
			if key == history.PrefSelectedCommittee {
				s.session.Committee = value
			}
		}
		writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Preferences updated", nil))
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
