// Package api provides the history HTTP handlers.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gavelworks/clerkpipe/internal/models"
	"github.com/gavelworks/clerkpipe/internal/text"
)

func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	entries, err := s.hist.List()
	if err != nil {
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to load history"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(entries))
}

func (s *Server) historyGroupedHandler(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	groups, err := s.hist.Grouped()
	if err != nil {
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to load history"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(groups))
}

func (s *Server) historyEditHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if !requirePost(w, r) {
		return
	}
	var req struct {
		ID   string      `json:"id"`
		Path models.Path `json:"path"`
		Link string      `json:"link,omitempty"`
		Bill string      `json:"bill,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.historyEditHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.hist.Get(req.ID)
	if err != nil || entry == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("History entry not found"))
		return
	}
	rc := s.renderContext()
	rc.Time = entry.Time
	tech, err := text.Tech(req.Path, rc)
	if err != nil {
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to render statement"))
		return
	}
	if err := s.hist.Edit(req.ID, req.Path, tech, req.Link, req.Bill); err != nil {
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to edit entry"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Entry updated", nil))
}

func (s *Server) historyDeleteHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if !requirePost(w, r) {
		return
	}
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := s.hist.Delete(req.ID); err != nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("History entry not found"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Entry deleted", nil))
}

func (s *Server) historyTimeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if !requirePost(w, r) {
		return
	}
	var req struct {
		ID   string    `json:"id"`
		Time time.Time `json:"time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := s.hist.CorrectTime(req.ID, req.Time); err != nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("History entry not found"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Time corrected", nil))
}

func (s *Server) historyRenameBillHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if !requirePost(w, r) {
		return
	}
	var req struct {
		Old string `json:"old"`
		New string `json:"new"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	count, err := s.hist.RenameBill(req.Old, req.New)
	if err != nil {
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to rename bill"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Bill renamed", count))
}

// historyClearHandler clears the history and, with it, the session's working
// memory. This is the only reset the context memory honors.
func (s *Server) historyClearHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hist.Clear(); err != nil {
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to clear history"))
		return
	}
	s.session.Context.Reset()
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("History cleared", nil))
}

// exportHandler renders one entry in the pipe-delimited clipboard format.
func (s *Server) exportHandler(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	id := r.URL.Query().Get("id")
	entry, err := s.hist.Get(id)
	if err != nil || entry == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("History entry not found"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(text.SpecialFormat(*entry)))
}
