// Package api provides HTTP handlers and the main API server logic for ClerkPipe.
//
// It exposes the entry-session operations (option resolution, selection,
// editing, finalize), the history collection, statement ingestion from
// external windows, and the clipboard export formats. All session mutations
// run under one mutex, mirroring the single UI event loop the engine was
// designed for.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gavelworks/clerkpipe/internal/flow"
	"github.com/gavelworks/clerkpipe/internal/history"
	"github.com/gavelworks/clerkpipe/internal/roster"
	"github.com/gavelworks/clerkpipe/internal/text"
)

// DefaultAddr is the default API listen address.
const DefaultAddr = ":8080"

// Opts holds configuration options for the API server.
type Opts struct {
	Addr string
}

// Option configures the API server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) {
		o.Addr = addr
	}
}

// Server wires the path engine, testimony machine, and history service behind
// HTTP endpoints.
type Server struct {
	engine    *flow.Engine
	testimony *flow.TestimonyMachine
	hist      *history.Service
	dir       *roster.Directory
	addr      string

	// mu serializes all session mutations; the engine expects the
	// single-threaded discipline of a UI event loop.
	mu      sync.Mutex
	session flow.SessionState
	pending *flow.Testimony
}

// NewServer creates an API server over the assembled collaborators.
func NewServer(engine *flow.Engine, hist *history.Service, dir *roster.Directory, opts ...Option) *Server {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	s := &Server{
		engine:    engine,
		testimony: flow.NewTestimonyMachine(dir),
		hist:      hist,
		dir:       dir,
		addr:      cfg.Addr,
	}
	s.restorePreferences()
	return s
}

// restorePreferences loads the persisted scalar settings into the session.
func (s *Server) restorePreferences() {
	committee, err := s.hist.Preference(history.PrefSelectedCommittee)
	if err != nil {
		slog.Warn("Failed to restore committee preference", "error", err)
		return
	}
	s.session.Committee = committee
	slog.Debug("Preferences restored", "committee", committee)
}

// routes registers all HTTP handlers on a fresh mux.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/session", s.sessionHandler)
	mux.HandleFunc("/session/options", s.optionsHandler)
	mux.HandleFunc("/session/select", s.selectHandler)
	mux.HandleFunc("/session/module", s.moduleHandler)
	mux.HandleFunc("/session/skip", s.skipHandler)
	mux.HandleFunc("/session/edit", s.editHandler)
	mux.HandleFunc("/session/remove", s.removeHandler)
	mux.HandleFunc("/session/cancel", s.cancelHandler)
	mux.HandleFunc("/session/marktime", s.markTimeHandler)
	mux.HandleFunc("/session/finalize", s.finalizeHandler)
	mux.HandleFunc("/testimony/submit", s.testimonySubmitHandler)
	mux.HandleFunc("/testimony/answer", s.testimonyAnswerHandler)
	mux.HandleFunc("/history", s.historyHandler)
	mux.HandleFunc("/history/grouped", s.historyGroupedHandler)
	mux.HandleFunc("/history/edit", s.historyEditHandler)
	mux.HandleFunc("/history/delete", s.historyDeleteHandler)
	mux.HandleFunc("/history/time", s.historyTimeHandler)
	mux.HandleFunc("/history/renamebill", s.historyRenameBillHandler)
	mux.HandleFunc("/history/clear", s.historyClearHandler)
	mux.HandleFunc("/history/export", s.exportHandler)
	mux.HandleFunc("/ingest", s.ingestHandler)
	mux.HandleFunc("/preferences", s.preferencesHandler)
	return mux
}

// Run starts the API server and blocks until it exits.
func (s *Server) Run() error {
	slog.Info("ClerkPipe API running", "addr", s.addr)
	if err := http.ListenAndServe(s.addr, s.routes()); err != nil {
		return fmt.Errorf("API server failed: %w", err)
	}
	return nil
}

// renderContext builds the text rendering context for the current session.
func (s *Server) renderContext() text.Context {
	return text.Context{
		Committee: s.session.Committee,
		IsFemale:  s.dir.IsFemale,
	}
}
