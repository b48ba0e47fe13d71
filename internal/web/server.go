// Package web provides the HTTP status and configuration server for the
// trailer-monitor daemon.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/journal"
	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/registry"
	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/status"
)

// Server serves the status page, status JSON, the configuration registry,
// and the event journal over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	registry   *registry.Registry
	journal    journal.Journal // nil when the journal is disabled
}

// New creates a Server. journal may be nil.
func New(addr string, tracker *status.Tracker, reg *registry.Registry, jnl journal.Journal) *Server {
	s := &Server{tracker: tracker, registry: reg, journal: jnl}

	r := chi.NewRouter()
	r.Get("/", s.handleIndex)
	r.Get("/index.html", s.handleIndex)
	r.Get("/index.json", s.handleJSON)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/config", s.handleConfigAll)
	r.Get("/config/{group}", s.handleConfigGet)
	r.Put("/config/{group}", s.handleConfigPut)
	r.Get("/events", s.handleEvents)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleConfigAll(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]map[string]any)
	for _, name := range s.registry.Names() {
		snap, err := s.registry.Snapshot(name)
		if err != nil {
			continue
		}
		out[name] = snap
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleConfigGet(w http.ResponseWriter, r *http.Request) {
	group := chi.URLParam(r, "group")
	snap, err := s.registry.Snapshot(group)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleConfigPut(w http.ResponseWriter, r *http.Request) {
	group := chi.URLParam(r, "group")

	var values map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&values); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.registry.Apply(group, values); err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, registry.ErrUnknownGroup) {
			code = http.StatusNotFound
		}
		http.Error(w, err.Error(), code)
		return
	}

	// Return the post-clamp values so the caller sees what actually stuck.
	snap, err := s.registry.Snapshot(group)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		http.Error(w, "event journal disabled", http.StatusNotFound)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = v
	}

	events, err := s.journal.Recent(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := eventsJSON{Events: make([]eventJSON, 0, len(events))}
	for _, e := range events {
		out.Events = append(out.Events, eventJSON{
			ID:          e.ID,
			Timestamp:   e.Timestamp.UTC().Format(time.RFC3339),
			Trigger:     e.Trigger,
			Temperature: e.Temperature,
			Humidity:    e.Humidity,
			Powered:     boolToInt(e.Powered),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type eventsJSON struct {
	Events []eventJSON `json:"events"`
}

type eventJSON struct {
	ID          string  `json:"id"`
	Timestamp   string  `json:"timestamp"`
	Trigger     string  `json:"trigger"`
	Temperature float64 `json:"env_t"`
	Humidity    float64 `json:"env_h"`
	Powered     int     `json:"pwr"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
