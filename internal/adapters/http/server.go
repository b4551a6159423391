// Package http serves the introspection surface of a running machine:
// snapshot JSON, diagrams, history and statistics reports, and an event
// endpoint for driving the machine from debugging tools. This is a
// debug surface, not a stable API.
package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/espalierhq/espalier"
	"github.com/espalierhq/espalier/pkg/domain"
	"github.com/espalierhq/espalier/pkg/export"
)

// ServerOption configures the handler.
type ServerOption func(*server)

// WithMetricsGatherer mounts /metrics serving the given registry.
func WithMetricsGatherer(g prometheus.Gatherer) ServerOption {
	return func(s *server) {
		s.gatherer = g
	}
}

type server struct {
	machine  *espalier.Machine
	gatherer prometheus.Gatherer
}

// NewHandler builds the introspection router for one machine.
func NewHandler(machine *espalier.Machine, opts ...ServerOption) http.Handler {
	s := &server{machine: machine}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/snapshot", s.getSnapshot)
	r.Get("/diagram.mmd", s.getMermaid)
	r.Get("/diagram.txt", s.getASCII)
	r.Get("/flow.txt", s.getFlow)
	r.Get("/history", s.getHistory)
	r.Get("/stats", s.getStats)
	r.Get("/events", s.getEvents)
	r.Post("/events", s.postEvent)

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	data, err := export.JSON(s.machine.Config(), s.machine.Snapshot())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *server) getMermaid(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(export.Mermaid(s.machine.Config())))
}

func (s *server) getASCII(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(export.ASCII(s.machine.Config(), s.machine.Snapshot())))
}

func (s *server) getFlow(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(export.Flow(s.machine.Config(), s.machine.Snapshot()) + "\n"))
}

func (s *server) getHistory(w http.ResponseWriter, r *http.Request) {
	n := 0
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid n", http.StatusBadRequest)
			return
		}
		n = parsed
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(export.FormatHistory(s.machine.Snapshot(), n, time.Now())))
}

func (s *server) getStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(export.FormatStats(s.machine.Snapshot())))
}

func (s *server) getEvents(w http.ResponseWriter, r *http.Request) {
	events := s.machine.AvailableEvents()
	if events == nil {
		events = []string{}
	}
	writeJSON(w, map[string]any{"events": events})
}

func (s *server) postEvent(w http.ResponseWriter, r *http.Request) {
	var ev domain.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "invalid event body", http.StatusBadRequest)
		return
	}
	if ev.Type == "" {
		http.Error(w, "event type is required", http.StatusBadRequest)
		return
	}
	snap := s.machine.Send(ev)
	writeJSON(w, snap)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
