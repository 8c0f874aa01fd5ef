package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tspcolony/internal/model"
	"tspcolony/internal/opt"
)

// CitiesHandler handles GET /v1/cities
func (s *Server) CitiesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	cities, err := s.Store.ListCities(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List cities failed", err.Error(), r.URL.Path)
		return
	}
	conns, err := s.Store.ListConnections(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List connections failed", err.Error(), r.URL.Path)
		return
	}
	stored, _ := s.Store.GetSolverConfig(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"origin":      s.origin(stored),
		"cities":      cities,
		"connections": conns,
	})
}

// SolverConfigHandler returns the effective solver parameters
func (s *Server) SolverConfigHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/solver/config" || r.Method != http.MethodGet {
		writeProblem(w, 404, "Not Found", "", r.URL.Path)
		return
	}
	stored, err := s.Store.GetSolverConfig(r.Context())
	if err != nil {
		writeProblem(w, 500, "Load solver config failed", err.Error(), r.URL.Path)
		return
	}
	var sACO *model.ACOParams
	var sABCO *model.ABCOParams
	if stored != nil {
		sACO, sABCO = stored.ACO, stored.ABCO
	}
	aco := overlayACO(opt.DefaultACOConfig(), s.Cfg.Solver.ACO, sACO)
	abco := overlayABCO(opt.DefaultABCOConfig(), s.Cfg.Solver.ABCO, sABCO)
	aco.Workers, abco.Workers = s.Cfg.Workers, s.Cfg.Workers
	writeJSON(w, 200, map[string]any{
		"origin": s.origin(stored),
		"aco":    aco,
		"abco":   abco,
	})
}

// AdminSolverConfigHandler gets or replaces the stored solver overrides
func (s *Server) AdminSolverConfigHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/admin/solver/config" {
		writeProblem(w, 404, "Not Found", "", r.URL.Path)
		return
	}
	if !s.getPrincipal(r).IsAdmin() {
		writeProblem(w, 403, "Forbidden", "admin required", r.URL.Path)
		return
	}
	switch r.Method {
	case http.MethodGet:
		cfg, err := s.Store.GetSolverConfig(r.Context())
		if err != nil {
			writeProblem(w, 500, "Load solver config failed", err.Error(), r.URL.Path)
			return
		}
		if cfg == nil {
			cfg = &model.SolverConfig{}
		}
		writeJSON(w, 200, map[string]any{"config": cfg})
	case http.MethodPut:
		var body struct {
			Config *model.SolverConfig `json:"config"`
		}
		if err := readJSON(r, &body); err != nil {
			writeProblem(w, 400, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		if body.Config == nil {
			writeProblem(w, 400, "Missing config", "", r.URL.Path)
			return
		}
		if err := validateSolverConfig(body.Config, s.limits()); err != nil {
			writeProblem(w, 400, "Invalid solver config", err.Error(), r.URL.Path)
			return
		}
		if err := s.Store.SaveSolverConfig(r.Context(), *body.Config); err != nil {
			writeProblem(w, 500, "Save failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, 200, map[string]bool{"ok": true})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// SolverStatsHandler returns the statistics of the last run per algorithm
func (s *Server) SolverStatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.getPrincipal(r).IsAdmin() {
		writeProblem(w, 403, "Forbidden", "admin required", r.URL.Path)
		return
	}
	algo, err := normalizeAlgorithm(r.URL.Query().Get("algorithm"))
	if err != nil {
		writeProblem(w, 400, "Invalid algorithm", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, 200, map[string]any{"stats": opt.GetStats(algo)})
}

// EventsStreamHandler handles GET /v1/events/stream (SSE of result events)
func (s *Server) EventsStreamHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeProblem(w, 500, "Streaming unsupported", "", r.URL.Path)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	ch := s.Broker.Subscribe(TopicResults)
	defer s.Broker.Unsubscribe(TopicResults, ch)

	heartbeat := func() {
		fmt.Fprintf(w, "event: heartbeat\n")
		fmt.Fprintf(w, "data: {\"ts\":\"%s\"}\n\n", time.Now().UTC().Format(time.RFC3339))
		flusher.Flush()
	}
	heartbeat()
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			b, _ := json.Marshal(evt.Data)
			fmt.Fprintf(w, "event: %s\n", evt.Type)
			fmt.Fprintf(w, "data: %s\n\n", string(b))
			flusher.Flush()
		case <-ticker.C:
			heartbeat()
		}
	}
}

// Health
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	type pinger interface {
		Ping(ctx context.Context) error
	}
	if pg, ok := s.Store.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pg.Ping(ctx); err != nil {
			writeProblem(w, 503, "Not Ready", err.Error(), r.URL.Path)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
