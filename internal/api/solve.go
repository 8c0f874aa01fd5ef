package api

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"time"

	"tspcolony/internal/citymap"
	"tspcolony/internal/metrics"
	"tspcolony/internal/model"
	"tspcolony/internal/opt"
	"tspcolony/internal/store"
)

const defaultOrigin = "Ilorin"

// SolveACOHandler handles POST /v1/tsp/aco
func (s *Server) SolveACOHandler(w http.ResponseWriter, r *http.Request) {
	s.solveHandler(w, r, opt.AlgorithmACO)
}

// SolveABCOHandler handles POST /v1/tsp/abco
func (s *Server) SolveABCOHandler(w http.ResponseWriter, r *http.Request) {
	s.solveHandler(w, r, opt.AlgorithmABCO)
}

func (s *Server) solveHandler(w http.ResponseWriter, r *http.Request, algo string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.limiter.Allow() {
		metrics.RateLimited.Inc()
		w.Header().Set("Retry-After", "1")
		writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "solve rate exceeded", r.URL.Path)
		return
	}
	var req model.SolveRequest
	if err := readJSON(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := validateSolverConfig(&model.SolverConfig{ACO: req.ACO, ABCO: req.ABCO}, s.limits()); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid solver parameters", err.Error(), r.URL.Path)
		return
	}
	stored, err := s.Store.GetSolverConfig(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Load solver config failed", err.Error(), r.URL.Path)
		return
	}

	prob, err := s.buildProblem(r.Context(), stored)
	if err != nil {
		status := http.StatusInternalServerError
		if isNetworkError(err) {
			status = http.StatusUnprocessableEntity
		}
		writeProblem(w, status, "Build distance matrix failed", err.Error(), r.URL.Path)
		return
	}

	res, err := s.runSolver(algo, prob, stored, req)
	if err != nil {
		metrics.SolveRuns.WithLabelValues(algo, "invalid").Inc()
		writeProblem(w, http.StatusBadRequest, "Invalid solver parameters", err.Error(), r.URL.Path)
		return
	}
	elapsed := res.Stats.Elapsed.Seconds()
	metrics.SolveRuns.WithLabelValues(algo, "ok").Inc()
	metrics.SolveDuration.WithLabelValues(algo).Observe(elapsed)
	metrics.BestDistance.WithLabelValues(algo).Set(res.Cost)
	if res.Stats.ScoutResets > 0 {
		metrics.ScoutResets.Add(float64(res.Stats.ScoutResets))
	}
	opt.RecordStats(algo, res.Stats)
	log.Printf("solve %s cities=%d distance=%.2f iterations=%d improvements=%d took=%v",
		algo, len(prob.Cities), res.Cost, res.Stats.Iterations, res.Stats.Improvements, res.Stats.Elapsed)

	saved, err := s.Store.SaveResult(r.Context(), model.Result{
		Algorithm:     algo,
		Route:         prob.Names(res.Route),
		Distance:      res.Cost,
		ExecutionTime: elapsed,
	})
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Save result failed", err.Error(), r.URL.Path)
		return
	}
	s.Broker.Publish(TopicResults, SSEEvent{Type: EventResultCreated, Data: map[string]any{
		"id":        saved.ID,
		"algorithm": saved.Algorithm,
		"distance":  saved.Distance,
		"createdAt": saved.CreatedAt.Format(time.RFC3339),
	}})

	writeJSON(w, http.StatusOK, model.SolveResponse{
		ID:            saved.ID,
		Algorithm:     saved.Algorithm,
		Route:         saved.Route,
		Distance:      saved.Distance,
		ExecutionTime: saved.ExecutionTime,
		Steps:         steps(prob.Coordinates(res.Route)),
	})
}

// origin picks the configured origin, then the stored one, then Ilorin.
func (s *Server) origin(stored *model.SolverConfig) string {
	if s.Cfg.Solver.Origin != "" {
		return s.Cfg.Solver.Origin
	}
	if stored != nil && stored.Origin != "" {
		return stored.Origin
	}
	return defaultOrigin
}

func (s *Server) buildProblem(ctx context.Context, stored *model.SolverConfig) (opt.Problem, error) {
	nw, err := store.LoadNetwork(ctx, s.Store, s.origin(stored))
	if err != nil {
		return opt.Problem{}, err
	}
	return citymap.Build(nw, rand.New(rand.NewSource(s.nextSeed())))
}

func isNetworkError(err error) bool {
	for _, target := range []error{
		citymap.ErrNoCities, citymap.ErrNoOrigin, citymap.ErrUnknownCity, citymap.ErrDuplicateCity,
		opt.ErrEmptyMatrix, opt.ErrNegativeDistance, opt.ErrNonFinite,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// runSolver merges defaults, file config, stored config and the request,
// then runs the chosen colony to completion.
func (s *Server) runSolver(algo string, prob opt.Problem, stored *model.SolverConfig, req model.SolveRequest) (opt.Result, error) {
	if stored == nil {
		stored = &model.SolverConfig{}
	}
	switch algo {
	case opt.AlgorithmACO:
		cfg := overlayACO(opt.DefaultACOConfig(), s.Cfg.Solver.ACO, stored.ACO, req.ACO)
		if err := checkACOConfig(cfg, s.limits()); err != nil {
			return opt.Result{}, err
		}
		cfg.Workers = s.Cfg.Workers
		if cfg.Seed == 0 {
			cfg.Seed = s.nextSeed()
		}
		ac, err := opt.NewAntColony(prob.Dist, cfg)
		if err != nil {
			return opt.Result{}, err
		}
		return ac.Optimize(), nil
	default:
		cfg := overlayABCO(opt.DefaultABCOConfig(), s.Cfg.Solver.ABCO, stored.ABCO, req.ABCO)
		if err := checkABCOConfig(cfg, s.limits()); err != nil {
			return opt.Result{}, err
		}
		cfg.Workers = s.Cfg.Workers
		if cfg.Seed == 0 {
			cfg.Seed = s.nextSeed()
		}
		bc, err := opt.NewBeeColony(prob.Dist, cfg)
		if err != nil {
			return opt.Result{}, err
		}
		return bc.Optimize(), nil
	}
}

// steps returns the growing prefixes of a closed coordinate path, one frame
// per visited city.
func steps(coords [][2]float64) [][][2]float64 {
	out := make([][][2]float64, 0, len(coords))
	for i := 1; i <= len(coords); i++ {
		out = append(out, coords[:i:i])
	}
	return out
}
