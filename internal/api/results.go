package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"tspcolony/internal/model"
	"tspcolony/internal/opt"
	"tspcolony/internal/store"
)

// ResultsHandler handles GET/DELETE /v1/results
func (s *Server) ResultsHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/results" {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	switch r.Method {
	case http.MethodGet:
		algo, err := normalizeAlgorithm(r.URL.Query().Get("algorithm"))
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid algorithm", err.Error(), r.URL.Path)
			return
		}
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			if limit, err = strconv.Atoi(v); err != nil || limit < 0 {
				writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be a non-negative integer", r.URL.Path)
				return
			}
		}
		if algo != "" {
			items, err := s.Store.ListResults(r.Context(), algo, limit)
			if err != nil {
				writeProblem(w, http.StatusInternalServerError, "List results failed", err.Error(), r.URL.Path)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"items": nonNil(items)})
			return
		}
		// no filter: recent runs of each algorithm side by side
		aco, err := s.Store.ListResults(r.Context(), opt.AlgorithmACO, limit)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "List results failed", err.Error(), r.URL.Path)
			return
		}
		abco, err := s.Store.ListResults(r.Context(), opt.AlgorithmABCO, limit)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "List results failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"aco": nonNil(aco), "abco": nonNil(abco)})
	case http.MethodDelete:
		if !s.getPrincipal(r).IsAdmin() {
			writeProblem(w, http.StatusForbidden, "Forbidden", "admin required", r.URL.Path)
			return
		}
		n, err := s.Store.ClearResults(r.Context())
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Clear results failed", err.Error(), r.URL.Path)
			return
		}
		s.Broker.Publish(TopicResults, SSEEvent{Type: EventResultsCleared, Data: map[string]any{"deleted": n}})
		writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ResultByIDHandler handles GET /v1/results/{id} and /v1/results/{id}/frames/ws
func (s *Server) ResultByIDHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	rest := strings.TrimPrefix(path, "/v1/results/")
	if rest == path || rest == "" {
		writeProblem(w, http.StatusNotFound, "Not Found", "missing id", path)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	switch {
	case len(parts) == 1:
	case len(parts) == 3 && parts[1] == "frames" && parts[2] == "ws":
	default:
		writeProblem(w, http.StatusNotFound, "Not Found", "", path)
		return
	}

	detail, err := s.resultDetail(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Result not found", id, path)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Load result failed", err.Error(), path)
		return
	}
	if len(parts) == 3 {
		s.FramesWSHandler(w, r, detail)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// resultDetail resolves route names to coordinates. Cities removed since the
// run was stored are skipped.
func (s *Server) resultDetail(ctx context.Context, id string) (model.ResultDetail, error) {
	res, err := s.Store.GetResult(ctx, id)
	if err != nil {
		return model.ResultDetail{}, err
	}
	cities, err := s.Store.ListCities(ctx)
	if err != nil {
		return model.ResultDetail{}, err
	}
	byName := make(map[string][2]float64, len(cities))
	for _, c := range cities {
		byName[c.Name] = [2]float64{c.X, c.Y}
	}
	coords := make([][2]float64, 0, len(res.Route)+1)
	for _, name := range res.Route {
		if xy, ok := byName[name]; ok {
			coords = append(coords, xy)
		}
	}
	if len(coords) > 1 && coords[0] != coords[len(coords)-1] {
		coords = append(coords, coords[0])
	}
	return model.ResultDetail{Result: res, RouteCoordinates: coords, Steps: steps(coords)}, nil
}

func nonNil(items []model.Result) []model.Result {
	if items == nil {
		return []model.Result{}
	}
	return items
}
