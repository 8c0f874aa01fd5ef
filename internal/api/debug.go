package api

import (
	"net/http"
	"time"

	"tspcolony/internal/buildinfo"
)

func (s *Server) DebugJSON(w http.ResponseWriter, r *http.Request) {
	stored, _ := s.Store.GetSolverConfig(r.Context())
	_, redis := s.Broker.(*RedisBroker)
	info := map[string]any{
		"build": buildinfo.Info(),
		"time":  time.Now().UTC().Format(time.RFC3339),
		"config": map[string]any{
			"PORT":             s.Cfg.Port,
			"RATE_RPS":         s.Cfg.RateRPS,
			"RATE_BURST":       s.Cfg.RateBurst,
			"SOLVER_WORKERS":   s.Cfg.Workers,
			"ORIGIN":           s.origin(stored),
			"HAS_DATABASE_URL": s.Cfg.DatabaseURL != "",
			"HAS_REDIS_URL":    s.Cfg.RedisURL != "",
			"REDIS_BROKER":     redis,
		},
	}
	writeJSON(w, http.StatusOK, info)
}
