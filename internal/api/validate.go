package api

import (
	"fmt"
	"strings"

	"tspcolony/internal/model"
	"tspcolony/internal/opt"
)

// limits caps the parameters that size per-run work and memory.
type limits struct {
	population int
	iterations int
}

func (s *Server) limits() limits {
	pop, iters := s.Cfg.SolverLimits()
	return limits{population: pop, iterations: iters}
}

func checkRange(name string, v, hi int) error {
	if v < 1 || v > hi {
		return fmt.Errorf("%s must be in [1,%d]", name, hi)
	}
	return nil
}

func validateACOParams(p *model.ACOParams, lim limits) error {
	if p == nil {
		return nil
	}
	if p.Ants != nil {
		if err := checkRange("ants", *p.Ants, lim.population); err != nil {
			return err
		}
	}
	if p.Iterations != nil {
		if err := checkRange("iterations", *p.Iterations, lim.iterations); err != nil {
			return err
		}
	}
	if p.Alpha != nil && *p.Alpha < 0 {
		return fmt.Errorf("alpha must be >= 0")
	}
	if p.Beta != nil && *p.Beta < 0 {
		return fmt.Errorf("beta must be >= 0")
	}
	if p.Evaporation != nil && (*p.Evaporation <= 0 || *p.Evaporation >= 1) {
		return fmt.Errorf("evaporation must be in (0,1)")
	}
	if p.InitialPheromone != nil && *p.InitialPheromone <= 0 {
		return fmt.Errorf("initialPheromone must be > 0")
	}
	return nil
}

func validateABCOParams(p *model.ABCOParams, lim limits) error {
	if p == nil {
		return nil
	}
	if p.ColonySize != nil {
		if err := checkRange("colonySize", *p.ColonySize, lim.population); err != nil {
			return err
		}
	}
	if p.Iterations != nil {
		if err := checkRange("iterations", *p.Iterations, lim.iterations); err != nil {
			return err
		}
	}
	if p.TrialsLimit != nil && *p.TrialsLimit < 1 {
		return fmt.Errorf("trialsLimit must be >= 1")
	}
	return nil
}

func validateSolverConfig(c *model.SolverConfig, lim limits) error {
	if err := validateACOParams(c.ACO, lim); err != nil {
		return fmt.Errorf("aco: %w", err)
	}
	if err := validateABCOParams(c.ABCO, lim); err != nil {
		return fmt.Errorf("abco: %w", err)
	}
	return nil
}

// checkACOConfig bounds a merged config, which may carry values from the
// YAML file or a config stored before the caps changed.
func checkACOConfig(cfg opt.ACOConfig, lim limits) error {
	if err := checkRange("ants", cfg.Ants, lim.population); err != nil {
		return fmt.Errorf("aco: %w", err)
	}
	if err := checkRange("iterations", cfg.Iterations, lim.iterations); err != nil {
		return fmt.Errorf("aco: %w", err)
	}
	return nil
}

func checkABCOConfig(cfg opt.ABCOConfig, lim limits) error {
	if err := checkRange("colonySize", cfg.ColonySize, lim.population); err != nil {
		return fmt.Errorf("abco: %w", err)
	}
	if err := checkRange("iterations", cfg.Iterations, lim.iterations); err != nil {
		return fmt.Errorf("abco: %w", err)
	}
	return nil
}

// normalizeAlgorithm maps a query value to ACO or ABCO.
func normalizeAlgorithm(v string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "":
		return "", nil
	case opt.AlgorithmACO:
		return opt.AlgorithmACO, nil
	case opt.AlgorithmABCO:
		return opt.AlgorithmABCO, nil
	}
	return "", fmt.Errorf("invalid algorithm: %s (allowed: ACO, ABCO)", v)
}

// overlayACO applies non-nil fields of each layer in order.
func overlayACO(cfg opt.ACOConfig, layers ...*model.ACOParams) opt.ACOConfig {
	for _, p := range layers {
		if p == nil {
			continue
		}
		if p.Ants != nil {
			cfg.Ants = *p.Ants
		}
		if p.Iterations != nil {
			cfg.Iterations = *p.Iterations
		}
		if p.Alpha != nil {
			cfg.Alpha = *p.Alpha
		}
		if p.Beta != nil {
			cfg.Beta = *p.Beta
		}
		if p.Evaporation != nil {
			cfg.Evaporation = *p.Evaporation
		}
		if p.InitialPheromone != nil {
			cfg.InitialPheromone = *p.InitialPheromone
		}
		if p.Seed != nil {
			cfg.Seed = *p.Seed
		}
	}
	return cfg
}

func overlayABCO(cfg opt.ABCOConfig, layers ...*model.ABCOParams) opt.ABCOConfig {
	for _, p := range layers {
		if p == nil {
			continue
		}
		if p.ColonySize != nil {
			cfg.ColonySize = *p.ColonySize
		}
		if p.Iterations != nil {
			cfg.Iterations = *p.Iterations
		}
		if p.TrialsLimit != nil {
			cfg.TrialsLimit = *p.TrialsLimit
		}
		if p.Seed != nil {
			cfg.Seed = *p.Seed
		}
	}
	return cfg
}
