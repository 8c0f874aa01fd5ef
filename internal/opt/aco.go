package opt

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"
)

// ACOConfig tunes the ant colony.
type ACOConfig struct {
	Ants             int     `json:"ants" yaml:"ants"`
	Iterations       int     `json:"iterations" yaml:"iterations"`
	Alpha            float64 `json:"alpha" yaml:"alpha"`
	Beta             float64 `json:"beta" yaml:"beta"`
	Evaporation      float64 `json:"evaporation" yaml:"evaporation"`
	InitialPheromone float64 `json:"initialPheromone" yaml:"initial_pheromone"`
	// Workers bounds the goroutines that build tours within one round.
	Workers int `json:"workers" yaml:"workers"`
	// Seed fixes the random stream; zero seeds from the clock.
	Seed int64 `json:"seed,omitempty" yaml:"seed"`
}

// DefaultACOConfig returns the stock parameters.
func DefaultACOConfig() ACOConfig {
	return ACOConfig{
		Ants:             15,
		Iterations:       100,
		Alpha:            1,
		Beta:             3,
		Evaporation:      0.3,
		InitialPheromone: 0.1,
		Workers:          1,
	}
}

// Validate reports the first out-of-range parameter.
func (c ACOConfig) Validate() error {
	switch {
	case c.Ants < 1:
		return fmt.Errorf("%w: ants must be >= 1", ErrInvalidConfig)
	case c.Iterations < 1:
		return fmt.Errorf("%w: iterations must be >= 1", ErrInvalidConfig)
	case !(c.Alpha >= 0) || math.IsInf(c.Alpha, 0):
		return fmt.Errorf("%w: alpha must be a finite value >= 0", ErrInvalidConfig)
	case !(c.Beta >= 0) || math.IsInf(c.Beta, 0):
		return fmt.Errorf("%w: beta must be a finite value >= 0", ErrInvalidConfig)
	case !(c.Evaporation > 0 && c.Evaporation < 1):
		return fmt.Errorf("%w: evaporation must be in (0,1)", ErrInvalidConfig)
	case !(c.InitialPheromone > 0) || math.IsInf(c.InitialPheromone, 0):
		return fmt.Errorf("%w: initial pheromone must be > 0", ErrInvalidConfig)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// AntColony builds tours guided by a pheromone matrix that it reinforces
// after every round. An instance is not safe for concurrent use.
type AntColony struct {
	cfg  ACOConfig
	dist *Matrix
	vis  *mat.Dense
	pher *mat.Dense
	rng  *rand.Rand
}

// NewAntColony prepares a colony over dist with a fresh pheromone matrix.
func NewAntColony(dist *Matrix, cfg ACOConfig) (*AntColony, error) {
	if dist == nil {
		return nil, ErrEmptyMatrix
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := dist.Len()
	pher := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				pher.Set(i, j, cfg.InitialPheromone)
			}
		}
	}
	return &AntColony{
		cfg:  cfg,
		dist: dist,
		vis:  dist.visibility(),
		pher: pher,
		rng:  newRand(cfg.Seed),
	}, nil
}

// Config returns the parameters the colony runs with.
func (ac *AntColony) Config() ACOConfig { return ac.cfg }

// Pheromone returns the trail level on the edge i→j.
func (ac *AntColony) Pheromone(i, j int) float64 { return ac.pher.At(i, j) }

// RunAnt builds one tour from the origin using the instance stream.
func (ac *AntColony) RunAnt() Route { return ac.runAnt(ac.rng) }

func (ac *AntColony) runAnt(rng *rand.Rand) Route {
	n := ac.dist.Len()
	route := make(Route, 1, n)
	visited := make([]bool, n)
	visited[0] = true
	cand := make([]int, 0, n)
	weights := make([]float64, 0, n)
	cur := 0
	for len(route) < n {
		cand, weights = cand[:0], weights[:0]
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			cand = append(cand, j)
			weights = append(weights, math.Pow(ac.pher.At(cur, j), ac.cfg.Alpha)*math.Pow(ac.vis.At(cur, j), ac.cfg.Beta))
		}
		next := cand[WeightedChoice(weights, rng)]
		route = append(route, next)
		visited[next] = true
		cur = next
	}
	return route
}

// UpdatePheromones evaporates every trail, then lets each route with a
// positive cost deposit 1/cost on every edge it uses, closing edge included.
func (ac *AntColony) UpdatePheromones(routes []Route) error {
	costs := make([]float64, len(routes))
	for k, r := range routes {
		c, err := Cost(r, ac.dist)
		if err != nil {
			return fmt.Errorf("route %d: %w", k, err)
		}
		costs[k] = c
	}
	ac.reinforce(routes, costs)
	return nil
}

func (ac *AntColony) reinforce(routes []Route, costs []float64) {
	ac.pher.Scale(1-ac.cfg.Evaporation, ac.pher)
	for k, r := range routes {
		if !(costs[k] > 0) {
			continue
		}
		dep := 1 / costs[k]
		for h := range r {
			i, j := r[h], r[(h+1)%len(r)]
			ac.pher.Set(i, j, ac.pher.At(i, j)+dep)
		}
	}
}

// Optimize runs the configured number of rounds and returns the cheapest
// tour seen. Ties keep the tour found first.
func (ac *AntColony) Optimize() Result {
	start := time.Now()
	ants := ac.cfg.Ants
	routes := make([]Route, ants)
	costs := make([]float64, ants)

	var best Route
	bestCost := math.Inf(1)
	var st Stats
	for it := 1; it <= ac.cfg.Iterations; it++ {
		st.Iterations++
		// all ants of a round read the same pheromone snapshot
		runPhase(ac.cfg.Workers, splitRands(ac.rng, ants), func(k int, rng *rand.Rand) {
			routes[k] = ac.runAnt(rng)
			costs[k] = ac.dist.TourCost(routes[k])
		})
		ac.reinforce(routes, costs)
		for k, c := range costs {
			if c < bestCost {
				if best != nil {
					st.Improvements++
				}
				best, bestCost = routes[k].Clone(), c
				st.BestAtIteration = it
			}
		}
		if it == 1 {
			st.InitialCost = bestCost
		}
		st.History = append(st.History, summarize(it, bestCost, costs))
	}
	st.BestCost = bestCost
	st.Elapsed = time.Since(start)
	return Result{Algorithm: AlgorithmACO, Route: best, Cost: bestCost, Stats: st}
}
