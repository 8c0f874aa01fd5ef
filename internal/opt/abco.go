package opt

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"
)

// ABCOConfig tunes the bee colony.
type ABCOConfig struct {
	ColonySize  int `json:"colonySize" yaml:"colony_size"`
	Iterations  int `json:"iterations" yaml:"iterations"`
	TrialsLimit int `json:"trialsLimit" yaml:"trials_limit"`
	// Workers bounds the goroutines generating employed-phase neighbours.
	Workers int `json:"workers" yaml:"workers"`
	// Seed fixes the random stream; zero seeds from the clock.
	Seed int64 `json:"seed,omitempty" yaml:"seed"`
}

// DefaultABCOConfig returns the stock parameters.
func DefaultABCOConfig() ABCOConfig {
	return ABCOConfig{ColonySize: 20, Iterations: 200, TrialsLimit: 15, Workers: 1}
}

// Validate reports the first out-of-range parameter.
func (c ABCOConfig) Validate() error {
	switch {
	case c.ColonySize < 1:
		return fmt.Errorf("%w: colony size must be >= 1", ErrInvalidConfig)
	case c.Iterations < 1:
		return fmt.Errorf("%w: iterations must be >= 1", ErrInvalidConfig)
	case c.TrialsLimit < 1:
		return fmt.Errorf("%w: trials limit must be >= 1", ErrInvalidConfig)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// BeeColony keeps a population of tours, each with a count of failed
// improvement attempts. Stale members are replaced by scouts.
// An instance is not safe for concurrent use.
type BeeColony struct {
	cfg    ABCOConfig
	dist   *Matrix
	rng    *rand.Rand
	colony []Route
	costs  []float64
	trials []int

	best     Route
	bestCost float64
}

// NewBeeColony seeds the colony with random tours.
func NewBeeColony(dist *Matrix, cfg ABCOConfig) (*BeeColony, error) {
	if dist == nil {
		return nil, ErrEmptyMatrix
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bc := &BeeColony{
		cfg:      cfg,
		dist:     dist,
		rng:      newRand(cfg.Seed),
		colony:   make([]Route, cfg.ColonySize),
		costs:    make([]float64, cfg.ColonySize),
		trials:   make([]int, cfg.ColonySize),
		bestCost: math.Inf(1),
	}
	for i := range bc.colony {
		bc.colony[i] = randomRoute(dist.Len(), bc.rng)
		bc.costs[i] = dist.TourCost(bc.colony[i])
	}
	bc.updateBest()
	return bc, nil
}

// Config returns the parameters the colony runs with.
func (bc *BeeColony) Config() ABCOConfig { return bc.cfg }

// Members returns copies of the current tours.
func (bc *BeeColony) Members() []Route {
	out := make([]Route, len(bc.colony))
	for i, r := range bc.colony {
		out[i] = r.Clone()
	}
	return out
}

// Trials returns a copy of the per-member trial counters.
func (bc *BeeColony) Trials() []int { return append([]int(nil), bc.trials...) }

// Best returns the running best tour and its cost.
func (bc *BeeColony) Best() (Route, float64) { return bc.best.Clone(), bc.bestCost }

// Perturb returns a random neighbour of r.
func (bc *BeeColony) Perturb(r Route) Route { return RandomMove(len(r), bc.rng).Apply(r) }

// accept replaces member i when cand is strictly cheaper, otherwise it
// counts a failed trial.
func (bc *BeeColony) accept(i int, cand Route, cost float64) bool {
	if cost < bc.costs[i] {
		bc.colony[i], bc.costs[i], bc.trials[i] = cand, cost, 0
		return true
	}
	bc.trials[i]++
	return false
}

// EmployedPhase tries one neighbour per member.
func (bc *BeeColony) EmployedPhase() {
	size := len(bc.colony)
	cands := make([]Route, size)
	costs := make([]float64, size)
	runPhase(bc.cfg.Workers, splitRands(bc.rng, size), func(i int, rng *rand.Rand) {
		cands[i] = RandomMove(len(bc.colony[i]), rng).Apply(bc.colony[i])
		costs[i] = bc.dist.TourCost(cands[i])
	})
	for i := range cands {
		bc.accept(i, cands[i], costs[i])
	}
}

// OnlookerPhase draws colony-size members in proportion to 1/(cost+eps)
// and tries a neighbour of each. Fitness is fixed at the start of the phase.
func (bc *BeeColony) OnlookerPhase() {
	fitness := make([]float64, len(bc.costs))
	for i, c := range bc.costs {
		fitness[i] = 1 / (c + eps)
	}
	for k := 0; k < len(bc.colony); k++ {
		i := WeightedChoice(fitness, bc.rng)
		cand := bc.Perturb(bc.colony[i])
		bc.accept(i, cand, bc.dist.TourCost(cand))
	}
}

// ScoutPhase replaces every member whose trials reached the limit and
// returns their indices.
func (bc *BeeColony) ScoutPhase() []int {
	var reset []int
	for i, t := range bc.trials {
		if t < bc.cfg.TrialsLimit {
			continue
		}
		bc.colony[i] = randomRoute(bc.dist.Len(), bc.rng)
		bc.costs[i] = bc.dist.TourCost(bc.colony[i])
		bc.trials[i] = 0
		reset = append(reset, i)
	}
	return reset
}

// updateBest takes the colony's cheapest member as the running best when it
// is strictly cheaper. Ties keep the earlier best.
func (bc *BeeColony) updateBest() bool {
	i := floats.MinIdx(bc.costs)
	if !(bc.costs[i] < bc.bestCost) {
		return false
	}
	bc.best, bc.bestCost = bc.colony[i].Clone(), bc.costs[i]
	return true
}

// Round runs the employed, onlooker and scout phases once, then refreshes
// the running best. It reports the scout resets and whether the best improved.
func (bc *BeeColony) Round() (resets int, improved bool) {
	bc.EmployedPhase()
	bc.OnlookerPhase()
	resets = len(bc.ScoutPhase())
	return resets, bc.updateBest()
}

// Optimize runs employed, onlooker and scout phases for the configured
// number of rounds and returns the cheapest tour seen.
func (bc *BeeColony) Optimize() Result {
	start := time.Now()
	st := Stats{InitialCost: bc.bestCost}
	for it := 1; it <= bc.cfg.Iterations; it++ {
		st.Iterations++
		resets, improved := bc.Round()
		st.ScoutResets += resets
		if improved {
			st.Improvements++
			st.BestAtIteration = it
		}
		st.History = append(st.History, summarize(it, bc.bestCost, bc.costs))
	}
	st.BestCost = bc.bestCost
	st.Elapsed = time.Since(start)
	return Result{Algorithm: AlgorithmABCO, Route: bc.best.Clone(), Cost: bc.bestCost, Stats: st}
}
