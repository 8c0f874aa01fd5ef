package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestACOConfigValidate(t *testing.T) {
	require.NoError(t, DefaultACOConfig().Validate())
	for name, mut := range map[string]func(*ACOConfig){
		"no ants":          func(c *ACOConfig) { c.Ants = 0 },
		"no iterations":    func(c *ACOConfig) { c.Iterations = 0 },
		"negative alpha":   func(c *ACOConfig) { c.Alpha = -1 },
		"negative beta":    func(c *ACOConfig) { c.Beta = -0.5 },
		"evaporation zero": func(c *ACOConfig) { c.Evaporation = 0 },
		"evaporation one":  func(c *ACOConfig) { c.Evaporation = 1 },
		"no pheromone":     func(c *ACOConfig) { c.InitialPheromone = 0 },
		"negative workers": func(c *ACOConfig) { c.Workers = -2 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultACOConfig()
			mut(&cfg)
			_, err := NewAntColony(mustMatrix(t, ladder), cfg)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestAntColonyInitialPheromone(t *testing.T) {
	ac, err := NewAntColony(mustMatrix(t, ladder), DefaultACOConfig())
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if i == j {
				assert.Equal(t, 0.0, ac.Pheromone(i, j))
			} else {
				assert.Equal(t, 0.1, ac.Pheromone(i, j))
			}
		}
	}
}

func TestRunAntProducesValidRoutes(t *testing.T) {
	m := randomMatrix(t, 8, 4)
	cfg := DefaultACOConfig()
	cfg.Seed = 17
	ac, err := NewAntColony(m, cfg)
	require.NoError(t, err)
	for i := 0; i < 200; i++ {
		requireValidRoute(t, ac.RunAnt(), 8)
	}
}

func TestEvaporationWithEmptyBatch(t *testing.T) {
	cfg := DefaultACOConfig()
	cfg.Seed = 1
	ac, err := NewAntColony(mustMatrix(t, ladder), cfg)
	require.NoError(t, err)
	// put some structure on the trails first
	require.NoError(t, ac.UpdatePheromones([]Route{{0, 1, 2, 3}, {0, 2, 1, 3}}))

	before := make([][]float64, 4)
	for i := range before {
		before[i] = make([]float64, 4)
		for j := range before[i] {
			before[i][j] = ac.Pheromone(i, j)
		}
	}
	require.NoError(t, ac.UpdatePheromones(nil))
	for i := range before {
		for j := range before[i] {
			assert.InDelta(t, before[i][j]*(1-cfg.Evaporation), ac.Pheromone(i, j), 1e-12)
		}
	}
}

func TestUpdatePheromonesDepositsOnClosedTour(t *testing.T) {
	cfg := DefaultACOConfig()
	ac, err := NewAntColony(mustMatrix(t, ladder), cfg)
	require.NoError(t, err)
	require.NoError(t, ac.UpdatePheromones([]Route{{0, 1, 2, 3}}))

	evaporated := 0.1 * (1 - cfg.Evaporation)
	dep := 1.0 / 7
	for _, e := range [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}} {
		assert.InDelta(t, evaporated+dep, ac.Pheromone(e[0], e[1]), 1e-12, "edge %v", e)
	}
	// directed: the reverse edges only evaporate
	for _, e := range [][2]int{{1, 0}, {2, 1}, {3, 2}, {0, 3}, {0, 2}} {
		assert.InDelta(t, evaporated, ac.Pheromone(e[0], e[1]), 1e-12, "edge %v", e)
	}
}

func TestUpdatePheromonesSkipsZeroCostRoutes(t *testing.T) {
	zero := [][]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}
	ac, err := NewAntColony(mustMatrix(t, zero), DefaultACOConfig())
	require.NoError(t, err)
	require.NoError(t, ac.UpdatePheromones([]Route{{0, 1, 2}}))
	assert.InDelta(t, 0.07, ac.Pheromone(0, 1), 1e-12)
}

func TestUpdatePheromonesRejectsInvalidRoute(t *testing.T) {
	ac, err := NewAntColony(mustMatrix(t, ladder), DefaultACOConfig())
	require.NoError(t, err)
	err = ac.UpdatePheromones([]Route{{0, 1, 1, 3}})
	require.ErrorIs(t, err, ErrInvalidRoute)
	// nothing was applied
	assert.Equal(t, 0.1, ac.Pheromone(0, 1))
}

func TestAntColonyFindsLadderOptimum(t *testing.T) {
	m := mustMatrix(t, ladder)
	_, optimum := bruteForce(m)
	require.Equal(t, 7.0, optimum)
	for seed := int64(1); seed <= 20; seed++ {
		ac, err := NewAntColony(m, ACOConfig{
			Ants: 5, Iterations: 20, Alpha: 1, Beta: 3,
			Evaporation: 0.3, InitialPheromone: 0.1, Seed: seed,
		})
		require.NoError(t, err)
		res := ac.Optimize()
		requireValidRoute(t, res.Route, 4)
		assert.Equal(t, optimum, res.Cost, "seed %d", seed)
		assert.Contains(t, []Route{{0, 1, 2, 3}, {0, 3, 2, 1}}, res.Route)
		assert.Equal(t, AlgorithmACO, res.Algorithm)
	}
}

func TestAntColonyRunningBestNeverIncreases(t *testing.T) {
	cfg := DefaultACOConfig()
	cfg.Seed = 8
	cfg.Iterations = 40
	ac, err := NewAntColony(randomMatrix(t, 9, 2), cfg)
	require.NoError(t, err)
	res := ac.Optimize()
	require.Len(t, res.Stats.History, 40)
	for i := 1; i < len(res.Stats.History); i++ {
		assert.LessOrEqual(t, res.Stats.History[i].BestSoFar, res.Stats.History[i-1].BestSoFar)
		assert.LessOrEqual(t, res.Stats.History[i].BestSoFar, res.Stats.History[i].Min)
	}
	assert.Equal(t, res.Cost, res.Stats.BestCost)
	assert.LessOrEqual(t, res.Cost, res.Stats.InitialCost)
	c, err := Cost(res.Route, ac.dist)
	require.NoError(t, err)
	assert.Equal(t, res.Cost, c)
}

func TestAntColonyDegenerateZeroEntry(t *testing.T) {
	rows := [][]float64{
		{0, 2, 3, 4, 5},
		{2, 0, 0, 6, 7},
		{3, 0, 0, 8, 9},
		{4, 6, 8, 0, 1},
		{5, 7, 9, 1, 0},
	}
	cfg := DefaultACOConfig()
	cfg.Seed = 3
	cfg.Iterations = 30
	ac, err := NewAntColony(mustMatrix(t, rows), cfg)
	require.NoError(t, err)
	res := ac.Optimize()
	requireValidRoute(t, res.Route, 5)
	assert.GreaterOrEqual(t, res.Cost, 0.0)
}

func TestAntColonyAllZeroMatrix(t *testing.T) {
	zero := make([][]float64, 5)
	for i := range zero {
		zero[i] = make([]float64, 5)
	}
	cfg := DefaultACOConfig()
	cfg.Seed = 4
	cfg.Iterations = 5
	ac, err := NewAntColony(mustMatrix(t, zero), cfg)
	require.NoError(t, err)
	res := ac.Optimize()
	requireValidRoute(t, res.Route, 5)
	assert.Equal(t, 0.0, res.Cost)
}

func TestAntColonySingleCity(t *testing.T) {
	ac, err := NewAntColony(mustMatrix(t, [][]float64{{0}}), DefaultACOConfig())
	require.NoError(t, err)
	res := ac.Optimize()
	assert.Equal(t, Route{0}, res.Route)
	assert.Equal(t, 0.0, res.Cost)
}

func TestAntColonyIndependentOfWorkerCount(t *testing.T) {
	m := randomMatrix(t, 10, 6)
	run := func(workers int) Result {
		cfg := DefaultACOConfig()
		cfg.Seed = 99
		cfg.Iterations = 15
		cfg.Workers = workers
		ac, err := NewAntColony(m, cfg)
		require.NoError(t, err)
		return ac.Optimize()
	}
	serial := run(1)
	parallel := run(4)
	assert.Equal(t, serial.Route, parallel.Route)
	assert.Equal(t, serial.Cost, parallel.Cost)
	for i := range serial.Stats.History {
		assert.Equal(t, serial.Stats.History[i].Mean, parallel.Stats.History[i].Mean)
	}
}
