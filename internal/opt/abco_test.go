package opt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestABCOConfigValidate(t *testing.T) {
	require.NoError(t, DefaultABCOConfig().Validate())
	for name, cfg := range map[string]ABCOConfig{
		"no colony":     {ColonySize: 0, Iterations: 1, TrialsLimit: 1},
		"no iterations": {ColonySize: 1, Iterations: 0, TrialsLimit: 1},
		"no trials":     {ColonySize: 1, Iterations: 1, TrialsLimit: 0},
		"bad workers":   {ColonySize: 1, Iterations: 1, TrialsLimit: 1, Workers: -1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewBeeColony(mustMatrix(t, ladder), cfg)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
	_, err := NewBeeColony(nil, DefaultABCOConfig())
	require.ErrorIs(t, err, ErrEmptyMatrix)
}

func TestBeeColonyInitialization(t *testing.T) {
	m := randomMatrix(t, 7, 12)
	cfg := DefaultABCOConfig()
	cfg.Seed = 5
	bc, err := NewBeeColony(m, cfg)
	require.NoError(t, err)

	members := bc.Members()
	require.Len(t, members, cfg.ColonySize)
	best, bestCost := bc.Best()
	cheapest := members[0]
	for _, r := range members {
		requireValidRoute(t, r, 7)
		if m.TourCost(r) < m.TourCost(cheapest) {
			cheapest = r
		}
	}
	assert.Equal(t, m.TourCost(cheapest), bestCost)
	assert.Equal(t, cheapest, best)
	assert.Equal(t, make([]int, cfg.ColonySize), bc.Trials())
}

func TestEmployedPhaseAcceptsOnlyStrictImprovements(t *testing.T) {
	m := randomMatrix(t, 8, 31)
	cfg := DefaultABCOConfig()
	cfg.Seed = 77
	bc, err := NewBeeColony(m, cfg)
	require.NoError(t, err)
	for round := 0; round < 10; round++ {
		before := bc.Members()
		trials := bc.Trials()
		bc.EmployedPhase()
		after := bc.Members()
		for i := range after {
			requireValidRoute(t, after[i], 8)
			if bc.trials[i] == 0 {
				assert.Less(t, m.TourCost(after[i]), m.TourCost(before[i]))
			} else {
				assert.Equal(t, trials[i]+1, bc.trials[i])
				assert.Equal(t, before[i], after[i])
			}
		}
	}
}

func TestOnlookerPhaseNeverWorsensMembers(t *testing.T) {
	m := randomMatrix(t, 8, 32)
	cfg := DefaultABCOConfig()
	cfg.Seed = 78
	bc, err := NewBeeColony(m, cfg)
	require.NoError(t, err)
	for round := 0; round < 10; round++ {
		before := append([]float64(nil), bc.costs...)
		bc.OnlookerPhase()
		for i, c := range bc.costs {
			assert.LessOrEqual(t, c, before[i])
			assert.Equal(t, m.TourCost(bc.colony[i]), c)
			requireValidRoute(t, bc.colony[i], 8)
		}
	}
}

func TestScoutPhaseResetsStaleMembers(t *testing.T) {
	m := randomMatrix(t, 12, 40)
	cfg := DefaultABCOConfig()
	cfg.Seed = 2
	cfg.TrialsLimit = 3
	bc, err := NewBeeColony(m, cfg)
	require.NoError(t, err)

	bc.trials[1] = 3
	bc.trials[4] = 9
	bc.trials[5] = 2
	before := bc.Members()

	reset := bc.ScoutPhase()
	assert.Equal(t, []int{1, 4}, reset)
	trials := bc.Trials()
	assert.Zero(t, trials[1])
	assert.Zero(t, trials[4])
	assert.Equal(t, 2, trials[5])
	for _, i := range reset {
		requireValidRoute(t, bc.colony[i], 12)
		assert.NotEqual(t, before[i], bc.colony[i])
		assert.Equal(t, m.TourCost(bc.colony[i]), bc.costs[i])
	}
	assert.Equal(t, before[5], bc.colony[5])
}

func TestBeeColonyBestRefreshedAtRoundEnd(t *testing.T) {
	m := randomMatrix(t, 9, 21)
	cfg := DefaultABCOConfig()
	cfg.Seed = 8
	cfg.TrialsLimit = 3
	bc, err := NewBeeColony(m, cfg)
	require.NoError(t, err)

	for round := 0; round < 25; round++ {
		prevBest, prevCost := bc.Best()
		bc.EmployedPhase()
		bc.OnlookerPhase()
		bc.ScoutPhase()
		best, cost := bc.Best()
		assert.Equal(t, prevBest, best, "round %d: phases alone must not move the best", round)
		assert.Equal(t, prevCost, cost)

		_, improved := bc.Round()
		best, cost = bc.Best()
		colonyMin := bc.costs[0]
		for _, c := range bc.costs {
			colonyMin = math.Min(colonyMin, c)
		}
		assert.LessOrEqual(t, cost, colonyMin, "round %d", round)
		assert.LessOrEqual(t, cost, prevCost)
		assert.Equal(t, cost < prevCost, improved)
		assert.Equal(t, m.TourCost(best), cost)
	}
}

func TestBeeColonyFindsLadderOptimum(t *testing.T) {
	m := mustMatrix(t, ladder)
	_, optimum := bruteForce(m)
	for seed := int64(1); seed <= 20; seed++ {
		bc, err := NewBeeColony(m, ABCOConfig{ColonySize: 5, Iterations: 30, TrialsLimit: 5, Seed: seed})
		require.NoError(t, err)
		res := bc.Optimize()
		requireValidRoute(t, res.Route, 4)
		assert.Equal(t, optimum, res.Cost, "seed %d", seed)
		assert.Equal(t, AlgorithmABCO, res.Algorithm)
	}
}

func TestBeeColonyMatchesBruteForce(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		m := randomMatrix(t, 6, seed)
		_, optimum := bruteForce(m)
		cfg := DefaultABCOConfig()
		cfg.Seed = seed
		bc, err := NewBeeColony(m, cfg)
		require.NoError(t, err)
		res := bc.Optimize()
		assert.Equal(t, optimum, res.Cost, "seed %d", seed)
	}
}

func TestBeeColonyRunningBestNeverIncreases(t *testing.T) {
	cfg := DefaultABCOConfig()
	cfg.Seed = 13
	cfg.Iterations = 60
	cfg.TrialsLimit = 4
	m := randomMatrix(t, 10, 3)
	bc, err := NewBeeColony(m, cfg)
	require.NoError(t, err)
	res := bc.Optimize()
	require.Len(t, res.Stats.History, 60)
	for i := 1; i < len(res.Stats.History); i++ {
		assert.LessOrEqual(t, res.Stats.History[i].BestSoFar, res.Stats.History[i-1].BestSoFar)
		assert.LessOrEqual(t, res.Stats.History[i].BestSoFar, res.Stats.History[i].Min)
	}
	assert.LessOrEqual(t, res.Cost, res.Stats.InitialCost)
	assert.Positive(t, res.Stats.ScoutResets)
	c, err := Cost(res.Route, m)
	require.NoError(t, err)
	assert.Equal(t, res.Cost, c)
}

func TestBeeColonyTinyInstances(t *testing.T) {
	for n := 1; n <= 2; n++ {
		rows := make([][]float64, n)
		for i := range rows {
			rows[i] = make([]float64, n)
			for j := range rows[i] {
				if i != j {
					rows[i][j] = 3
				}
			}
		}
		bc, err := NewBeeColony(mustMatrix(t, rows), ABCOConfig{ColonySize: 3, Iterations: 4, TrialsLimit: 2, Seed: 1})
		require.NoError(t, err)
		res := bc.Optimize()
		requireValidRoute(t, res.Route, n)
		assert.Equal(t, float64(3*n*(n-1)), res.Cost)
	}
}

func TestBeeColonyDegenerateZeroEntry(t *testing.T) {
	rows := [][]float64{
		{0, 2, 3, 4, 5},
		{2, 0, 0, 6, 7},
		{3, 0, 0, 8, 9},
		{4, 6, 8, 0, 1},
		{5, 7, 9, 1, 0},
	}
	cfg := DefaultABCOConfig()
	cfg.Seed = 6
	cfg.Iterations = 40
	bc, err := NewBeeColony(mustMatrix(t, rows), cfg)
	require.NoError(t, err)
	res := bc.Optimize()
	requireValidRoute(t, res.Route, 5)
	assert.GreaterOrEqual(t, res.Cost, 0.0)
}

func TestBeeColonyIndependentOfWorkerCount(t *testing.T) {
	m := randomMatrix(t, 9, 8)
	run := func(workers int) Result {
		cfg := DefaultABCOConfig()
		cfg.Seed = 123
		cfg.Iterations = 25
		cfg.Workers = workers
		bc, err := NewBeeColony(m, cfg)
		require.NoError(t, err)
		return bc.Optimize()
	}
	serial, parallel := run(1), run(3)
	assert.Equal(t, serial.Route, parallel.Route)
	assert.Equal(t, serial.Cost, parallel.Cost)
	assert.Equal(t, serial.Stats.ScoutResets, parallel.Stats.ScoutResets)
}
