package opt

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	AlgorithmACO  = "ACO"
	AlgorithmABCO = "ABCO"
)

// Result is what both colonies return.
type Result struct {
	Algorithm string
	Route     Route
	Cost      float64
	Stats     Stats
}

// Stats summarizes a run.
type Stats struct {
	Iterations      int              `json:"iterations"`
	Improvements    int              `json:"improvements"`
	BestAtIteration int              `json:"bestAtIteration"`
	InitialCost     float64          `json:"initialCost"`
	BestCost        float64          `json:"bestCost"`
	ScoutResets     int              `json:"scoutResets,omitempty"`
	Elapsed         time.Duration    `json:"elapsedNs"`
	History         []IterationStats `json:"history,omitempty"`
}

// IterationStats describes the population after one round.
type IterationStats struct {
	Iteration int     `json:"iteration"`
	BestSoFar float64 `json:"bestSoFar"`
	Min       float64 `json:"min"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"stdDev"`
}

func summarize(iteration int, bestSoFar float64, costs []float64) IterationStats {
	s := IterationStats{Iteration: iteration, BestSoFar: bestSoFar}
	if len(costs) == 0 {
		return s
	}
	s.Min = floats.Min(costs)
	if len(costs) == 1 {
		s.Mean = costs[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(costs, nil)
	return s
}
