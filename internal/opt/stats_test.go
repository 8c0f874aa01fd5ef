package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s := summarize(3, 7, []float64{9, 7, 11})
	assert.Equal(t, 3, s.Iteration)
	assert.Equal(t, 7.0, s.BestSoFar)
	assert.Equal(t, 7.0, s.Min)
	assert.InDelta(t, 9.0, s.Mean, 1e-12)
	assert.InDelta(t, 2.0, s.StdDev, 1e-12)

	one := summarize(1, 5, []float64{5})
	assert.Equal(t, 5.0, one.Mean)
	assert.Zero(t, one.StdDev)

	empty := summarize(1, 5, nil)
	assert.Zero(t, empty.Min)
}

func TestRecordAndGetStats(t *testing.T) {
	RecordStats(AlgorithmACO, Stats{Iterations: 4, BestCost: 12})
	RecordStats(AlgorithmABCO, Stats{Iterations: 9, BestCost: 10})

	all := GetStats("")
	require.Contains(t, all, AlgorithmACO)
	require.Contains(t, all, AlgorithmABCO)

	only := GetStats(AlgorithmABCO)
	require.Len(t, only, 1)
	assert.Equal(t, 9, only[AlgorithmABCO].Iterations)
}
