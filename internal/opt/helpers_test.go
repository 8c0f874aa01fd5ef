package opt

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// ladder is a symmetric 4-city instance whose cheapest tours are
// 0-1-2-3-0 and its reverse, both of cost 7.
var ladder = [][]float64{
	{0, 1, 4, 4},
	{1, 0, 1, 4},
	{4, 1, 0, 1},
	{4, 4, 1, 0},
}

func mustMatrix(t *testing.T, rows [][]float64) *Matrix {
	t.Helper()
	m, err := NewMatrix(rows)
	require.NoError(t, err)
	return m
}

// bruteForce enumerates every tour from the origin.
func bruteForce(m *Matrix) (Route, float64) {
	n := m.Len()
	rest := make([]int, 0, n-1)
	for i := 1; i < n; i++ {
		rest = append(rest, i)
	}
	var best Route
	bestCost := math.Inf(1)
	var permute func(k int)
	permute = func(k int) {
		if k == len(rest) {
			r := append(Route{0}, rest...)
			if c := m.TourCost(r); c < bestCost {
				best, bestCost = r.Clone(), c
			}
			return
		}
		for i := k; i < len(rest); i++ {
			rest[k], rest[i] = rest[i], rest[k]
			permute(k + 1)
			rest[k], rest[i] = rest[i], rest[k]
		}
	}
	permute(0)
	return best, bestCost
}

// randomMatrix returns an asymmetric instance with integer costs in [1,100].
func randomMatrix(t *testing.T, n int, seed int64) *Matrix {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			if i != j {
				rows[i][j] = float64(1 + rng.Intn(100))
			}
		}
	}
	return mustMatrix(t, rows)
}

func requireValidRoute(t *testing.T, r Route, n int) {
	t.Helper()
	require.NoError(t, ValidateRoute(r, n), "route %v", r)
}
