package opt

import (
	"math"
	"math/rand"
)

// WeightedChoice draws an index with probability proportional to its weight.
// Entries that are not strictly positive are never drawn. When no entry is
// drawable, or the total overflows, it falls back to a uniform draw over all
// indices. It returns -1 for an empty slice.
func WeightedChoice(weights []float64, rng *rand.Rand) int {
	if len(weights) == 0 {
		return -1
	}
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if !(total > 0) || math.IsInf(total, 0) {
		return rng.Intn(len(weights))
	}
	target := rng.Float64() * total
	acc := 0.0
	last := -1
	for i, w := range weights {
		if !(w > 0) {
			continue
		}
		acc += w
		last = i
		if target < acc {
			return i
		}
	}
	return last
}
