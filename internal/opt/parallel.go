package opt

import (
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// runPhase calls fn once per stream, on up to workers goroutines, and
// returns when every call has finished. fn must only write to its own slot.
// Phase work cannot fail, so the group is used only to bound and join.
func runPhase(workers int, rngs []*rand.Rand, fn func(i int, rng *rand.Rand)) {
	if workers <= 1 || len(rngs) <= 1 {
		for i, r := range rngs {
			fn(i, r)
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i, r := range rngs {
		g.Go(func() error {
			fn(i, r)
			return nil
		})
	}
	_ = g.Wait() // always nil
}
