package opt

import (
	"math/rand"
	"time"
)

// newRand returns the instance RNG. A zero seed draws one from the clock.
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// deriveSeed mixes a parent value and a stream id (SplitMix64 finalizer).
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// splitRands derives k independent streams from base. The derivation is
// sequential, so the streams only depend on base's state, never on how the
// work is later scheduled.
func splitRands(base *rand.Rand, k int) []*rand.Rand {
	out := make([]*rand.Rand, k)
	for i := range out {
		out[i] = rand.New(rand.NewSource(deriveSeed(base.Int63(), uint64(i))))
	}
	return out
}
