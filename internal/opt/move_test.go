package opt

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveApply(t *testing.T) {
	base := Route{0, 1, 2, 3, 4, 5}
	cases := []struct {
		name string
		move Move
		want Route
	}{
		{"swap", Move{Kind: MoveSwap, I: 1, J: 4}, Route{0, 4, 2, 3, 1, 5}},
		{"reverse", Move{Kind: MoveReverse, I: 2, J: 5}, Route{0, 1, 5, 4, 3, 2}},
		{"relocate forward", Move{Kind: MoveRelocate, I: 1, J: 3}, Route{0, 2, 3, 1, 4, 5}},
		{"relocate to end", Move{Kind: MoveRelocate, I: 2, J: 5}, Route{0, 1, 3, 4, 5, 2}},
		{"relocate backward", Move{Kind: MoveRelocate, I: 4, J: 1}, Route{0, 4, 1, 2, 3, 5}},
		{"scramble", Move{Kind: MoveScramble, I: 2, J: 4, Order: []int{2, 0, 1}}, Route{0, 1, 4, 2, 3, 5}},
		{"none", Move{Kind: MoveNone}, base},
		{"origin untouchable", Move{Kind: MoveSwap, I: 0, J: 3}, base},
		{"out of range", Move{Kind: MoveReverse, I: 2, J: 6}, base},
		{"bad order", Move{Kind: MoveScramble, I: 1, J: 2, Order: []int{0, 0}}, base},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base.Clone()
			got := tc.move.Apply(in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, base, in, "input must not be modified")
		})
	}
}

func TestRandomMoveKeepsRouteValid(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	kinds := map[MoveKind]int{}
	for n := 3; n <= 9; n++ {
		r := randomRoute(n, rng)
		for i := 0; i < 500; i++ {
			m := RandomMove(n, rng)
			kinds[m.Kind]++
			next := m.Apply(r)
			requireValidRoute(t, next, n)
			r = next
		}
	}
	for _, k := range []MoveKind{MoveSwap, MoveReverse, MoveRelocate, MoveScramble} {
		assert.Positive(t, kinds[k], "kind %s never drawn", k)
	}
	assert.Zero(t, kinds[MoveNone])
}

func TestRandomMoveTinyRoutes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for n := 0; n < 3; n++ {
		m := RandomMove(n, rng)
		require.Equal(t, MoveNone, m.Kind)
		r := randomRoute(n, rng)
		assert.Equal(t, r, m.Apply(r))
	}
}
