package opt

import "math/rand"

// MoveKind selects a neighbourhood operator.
type MoveKind int

const (
	MoveNone MoveKind = iota
	MoveSwap
	MoveReverse
	MoveRelocate
	MoveScramble
)

func (k MoveKind) String() string {
	switch k {
	case MoveSwap:
		return "swap"
	case MoveReverse:
		return "reverse"
	case MoveRelocate:
		return "relocate"
	case MoveScramble:
		return "scramble"
	}
	return "none"
}

// Move is one perturbation of a route. Positions are route indices and are
// always >= 1 so the origin stays in place.
//
//	swap:     exchange positions I and J
//	reverse:  reverse the segment [I, J]
//	relocate: take the city at I out, then insert it at J of the shortened route
//	scramble: reorder the segment [I, J] by Order
type Move struct {
	Kind  MoveKind
	I, J  int
	Order []int
}

// RandomMove draws an operator uniformly and positions for a route of n
// cities. Routes with fewer than two movable positions get MoveNone.
func RandomMove(n int, rng *rand.Rand) Move {
	if n < 3 {
		return Move{Kind: MoveNone}
	}
	kind := MoveKind(1 + rng.Intn(4))
	i := 1 + rng.Intn(n-1)
	j := 1 + rng.Intn(n-2)
	if j >= i {
		j++
	}
	switch kind {
	case MoveRelocate:
		// insertion slot in the shortened route, end included
		return Move{Kind: kind, I: i, J: 1 + rng.Intn(n-1)}
	case MoveReverse:
		if i > j {
			i, j = j, i
		}
		return Move{Kind: kind, I: i, J: j}
	case MoveScramble:
		if i > j {
			i, j = j, i
		}
		return Move{Kind: kind, I: i, J: j, Order: rng.Perm(j - i + 1)}
	}
	return Move{Kind: kind, I: i, J: j}
}

// Apply returns a perturbed copy of r; r itself is never modified. A move
// whose positions do not fit r yields an unchanged copy.
func (m Move) Apply(r Route) Route {
	out := r.Clone()
	n := len(r)
	if n < 3 || !m.fits(n) {
		return out
	}
	switch m.Kind {
	case MoveSwap:
		out[m.I], out[m.J] = out[m.J], out[m.I]
	case MoveReverse:
		for a, b := m.I, m.J; a < b; a, b = a+1, b-1 {
			out[a], out[b] = out[b], out[a]
		}
	case MoveRelocate:
		city := out[m.I]
		short := append(out[:m.I:m.I], r[m.I+1:]...)
		out = make(Route, 0, n)
		out = append(out, short[:m.J]...)
		out = append(out, city)
		out = append(out, short[m.J:]...)
	case MoveScramble:
		for k, src := range m.Order {
			out[m.I+k] = r[m.I+src]
		}
	}
	return out
}

func (m Move) fits(n int) bool {
	switch m.Kind {
	case MoveSwap:
		return m.I >= 1 && m.J >= 1 && m.I < n && m.J < n
	case MoveReverse:
		return m.I >= 1 && m.I <= m.J && m.J < n
	case MoveRelocate:
		return m.I >= 1 && m.I < n && m.J >= 1 && m.J <= n-1
	case MoveScramble:
		if m.I < 1 || m.J < m.I || m.J >= n || len(m.Order) != m.J-m.I+1 {
			return false
		}
		seen := make([]bool, len(m.Order))
		for _, o := range m.Order {
			if o < 0 || o >= len(seen) || seen[o] {
				return false
			}
			seen[o] = true
		}
		return true
	}
	return false
}
