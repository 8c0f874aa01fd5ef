package opt

import (
	"fmt"
	"math/rand"
)

// Route is a tour as a permutation of city indices starting at the origin
// (index 0). The hop back to the origin is implicit.
type Route []int

// Clone returns an independent copy of r.
func (r Route) Clone() Route {
	out := make(Route, len(r))
	copy(out, r)
	return out
}

// Closed returns r with the origin appended, as presented to users.
func (r Route) Closed() []int {
	out := make([]int, 0, len(r)+1)
	out = append(out, r...)
	if len(r) > 0 {
		out = append(out, r[0])
	}
	return out
}

// ValidateRoute checks that r visits each of the n cities exactly once and
// starts at the origin.
func ValidateRoute(r Route, n int) error {
	if len(r) != n {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidRoute, len(r), n)
	}
	if n == 0 {
		return nil
	}
	if r[0] != 0 {
		return fmt.Errorf("%w: starts at %d, want origin 0", ErrInvalidRoute, r[0])
	}
	seen := make([]bool, n)
	for i, c := range r {
		if c < 0 || c >= n {
			return fmt.Errorf("%w: index %d out of range at position %d", ErrInvalidRoute, c, i)
		}
		if seen[c] {
			return fmt.Errorf("%w: city %d visited twice", ErrInvalidRoute, c)
		}
		seen[c] = true
	}
	return nil
}

// Cost validates r against m and returns its closed tour cost.
func Cost(r Route, m *Matrix) (float64, error) {
	if m == nil {
		return 0, ErrEmptyMatrix
	}
	if len(r) != m.Len() {
		return 0, fmt.Errorf("%w: route has %d cities, matrix has %d", ErrDimensionMismatch, len(r), m.Len())
	}
	if err := ValidateRoute(r, m.Len()); err != nil {
		return 0, err
	}
	return m.TourCost(r), nil
}

// randomRoute keeps the origin first and shuffles the rest uniformly.
func randomRoute(n int, rng *rand.Rand) Route {
	r := make(Route, n)
	if n == 0 {
		return r
	}
	for i, p := range rng.Perm(n - 1) {
		r[i+1] = p + 1
	}
	return r
}
