package opt

import "fmt"

// City is a named stop. X and Y are only used for drawing.
type City struct {
	Name string  `json:"name" yaml:"name"`
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
}

// Problem pairs an ordered city list with its cost matrix. Cities[0] is the
// origin of every tour.
type Problem struct {
	Cities []City
	Dist   *Matrix
}

// NewProblem checks that the matrix covers exactly the given cities.
func NewProblem(cities []City, dist *Matrix) (Problem, error) {
	if dist == nil {
		return Problem{}, ErrEmptyMatrix
	}
	if len(cities) != dist.Len() {
		return Problem{}, fmt.Errorf("%w: %d cities, %dx%d matrix", ErrDimensionMismatch, len(cities), dist.Len(), dist.Len())
	}
	return Problem{Cities: cities, Dist: dist}, nil
}

// Names maps a route to city names, closing hop included.
func (p Problem) Names(r Route) []string {
	idx := r.Closed()
	out := make([]string, len(idx))
	for i, c := range idx {
		out[i] = p.Cities[c].Name
	}
	return out
}

// Coordinates maps a route to [x, y] pairs, closing hop included.
func (p Problem) Coordinates(r Route) [][2]float64 {
	idx := r.Closed()
	out := make([][2]float64, len(idx))
	for i, c := range idx {
		out[i] = [2]float64{p.Cities[c].X, p.Cities[c].Y}
	}
	return out
}
