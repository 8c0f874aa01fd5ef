package opt

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// eps guards the divisions in visibility and fitness.
const eps = 1e-10

// Matrix is a validated N×N table of travel costs; At(i, j) is the cost of
// going from i to j. It need not be symmetric. A zero between two distinct
// cities means no data and is kept as is. The diagonal is ignored.
type Matrix struct {
	d *mat.Dense
	n int
}

// NewMatrix validates rows and copies them into a dense matrix.
func NewMatrix(rows [][]float64) (*Matrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, ErrEmptyMatrix
	}
	data := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrNonSquare, i, len(row), n)
		}
		for j, v := range row {
			if i == j {
				continue
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: d[%d][%d]=%v", ErrNonFinite, i, j, v)
			}
			if v < 0 {
				return nil, fmt.Errorf("%w: d[%d][%d]=%v", ErrNegativeDistance, i, j, v)
			}
		}
		data = append(data, row...)
	}
	d := mat.NewDense(n, n, data)
	for i := 0; i < n; i++ {
		d.Set(i, i, 0)
	}
	return &Matrix{d: d, n: n}, nil
}

// Len is the number of cities.
func (m *Matrix) Len() int { return m.n }

// At returns the cost of the hop i→j.
func (m *Matrix) At(i, j int) float64 { return m.d.At(i, j) }

// Rows copies the matrix out as a slice of rows.
func (m *Matrix) Rows() [][]float64 {
	out := make([][]float64, m.n)
	for i := range out {
		out[i] = mat.Row(nil, i, m.d)
	}
	return out
}

// TourCost sums the hops of r plus the closing hop back to r[0].
// r is assumed valid for m.
func (m *Matrix) TourCost(r Route) float64 {
	if len(r) == 0 {
		return 0
	}
	total := 0.0
	for i := 0; i+1 < len(r); i++ {
		total += m.d.At(r[i], r[i+1])
	}
	return total + m.d.At(r[len(r)-1], r[0])
}

// visibility returns 1/(d+eps) with a zero diagonal.
func (m *Matrix) visibility() *mat.Dense {
	v := mat.NewDense(m.n, m.n, nil)
	v.Apply(func(i, j int, d float64) float64 {
		if i == j {
			return 0
		}
		return 1 / (d + eps)
	}, m.d)
	return v
}
