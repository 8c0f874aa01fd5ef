package opt

import "errors"

var (
	ErrEmptyMatrix       = errors.New("opt: empty distance matrix")
	ErrNonSquare         = errors.New("opt: distance matrix is not square")
	ErrNegativeDistance  = errors.New("opt: negative distance")
	ErrNonFinite         = errors.New("opt: non-finite distance")
	ErrDimensionMismatch = errors.New("opt: dimension mismatch")
	ErrInvalidRoute      = errors.New("opt: invalid route")
	ErrInvalidConfig     = errors.New("opt: invalid configuration")
)
