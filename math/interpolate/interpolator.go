/*package interpolate builds natural cubic splines through sparse data and
evaluates them. Two constructors are provided which solve the same problem
in different ways: NewDenseSpline solves one global linear system for every
segment's coefficients and NewMomentSpline solves the tridiagonal system for
the second derivatives at each knot.
*/
package interpolate

import (
	"fmt"
	"strings"
)

// Interpolator is a 1D interpolator.
type Interpolator interface {
	// Eval evaluates the interpolator at x.
	Eval(x float64) (float64, error)
	// EvalAll evaluates a sequence of values and returns the result. An
	// optional output array can be supplied to prevent unneeded heap
	// allocations.
	EvalAll(xs []float64, out ...[]float64) ([]float64, error)
}

var (
	_ Interpolator = &Spline{}

	_ Builder = NewDenseSpline
	_ Builder = NewMomentSpline
)

// Builder constructs a spline from an unordered point set.
type Builder func(points []Point) (*Spline, error)

// Method names a spline construction algorithm.
type Method string

const (
	Dense   Method = "dense"
	Moments Method = "moments"
)

// Methods lists every supported Method.
var Methods = []Method{Dense, Moments}

// ParseMethod converts a case-insensitive method name into a Method.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case Dense, Moments:
		return m, nil
	}
	return "", fmt.Errorf(
		"%w: unrecognized spline method '%s'", ErrInvalidInput, s,
	)
}

// Builder returns the constructor which implements m.
func (m Method) Builder() Builder {
	switch m {
	case Dense:
		return NewDenseSpline
	case Moments:
		return NewMomentSpline
	}
	panic(fmt.Sprintf("Unrecognized spline method '%s'.", string(m)))
}
