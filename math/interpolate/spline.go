package interpolate

import (
	"fmt"
)

// splineCoeff holds one segment in local form:
// s(x) = d + c*t + b*t^2 + a*t^3 with t = x - x_i.
type splineCoeff struct {
	a, b, c, d float64
}

// Spline represents a 1D natural cubic spline which can be used to
// interpolate between points. Splines are created with NewDenseSpline or
// NewMomentSpline, are never modified afterwards, and are safe for
// concurrent use.
type Spline struct {
	xs     []float64
	coeffs []splineCoeff

	// Usually the input data is uniform. This is our estimate of the point
	// spacing.
	dx float64
}

// Segment is a single piece of a spline written in the global power basis,
// s(x) = A*x^3 + B*x^2 + C*x + D, valid over [Lo, Hi].
type Segment struct {
	Lo, Hi     float64
	A, B, C, D float64
}

// Eval evaluates the segment's cubic at x. x is not checked against
// [Lo, Hi].
func (seg Segment) Eval(x float64) float64 {
	return ((seg.A*x+seg.B)*x+seg.C)*x + seg.D
}

// newSpline takes ownership of xs and coeffs.
func newSpline(xs []float64, coeffs []splineCoeff) *Spline {
	return &Spline{
		xs:     xs,
		coeffs: coeffs,
		dx:     (xs[len(xs)-1] - xs[0]) / float64(len(xs)-1),
	}
}

// Eval computes the value of the spline at the given point. Points outside
// the range of x values the spline was built from return ErrOutOfDomain.
func (sp *Spline) Eval(x float64) (float64, error) {
	return sp.Diff(x, 0)
}

// EvalAll evaluates the spline at each point in xs. An optional output
// array can be supplied to prevent unneeded heap allocations. Evaluation
// stops at the first point outside the spline's domain.
func (sp *Spline) EvalAll(xs []float64, out ...[]float64) ([]float64, error) {
	if len(out) == 0 {
		out = [][]float64{make([]float64, len(xs))}
	} else if len(out[0]) < len(xs) {
		panic(fmt.Sprintf(
			"len(out) = %d, but len(xs) = %d", len(out[0]), len(xs),
		))
	}

	for i, x := range xs {
		y, err := sp.Eval(x)
		if err != nil {
			return nil, fmt.Errorf("xs[%d]: %w", i, err)
		}
		out[0][i] = y
	}
	return out[0][:len(xs)], nil
}

// Diff computes the derivative of spline at the given point to the
// specified order. Orders above 3 are identically zero.
func (sp *Spline) Diff(x float64, order int) (float64, error) {
	if order < 0 {
		return 0, fmt.Errorf("%w: derivative order %d", ErrInvalidInput, order)
	}
	i, err := sp.segmentIndex(x)
	if err != nil {
		return 0, err
	}

	t := x - sp.xs[i]
	a, b, c, d := sp.coeffs[i].a, sp.coeffs[i].b, sp.coeffs[i].c, sp.coeffs[i].d
	switch order {
	case 0:
		return ((a*t+b)*t+c)*t + d, nil
	case 1:
		return (3*a*t+2*b)*t + c, nil
	case 2:
		return 6*a*t + 2*b, nil
	case 3:
		return 6 * a, nil
	default:
		return 0, nil
	}
}

// Domain returns the smallest and largest x values the spline was built
// from.
func (sp *Spline) Domain() (lo, hi float64) {
	return sp.xs[0], sp.xs[len(sp.xs)-1]
}

// Segments returns the number of cubic pieces in the spline.
func (sp *Spline) Segments() int { return len(sp.coeffs) }

// Knots returns a copy of the sorted breakpoints.
func (sp *Spline) Knots() []float64 {
	out := make([]float64, len(sp.xs))
	copy(out, sp.xs)
	return out
}

// Segment returns the i-th piece of the spline in the global power basis.
func (sp *Spline) Segment(i int) Segment {
	x0 := sp.xs[i]
	a, b, c, d := sp.coeffs[i].a, sp.coeffs[i].b, sp.coeffs[i].c, sp.coeffs[i].d
	return Segment{
		Lo: x0, Hi: sp.xs[i+1],
		A: a,
		B: b - 3*a*x0,
		C: c - 2*b*x0 + 3*a*x0*x0,
		D: d - c*x0 + b*x0*x0 - a*x0*x0*x0,
	}
}

// Moment returns the second derivative of the spline at the i-th knot.
func (sp *Spline) Moment(i int) float64 {
	if i < len(sp.coeffs) {
		return 2 * sp.coeffs[i].b
	}
	last := sp.coeffs[len(sp.coeffs)-1]
	h := sp.xs[i] - sp.xs[i-1]
	return 6*last.a*h + 2*last.b
}

// segmentIndex returns the index of the segment containing x. The last knot
// belongs to the last segment.
func (sp *Spline) segmentIndex(x float64) (int, error) {
	lo, hi := sp.Domain()
	if !(x >= lo && x <= hi) {
		return 0, fmt.Errorf(
			"%w: %g not in [%g, %g]", ErrOutOfDomain, x, lo, hi,
		)
	}
	return sp.bsearch(x), nil
}

// bsearch returns the index of the largest knot which is not larger than
// x, capped at the last segment. An interior knot starts the segment to its
// right. x must be inside the domain.
func (sp *Spline) bsearch(x float64) int {
	n := len(sp.coeffs)

	// Guess under the assumption of uniform spacing.
	guess := int((x - sp.xs[0]) / sp.dx)
	if guess >= 0 && guess < n && sp.xs[guess] <= x && x < sp.xs[guess+1] {
		return guess
	}

	// Binary search.
	lo, hi := 0, n
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if x >= sp.xs[mid] {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}
