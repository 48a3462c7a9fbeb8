package interpolate

import (
	"fmt"

	"github.com/phil-mansfield/gospline/math/mat"
)

// NewDenseSpline creates a natural cubic spline through the given points by
// writing every segment's coefficients as unknowns of one global linear
// system and solving it directly. The points may be given in any order, but
// their x values must be distinct.
//
// This costs O((4n)^3) for n segments and is only reasonable for small
// point sets. NewMomentSpline solves the same problem in O(n).
func NewDenseSpline(points []Point) (*Spline, error) {
	xs, ys, err := sortedCopy(points)
	if err != nil {
		return nil, err
	}
	M, A := denseSystem(xs, ys)
	return solveDense(xs, M, A)
}

// solveDense solves the system assembled by denseSystem for the knots xs.
func solveDense(xs []float64, M *mat.Matrix, A []float64) (*Spline, error) {
	coeffs, err := M.SolveVector(A)
	if err != nil {
		return nil, fmt.Errorf(
			"%w: %d segments: %w", ErrSingularSystem, len(xs)-1, err,
		)
	}

	local := make([]splineCoeff, len(xs)-1)
	for i := range local {
		local[i] = splineCoeff{
			a: coeffs[4*i], b: coeffs[4*i+1], c: coeffs[4*i+2], d: coeffs[4*i+3],
		}
	}
	return newSpline(xs, local), nil
}

// DenseSystem assembles the 4n x 4n system M * coeffs = A solved by
// NewDenseSpline. coeffs[4i:4i+4] are the coefficients (a, b, c, d) of
// segment i written as a*t^3 + b*t^2 + c*t + d with t = x - x_i. Rows are
// laid out as:
//
//	[0, n)        s_i(x_i) = y_i
//	[n, 2n)       s_i(x_i+1) = y_i+1
//	[2n, 3n-1)    s_i'(x_i+1) = s_i+1'(x_i+1)
//	[3n-1, 4n-2)  s_i''(x_i+1) = s_i+1''(x_i+1)
//	4n-2          s_0''(x_0) = 0
//	4n-1          s_n-1''(x_n) = 0
//
// Each segment is expanded around its own left knot so that the matrix
// entries depend only on the segment widths, not on where the points sit.
func DenseSystem(points []Point) (*mat.Matrix, []float64, error) {
	xs, ys, err := sortedCopy(points)
	if err != nil {
		return nil, nil, err
	}
	M, A := denseSystem(xs, ys)
	return M, A, nil
}

func denseSystem(xs, ys []float64) (*mat.Matrix, []float64) {
	n := len(xs) - 1
	size := 4 * n
	M := mat.Zeros(size, size)
	A := make([]float64, size)

	for i := 0; i < n; i++ {
		h := xs[i+1] - xs[i]
		setRow(M, i, 4*i, vanderRow(0), 1)
		setRow(M, n+i, 4*i, vanderRow(h), 1)
		A[i], A[n+i] = ys[i], ys[i+1]
	}

	for i := 0; i < n-1; i++ {
		h := xs[i+1] - xs[i]

		row := 2*n + i
		setRow(M, row, 4*i, d1Row(h), 1)
		setRow(M, row, 4*(i+1), d1Row(0), -1)

		row = 3*n - 1 + i
		setRow(M, row, 4*i, d2Row(h), 1)
		setRow(M, row, 4*(i+1), d2Row(0), -1)
	}

	setRow(M, size-2, 0, d2Row(0), 1)
	setRow(M, size-1, size-4, d2Row(xs[n]-xs[n-1]), 1)

	return M, A
}

// vanderRow is the row [t^3, t^2, t, 1] which evaluates a cubic at t.
func vanderRow(t float64) [4]float64 { return [4]float64{t * t * t, t * t, t, 1} }

// d1Row evaluates a cubic's first derivative at t.
func d1Row(t float64) [4]float64 { return [4]float64{3 * t * t, 2 * t, 1, 0} }

// d2Row evaluates a cubic's second derivative at t.
func d2Row(t float64) [4]float64 { return [4]float64{6 * t, 2, 0, 0} }

// setRow writes sign * vals into M starting at column col.
func setRow(M *mat.Matrix, row, col int, vals [4]float64, sign float64) {
	for k, v := range vals {
		M.Set(row, col+k, sign*v)
	}
}
