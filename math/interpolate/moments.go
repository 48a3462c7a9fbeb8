package interpolate

// NewMomentSpline creates a natural cubic spline through the given points by
// solving the tridiagonal system for the spline's second derivatives at each
// knot ("moments") and building every segment from them. The points may be
// given in any order, but their x values must be distinct. Runs in O(n).
func NewMomentSpline(points []Point) (*Spline, error) {
	xs, ys, err := sortedCopy(points)
	if err != nil {
		return nil, err
	}

	n := len(xs) - 1
	hs := make([]float64, n)
	for i := range hs {
		hs[i] = xs[i+1] - xs[i]
	}
	zs := solveMoments(hs, ys)

	coeffs := make([]splineCoeff, n)
	for i := range coeffs {
		coeffs[i] = momentCoeffs(hs[i], ys[i], ys[i+1], zs[i], zs[i+1])
	}

	return newSpline(xs, coeffs), nil
}

// solveMoments returns the second derivative of the natural spline at each
// of the len(hs)+1 knots. The interior moments satisfy a symmetric,
// diagonally dominant tridiagonal system, so Thomas elimination is done
// without pivoting.
func solveMoments(hs, ys []float64) []float64 {
	n := len(hs)
	zs := make([]float64, n+1)
	if n < 2 {
		return zs
	}

	bs := make([]float64, n)
	for i := range bs {
		bs[i] = 6 * (ys[i+1] - ys[i]) / hs[i]
	}

	// Row i of the system is the equation for z_i+1.
	us, vs := make([]float64, n-1), make([]float64, n-1)
	for i := range us {
		us[i] = 2 * (hs[i] + hs[i+1])
		vs[i] = bs[i+1] - bs[i]
	}

	for i := 1; i < n-1; i++ {
		us[i] -= hs[i] * hs[i] / us[i-1]
		vs[i] -= vs[i-1] * hs[i] / us[i-1]
	}

	// zs[0] = zs[n] = 0 for a natural spline.
	for i := n - 1; i > 0; i-- {
		zs[i] = (vs[i-1] - hs[i]*zs[i+1]) / us[i-1]
	}

	return zs
}

// momentCoeffs expands the closed form
//
//	s(x) = z0/(6h) (x1 - x)^3 + z1/(6h) (x - x0)^3
//	     + (y1/h - z1 h/6) (x - x0) + (y0/h - z0 h/6) (x1 - x)
//
// into local coefficients around x0.
func momentCoeffs(h, y0, y1, z0, z1 float64) splineCoeff {
	return splineCoeff{
		a: (z1 - z0) / (6 * h),
		b: z0 / 2,
		c: (y1-y0)/h - h*(2*z0+z1)/6,
		d: y0,
	}
}
