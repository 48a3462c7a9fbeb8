package interpolate

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrInvalidInput is returned when a point set cannot define a spline:
	// fewer than two points, non-finite coordinates, or repeated x values.
	ErrInvalidInput = errors.New("interpolate: invalid input")
	// ErrSingularSystem is returned when the dense spline system cannot be
	// solved.
	ErrSingularSystem = errors.New("interpolate: singular system")
	// ErrOutOfDomain is returned when a spline is evaluated outside of the
	// range of x values it was built from.
	ErrOutOfDomain = errors.New("interpolate: point out of domain")
)

// Point is a single (x, y) sample.
type Point struct {
	X, Y float64
}

// Points zips two equal-length columns into a point set.
func Points(xs, ys []float64) ([]Point, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf(
			"%w: len(xs) = %d but len(ys) = %d",
			ErrInvalidInput, len(xs), len(ys),
		)
	}

	ps := make([]Point, len(xs))
	for i := range ps {
		ps[i] = Point{xs[i], ys[i]}
	}
	return ps, nil
}

// sortedCopy copies the point set into separate x and y columns sorted by x
// and checks that the points define a valid set of segments. points is not
// modified.
func sortedCopy(points []Point) (xs, ys []float64, err error) {
	if len(points) < 2 {
		return nil, nil, fmt.Errorf(
			"%w: need at least 2 points, got %d", ErrInvalidInput, len(points),
		)
	}

	ps := make([]Point, len(points))
	copy(ps, points)
	for i, p := range ps {
		if !isFinite(p.X) || !isFinite(p.Y) {
			return nil, nil, fmt.Errorf(
				"%w: point %d = (%g, %g) is not finite",
				ErrInvalidInput, i, p.X, p.Y,
			)
		}
	}
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].X < ps[j].X })

	xs, ys = make([]float64, len(ps)), make([]float64, len(ps))
	for i, p := range ps {
		xs[i], ys[i] = p.X, p.Y
		if i > 0 && xs[i] == xs[i-1] {
			return nil, nil, fmt.Errorf(
				"%w: repeated x value %g", ErrInvalidInput, xs[i],
			)
		}
	}

	return xs, ys, nil
}

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
