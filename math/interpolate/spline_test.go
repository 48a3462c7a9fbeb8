package interpolate

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/interp"

	"github.com/phil-mansfield/gospline/math/mat"
)

var builders = map[string]Builder{
	"dense":   NewDenseSpline,
	"moments": NewMomentSpline,
}

func linspace(low, high float64, n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = low + (high-low)*float64(i)/float64(n-1)
	}
	return xs
}

func sample(f func(float64) float64, xs []float64) []Point {
	ps := make([]Point, len(xs))
	for i, x := range xs {
		ps[i] = Point{x, f(x)}
	}
	return ps
}

var pointSets = map[string][]Point{
	"collinear":   {{1, 1}, {2, 2}, {3, 3}, {4, 4}},
	"irregular":   {{0, 0.3}, {1, 1}, {2, 5}, {5, 7}},
	"unsorted":    {{3, 5}, {1, 2}, {2, 9}, {6, -1}},
	"wiggle":      {{4, 0}, {1, 1}, {2, 0}, {3, -1}},
	"two points":  {{1, 2}, {3, 8}},
	"three":       {{-1, 1}, {0, 0}, {2, 4}},
	"sin":         sample(math.Sin, linspace(7, 12, 4)),
	"clustered":   sample(math.Exp, []float64{0, 0.05, 0.1, 0.5, 2, 2.1, 3}),
	"many points": sample(math.Cos, linspace(-3, 3, 25)),
	"offset":      sample(math.Sin, linspace(1000, 1005, 6)),
	"far offset":  sample(math.Sin, linspace(1e5, 1e5+5, 6)),
}

func tol(y float64) float64 { return 1e-8 * math.Max(1, math.Abs(y)) }

func TestInterpolatesKnots(t *testing.T) {
	for bName, build := range builders {
		for pName, ps := range pointSets {
			sp, err := build(ps)
			require.NoError(t, err, "%s %s", bName, pName)
			for _, p := range ps {
				y, err := sp.Eval(p.X)
				require.NoError(t, err)
				assert.InDelta(t, p.Y, y, tol(p.Y),
					"%s %s at x = %g", bName, pName, p.X)
			}
		}
	}
}

func TestContinuity(t *testing.T) {
	for bName, build := range builders {
		for pName, ps := range pointSets {
			sp, err := build(ps)
			require.NoError(t, err)
			knots := sp.Knots()
			for i := 1; i < len(knots)-1; i++ {
				x := knots[i]
				h := x - knots[i-1]
				left := sp.coeffs[i-1]
				d0 := ((left.a*h+left.b)*h+left.c)*h + left.d
				d1 := (3*left.a*h+2*left.b)*h + left.c
				d2 := 6*left.a*h + 2*left.b

				r0, _ := sp.Diff(x, 0)
				r1, _ := sp.Diff(x, 1)
				r2, _ := sp.Diff(x, 2)
				assert.InDelta(t, d0, r0, 1e-7, "%s %s C0 at %g", bName, pName, x)
				assert.InDelta(t, d1, r1, 1e-6, "%s %s C1 at %g", bName, pName, x)
				assert.InDelta(t, d2, r2, 1e-5, "%s %s C2 at %g", bName, pName, x)
			}
		}
	}
}

func TestNaturalBoundary(t *testing.T) {
	for bName, build := range builders {
		for pName, ps := range pointSets {
			sp, err := build(ps)
			require.NoError(t, err)
			lo, hi := sp.Domain()

			d2, err := sp.Diff(lo, 2)
			require.NoError(t, err)
			assert.InDelta(t, 0, d2, 1e-6, "%s %s at %g", bName, pName, lo)
			d2, err = sp.Diff(hi, 2)
			require.NoError(t, err)
			assert.InDelta(t, 0, d2, 1e-6, "%s %s at %g", bName, pName, hi)

			assert.InDelta(t, 0, sp.Moment(0), 1e-6)
			assert.InDelta(t, 0, sp.Moment(sp.Segments()), 1e-6)
		}
	}
}

func TestBuildersAgree(t *testing.T) {
	for pName, ps := range pointSets {
		dense, err := NewDenseSpline(ps)
		require.NoError(t, err)
		moments, err := NewMomentSpline(ps)
		require.NoError(t, err)

		lo, hi := dense.Domain()
		qs := linspace(lo, hi, 301)
		dYs, err := dense.EvalAll(qs)
		require.NoError(t, err)
		mYs, err := moments.EvalAll(qs)
		require.NoError(t, err)
		for i := range qs {
			assert.InDelta(t, mYs[i], dYs[i], tol(mYs[i]), "%s at %g", pName, qs[i])
		}
		for i := 0; i <= moments.Segments(); i++ {
			assert.InDelta(t, moments.Moment(i), dense.Moment(i), 1e-5)
		}
	}
}

func TestMatchesGonum(t *testing.T) {
	for pName, ps := range pointSets {
		if len(ps) < 3 {
			continue
		}
		moments, err := NewMomentSpline(ps)
		require.NoError(t, err)
		dense, err := NewDenseSpline(ps)
		require.NoError(t, err)

		xs, ys, err := sortedCopy(ps)
		require.NoError(t, err)
		var nc interp.NaturalCubic
		require.NoError(t, nc.Fit(xs, ys))

		for _, q := range linspace(xs[0], xs[len(xs)-1], 97) {
			want := nc.Predict(q)
			got, err := moments.Eval(q)
			require.NoError(t, err)
			assert.InDelta(t, want, got, tol(want), "moments %s at %g", pName, q)
			got, err = dense.Eval(q)
			require.NoError(t, err)
			assert.InDelta(t, want, got, tol(want), "dense %s at %g", pName, q)
		}
	}
}

func TestCollinearIsIdentity(t *testing.T) {
	ps := []Point{{1, 1}, {2, 2}, {3, 3}, {4, 4}}
	for bName, build := range builders {
		sp, err := build(ps)
		require.NoError(t, err)
		for _, q := range linspace(1, 4, 50) {
			y, err := sp.Eval(q)
			require.NoError(t, err)
			assert.InDelta(t, q, y, 1e-9, "%s at %g", bName, q)
		}
	}
}

func TestIrregularScenario(t *testing.T) {
	ps := []Point{{0, 0.3}, {1, 1}, {2, 5}, {5, 7}}
	dense, err := NewDenseSpline(ps)
	require.NoError(t, err)
	moments, err := NewMomentSpline(ps)
	require.NoError(t, err)

	dy, err := dense.Eval(0.7)
	require.NoError(t, err)
	my, err := moments.Eval(0.7)
	require.NoError(t, err)
	assert.InDelta(t, my, dy, 1e-10)
}

func TestTwoPointsIsLine(t *testing.T) {
	for bName, build := range builders {
		sp, err := build([]Point{{3, 8}, {1, 2}})
		require.NoError(t, err)
		assert.Equal(t, 1, sp.Segments())

		seg := sp.Segment(0)
		assert.InDelta(t, 0, seg.A, 1e-12, bName)
		assert.InDelta(t, 0, seg.B, 1e-12, bName)
		assert.InDelta(t, 3, seg.C, 1e-12, bName)
		assert.InDelta(t, -1, seg.D, 1e-12, bName)

		y, err := sp.Eval(2.5)
		require.NoError(t, err)
		assert.InDelta(t, 6.5, y, 1e-12, bName)
	}
}

func TestOrderInvariance(t *testing.T) {
	ps := sample(math.Sin, []float64{0, 0.3, 1.1, 1.5, 2.8, 3.0, 4.4})
	rng := rand.New(rand.NewSource(11))
	qs := linspace(0, 4.4, 57)

	for bName, build := range builders {
		sp, err := build(ps)
		require.NoError(t, err)
		want, err := sp.EvalAll(qs)
		require.NoError(t, err)

		shuffled := append([]Point(nil), ps...)
		for trial := 0; trial < 5; trial++ {
			rng.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})
			sp2, err := build(shuffled)
			require.NoError(t, err)
			got, err := sp2.EvalAll(qs)
			require.NoError(t, err)
			assert.Equal(t, want, got, bName)
		}
	}
}

func TestInputNotModified(t *testing.T) {
	ps := []Point{{3, 5}, {1, 2}, {2, 9}}
	orig := append([]Point(nil), ps...)
	for _, build := range builders {
		_, err := build(ps)
		require.NoError(t, err)
		assert.Equal(t, orig, ps)
	}
}

func TestInvalidInput(t *testing.T) {
	bad := map[string][]Point{
		"empty":     nil,
		"one point": {{1, 1}},
		"repeat x":  {{1, 1}, {1, 2}},
		"repeat x2": {{0, 0}, {2, 1}, {1, 3}, {2, 5}},
		"nan":       {{0, 0}, {math.NaN(), 1}, {2, 2}},
		"inf":       {{0, 0}, {1, math.Inf(1)}},
	}
	for bName, build := range builders {
		for pName, ps := range bad {
			sp, err := build(ps)
			assert.Nil(t, sp)
			assert.True(t, errors.Is(err, ErrInvalidInput),
				"%s %s: %v", bName, pName, err)
		}
	}

	_, err := Points([]float64{1, 2}, []float64{1})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestOutOfDomain(t *testing.T) {
	for bName, build := range builders {
		sp, err := build([]Point{{0, 0}, {1, 1}, {3, 0}})
		require.NoError(t, err)

		for _, q := range []float64{-0.001, 3.001, math.NaN(), math.Inf(-1)} {
			_, err := sp.Eval(q)
			assert.True(t, errors.Is(err, ErrOutOfDomain), "%s at %g", bName, q)
		}

		_, err = sp.EvalAll([]float64{0.5, 1, 4})
		assert.True(t, errors.Is(err, ErrOutOfDomain))
		assert.Contains(t, err.Error(), "xs[2]")

		_, err = sp.Diff(1, -1)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	}
}

func TestNonUniformLookup(t *testing.T) {
	// Half of the knots sit in the first 1% of the domain, so a uniform
	// width estimate points at the wrong segment almost everywhere.
	xs := []float64{0, 0.001, 0.002, 0.003, 0.004, 10}
	ps := sample(func(x float64) float64 { return x * x }, xs)
	sp, err := NewMomentSpline(ps)
	require.NoError(t, err)

	for i := 0; i < sp.Segments(); i++ {
		seg := sp.Segment(i)
		mid := (seg.Lo + seg.Hi) / 2
		assert.Equal(t, i, sp.bsearch(mid), "segment %d", i)
		y, err := sp.Eval(mid)
		require.NoError(t, err)
		assert.InDelta(t, seg.Eval(mid), y, tol(y))
	}
	assert.Equal(t, sp.Segments()-1, sp.bsearch(10))
	assert.Equal(t, 0, sp.bsearch(0))
}

func TestEvalAllBuffer(t *testing.T) {
	sp, err := NewMomentSpline([]Point{{0, 0}, {1, 1}, {2, 0}})
	require.NoError(t, err)

	buf := make([]float64, 10)
	out, err := sp.EvalAll([]float64{0, 1, 2}, buf)
	require.NoError(t, err)
	assert.Len(t, out, 3)
	assert.Same(t, &buf[0], &out[0])
	assert.InDelta(t, 1, out[1], 1e-12)

	assert.Panics(t, func() { sp.EvalAll([]float64{0, 1, 2}, make([]float64, 2)) })
}

func TestDiffOrders(t *testing.T) {
	sp, err := NewDenseSpline([]Point{{0, 0}, {1, 1}, {2, 0}, {3, 2}})
	require.NoError(t, err)

	seg := sp.Segment(1)
	x := 1.4
	d3, err := sp.Diff(x, 3)
	require.NoError(t, err)
	assert.InDelta(t, 6*seg.A, d3, 1e-9)
	d4, err := sp.Diff(x, 4)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d4)
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod(" Dense ")
	require.NoError(t, err)
	assert.Equal(t, Dense, m)
	m, err = ParseMethod("moments")
	require.NoError(t, err)
	assert.Equal(t, Moments, m)

	_, err = ParseMethod("hermite")
	assert.True(t, errors.Is(err, ErrInvalidInput))

	for _, m := range Methods {
		sp, err := m.Builder()([]Point{{0, 1}, {1, 2}})
		require.NoError(t, err)
		assert.Equal(t, 1, sp.Segments())
	}
}

func TestDenseSystem(t *testing.T) {
	ps := pointSets["irregular"]
	M, A, err := DenseSystem(ps)
	require.NoError(t, err)
	assert.Equal(t, 12, M.Width)
	assert.Equal(t, 12, M.Height)
	require.Len(t, A, 12)

	sp, err := NewDenseSpline(ps)
	require.NoError(t, err)
	coeffs := make([]float64, 0, 12)
	for _, c := range sp.coeffs {
		coeffs = append(coeffs, c.a, c.b, c.c, c.d)
	}
	got := M.MultVector(coeffs)
	for i := range A {
		assert.InDelta(t, A[i], got[i], 1e-10, "row %d", i)
	}

	_, _, err = DenseSystem([]Point{{1, 1}, {1, 2}})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestDenseSingularSystem(t *testing.T) {
	ps := pointSets["irregular"]
	xs, _, err := sortedCopy(ps)
	require.NoError(t, err)
	M, A, err := DenseSystem(ps)
	require.NoError(t, err)

	// Drop the natural condition at the right end.
	last := M.Height - 1
	for j := 0; j < M.Width; j++ {
		M.Set(last, j, 0)
	}

	sp, err := solveDense(xs, M, A)
	assert.Nil(t, sp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSingularSystem), err.Error())
	assert.True(t, errors.Is(err, mat.ErrSingular), err.Error())
	assert.False(t, errors.Is(err, ErrInvalidInput))
}

func TestDenseFarFromOrigin(t *testing.T) {
	for _, off := range []float64{0, 10, 100, 1e3, 1e4, 1e5} {
		ps := sample(math.Sin, linspace(off, off+5, 6))
		dense, err := NewDenseSpline(ps)
		require.NoError(t, err, "offset %g", off)
		moments, err := NewMomentSpline(ps)
		require.NoError(t, err, "offset %g", off)

		for _, q := range linspace(off, off+5, 41) {
			dy, err := dense.Eval(q)
			require.NoError(t, err)
			my, err := moments.Eval(q)
			require.NoError(t, err)
			assert.InDelta(t, my, dy, 1e-10, "offset %g at %g", off, q)
		}
	}
}

func TestKnotsStartSegments(t *testing.T) {
	// 0.3 / 0.1 rounds down to 2, so the uniform guess lands one segment
	// to the left of the knot at 0.3.
	uniform := sample(math.Cos, linspace(0, 1, 11))
	irregular := sample(math.Cos, []float64{0, 0.1, 0.15, 0.7, 0.75, 2})

	for pName, ps := range map[string][]Point{
		"uniform": uniform, "irregular": irregular,
	} {
		sp, err := NewMomentSpline(ps)
		require.NoError(t, err)
		knots := sp.Knots()
		n := sp.Segments()

		for i := 0; i < n; i++ {
			assert.Equal(t, i, sp.bsearch(knots[i]), "%s knot %d", pName, i)
			d3, err := sp.Diff(knots[i], 3)
			require.NoError(t, err)
			assert.Equal(t, 6*sp.coeffs[i].a, d3, "%s knot %d", pName, i)
		}
		assert.Equal(t, n-1, sp.bsearch(knots[n]), pName)
	}
}
