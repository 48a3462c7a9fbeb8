/*package mat contains routines for executing operations on matrices. Operations
are split into easy to use methods which might be somewhat wasteful with memory
consumption and execution time and slightly less easy to use methods which
require explictly managing LU decomposition.

Pretty much everything only works on square matrices because that's all the
spline solvers need.
*/
package mat

import (
	"errors"
	"fmt"
	"math"
)

// SingularTolerance is the relative pivot size below which a matrix is
// considered singular. Pivots are compared against the largest absolute
// entry of the matrix being decomposed.
const SingularTolerance = 1e-14

var (
	// ErrSingular is returned when LU decomposition encounters a pivot which
	// is zero to within SingularTolerance.
	ErrSingular = errors.New("mat: singular matrix")
	// ErrNonSquare is returned when a square matrix is required.
	ErrNonSquare = errors.New("mat: matrix is not square")
)

// Matrix represents a matrix of float64 values stored in row-major order.
type Matrix struct {
	Vals          []float64
	Width, Height int
}

// LUFactors contains data fields neccessary for a number of matrix operations.
// Exporting this type allows calling routines to better manage their memory
// consumption and to prevent recomputing the same decomposition many times.
type LUFactors struct {
	lu    Matrix
	pivot []int
	d     float64
}

// NewMatrix creates a matrix with the specified values and dimensions.
func NewMatrix(vals []float64, width, height int) *Matrix {
	if width <= 0 {
		panic("width must be positive.")
	} else if height <= 0 {
		panic("height must be positive.")
	} else if width*height != len(vals) {
		panic("height * width must equal len(vals).")
	}

	return &Matrix{Vals: vals, Width: width, Height: height}
}

// Zeros creates a zero-valued matrix with the given dimensions.
func Zeros(width, height int) *Matrix {
	return NewMatrix(make([]float64, width*height), width, height)
}

// At returns the element at row i and column j.
func (m *Matrix) At(i, j int) float64 { return m.Vals[i*m.Width+j] }

// Set sets the element at row i and column j.
func (m *Matrix) Set(i, j int, v float64) { m.Vals[i*m.Width+j] = v }

// Mult multiplies two matrices together.
func (m1 *Matrix) Mult(m2 *Matrix) *Matrix {
	h, w := m1.Height, m2.Width
	out := NewMatrix(make([]float64, h*w), w, h)
	return m1.MultAt(m2, out)
}

// MultAt multiplies to matrices together and writes the result to the
// specified matrix.
func (m1 *Matrix) MultAt(m2, out *Matrix) *Matrix {
	if m1.Width != m2.Height {
		panic("Multiplication of incompatible matrix sizes.")
	} else if out.Height != m1.Height || out.Width != m2.Width {
		panic("out matrix has the wrong dimensions.")
	}

	for i := range out.Vals {
		out.Vals[i] = 0
	}
	for i := 0; i < m1.Height; i++ {
		off := i * m1.Width
		outOff := i * out.Width
		for j := 0; j < m2.Width; j++ {
			for k := 0; k < m1.Width; k++ {
				out.Vals[outOff+j] += m1.Vals[off+k] * m2.Vals[k*m2.Width+j]
			}
		}
	}

	return out
}

// MultVector computes m * xs.
func (m *Matrix) MultVector(xs []float64) []float64 {
	if len(xs) != m.Width {
		panic("len(xs) != m.Width")
	}

	out := make([]float64, m.Height)
	for i := range out {
		row := m.Vals[i*m.Width : (i+1)*m.Width]
		for j, x := range xs {
			out[i] += row[j] * x
		}
	}
	return out
}

// Invert computes the inverse of a matrix.
func (m *Matrix) Invert() (*Matrix, error) {
	lu, err := m.LU()
	if err != nil {
		return nil, err
	}
	inv := NewMatrix(make([]float64, len(m.Vals)), m.Width, m.Height)
	return lu.InvertAt(inv), nil
}

// Determinant computes the determinant of a matrix. Singular matrices have
// a determinant of zero.
func (m *Matrix) Determinant() float64 {
	lu, err := m.LU()
	if err != nil {
		return 0
	}
	return lu.Determinant()
}

// SolveVector solves the equation m * xs = bs for xs.
func (m *Matrix) SolveVector(bs []float64) ([]float64, error) {
	lu, err := m.LU()
	if err != nil {
		return nil, err
	}
	xs := make([]float64, len(bs))
	return lu.SolveVector(bs, xs), nil
}

// SolveMatrix solves the equation m * x = b for x.
func (m *Matrix) SolveMatrix(b *Matrix) (*Matrix, error) {
	lu, err := m.LU()
	if err != nil {
		return nil, err
	}
	x := NewMatrix(make([]float64, len(m.Vals)), m.Width, m.Height)
	copy(x.Vals, b.Vals)
	return lu.SolveMatrix(x, x), nil
}

// NewLUFactors creates an LUFactors instance of the requested dimensions.
func NewLUFactors(n int) *LUFactors {
	luf := new(LUFactors)

	luf.lu.Vals, luf.lu.Width, luf.lu.Height = make([]float64, n*n), n, n
	luf.pivot = make([]int, n)
	luf.d = 1

	return luf
}

// LU returns the LU decomposition of a matrix.
func (m *Matrix) LU() (*LUFactors, error) {
	if m.Width != m.Height {
		return nil, fmt.Errorf(
			"%w: LU of %dx%d matrix", ErrNonSquare, m.Height, m.Width,
		)
	}

	lu := NewLUFactors(m.Width)
	if err := m.LUFactorsAt(lu); err != nil {
		return nil, err
	}
	return lu, nil
}

// LUFactorsAt stores the LU decomposition of a matrix at the specified
// location. Rows are pivoted on the largest remaining entry of each column.
func (m *Matrix) LUFactorsAt(luf *LUFactors) error {
	if m.Width != m.Height {
		return fmt.Errorf(
			"%w: LU of %dx%d matrix", ErrNonSquare, m.Height, m.Width,
		)
	} else if luf.lu.Width != m.Width || luf.lu.Height != m.Height {
		panic("luf has different dimenstions than m.")
	}

	n := m.Width
	for i := 0; i < n; i++ {
		luf.pivot[i] = i
	}
	lu := luf.lu.Vals
	copy(lu, m.Vals)

	// Maintained for determinant calculations.
	luf.d = 1

	scale := 0.0
	for _, v := range lu {
		scale = math.Max(scale, math.Abs(v))
	}
	if scale == 0 {
		return fmt.Errorf("%w: all entries are zero", ErrSingular)
	}
	tol := scale * SingularTolerance

	// Doolittle elimination with partial pivoting.
	for k := 0; k < n; k++ {
		maxRow := findMaxRow(n, lu, k)
		if math.Abs(lu[maxRow*n+k]) <= tol {
			return fmt.Errorf("%w: zero pivot in column %d", ErrSingular, k)
		}
		if k != maxRow {
			swapRows(k, maxRow, n, lu)
			luf.pivot[k], luf.pivot[maxRow] = luf.pivot[maxRow], luf.pivot[k]
			luf.d = -luf.d
		}

		kOffset := k * n
		for i := k + 1; i < n; i++ {
			iOffset := i * n
			lu[iOffset+k] /= lu[kOffset+k]
			tmp := lu[iOffset+k]
			if tmp == 0 {
				continue
			}
			for j := k + 1; j < n; j++ {
				lu[iOffset+j] -= tmp * lu[kOffset+j]
			}
		}
	}

	return nil
}

// Finds the index of the row containing the maximum value in the column.
// Ignores the values above the point m_col,col since those have already been
// swapped.
func findMaxRow(n int, m []float64, col int) int {
	max, maxRow := -1.0, col

	for i := col; i < n; i++ {
		val := math.Abs(m[i*n+col])
		if val > max {
			max = val
			maxRow = i
		}
	}
	return maxRow
}

func swapRows(i1, i2, n int, lu []float64) {
	i1Offset, i2Offset := n*i1, n*i2
	for j := 0; j < n; j++ {
		idx1, idx2 := i1Offset+j, i2Offset+j
		lu[idx1], lu[idx2] = lu[idx2], lu[idx1]
	}
}

// SolveVector solves M * xs = bs for xs.
//
// bs and xs may point to the same physical memory.
func (luf *LUFactors) SolveVector(bs, xs []float64) []float64 {
	n := luf.lu.Width
	if n != len(bs) {
		panic("len(b) != luf.Width")
	} else if n != len(xs) {
		panic("len(x) != luf.Width")
	}

	// P A x = P b -> L (U x) = P b -> L y = P b
	ys := make([]float64, n)
	forwardSubst(n, luf.pivot, luf.lu.Vals, bs, ys)
	backSubst(n, luf.lu.Vals, ys, xs)

	return xs
}

// Solves L * y = P * b for y, where L has an implicit unit diagonal.
func forwardSubst(n int, pivot []int, lu, bs, ys []float64) {
	for i := 0; i < n; i++ {
		sum := bs[pivot[i]]
		for j := 0; j < i; j++ {
			sum -= lu[i*n+j] * ys[j]
		}
		ys[i] = sum
	}
}

// Solves U * x = y for x.
// x_i = (y_i - sum_j=i+1^N-1 (beta_ij x_j)) / beta_ii
func backSubst(n int, lu, ys, xs []float64) {
	for i := n - 1; i >= 0; i-- {
		sum := 0.0
		for j := i + 1; j < n; j++ {
			sum += lu[i*n+j] * xs[j]
		}
		xs[i] = (ys[i] - sum) / lu[i*n+i]
	}
}

// SolveMatrix solves the equation m * x = b.
//
// x and b may point to the same physical memory.
func (luf *LUFactors) SolveMatrix(b, x *Matrix) *Matrix {
	n := luf.lu.Width

	if b.Width != b.Height {
		panic("b matrix is non-square.")
	} else if x.Width != x.Height {
		panic("x matrix is non-square.")
	} else if n != b.Width {
		panic("b matrix different size than m matrix.")
	} else if n != x.Width {
		panic("x matrix different size than m matrix.")
	}

	col := make([]float64, n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			col[i] = b.Vals[i*n+j]
		}
		luf.SolveVector(col, col)
		for i := 0; i < n; i++ {
			x.Vals[i*n+j] = col[i]
		}
	}

	return x
}

// InvertAt inverts the matrix represented by the given LU decomposition
// and writes the results into the specified out matrix.
func (luf *LUFactors) InvertAt(out *Matrix) *Matrix {
	n := luf.lu.Width
	if out.Width != out.Height {
		panic("out matrix is non-square.")
	} else if n != out.Width {
		panic("out matrix different size than m matrix.")
	}

	for i := range out.Vals {
		out.Vals[i] = 0
	}
	for i := 0; i < n; i++ {
		out.Vals[i*n+i] = 1
	}

	luf.SolveMatrix(out, out)
	return out
}

// Determinant compute the determinant of of the matrix represented by the
// given LU decomposition.
func (luf *LUFactors) Determinant() float64 {
	d := luf.d
	lu := luf.lu.Vals
	n := luf.lu.Width

	for i := 0; i < n; i++ {
		d *= lu[i*n+i]
	}
	return d
}
