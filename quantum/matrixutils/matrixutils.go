// Package matrixutils holds the numeric containers behind the dense and
// sparse representation formats, and the conversions from symbolic values.
package matrixutils

import (
	"errors"
	"fmt"
	"math/cmplx"
	"sort"
	"strings"

	"github.com/njchilds90/goquantum/symbol"
)

var (
	ErrDimensionMismatch = errors.New("matrixutils: dimension mismatch")
	ErrNotNumeric        = errors.New("matrixutils: value is not numeric")
)

// Complex is a plain numeric scalar.
type Complex complex128

func (c Complex) String() string { return formatComplex(complex128(c)) }

// ToComplex evaluates a symbolic scalar to a number.
func ToComplex(e symbol.Expr) (Complex, error) {
	z, ok := symbol.EvalComplex(e.Simplify())
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotNumeric, e)
	}
	return Complex(z), nil
}

func formatComplex(z complex128) string {
	if imag(z) == 0 {
		return fmt.Sprintf("%g", real(z))
	}
	return fmt.Sprintf("%g", z)
}

// ============================================================
// Dense
// ============================================================

// Dense is a row-major complex matrix.
type Dense struct {
	rows, cols int
	data       []complex128
}

func NewDense(rows, cols int) *Dense {
	return &Dense{rows: rows, cols: cols, data: make([]complex128, rows*cols)}
}

// DenseFromRows builds a matrix from equal-length rows.
func DenseFromRows(rows ...[]complex128) (*Dense, error) {
	if len(rows) == 0 {
		return NewDense(0, 0), nil
	}
	d := NewDense(len(rows), len(rows[0]))
	for i, r := range rows {
		if len(r) != d.cols {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrDimensionMismatch, i, len(r), d.cols)
		}
		copy(d.data[i*d.cols:], r)
	}
	return d, nil
}

// ToDense evaluates every entry of a symbolic matrix.
func ToDense(m *symbol.Matrix) (*Dense, error) {
	d := NewDense(m.Rows(), m.Cols())
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			z, err := ToComplex(m.Get(i, j))
			if err != nil {
				return nil, fmt.Errorf("entry [%d,%d]: %w", i, j, err)
			}
			d.data[i*d.cols+j] = complex128(z)
		}
	}
	return d, nil
}

func (d *Dense) Rows() int                   { return d.rows }
func (d *Dense) Cols() int                   { return d.cols }
func (d *Dense) At(i, j int) complex128      { return d.data[i*d.cols+j] }
func (d *Dense) Set(i, j int, v complex128)  { d.data[i*d.cols+j] = v }
func (d *Dense) IsScalar() bool              { return d.rows == 1 && d.cols == 1 }
func (d *Dense) sameShape(o *Dense) bool     { return d.rows == o.rows && d.cols == o.cols }
func (d *Dense) shape() string               { return fmt.Sprintf("%dx%d", d.rows, d.cols) }
func (d *Dense) clone() *Dense               { c := NewDense(d.rows, d.cols); copy(c.data, d.data); return c }
func (d *Dense) Scalar() (complex128, bool) {
	if !d.IsScalar() {
		return 0, false
	}
	return d.data[0], true
}

func (d *Dense) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < d.rows; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("[")
		for j := 0; j < d.cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(formatComplex(d.At(i, j)))
		}
		sb.WriteString("]")
	}
	sb.WriteString("]")
	return sb.String()
}

func (d *Dense) Add(o *Dense) (*Dense, error) {
	if !d.sameShape(o) {
		return nil, fmt.Errorf("%w: add %s and %s", ErrDimensionMismatch, d.shape(), o.shape())
	}
	r := d.clone()
	for i := range r.data {
		r.data[i] += o.data[i]
	}
	return r, nil
}

func (d *Dense) Sub(o *Dense) (*Dense, error) {
	if !d.sameShape(o) {
		return nil, fmt.Errorf("%w: subtract %s and %s", ErrDimensionMismatch, d.shape(), o.shape())
	}
	r := d.clone()
	for i := range r.data {
		r.data[i] -= o.data[i]
	}
	return r, nil
}

func (d *Dense) Mul(o *Dense) (*Dense, error) {
	if d.cols != o.rows {
		return nil, fmt.Errorf("%w: multiply %s by %s", ErrDimensionMismatch, d.shape(), o.shape())
	}
	r := NewDense(d.rows, o.cols)
	for i := 0; i < d.rows; i++ {
		for k := 0; k < d.cols; k++ {
			a := d.At(i, k)
			if a == 0 {
				continue
			}
			for j := 0; j < o.cols; j++ {
				r.data[i*r.cols+j] += a * o.At(k, j)
			}
		}
	}
	return r, nil
}

func (d *Dense) Scale(c complex128) *Dense {
	r := d.clone()
	for i := range r.data {
		r.data[i] *= c
	}
	return r
}

// Adjoint returns the conjugate transpose.
func (d *Dense) Adjoint() *Dense {
	r := NewDense(d.cols, d.rows)
	for i := 0; i < d.rows; i++ {
		for j := 0; j < d.cols; j++ {
			r.Set(j, i, cmplx.Conj(d.At(i, j)))
		}
	}
	return r
}

func (d *Dense) Kronecker(o *Dense) *Dense {
	r := NewDense(d.rows*o.rows, d.cols*o.cols)
	for i := 0; i < d.rows; i++ {
		for j := 0; j < d.cols; j++ {
			a := d.At(i, j)
			for k := 0; k < o.rows; k++ {
				for l := 0; l < o.cols; l++ {
					r.Set(i*o.rows+k, j*o.cols+l, a*o.At(k, l))
				}
			}
		}
	}
	return r
}

// Pow raises a square matrix to a non-negative integer power.
func (d *Dense) Pow(n int) (*Dense, error) {
	if d.rows != d.cols {
		return nil, fmt.Errorf("%w: power of non-square %s", ErrDimensionMismatch, d.shape())
	}
	if n < 0 {
		return nil, fmt.Errorf("matrixutils: negative power %d of a numeric matrix", n)
	}
	result := Identity(d.rows)
	base := d
	for n > 0 {
		if n&1 == 1 {
			result, _ = result.Mul(base)
		}
		base, _ = base.Mul(base)
		n >>= 1
	}
	return result, nil
}

// Equal compares entries within an absolute tolerance.
func (d *Dense) Equal(o *Dense, tol float64) bool {
	if !d.sameShape(o) {
		return false
	}
	for i := range d.data {
		if cmplx.Abs(d.data[i]-o.data[i]) > tol {
			return false
		}
	}
	return true
}

func (d *Dense) ToSparse() *Sparse {
	s := NewSparse(d.rows, d.cols)
	for i := 0; i < d.rows; i++ {
		for j := 0; j < d.cols; j++ {
			s.Set(i, j, d.At(i, j))
		}
	}
	return s
}

func Identity(n int) *Dense {
	d := NewDense(n, n)
	for i := 0; i < n; i++ {
		d.Set(i, i, 1)
	}
	return d
}

// ============================================================
// Sparse
// ============================================================

type cell struct{ row, col int }

// Sparse is a dictionary-of-keys complex matrix. Zero entries are not stored.
type Sparse struct {
	rows, cols int
	entries    map[cell]complex128
}

func NewSparse(rows, cols int) *Sparse {
	return &Sparse{rows: rows, cols: cols, entries: map[cell]complex128{}}
}

// ToSparse evaluates every entry of a symbolic matrix.
func ToSparse(m *symbol.Matrix) (*Sparse, error) {
	d, err := ToDense(m)
	if err != nil {
		return nil, err
	}
	return d.ToSparse(), nil
}

func (s *Sparse) Rows() int      { return s.rows }
func (s *Sparse) Cols() int      { return s.cols }
func (s *Sparse) NNZ() int       { return len(s.entries) }
func (s *Sparse) IsScalar() bool { return s.rows == 1 && s.cols == 1 }
func (s *Sparse) shape() string  { return fmt.Sprintf("%dx%d", s.rows, s.cols) }

func (s *Sparse) At(i, j int) complex128 { return s.entries[cell{i, j}] }

func (s *Sparse) Set(i, j int, v complex128) {
	if v == 0 {
		delete(s.entries, cell{i, j})
		return
	}
	s.entries[cell{i, j}] = v
}

func (s *Sparse) Scalar() (complex128, bool) {
	if !s.IsScalar() {
		return 0, false
	}
	return s.At(0, 0), true
}

// keys returns the stored cells in row-major order.
func (s *Sparse) keys() []cell {
	ks := make([]cell, 0, len(s.entries))
	for k := range s.entries {
		ks = append(ks, k)
	}
	sort.Slice(ks, func(a, b int) bool {
		if ks[a].row != ks[b].row {
			return ks[a].row < ks[b].row
		}
		return ks[a].col < ks[b].col
	})
	return ks
}

func (s *Sparse) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "sparse %s {", s.shape())
	for i, k := range s.keys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "(%d,%d): %s", k.row, k.col, formatComplex(s.entries[k]))
	}
	sb.WriteString("}")
	return sb.String()
}

func (s *Sparse) ToDense() *Dense {
	d := NewDense(s.rows, s.cols)
	for k, v := range s.entries {
		d.Set(k.row, k.col, v)
	}
	return d
}

func (s *Sparse) Add(o *Sparse) (*Sparse, error) {
	if s.rows != o.rows || s.cols != o.cols {
		return nil, fmt.Errorf("%w: add %s and %s", ErrDimensionMismatch, s.shape(), o.shape())
	}
	r := s.Scale(1)
	for k, v := range o.entries {
		r.Set(k.row, k.col, r.At(k.row, k.col)+v)
	}
	return r, nil
}

func (s *Sparse) Mul(o *Sparse) (*Sparse, error) {
	if s.cols != o.rows {
		return nil, fmt.Errorf("%w: multiply %s by %s", ErrDimensionMismatch, s.shape(), o.shape())
	}
	byRow := map[int][]cell{}
	for k := range o.entries {
		byRow[k.row] = append(byRow[k.row], k)
	}
	r := NewSparse(s.rows, o.cols)
	for k, a := range s.entries {
		for _, oc := range byRow[k.col] {
			r.Set(k.row, oc.col, r.At(k.row, oc.col)+a*o.entries[oc])
		}
	}
	return r, nil
}

func (s *Sparse) Scale(c complex128) *Sparse {
	r := NewSparse(s.rows, s.cols)
	for k, v := range s.entries {
		r.Set(k.row, k.col, v*c)
	}
	return r
}

func (s *Sparse) Adjoint() *Sparse {
	r := NewSparse(s.cols, s.rows)
	for k, v := range s.entries {
		r.Set(k.col, k.row, cmplx.Conj(v))
	}
	return r
}

func (s *Sparse) Kronecker(o *Sparse) *Sparse {
	r := NewSparse(s.rows*o.rows, s.cols*o.cols)
	for a, av := range s.entries {
		for b, bv := range o.entries {
			r.Set(a.row*o.rows+b.row, a.col*o.cols+b.col, av*bv)
		}
	}
	return r
}

func (s *Sparse) Pow(n int) (*Sparse, error) {
	d, err := s.ToDense().Pow(n)
	if err != nil {
		return nil, err
	}
	return d.ToSparse(), nil
}
