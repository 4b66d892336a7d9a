package symbol

import (
	"fmt"
	"strings"
)

// ============================================================
// Matrix: symbolic matrix
// ============================================================

type Matrix struct {
	rows, cols int
	data       [][]Expr
}

func NewMatrix(rows, cols int) *Matrix {
	data := make([][]Expr, rows)
	for i := range data {
		data[i] = make([]Expr, cols)
		for j := range data[i] {
			data[i][j] = N(0)
		}
	}
	return &Matrix{rows: rows, cols: cols, data: data}
}

func MatrixFromSlice(rows, cols int, entries []Expr) *Matrix {
	if len(entries) != rows*cols {
		panic(fmt.Sprintf("symbol: MatrixFromSlice needs %d entries, got %d", rows*cols, len(entries)))
	}
	m := NewMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.data[i][j] = entries[i*cols+j].Simplify()
		}
	}
	return m
}

// FromRows builds a matrix from equal-length rows.
func FromRows(rows ...[]Expr) *Matrix {
	if len(rows) == 0 {
		return NewMatrix(0, 0)
	}
	cols := len(rows[0])
	entries := make([]Expr, 0, len(rows)*cols)
	for _, r := range rows {
		if len(r) != cols {
			panic("symbol: ragged rows in FromRows")
		}
		entries = append(entries, r...)
	}
	return MatrixFromSlice(len(rows), cols, entries)
}

func ColumnVector(entries ...Expr) *Matrix { return MatrixFromSlice(len(entries), 1, entries) }
func RowVector(entries ...Expr) *Matrix    { return MatrixFromSlice(1, len(entries), entries) }

func (m *Matrix) checkBounds(row, col int) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("symbol: matrix index out of range [%d,%d] for %dx%d", row, col, m.rows, m.cols))
	}
}

func (m *Matrix) Get(row, col int) Expr {
	m.checkBounds(row, col)
	return m.data[row][col]
}
func (m *Matrix) Set(row, col int, val Expr) {
	m.checkBounds(row, col)
	m.data[row][col] = val
}
func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

// IsScalar reports whether m is 1x1.
func (m *Matrix) IsScalar() bool { return m.rows == 1 && m.cols == 1 }

func (m *Matrix) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("[")
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(m.data[i][j].String())
		}
		sb.WriteString("]")
	}
	sb.WriteString("]")
	return sb.String()
}

func (m *Matrix) LaTeX() string {
	var sb strings.Builder
	sb.WriteString("\\begin{pmatrix}")
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			sb.WriteString(" \\\\ ")
		}
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(" & ")
			}
			sb.WriteString(m.data[i][j].LaTeX())
		}
	}
	sb.WriteString("\\end{pmatrix}")
	return sb.String()
}

func (m *Matrix) Equal(other *Matrix) bool {
	if other == nil || m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if !m.data[i][j].Equal(other.data[i][j]) {
				return false
			}
		}
	}
	return true
}

// Map returns a new matrix with fn applied to every entry.
func (m *Matrix) Map(fn func(Expr) Expr) *Matrix {
	result := NewMatrix(m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			result.data[i][j] = fn(m.data[i][j]).Simplify()
		}
	}
	return result
}

func (m *Matrix) MatAdd(other *Matrix) *Matrix {
	if m.rows != other.rows || m.cols != other.cols {
		panic("symbol: matrix dimension mismatch in MatAdd")
	}
	result := NewMatrix(m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			result.data[i][j] = AddOf(m.data[i][j], other.data[i][j])
		}
	}
	return result
}

func (m *Matrix) MatMul(other *Matrix) *Matrix {
	if m.cols != other.rows {
		panic("symbol: matrix dimension mismatch in MatMul")
	}
	result := NewMatrix(m.rows, other.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < other.cols; j++ {
			terms := make([]Expr, m.cols)
			for k := 0; k < m.cols; k++ {
				terms[k] = MulOf(m.data[i][k], other.data[k][j])
			}
			result.data[i][j] = AddOf(terms...)
		}
	}
	return result
}

func (m *Matrix) Scale(scalar Expr) *Matrix {
	return m.Map(func(e Expr) Expr { return MulOf(scalar, e) })
}

func (m *Matrix) Transpose() *Matrix {
	result := NewMatrix(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			result.data[j][i] = m.data[i][j]
		}
	}
	return result
}

// Adjoint returns the conjugate transpose.
func (m *Matrix) Adjoint() *Matrix {
	return m.Transpose().Map(ConjugateOf)
}

// Kronecker returns the tensor (Kronecker) product m ⊗ other.
func (m *Matrix) Kronecker(other *Matrix) *Matrix {
	result := NewMatrix(m.rows*other.rows, m.cols*other.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			for k := 0; k < other.rows; k++ {
				for l := 0; l < other.cols; l++ {
					result.data[i*other.rows+k][j*other.cols+l] = MulOf(m.data[i][j], other.data[k][l])
				}
			}
		}
	}
	return result
}

// MatPow raises a square matrix to an integer power; negative powers go
// through Inverse.
func (m *Matrix) MatPow(n int) (*Matrix, error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("symbol: MatPow requires a square matrix")
	}
	base := m
	if n < 0 {
		inv, err := m.Inverse()
		if err != nil {
			return nil, err
		}
		base, n = inv, -n
	}
	result := Identity(m.rows)
	for n > 0 {
		if n&1 == 1 {
			result = result.MatMul(base)
		}
		base = base.MatMul(base)
		n >>= 1
	}
	return result, nil
}

func (m *Matrix) Det() Expr {
	if m.rows != m.cols {
		panic("symbol: Det requires a square matrix")
	}
	return matDet(m.data, m.rows)
}

func matDet(data [][]Expr, n int) Expr {
	if n == 1 {
		return data[0][0].Simplify()
	}
	if n == 2 {
		return SubOf(MulOf(data[0][0], data[1][1]), MulOf(data[0][1], data[1][0]))
	}
	terms := make([]Expr, n)
	for j := 0; j < n; j++ {
		minor := makeMinor(data, n, 0, j)
		sign := N(1)
		if j%2 == 1 {
			sign = N(-1)
		}
		terms[j] = MulOf(sign, data[0][j], matDet(minor, n-1))
	}
	return AddOf(terms...)
}

func makeMinor(data [][]Expr, n, skipRow, skipCol int) [][]Expr {
	minor := make([][]Expr, n-1)
	mi := 0
	for i := 0; i < n; i++ {
		if i == skipRow {
			continue
		}
		minor[mi] = make([]Expr, n-1)
		mj := 0
		for j := 0; j < n; j++ {
			if j == skipCol {
				continue
			}
			minor[mi][mj] = data[i][j]
			mj++
		}
		mi++
	}
	return minor
}

func (m *Matrix) Inverse() (*Matrix, error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("symbol: Inverse requires a square matrix")
	}
	if m.rows == 1 {
		if IsZero(m.data[0][0]) {
			return nil, fmt.Errorf("symbol: matrix is singular")
		}
		return MatrixFromSlice(1, 1, []Expr{PowOf(m.data[0][0], N(-1))}), nil
	}
	det := m.Det()
	if IsZero(det) {
		return nil, fmt.Errorf("symbol: matrix is singular")
	}
	n := m.rows
	cof := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			minor := makeMinor(m.data, n, i, j)
			sign := N(1)
			if (i+j)%2 == 1 {
				sign = N(-1)
			}
			cof.data[i][j] = MulOf(sign, matDet(minor, n-1))
		}
	}
	return cof.Transpose().Scale(PowOf(det, N(-1))), nil
}

func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.data[i][i] = N(1)
	}
	return m
}
