package quantum

import (
	"fmt"
	"math/cmplx"

	"github.com/njchilds90/goquantum/quantum/matrixutils"
	"github.com/njchilds90/goquantum/symbol"
)

// ============================================================
// Format
// ============================================================

type Format string

const (
	FormatSymbolic Format = "symbolic"
	FormatDense    Format = "dense"
	FormatSparse   Format = "sparse"
)

// ParseFormat accepts the canonical names and the aliases "sympy", "numpy",
// "scipy.sparse" and "" (symbolic).
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "symbolic", "sympy":
		return FormatSymbolic, nil
	case "dense", "numpy":
		return FormatDense, nil
	case "sparse", "scipy.sparse":
		return FormatSparse, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) IsNumeric() bool { return f == FormatDense || f == FormatSparse }

// ============================================================
// Value: a representation
// ============================================================

// Value is one of symbol.Expr, *symbol.Matrix, matrixutils.Complex,
// *matrixutils.Dense or *matrixutils.Sparse.
type Value any

// FormatMatrix converts a symbolic matrix to the container of f. Other
// values are returned unchanged.
func FormatMatrix(v Value, f Format) (Value, error) {
	m, ok := v.(*symbol.Matrix)
	if !ok {
		return v, nil
	}
	switch f {
	case FormatDense:
		return matrixutils.ToDense(m)
	case FormatSparse:
		return matrixutils.ToSparse(m)
	}
	return m, nil
}

// ToScalar coerces a symbolic scalar to a plain number.
func ToScalar(e symbol.Expr) (matrixutils.Complex, error) {
	c, err := matrixutils.ToComplex(e)
	if err != nil {
		return 0, &ValueError{Op: "scalar coercion of", Value: e.String(), Err: ErrTypeMismatch}
	}
	return c, nil
}

// FlattenScalar turns a 1x1 matrix of any container into a scalar.
func FlattenScalar(v Value) Value {
	switch x := v.(type) {
	case *symbol.Matrix:
		if x.IsScalar() {
			return x.Get(0, 0)
		}
	case *matrixutils.Dense:
		if z, ok := x.Scalar(); ok {
			return matrixutils.Complex(z)
		}
	case *matrixutils.Sparse:
		if z, ok := x.Scalar(); ok {
			return matrixutils.Complex(z)
		}
	}
	return v
}

// IsSymbolicScalar reports whether v is a symbolic scalar expression.
func IsSymbolicScalar(v Value) bool {
	_, ok := v.(symbol.Expr)
	return ok
}

// unify brings a and b to a common family: both symbolic, or both numeric
// with sparse winning over dense.
func unify(a, b Value) (Value, Value, error) {
	na, sa := numericFamily(a)
	nb, sb := numericFamily(b)
	if !na && !nb {
		return a, b, nil
	}
	sparse := sa || sb
	ca, err := toNumeric(a, sparse)
	if err != nil {
		return nil, nil, err
	}
	cb, err := toNumeric(b, sparse)
	if err != nil {
		return nil, nil, err
	}
	return ca, cb, nil
}

func numericFamily(v Value) (numeric, sparse bool) {
	switch v.(type) {
	case matrixutils.Complex, *matrixutils.Dense:
		return true, false
	case *matrixutils.Sparse:
		return true, true
	}
	return false, false
}

func toNumeric(v Value, sparse bool) (Value, error) {
	switch x := v.(type) {
	case symbol.Expr:
		return ToScalar(x)
	case *symbol.Matrix:
		var (
			out Value
			err error
		)
		if sparse {
			out, err = matrixutils.ToSparse(x)
		} else {
			out, err = matrixutils.ToDense(x)
		}
		if err != nil {
			return nil, &ValueError{Op: "numeric coercion of", Value: x.String(), Err: fmt.Errorf("%w: %w", ErrTypeMismatch, err)}
		}
		return out, nil
	case *matrixutils.Dense:
		if sparse {
			return x.ToSparse(), nil
		}
		return x, nil
	case matrixutils.Complex, *matrixutils.Sparse:
		return x, nil
	}
	return nil, unsupported("value", v)
}

func unsupported(op string, v Value) error {
	return &ValueError{Op: op, Value: fmt.Sprintf("%T", v), Err: ErrTypeMismatch}
}

func isMatrixValue(v Value) bool {
	switch v.(type) {
	case *symbol.Matrix, *matrixutils.Dense, *matrixutils.Sparse:
		return true
	}
	return false
}

func dimError(op string, a, b Value) error {
	return fmt.Errorf("%w: cannot %s %s and %s", ErrDimensionMismatch, op, ValueString(a), ValueString(b))
}

// AddValues returns a + b as a new value.
func AddValues(a, b Value) (Value, error) {
	a, b, err := unify(a, b)
	if err != nil {
		return nil, err
	}
	if isMatrixValue(a) != isMatrixValue(b) {
		return nil, dimError("add", a, b)
	}
	switch x := a.(type) {
	case symbol.Expr:
		return symbol.AddOf(x, b.(symbol.Expr)), nil
	case *symbol.Matrix:
		y := b.(*symbol.Matrix)
		if x.Rows() != y.Rows() || x.Cols() != y.Cols() {
			return nil, dimError("add", a, b)
		}
		return x.MatAdd(y), nil
	case matrixutils.Complex:
		return x + b.(matrixutils.Complex), nil
	case *matrixutils.Dense:
		return x.Add(b.(*matrixutils.Dense))
	case *matrixutils.Sparse:
		return x.Add(b.(*matrixutils.Sparse))
	}
	return nil, unsupported("add", a)
}

// NegateValue returns -v.
func NegateValue(v Value) (Value, error) {
	switch x := v.(type) {
	case symbol.Expr:
		return symbol.Negate(x), nil
	case *symbol.Matrix:
		return x.Scale(symbol.N(-1)), nil
	case matrixutils.Complex:
		return -x, nil
	case *matrixutils.Dense:
		return x.Scale(-1), nil
	case *matrixutils.Sparse:
		return x.Scale(-1), nil
	}
	return nil, unsupported("negate", v)
}

// SubValues returns a - b.
func SubValues(a, b Value) (Value, error) {
	nb, err := NegateValue(b)
	if err != nil {
		return nil, err
	}
	return AddValues(a, nb)
}

// MulValues returns the ordered product a*b: scalar scaling or matrix
// multiplication.
func MulValues(a, b Value) (Value, error) {
	a, b, err := unify(a, b)
	if err != nil {
		return nil, err
	}
	switch x := a.(type) {
	case symbol.Expr:
		switch y := b.(type) {
		case symbol.Expr:
			return symbol.MulOf(x, y), nil
		case *symbol.Matrix:
			return y.Scale(x), nil
		}
	case *symbol.Matrix:
		switch y := b.(type) {
		case symbol.Expr:
			return x.Scale(y), nil
		case *symbol.Matrix:
			if x.Cols() != y.Rows() {
				return nil, dimError("multiply", a, b)
			}
			return x.MatMul(y), nil
		}
	case matrixutils.Complex:
		switch y := b.(type) {
		case matrixutils.Complex:
			return x * y, nil
		case *matrixutils.Dense:
			return y.Scale(complex128(x)), nil
		case *matrixutils.Sparse:
			return y.Scale(complex128(x)), nil
		}
	case *matrixutils.Dense:
		switch y := b.(type) {
		case matrixutils.Complex:
			return x.Scale(complex128(y)), nil
		case *matrixutils.Dense:
			return x.Mul(y)
		}
	case *matrixutils.Sparse:
		switch y := b.(type) {
		case matrixutils.Complex:
			return x.Scale(complex128(y)), nil
		case *matrixutils.Sparse:
			return x.Mul(y)
		}
	}
	return nil, unsupported("multiply", a)
}

// TensorValues returns a ⊗ b: the Kronecker product of matrices, the plain
// product when either side is a scalar.
func TensorValues(a, b Value) (Value, error) {
	if !isMatrixValue(a) || !isMatrixValue(b) {
		return MulValues(a, b)
	}
	a, b, err := unify(a, b)
	if err != nil {
		return nil, err
	}
	switch x := a.(type) {
	case *symbol.Matrix:
		return x.Kronecker(b.(*symbol.Matrix)), nil
	case *matrixutils.Dense:
		return x.Kronecker(b.(*matrixutils.Dense)), nil
	case *matrixutils.Sparse:
		return x.Kronecker(b.(*matrixutils.Sparse)), nil
	}
	return nil, unsupported("tensor", a)
}

// AdjointValue returns the conjugate transpose (conjugate for scalars).
func AdjointValue(v Value) (Value, error) {
	switch x := v.(type) {
	case symbol.Expr:
		return symbol.ConjugateOf(x), nil
	case *symbol.Matrix:
		return x.Adjoint(), nil
	case matrixutils.Complex:
		return matrixutils.Complex(cmplx.Conj(complex128(x))), nil
	case *matrixutils.Dense:
		return x.Adjoint(), nil
	case *matrixutils.Sparse:
		return x.Adjoint(), nil
	}
	return nil, unsupported("adjoint", v)
}

// PowValue raises v to exp. Matrices need an integer exponent.
func PowValue(v Value, exp symbol.Expr) (Value, error) {
	intExp := func() (int, error) {
		n, ok := exp.Simplify().(*symbol.Num)
		if ok {
			if i, ok := n.Int64(); ok {
				return int(i), nil
			}
		}
		return 0, &ValueError{Op: "matrix power", Value: exp.String(), Err: ErrMalformedExponent}
	}
	switch x := v.(type) {
	case symbol.Expr:
		return symbol.PowOf(x, exp), nil
	case *symbol.Matrix:
		n, err := intExp()
		if err != nil {
			return nil, err
		}
		if x.Rows() != x.Cols() {
			return nil, fmt.Errorf("%w: power of non-square %s", ErrDimensionMismatch, x)
		}
		return x.MatPow(n)
	case matrixutils.Complex:
		z, err := matrixutils.ToComplex(exp)
		if err != nil {
			return nil, &ValueError{Op: "power", Value: exp.String(), Err: ErrMalformedExponent}
		}
		return matrixutils.Complex(cmplx.Pow(complex128(x), complex128(z))), nil
	case *matrixutils.Dense:
		n, err := intExp()
		if err != nil {
			return nil, err
		}
		return x.Pow(n)
	case *matrixutils.Sparse:
		n, err := intExp()
		if err != nil {
			return nil, err
		}
		return x.Pow(n)
	}
	return nil, unsupported("power", v)
}

// ValueString renders any value.
func ValueString(v Value) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}

// ValueLaTeX renders symbolic values as LaTeX and numeric ones as text.
func ValueLaTeX(v Value) string {
	switch x := v.(type) {
	case symbol.Expr:
		return x.LaTeX()
	case *symbol.Matrix:
		return x.LaTeX()
	}
	return ValueString(v)
}
