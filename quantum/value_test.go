package quantum_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goquantum/quantum"
	"github.com/njchilds90/goquantum/quantum/matrixutils"
	"github.com/njchilds90/goquantum/symbol"
)

func TestParseFormat(t *testing.T) {
	cases := map[string]quantum.Format{
		"":             quantum.FormatSymbolic,
		"sympy":        quantum.FormatSymbolic,
		"symbolic":     quantum.FormatSymbolic,
		"numpy":        quantum.FormatDense,
		"dense":        quantum.FormatDense,
		"scipy.sparse": quantum.FormatSparse,
		"sparse":       quantum.FormatSparse,
	}
	for in, want := range cases {
		got, err := quantum.ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := quantum.ParseFormat("csv")
	assert.ErrorIs(t, err, quantum.ErrUnknownFormat)
	assert.True(t, quantum.FormatSparse.IsNumeric())
	assert.False(t, quantum.FormatSymbolic.IsNumeric())
}

func TestMulValues_MixedFamilies(t *testing.T) {
	m := symbol.FromRows([]symbol.Expr{symbol.N(1), symbol.N(2)}, []symbol.Expr{symbol.N(3), symbol.N(4)})
	d, err := matrixutils.ToDense(m)
	require.NoError(t, err)

	v, err := quantum.MulValues(symbol.N(2), d)
	require.NoError(t, err)
	dense, ok := v.(*matrixutils.Dense)
	require.True(t, ok)
	assert.Equal(t, complex(8, 0), dense.At(1, 1))

	s, err := matrixutils.ToSparse(m)
	require.NoError(t, err)
	v, err = quantum.MulValues(d, s)
	require.NoError(t, err)
	_, ok = v.(*matrixutils.Sparse)
	assert.True(t, ok, "sparse wins over dense")

	_, err = quantum.MulValues(symbol.S("x"), d)
	assert.ErrorIs(t, err, quantum.ErrTypeMismatch)
}

func TestAddValues_ShapeChecks(t *testing.T) {
	col := symbol.ColumnVector(symbol.N(1), symbol.N(0))
	row := symbol.RowVector(symbol.N(1), symbol.N(0))

	_, err := quantum.AddValues(col, row)
	assert.ErrorIs(t, err, quantum.ErrDimensionMismatch)
	_, err = quantum.AddValues(col, symbol.N(1))
	assert.ErrorIs(t, err, quantum.ErrDimensionMismatch)

	v, err := quantum.SubValues(symbol.S("x"), symbol.S("x"))
	require.NoError(t, err)
	assert.True(t, symbol.IsZero(v.(symbol.Expr)))
}

func TestPowValue(t *testing.T) {
	m := symbol.FromRows([]symbol.Expr{symbol.N(2), symbol.N(0)}, []symbol.Expr{symbol.N(0), symbol.N(4)})
	v, err := quantum.PowValue(m, symbol.N(-1))
	require.NoError(t, err)
	inv := v.(*symbol.Matrix)
	assert.True(t, inv.Get(0, 0).Equal(symbol.F(1, 2)), inv.String())
	assert.True(t, inv.Get(1, 1).Equal(symbol.F(1, 4)), inv.String())

	_, err = quantum.PowValue(m, symbol.F(1, 2))
	assert.ErrorIs(t, err, quantum.ErrMalformedExponent)

	_, err = quantum.PowValue(symbol.ColumnVector(symbol.N(1), symbol.N(2)), symbol.N(2))
	assert.ErrorIs(t, err, quantum.ErrDimensionMismatch)

	c, err := quantum.PowValue(matrixutils.Complex(2), symbol.N(3))
	require.NoError(t, err)
	assert.InDelta(t, 8.0, real(complex128(c.(matrixutils.Complex))), 1e-12)
}

func TestTensorValues(t *testing.T) {
	a := symbol.ColumnVector(symbol.N(1), symbol.N(2))
	v, err := quantum.TensorValues(a, symbol.N(3))
	require.NoError(t, err)
	assert.True(t, v.(*symbol.Matrix).Equal(symbol.ColumnVector(symbol.N(3), symbol.N(6))))

	v, err = quantum.TensorValues(a, a)
	require.NoError(t, err)
	assert.Equal(t, 4, v.(*symbol.Matrix).Rows())
}

func TestFlattenScalar(t *testing.T) {
	assert.True(t, symbol.N(5).Equal(quantum.FlattenScalar(symbol.ColumnVector(symbol.N(5))).(symbol.Expr)))

	d, err := matrixutils.DenseFromRows([]complex128{3i})
	require.NoError(t, err)
	assert.Equal(t, matrixutils.Complex(3i), quantum.FlattenScalar(d))

	col := symbol.ColumnVector(symbol.N(1), symbol.N(2))
	assert.Same(t, col, quantum.FlattenScalar(col))
}

func TestAdjointValue(t *testing.T) {
	v, err := quantum.AdjointValue(symbol.MulOf(symbol.N(2), symbol.I))
	require.NoError(t, err)
	assert.True(t, v.(symbol.Expr).Equal(symbol.MulOf(symbol.N(-2), symbol.I)))

	c, err := quantum.AdjointValue(matrixutils.Complex(1 + 2i))
	require.NoError(t, err)
	assert.Equal(t, matrixutils.Complex(1-2i), c)
}
