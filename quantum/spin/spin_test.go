package spin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goquantum/quantum"
	"github.com/njchilds90/goquantum/quantum/cartesian"
	"github.com/njchilds90/goquantum/quantum/spin"
	"github.com/njchilds90/goquantum/symbol"
)

func TestPauliSquaresToIdentity(t *testing.T) {
	for _, op := range []*spin.Op{spin.Sx(), spin.Sy(), spin.Sz()} {
		p := op.Pauli()
		assert.True(t, p.MatMul(p).Equal(symbol.Identity(2)), op.String())
		assert.True(t, p.Adjoint().Equal(p), "%s is Hermitian", op)
	}
}

func TestStateVectors(t *testing.T) {
	ctx := quantum.NewContext(quantum.Options{})
	v, err := spin.NewKet(spin.Down).TryRepresent(nil, ctx)
	require.NoError(t, err)
	assert.True(t, v.(*symbol.Matrix).Equal(symbol.ColumnVector(symbol.N(0), symbol.N(1))))

	v, err = spin.NewBra(spin.Up).TryRepresent(spin.SzOpKind, ctx)
	require.NoError(t, err)
	assert.True(t, v.(*symbol.Matrix).Equal(symbol.RowVector(symbol.N(1), symbol.N(0))))

	_, err = spin.NewKet(spin.Up).TryRepresent(cartesian.XKetKind, ctx)
	assert.ErrorIs(t, err, quantum.ErrDeclined)
}

func TestOperatorDeclinesOutsideSzBasis(t *testing.T) {
	_, err := quantum.Represent(spin.Sx(), quantum.Options{Basis: cartesian.XKetKind})
	assert.ErrorIs(t, err, quantum.ErrUnrepresentable)
}

func TestApplyTo_Sy(t *testing.T) {
	got, ok := spin.Sy().ApplyTo(spin.NewKet(spin.Up))
	require.True(t, ok)
	m, ok := got.(*quantum.Mul)
	require.Truef(t, ok, "got %s", got)
	coeff := m.Factors()[0].(*quantum.Scalar).Value()
	assert.True(t, coeff.Equal(symbol.MulOf(symbol.F(1, 2), symbol.I, symbol.Hbar)), coeff.String())
	assert.Equal(t, "|down>", m.Factors()[1].String())

	_, ok = spin.Sz().ApplyTo(spin.NewKet("sideways"))
	assert.False(t, ok)
}

func TestExpectationValues(t *testing.T) {
	up := spin.NewKet(spin.Up)
	got := quantum.Apply(quantum.NewMul(quantum.Dual(up), spin.Sz(), up))
	s, ok := got.(*quantum.Scalar)
	require.Truef(t, ok, "got %s", got)
	assert.True(t, s.Value().Equal(symbol.MulOf(symbol.F(1, 2), symbol.Hbar)))

	got = quantum.Apply(quantum.NewMul(quantum.Dual(up), spin.Sx(), up))
	s, ok = got.(*quantum.Scalar)
	require.Truef(t, ok, "got %s", got)
	assert.True(t, symbol.IsZero(s.Value()))
}

func TestMapping(t *testing.T) {
	assert.Equal(t, spin.SzKetKind, quantum.OperatorToState(spin.SzOpKind))
	assert.Nil(t, quantum.OperatorToState(spin.SxOpKind))
}
