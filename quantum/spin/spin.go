// Package spin provides a spin-1/2 system: the operators Sx, Sy and Sz as
// hbar/2 times the Pauli matrices, and the Sz eigenstates "up" and "down".
package spin

import (
	"fmt"

	"github.com/njchilds90/goquantum/quantum"
	"github.com/njchilds90/goquantum/symbol"
)

const (
	Up   = "up"
	Down = "down"
)

var (
	SzKetKind, SzBraKind = quantum.NewStateKinds("SzKet", "SzBra", []string{Up}, buildKet, buildBra)
	SzOpKind             = quantum.NewKind("SzOp", quantum.ClassHermitian, []string{"Sz"}, buildOp(axisZ))
	SxOpKind             = quantum.NewKind("SxOp", quantum.ClassHermitian, []string{"Sx"}, buildOp(axisX))
	SyOpKind             = quantum.NewKind("SyOp", quantum.ClassHermitian, []string{"Sy"}, buildOp(axisY))
)

func init() {
	quantum.RegisterKind(SzKetKind, SzBraKind, SzOpKind, SxOpKind, SyOpKind)
	quantum.RegisterMapping(SzOpKind, SzKetKind)
}

func buildKet(k *quantum.Kind, l []string) quantum.Object { return &SzKet{quantum.NewBase(k, l)} }
func buildBra(k *quantum.Kind, l []string) quantum.Object { return &SzBra{quantum.NewBase(k, l)} }

func buildOp(a axis) quantum.BuildFunc {
	return func(k *quantum.Kind, l []string) quantum.Object {
		return &Op{Base: quantum.NewBase(k, l), axis: a}
	}
}

func NewKet(label string) *SzKet { return SzKetKind.New(label).(*SzKet) }
func NewBra(label string) *SzBra { return SzBraKind.New(label).(*SzBra) }
func Sx() *Op                    { return SxOpKind.Default().(*Op) }
func Sy() *Op                    { return SyOpKind.Default().(*Op) }
func Sz() *Op                    { return SzOpKind.Default().(*Op) }

// index of a label in the Sz basis, -1 if it is not an eigenstate label.
func index(label string) int {
	switch label {
	case Up:
		return 0
	case Down:
		return 1
	}
	return -1
}

func halfHbar() symbol.Expr { return symbol.MulOf(symbol.F(1, 2), symbol.Hbar) }

// inSzBasis reports whether basis selects the Sz eigenbasis; without a
// basis the Sz basis is the default.
func inSzBasis(leaf quantum.Expr, basis quantum.Basis) bool {
	return basis == nil || quantum.ResolveKind(leaf, basis) == SzKetKind
}

// ============================================================
// States
// ============================================================

type SzKet struct{ quantum.Base }

func (k *SzKet) TryRepresent(basis quantum.Basis, ctx *quantum.Context) (quantum.Value, error) {
	i := index(k.Label())
	if i < 0 || !inSzBasis(k, basis) {
		return k.Base.TryRepresent(basis, ctx)
	}
	v := []symbol.Expr{symbol.N(0), symbol.N(0)}
	v[i] = symbol.N(1)
	return symbol.ColumnVector(v...), nil
}

// EvalInnerProduct is orthonormal over the up and down labels.
func (k *SzKet) EvalInnerProduct(bra quantum.Object) (symbol.Expr, bool) {
	if bra.Kind() != SzBraKind {
		return nil, false
	}
	i, j := index(k.Label()), index(bra.Labels()[0])
	if i < 0 || j < 0 {
		return nil, false
	}
	if i == j {
		return symbol.N(1), true
	}
	return symbol.N(0), true
}

type SzBra struct{ quantum.Base }

func (b *SzBra) TryRepresent(basis quantum.Basis, ctx *quantum.Context) (quantum.Value, error) {
	i := index(b.Label())
	if i < 0 || !inSzBasis(b, basis) {
		return b.Base.TryRepresent(basis, ctx)
	}
	v := []symbol.Expr{symbol.N(0), symbol.N(0)}
	v[i] = symbol.N(1)
	return symbol.RowVector(v...), nil
}

// ============================================================
// Operators
// ============================================================

type axis int

const (
	axisX axis = iota
	axisY
	axisZ
)

// Op is a spin component operator.
type Op struct {
	quantum.Base
	axis axis
}

// Pauli returns the Pauli matrix of the operator's axis.
func (op *Op) Pauli() *symbol.Matrix {
	n := symbol.N
	switch op.axis {
	case axisX:
		return symbol.FromRows([]symbol.Expr{n(0), n(1)}, []symbol.Expr{n(1), n(0)})
	case axisY:
		return symbol.FromRows(
			[]symbol.Expr{n(0), symbol.MulOf(n(-1), symbol.I)},
			[]symbol.Expr{symbol.I, n(0)},
		)
	}
	return symbol.FromRows([]symbol.Expr{n(1), n(0)}, []symbol.Expr{n(0), n(-1)})
}

// TryRepresent gives hbar/2 times the Pauli matrix in the Sz basis.
func (op *Op) TryRepresent(basis quantum.Basis, ctx *quantum.Context) (quantum.Value, error) {
	if !inSzBasis(op, basis) {
		return nil, fmt.Errorf("%w: %s has no matrix outside the Sz basis", quantum.ErrDeclined, op.Kind())
	}
	return op.Pauli().Scale(halfHbar()), nil
}

// ApplyTo acts on up and down kets with the column of the Pauli matrix.
func (op *Op) ApplyTo(ket quantum.Object) (quantum.Expr, bool) {
	if ket.Kind() != SzKetKind {
		return nil, false
	}
	j := index(ket.Labels()[0])
	if j < 0 {
		return nil, false
	}
	p := op.Pauli()
	var terms []quantum.Expr
	for i, label := range []string{Up, Down} {
		c := p.Get(i, j)
		if symbol.IsZero(c) {
			continue
		}
		terms = append(terms, quantum.NewMul(quantum.NewScalar(symbol.MulOf(c, halfHbar())), SzKetKind.New(label)))
	}
	return quantum.NewAdd(terms...), true
}
