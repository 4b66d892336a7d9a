// Package cartesian provides the one-dimensional position and momentum
// system: the operators X and Px, their continuous eigenstates, and the
// rules that represent them in either basis.
package cartesian

import (
	"github.com/njchilds90/goquantum/quantum"
	"github.com/njchilds90/goquantum/symbol"
)

var (
	XKetKind, XBraKind   = quantum.NewStateKinds("XKet", "XBra", []string{"x"}, buildXKet, buildXBra)
	PxKetKind, PxBraKind = quantum.NewStateKinds("PxKet", "PxBra", []string{"px"}, buildPxKet, buildPxBra)
	XOpKind              = quantum.NewKind("XOp", quantum.ClassHermitian, []string{"X"}, buildXOp)
	PxOpKind             = quantum.NewKind("PxOp", quantum.ClassHermitian, []string{"Px"}, buildPxOp)
)

func init() {
	quantum.RegisterKind(XKetKind, XBraKind, PxKetKind, PxBraKind, XOpKind, PxOpKind)
	quantum.RegisterMapping(XOpKind, XKetKind)
	quantum.RegisterMapping(PxOpKind, PxKetKind)
}

func buildXKet(k *quantum.Kind, l []string) quantum.Object  { return &XKet{quantum.NewBase(k, l)} }
func buildXBra(k *quantum.Kind, l []string) quantum.Object  { return &XBra{quantum.NewBase(k, l)} }
func buildPxKet(k *quantum.Kind, l []string) quantum.Object { return &PxKet{quantum.NewBase(k, l)} }
func buildPxBra(k *quantum.Kind, l []string) quantum.Object { return &PxBra{quantum.NewBase(k, l)} }
func buildXOp(k *quantum.Kind, l []string) quantum.Object   { return &XOp{quantum.NewBase(k, l)} }
func buildPxOp(k *quantum.Kind, l []string) quantum.Object  { return &PxOp{quantum.NewBase(k, l)} }

// Convenience constructors. An empty label uses the kind's default.
func NewXKet(label string) *XKet   { return XKetKind.New(labels(label)...).(*XKet) }
func NewXBra(label string) *XBra   { return XBraKind.New(labels(label)...).(*XBra) }
func NewPxKet(label string) *PxKet { return PxKetKind.New(labels(label)...).(*PxKet) }
func NewPxBra(label string) *PxBra { return PxBraKind.New(labels(label)...).(*PxBra) }
func NewXOp() *XOp                 { return XOpKind.Default().(*XOp) }
func NewPxOp() *PxOp               { return PxOpKind.Default().(*PxOp) }

func labels(l string) []string {
	if l == "" {
		return nil
	}
	return []string{l}
}

func coord(o quantum.Object) *symbol.Sym { return symbol.S(o.Labels()[0]) }

// planeWave is exp(sign*I*x*p/hbar)/sqrt(2*pi*hbar).
func planeWave(sign int64, x, p symbol.Expr) symbol.Expr {
	phase := symbol.MulOf(symbol.N(sign), symbol.I, x, p, symbol.PowOf(symbol.Hbar, symbol.N(-1)))
	norm := symbol.PowOf(symbol.MulOf(symbol.N(2), symbol.Pi, symbol.Hbar), symbol.F(-1, 2))
	return symbol.MulOf(symbol.ExpOf(phase), norm)
}

// ============================================================
// States
// ============================================================

type XKet struct{ quantum.Base }

func (k *XKet) Position() *symbol.Sym { return k.Symbol() }

func (k *XKet) EvalInnerProduct(bra quantum.Object) (symbol.Expr, bool) {
	switch bra.Kind() {
	case XBraKind:
		return symbol.DiracDeltaOf(symbol.SubOf(k.Position(), coord(bra))), true
	case PxBraKind:
		return planeWave(-1, k.Position(), coord(bra)), true
	}
	return nil, false
}

type XBra struct{ quantum.Base }

func (b *XBra) Position() *symbol.Sym { return b.Symbol() }

type PxKet struct{ quantum.Base }

func (k *PxKet) Momentum() *symbol.Sym { return k.Symbol() }

func (k *PxKet) EvalInnerProduct(bra quantum.Object) (symbol.Expr, bool) {
	switch bra.Kind() {
	case XBraKind:
		return planeWave(1, coord(bra), k.Momentum()), true
	case PxBraKind:
		return symbol.DiracDeltaOf(symbol.SubOf(k.Momentum(), coord(bra))), true
	}
	return nil, false
}

type PxBra struct{ quantum.Base }

func (b *PxBra) Momentum() *symbol.Sym { return b.Symbol() }

// ============================================================
// Operators
// ============================================================

// XOp is the position operator.
type XOp struct{ quantum.Base }

// TryRepresent gives X in the momentum basis as I*hbar*d/dp delta(p - p').
// In its own basis X declines and is represented by its matrix elements.
func (op *XOp) TryRepresent(basis quantum.Basis, ctx *quantum.Context) (quantum.Value, error) {
	if quantum.ResolveKind(op, basis) == PxKetKind {
		return derivativeDelta(PxKetKind, ctx.Index(), symbol.I)
	}
	return op.Base.TryRepresent(basis, ctx)
}

func (op *XOp) ApplyTo(ket quantum.Object) (quantum.Expr, bool) {
	if ket.Kind() != XKetKind {
		return nil, false
	}
	return quantum.NewMul(quantum.NewScalar(coord(ket)), ket), true
}

func (*XOp) SupportInterval() (start, end symbol.Expr) { return symbol.NegOo, symbol.Oo }

// PxOp is the momentum operator.
type PxOp struct{ quantum.Base }

// TryRepresent gives Px in the position basis as -I*hbar*d/dx delta(x - x').
func (op *PxOp) TryRepresent(basis quantum.Basis, ctx *quantum.Context) (quantum.Value, error) {
	if quantum.ResolveKind(op, basis) == XKetKind {
		return derivativeDelta(XKetKind, ctx.Index(), symbol.MulOf(symbol.N(-1), symbol.I))
	}
	return op.Base.TryRepresent(basis, ctx)
}

func (op *PxOp) ApplyTo(ket quantum.Object) (quantum.Expr, bool) {
	if ket.Kind() != PxKetKind {
		return nil, false
	}
	return quantum.NewMul(quantum.NewScalar(coord(ket)), ket), true
}

func (*PxOp) SupportInterval() (start, end symbol.Expr) { return symbol.NegOo, symbol.Oo }

// derivativeDelta is factor*hbar*d/dc1 delta(c1 - c2) for the coordinates
// of the basis states enumerated at index and index+1.
func derivativeDelta(k *quantum.Kind, index int, factor symbol.Expr) (quantum.Value, error) {
	states, err := quantum.EnumerateRange(k.Default(), index, 2)
	if err != nil {
		return nil, err
	}
	c1, c2 := coord(states[0]), coord(states[1])
	d := symbol.DiracDeltaOf(symbol.SubOf(c1, c2)).Diff(c1.Name())
	return symbol.MulOf(factor, symbol.Hbar, d), nil
}
