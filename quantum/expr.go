// Package quantum lowers abstract quantum expressions (states, operators and
// the products, sums, powers, tensor products, adjoints and commutators built
// from them) to concrete representations in a chosen basis.
//
// Design goals:
//   - One recursive, type-directed walker (Represent) over a closed set of node kinds
//   - Leaf rules are capabilities on the leaf types, registered by kind
//   - Per-call state lives on an explicit Context, never in globals
//   - Deterministic dummy-coordinate naming ("x_1", "x_2", ...)
package quantum

import (
	"strings"

	"github.com/njchilds90/goquantum/symbol"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is an immutable quantum expression node.
type Expr interface {
	String() string
	quantumNode()
}

type NodeKind int

const (
	KindLeaf NodeKind = iota
	KindScalar
	KindSum
	KindProduct
	KindPower
	KindTensorProduct
	KindAdjoint
	KindCommutator
	KindAntiCommutator
	KindInnerProduct
)

var nodeKindNames = [...]string{
	KindLeaf:           "leaf",
	KindScalar:         "scalar",
	KindSum:            "sum",
	KindProduct:        "product",
	KindPower:          "power",
	KindTensorProduct:  "tensor",
	KindAdjoint:        "adjoint",
	KindCommutator:     "commutator",
	KindAntiCommutator: "anticommutator",
	KindInnerProduct:   "innerproduct",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "unknown"
}

// KindOf classifies a node.
func KindOf(e Expr) NodeKind {
	switch e.(type) {
	case *Scalar:
		return KindScalar
	case *Add:
		return KindSum
	case *Mul:
		return KindProduct
	case *Pow:
		return KindPower
	case *TensorProduct:
		return KindTensorProduct
	case *Dagger:
		return KindAdjoint
	case *Commutator:
		return KindCommutator
	case *AntiCommutator:
		return KindAntiCommutator
	case *InnerProduct:
		return KindInnerProduct
	}
	return KindLeaf
}

// ============================================================
// Scalar: commutative coefficient
// ============================================================

type Scalar struct{ value symbol.Expr }

func NewScalar(e symbol.Expr) *Scalar { return &Scalar{value: e.Simplify()} }

func (s *Scalar) Value() symbol.Expr { return s.value }
func (s *Scalar) String() string     { return s.value.String() }
func (*Scalar) quantumNode()         {}

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

// NewAdd flattens nested sums and folds scalar terms into one trailing
// scalar, dropped when it is zero. A single term is returned unchanged.
func NewAdd(terms ...Expr) Expr {
	flat := make([]Expr, 0, len(terms))
	var consts []symbol.Expr
	add := func(t Expr) {
		if s, ok := t.(*Scalar); ok {
			consts = append(consts, s.value)
		} else {
			flat = append(flat, t)
		}
	}
	for _, t := range terms {
		if inner, ok := t.(*Add); ok {
			for _, it := range inner.terms {
				add(it)
			}
		} else {
			add(t)
		}
	}
	if c := symbol.AddOf(consts...); !symbol.IsZero(c) || len(flat) == 0 {
		flat = append(flat, NewScalar(c))
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &Add{terms: flat}
}

func (a *Add) Terms() []Expr { return a.terms }
func (*Add) quantumNode()    {}
func (a *Add) String() string {
	return joinExprs(a.terms, " + ")
}

// ============================================================
// Mul: ordered product
// ============================================================

// Mul keeps operator ordering. All scalar factors are folded into one
// coefficient placed first.
type Mul struct{ factors []Expr }

// NewMul flattens nested products and folds scalar factors. A lone factor is
// returned unchanged and a zero coefficient collapses the product.
func NewMul(factors ...Expr) Expr {
	var coeffs []symbol.Expr
	rest := make([]Expr, 0, len(factors))
	for _, f := range factors {
		inner := []Expr{f}
		if m, ok := f.(*Mul); ok {
			inner = m.factors
		}
		for _, g := range inner {
			if s, ok := g.(*Scalar); ok {
				coeffs = append(coeffs, s.value)
			} else {
				rest = append(rest, g)
			}
		}
	}
	coeff := symbol.MulOf(coeffs...)
	if symbol.IsZero(coeff) {
		return NewScalar(symbol.N(0))
	}
	if len(rest) == 0 {
		return NewScalar(coeff)
	}
	if n, ok := coeff.(*symbol.Num); !ok || !n.IsOne() {
		rest = append([]Expr{NewScalar(coeff)}, rest...)
	}
	if len(rest) == 1 {
		return rest[0]
	}
	return &Mul{factors: rest}
}

func (m *Mul) Factors() []Expr { return m.factors }
func (*Mul) quantumNode()      {}
func (m *Mul) String() string {
	parts := make([]string, len(m.factors))
	for i, f := range m.factors {
		if _, ok := f.(*Add); ok {
			parts[i] = "(" + f.String() + ")"
		} else {
			parts[i] = f.String()
		}
	}
	return strings.Join(parts, "*")
}

// ============================================================
// Pow: base^exponent with a scalar exponent
// ============================================================

type Pow struct {
	base Expr
	exp  symbol.Expr
}

func NewPow(base Expr, exp symbol.Expr) *Pow { return &Pow{base: base, exp: exp.Simplify()} }

func (p *Pow) Base() Expr          { return p.base }
func (p *Pow) Exp() symbol.Expr    { return p.exp }
func (*Pow) quantumNode()          {}
func (p *Pow) String() string {
	return "(" + p.base.String() + ")^" + p.exp.String()
}

// ============================================================
// TensorProduct
// ============================================================

type TensorProduct struct{ factors []Expr }

func NewTensorProduct(factors ...Expr) *TensorProduct { return &TensorProduct{factors: factors} }

func (t *TensorProduct) Factors() []Expr { return t.factors }
func (*TensorProduct) quantumNode()      {}
func (t *TensorProduct) String() string  { return joinExprs(t.factors, "x") }

// ============================================================
// Dagger: Hermitian adjoint
// ============================================================

type Dagger struct{ arg Expr }

// NewDagger returns the adjoint of e. States become their duals, Hermitian
// operators are their own adjoint, scalars are conjugated and a double
// adjoint cancels; everything else is wrapped.
func NewDagger(e Expr) Expr {
	switch v := e.(type) {
	case *Dagger:
		return v.arg
	case *Scalar:
		return NewScalar(symbol.ConjugateOf(v.value))
	case Object:
		k := v.Kind()
		if k.IsState() && k.Dual() != nil {
			return Dual(v)
		}
		if k.Class() == ClassHermitian {
			return v
		}
	}
	return &Dagger{arg: e}
}

func (d *Dagger) Arg() Expr      { return d.arg }
func (*Dagger) quantumNode()     {}
func (d *Dagger) String() string { return "Dagger(" + d.arg.String() + ")" }

// ============================================================
// Commutator / AntiCommutator
// ============================================================

type Commutator struct{ a, b Expr }

func NewCommutator(a, b Expr) *Commutator { return &Commutator{a: a, b: b} }

func (c *Commutator) Args() (Expr, Expr) { return c.a, c.b }
func (*Commutator) quantumNode()         {}
func (c *Commutator) String() string     { return "[" + c.a.String() + "," + c.b.String() + "]" }

type AntiCommutator struct{ a, b Expr }

func NewAntiCommutator(a, b Expr) *AntiCommutator { return &AntiCommutator{a: a, b: b} }

func (c *AntiCommutator) Args() (Expr, Expr) { return c.a, c.b }
func (*AntiCommutator) quantumNode()         {}
func (c *AntiCommutator) String() string     { return "{" + c.a.String() + "," + c.b.String() + "}" }

// ============================================================
// InnerProduct
// ============================================================

type InnerProduct struct{ bra, ket Object }

func NewInnerProduct(bra, ket Object) (*InnerProduct, error) {
	if !bra.Kind().IsBra() || !ket.Kind().IsKet() {
		return nil, &ValueError{Op: "inner product", Value: bra.String() + ket.String(), Err: ErrTypeMismatch}
	}
	return &InnerProduct{bra: bra, ket: ket}, nil
}

func (ip *InnerProduct) Bra() Object     { return ip.bra }
func (ip *InnerProduct) Ket() Object     { return ip.ket }
func (*InnerProduct) quantumNode()       {}
func (ip *InnerProduct) String() string {
	return ip.bra.String() + ip.ket.String()
}

func joinExprs(es []Expr, sep string) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, sep)
}
