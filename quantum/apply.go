package quantum

import (
	"slices"

	"github.com/njchilds90/goquantum/symbol"
)

// ============================================================
// Operator application
// ============================================================

// Apply simplifies e by letting operators act on the kets to their right and
// closing bra-ket pairs into scalars. Sums are distributed first. Pairs no
// rule can reduce are left in place.
func Apply(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.Terms()))
		for i, t := range v.Terms() {
			terms[i] = Apply(t)
		}
		return NewAdd(terms...)
	case *Mul:
		return applyProduct(v.Factors())
	case *InnerProduct:
		return applyProduct([]Expr{v.Bra(), v.Ket()})
	}
	return e
}

func applyProduct(factors []Expr) Expr {
	for i, f := range factors {
		a, ok := f.(*Add)
		if !ok {
			continue
		}
		terms := make([]Expr, len(a.Terms()))
		for j, t := range a.Terms() {
			terms[j] = applyProduct(slices.Concat(factors[:i], []Expr{t}, factors[i+1:]))
		}
		return NewAdd(terms...)
	}

	var idx []int
	for i, f := range factors {
		if _, ok := f.(*Scalar); !ok {
			idx = append(idx, i)
		}
	}
	for j := len(idx) - 1; j >= 1; j-- {
		l, r := idx[j-1], idx[j]
		rep, ok := reducePair(factors[l], factors[r])
		if !ok {
			continue
		}
		reduced := slices.Concat(factors[:l], factors[l+1:r], []Expr{rep}, factors[r+1:])
		return Apply(NewMul(reduced...))
	}
	return NewMul(factors...)
}

func reducePair(l, r Expr) (Expr, bool) {
	left, ok := l.(Object)
	if !ok {
		return nil, false
	}
	ket, ok := r.(Object)
	if !ok || !ket.Kind().IsKet() {
		return nil, false
	}
	if left.Kind().IsBra() {
		v, ok := EvalInnerProduct(left, ket)
		if !ok {
			return nil, false
		}
		return NewScalar(v), true
	}
	if ap, ok := left.(Applier); ok && left.Kind().IsOperator() {
		return ap.ApplyTo(ket)
	}
	return nil, false
}

// EvalInnerProduct evaluates <bra|ket>. The ket's rule is tried first, then
// the conjugate of the bra's dual against the ket's dual.
func EvalInnerProduct(bra, ket Object) (symbol.Expr, bool) {
	if ip, ok := ket.(InnerProducter); ok {
		if v, ok := ip.EvalInnerProduct(bra); ok {
			return v.Simplify(), true
		}
	}
	if ip, ok := Dual(bra).(InnerProducter); ok {
		if v, ok := ip.EvalInnerProduct(Dual(ket)); ok {
			return symbol.ConjugateOf(v).Simplify(), true
		}
	}
	return nil, false
}
