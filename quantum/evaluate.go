package quantum

import (
	"fmt"
)

// ============================================================
// InnerProductEvaluator
// ============================================================

// RepInnerProduct represents a state by its overlap with an enumerated basis
// state at the context's current index. Without a basis a ket uses a default
// ket of its own kind and a bra the default of its dual kind.
func RepInnerProduct(expr Expr, basis Basis, ctx *Context) (Value, error) {
	obj, ok := expr.(Object)
	if !ok || !obj.Kind().IsState() {
		return nil, &ValueError{Op: "inner product representation of", Value: expr.String(), Err: ErrTypeMismatch}
	}
	var b Object
	switch {
	case basis == nil && obj.Kind().IsKet():
		b = obj.Kind().Default()
	case basis == nil:
		b = obj.Kind().Dual().Default()
	default:
		b = GetBasis(obj, basis)
		if b == nil {
			return nil, fmt.Errorf("%w: %s for %s", ErrBasisUnresolved, basisName(basis), obj)
		}
	}
	if b.Kind().IsBra() {
		b = Dual(b)
	}

	kets, err := EnumerateRange(b, ctx.Index(), 2)
	if err != nil {
		return nil, err
	}
	var bra, ket Object
	if obj.Kind().IsBra() {
		bra, ket = obj, kets[0]
		if SameObject(Dual(kets[0]), obj) {
			ket = kets[1]
		}
	} else {
		bra, ket = Dual(kets[0]), obj
		if SameObject(kets[0], obj) {
			bra = Dual(kets[1])
		}
	}
	v, ok := EvalInnerProduct(bra, ket)
	if !ok {
		return nil, fmt.Errorf("%w: no inner product rule for %s%s", ErrDeclined, bra, ket)
	}
	return obj.FormatValue(v, ctx.Format())
}

// ============================================================
// ExpectationEvaluator
// ============================================================

// RepExpectation represents an operator by the matrix element
// <b_{i+1}| op |b_i> in the basis at the context's current index i.
func RepExpectation(expr Expr, basis Basis, ctx *Context) (Value, error) {
	obj, ok := expr.(Object)
	if !ok || !obj.Kind().IsOperator() {
		return nil, &ValueError{Op: "expectation representation of", Value: expr.String(), Err: ErrTypeMismatch}
	}
	var b Object
	if basis == nil {
		sk := OperatorToState(obj)
		if sk == nil {
			return nil, fmt.Errorf("%w: no eigenstates registered for %s", ErrBasisUnresolved, obj.Kind())
		}
		b = sk.Default()
	} else if b = GetBasis(obj, basis); b == nil {
		return nil, fmt.Errorf("%w: %s for %s", ErrBasisUnresolved, basisName(basis), obj)
	}
	if b.Kind().IsBra() {
		b = Dual(b)
	}

	kets, err := EnumerateRange(b, ctx.Index(), 2)
	if err != nil {
		return nil, err
	}
	sandwich := Apply(NewMul(Dual(kets[1]), obj, kets[0]))
	s, ok := sandwich.(*Scalar)
	if !ok {
		return nil, fmt.Errorf("%w: %s does not reduce to a scalar", ErrDeclined, sandwich)
	}
	return s.Value(), nil
}

func basisName(b Basis) string {
	if s, ok := b.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", b)
}
