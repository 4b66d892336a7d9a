package quantum

import (
	"errors"
	"fmt"

	"github.com/njchilds90/goquantum/symbol"
)

// ============================================================
// Dispatcher
// ============================================================

// Represent lowers e to a concrete representation. The format is validated
// before the walk and every call gets its own Context.
func Represent(e Expr, opts Options) (Value, error) {
	f, err := ParseFormat(string(opts.Format))
	if err != nil {
		return nil, err
	}
	opts.Format = f
	return NewContext(opts).Represent(e)
}

// Represent lowers e within an ongoing descent, sharing the unresolved
// identities of c. A product at the top of e moves the index of c; nested
// subexpressions see the index as it was and leave it unchanged.
func (c *Context) Represent(e Expr) (Value, error) {
	switch KindOf(e) {
	case KindSum:
		return c.representSum(e.(*Add))
	case KindProduct:
		return c.representProduct(e.(*Mul).Factors())
	case KindPower:
		return c.representPower(e.(*Pow))
	case KindTensorProduct:
		return c.representTensor(e.(*TensorProduct))
	case KindAdjoint:
		v, err := c.scoped(e.(*Dagger).Arg())
		if err != nil {
			return nil, err
		}
		return AdjointValue(v)
	case KindCommutator:
		a, b := e.(*Commutator).Args()
		return c.representPair(a, b, SubValues)
	case KindAntiCommutator:
		a, b := e.(*AntiCommutator).Args()
		return c.representPair(a, b, AddValues)
	case KindInnerProduct:
		ip := e.(*InnerProduct)
		return c.representProduct([]Expr{ip.Bra(), ip.Ket()})
	case KindScalar:
		return c.representScalar(e.(*Scalar))
	}
	obj, ok := e.(Object)
	if !ok {
		return nil, &ValueError{Op: "represent", Value: fmt.Sprintf("%T", e), Err: ErrTypeMismatch}
	}
	return c.representLeaf(obj)
}

func (c *Context) representSum(a *Add) (Value, error) {
	terms := a.Terms()
	acc, err := c.scoped(terms[0])
	if err != nil {
		return nil, err
	}
	for _, t := range terms[1:] {
		v, err := c.scoped(t)
		if err != nil {
			return nil, err
		}
		if acc, err = AddValues(acc, v); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (c *Context) representPower(p *Pow) (Value, error) {
	exp := p.Exp()
	if c.opts.Format.IsNumeric() {
		z, err := ToScalar(exp)
		if err != nil {
			return nil, &ValueError{Op: "power", Value: exp.String(), Err: ErrMalformedExponent}
		}
		if imag(complex128(z)) == 0 {
			exp = symbol.NFloat(real(complex128(z)))
		}
	}
	base, err := c.scoped(p.Base())
	if err != nil {
		return nil, err
	}
	return PowValue(base, exp)
}

func (c *Context) representTensor(t *TensorProduct) (Value, error) {
	var acc Value
	for i, f := range t.Factors() {
		v, err := c.scoped(f)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			acc = v
			continue
		}
		if acc, err = TensorValues(acc, v); err != nil {
			return nil, err
		}
	}
	if acc == nil {
		return symbol.N(1), nil
	}
	return acc, nil
}

// representPair represents a and b on their own and combines AB and BA
// with op.
func (c *Context) representPair(a, b Expr, op func(x, y Value) (Value, error)) (Value, error) {
	av, err := c.scoped(a)
	if err != nil {
		return nil, err
	}
	bv, err := c.scoped(b)
	if err != nil {
		return nil, err
	}
	ab, err := MulValues(av, bv)
	if err != nil {
		return nil, err
	}
	ba, err := MulValues(bv, av)
	if err != nil {
		return nil, err
	}
	return op(ab, ba)
}

// scoped represents e without letting it move the caller's index.
func (c *Context) scoped(e Expr) (Value, error) {
	index, set := c.saveIndex()
	defer c.restoreIndex(index, set)
	return c.Represent(e)
}

func (c *Context) representScalar(s *Scalar) (Value, error) {
	if c.opts.Format.IsNumeric() {
		return ToScalar(s.Value())
	}
	return s.Value(), nil
}

// representLeaf tries the leaf's own rule, then falls back to an inner
// product (states) or an expectation value (Hermitian operators).
func (c *Context) representLeaf(obj Object) (Value, error) {
	v, err := obj.TryRepresent(c.opts.Basis, c)
	if err == nil {
		return obj.FormatValue(v, c.opts.Format)
	}
	if !errors.Is(err, ErrDeclined) {
		return nil, err
	}
	k := obj.Kind()
	if !k.IsState() && k.Class() != ClassHermitian {
		return nil, &UnrepresentableError{Leaf: obj, Reason: err}
	}
	c.Logger().Debug("leaf declined, trying fallback",
		"leaf", obj.String(), "kind", k.Name(), "reason", err)

	var fb error
	switch basis := GetBasis(obj, c.opts.Basis); {
	case basis == nil:
		fb = fmt.Errorf("%w: %s", ErrBasisUnresolved, obj)
	case k.IsState():
		v, fb = RepInnerProduct(obj, basis, c)
	default:
		v, fb = RepExpectation(obj, basis, c)
	}
	if fb == nil {
		return v, nil
	}
	if errors.Is(fb, ErrDeclined) || errors.Is(fb, ErrBasisUnresolved) {
		return nil, &UnrepresentableError{Leaf: obj, Reason: err, Fallback: fb}
	}
	return nil, fb
}

// ============================================================
// Products
// ============================================================

func isOperator(e Expr) bool {
	o, ok := e.(Object)
	return ok && o.Kind().IsOperator()
}

func isKet(e Expr) bool {
	o, ok := e.(Object)
	return ok && o.Kind().IsKet()
}

func isBra(e Expr) bool {
	o, ok := e.(Object)
	return ok && o.Kind().IsBra()
}

// representProduct walks the factors right to left. Identity insertions
// between factors advance the dummy index and are recorded as unresolved
// unless they close against a bra:
//
//	operator on the right         -> new index, unresolved
//	ket on the left of a bra      -> new index
//	operator on the left of a ket -> current index, unresolved
//
// A scalar coefficient is a factor like any other, so an operator on its
// right still inserts an identity. Unresolved entries recorded here are
// integrated out before returning.
func (c *Context) representProduct(factors []Expr) (Value, error) {
	mark := c.enterProduct()
	last := factors[len(factors)-1]
	result, err := c.scoped(last)
	if err != nil {
		return nil, err
	}
	for i := len(factors) - 2; i >= 0; i-- {
		cur := factors[i]
		switch {
		case isOperator(last):
			c.bump()
			c.recordUnity()
		case isBra(last) && isKet(cur):
			c.bump()
		case isKet(last) && isOperator(cur):
			c.recordUnity()
		}
		next, err := c.scoped(cur)
		if err != nil {
			return nil, err
		}
		if result, err = MulValues(next, result); err != nil {
			return nil, err
		}
		last = cur
	}
	result = FlattenScalar(result)
	pending := c.takeUnities(mark)
	return IntegrateResult(factors[len(factors)-1], result, pending, c), nil
}
