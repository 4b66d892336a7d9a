package quantum

import (
	"fmt"

	"github.com/njchilds90/goquantum/symbol"
)

// CollapseDeltas resolves dummy coordinates against the DiracDelta factors
// of a product. For every label of the basis states enumerated at unities,
// each delta factor whose argument is linear in the label with coefficient
// +1 or -1 substitutes the label by the delta's root across the whole
// expression. Remaining oo factors, left by delta(0), are dropped.
// Non-products are returned unchanged.
func CollapseDeltas(expr symbol.Expr, unities []int, basis Basis) (symbol.Expr, error) {
	orig, ok := expr.(*symbol.Mul)
	if !ok {
		return expr, nil
	}
	if basis == nil {
		return nil, fmt.Errorf("%w: collapsing deltas needs a basis", ErrBasisUnresolved)
	}
	b := GetBasis(nil, basis)
	if b == nil {
		return nil, fmt.Errorf("%w: %s", ErrBasisUnresolved, basisName(basis))
	}
	kets, err := EnumerateStates(b, unities)
	if err != nil {
		return nil, err
	}

	out := symbol.Expr(orig)
	for _, k := range kets {
		label := k.Labels()[0]
		for _, f := range orig.Factors() {
			fn, ok := f.(*symbol.Func)
			if !ok || !symbol.IsDiracDelta(fn) {
				continue
			}
			a, rest, ok := symbol.LinearCoefficients(fn.Arg(), label)
			if !ok || !(a.IsOne() || a.IsNegOne()) {
				continue
			}
			root := symbol.MulOf(symbol.N(-1), a, rest)
			out = out.Sub(label, root).Simplify()
		}
	}

	kept := make([]symbol.Expr, 0, len(symbol.Factors(out)))
	for _, f := range symbol.Factors(out) {
		if !f.Equal(symbol.Oo) {
			kept = append(kept, f)
		}
	}
	return symbol.MulOf(kept...), nil
}
