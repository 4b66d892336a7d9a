package quantum

import (
	"github.com/njchilds90/goquantum/symbol"
)

// IntegrateResult integrates the unresolved identity insertions out of a
// symbolic scalar result. last is the right-most factor of the product the
// unities were recorded for; it fixes the basis when the options carry
// none. Each enumerated coordinate still free in result is integrated over
// the support interval of the basis' generating operator. Results that are
// not symbolic scalars, and bases without such an interval, are returned
// unchanged.
func IntegrateResult(last Expr, result Value, unities []int, ctx *Context) Value {
	expr, ok := result.(symbol.Expr)
	if !ok || len(unities) == 0 {
		return result
	}
	basis := GetBasis(last, ctx.Basis())
	if basis == nil {
		return result
	}
	if basis.Kind().IsBra() {
		basis = Dual(basis)
	}
	kets, err := EnumerateStates(basis, unities)
	if err != nil {
		return result
	}
	var support Supported
	if opKind := StateToOperator(basis); opKind != nil {
		support, _ = opKind.Default().(Supported)
	}
	log := ctx.Logger()
	for _, k := range kets {
		coord := k.Labels()[0]
		if !symbol.Has(expr, coord) {
			continue
		}
		if support == nil {
			log.Debug("no support interval, leaving coordinate", "coord", coord, "basis", basis.Kind().Name())
			continue
		}
		start, end := support.SupportInterval()
		expr = symbol.IntegrateDefinite(expr, coord, start, end)
		log.Debug("integrated dummy coordinate", "coord", coord, "result", expr.String())
	}
	return expr
}
