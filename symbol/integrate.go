package symbol

import (
	"fmt"
	"math"
)

// ============================================================
// Free Symbols
// ============================================================

func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

// Has reports whether the symbol varName occurs free in e.
func Has(e Expr, varName string) bool {
	_, ok := FreeSymbols(e)[varName]
	return ok
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	case *Integral:
		inner := map[string]struct{}{}
		collectSymbols(v.integrand, inner)
		delete(inner, v.varName)
		for k := range inner {
			out[k] = struct{}{}
		}
		collectSymbols(v.lower, out)
		collectSymbols(v.upper, out)
	}
}

// LinearCoefficients splits e into a*varName + b with a nonzero number a and
// b free of varName.
func LinearCoefficients(e Expr, varName string) (*Num, Expr, bool) {
	a, ok := e.Diff(varName).Simplify().(*Num)
	if !ok || a.IsZero() {
		return nil, nil, false
	}
	b := e.Sub(varName, N(0)).Simplify()
	if Has(b, varName) {
		return nil, nil, false
	}
	return a, b, true
}

// ============================================================
// Integral: unevaluated definite integral
// ============================================================

type Integral struct {
	integrand    Expr
	varName      string
	lower, upper Expr
}

func (in *Integral) Simplify() Expr {
	return &Integral{
		integrand: in.integrand.Simplify(),
		varName:   in.varName,
		lower:     in.lower.Simplify(),
		upper:     in.upper.Simplify(),
	}
}

func (in *Integral) String() string {
	return fmt.Sprintf("Integral(%s, (%s, %s, %s))", in.integrand, in.varName, in.lower, in.upper)
}

func (in *Integral) LaTeX() string {
	return fmt.Sprintf("\\int_{%s}^{%s} %s \\, d%s", in.lower.LaTeX(), in.upper.LaTeX(), in.integrand.LaTeX(), in.varName)
}

func (in *Integral) Sub(varName string, value Expr) Expr {
	integrand := in.integrand
	if varName != in.varName {
		integrand = integrand.Sub(varName, value)
	}
	return (&Integral{
		integrand: integrand,
		varName:   in.varName,
		lower:     in.lower.Sub(varName, value),
		upper:     in.upper.Sub(varName, value),
	}).Simplify()
}

func (in *Integral) Diff(varName string) Expr {
	if varName == in.varName || !Has(in.integrand, varName) {
		return N(0)
	}
	return &Integral{integrand: in.integrand.Diff(varName).Simplify(), varName: in.varName, lower: in.lower, upper: in.upper}
}

func (in *Integral) Eval() (*Num, bool) {
	lo, ok1 := in.lower.Eval()
	hi, ok2 := in.upper.Eval()
	if !ok1 || !ok2 || len(FreeSymbols(in)) > 0 {
		return nil, false
	}
	return NFloat(DefiniteIntegrate(in.integrand, in.varName, lo.Float64(), hi.Float64())), true
}

func (in *Integral) Equal(other Expr) bool {
	o, ok := other.(*Integral)
	return ok && in.varName == o.varName && in.integrand.Equal(o.integrand) &&
		in.lower.Equal(o.lower) && in.upper.Equal(o.upper)
}

func (in *Integral) exprType() string { return "integral" }
func (in *Integral) toJSON() map[string]interface{} {
	return map[string]interface{}{
		"type":      "integral",
		"integrand": in.integrand.toJSON(),
		"var":       in.varName,
		"lower":     in.lower.toJSON(),
		"upper":     in.upper.toJSON(),
	}
}

// ============================================================
// Integration (rule-based symbolic + numerical)
// ============================================================

func Integrate(expr Expr, varName string) (Expr, bool) {
	expr = expr.Simplify()
	if !Has(expr, varName) {
		return MulOf(expr, S(varName)), true
	}
	switch v := expr.(type) {
	case *Sym:
		return MulOf(F(1, 2), PowOf(S(varName), N(2))), true
	case *Pow:
		if sym, ok := v.base.(*Sym); ok && sym.name == varName {
			if n, ok2 := v.exp.(*Num); ok2 && !n.IsNegOne() {
				newExp := numAdd(n, N(1))
				return MulOf(numRecip(newExp), PowOf(S(varName), newExp)), true
			}
		}
		return nil, false
	case *Mul:
		constant := []Expr{}
		dependent := []Expr{}
		for _, f := range v.factors {
			if Has(f, varName) {
				dependent = append(dependent, f)
			} else {
				constant = append(constant, f)
			}
		}
		if len(dependent) != 1 {
			return nil, false
		}
		intInner, ok := Integrate(dependent[0], varName)
		if !ok {
			return nil, false
		}
		return MulOf(append(constant, intInner)...), true
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			intT, ok := Integrate(t, varName)
			if !ok {
				return nil, false
			}
			terms[i] = intT
		}
		return AddOf(terms...), true
	case *Func:
		if v.name != "exp" {
			return nil, false
		}
		a, _, ok := LinearCoefficients(v.arg, varName)
		if !ok {
			return nil, false
		}
		return MulOf(numRecip(a), ExpOf(v.arg)), true
	}
	return nil, false
}

func DefiniteIntegrate(expr Expr, varName string, a, b float64) float64 {
	nodes := []float64{
		-0.9739065285, -0.8650633667, -0.6794095683,
		-0.4333953941, -0.1488743390, 0.1488743390,
		0.4333953941, 0.6794095683, 0.8650633667, 0.9739065285,
	}
	weights := []float64{
		0.0666713443, 0.1494513492, 0.2190863625,
		0.2692667193, 0.2955242247, 0.2955242247,
		0.2692667193, 0.2190863625, 0.1494513492, 0.0666713443,
	}
	sum := 0.0
	mid := (a + b) / 2
	half := (b - a) / 2
	for i, t := range nodes {
		xi := mid + half*t
		subbed := expr.Sub(varName, NFloat(xi))
		if v, ok := subbed.Eval(); ok {
			f, _ := v.val.Float64()
			sum += weights[i] * f
		}
	}
	return half * sum
}

// IntegrateDefinite integrates expr over varName in [lower, upper). Bounds may
// be oo or -oo. DiracDelta factors linear in varName are sifted, derivative
// deltas by parts; anything the rules cannot close is returned as an
// unevaluated Integral.
func IntegrateDefinite(expr Expr, varName string, lower, upper Expr) Expr {
	expr = expr.Simplify()
	if !Has(expr, varName) {
		if IsZero(expr) {
			return N(0)
		}
		if IsInfinite(lower) || IsInfinite(upper) {
			return MulOf(Oo, expr)
		}
		return MulOf(expr, SubOf(upper, lower))
	}
	if a, ok := expr.(*Add); ok {
		terms := make([]Expr, len(a.terms))
		for i, t := range a.terms {
			terms[i] = IntegrateDefinite(t, varName, lower, upper)
		}
		return AddOf(terms...)
	}
	if r, ok := siftDelta(expr, varName, lower, upper); ok {
		return r
	}
	if !IsInfinite(lower) && !IsInfinite(upper) {
		if anti, ok := Integrate(expr, varName); ok {
			return SubOf(anti.Sub(varName, upper), anti.Sub(varName, lower))
		}
	}
	return &Integral{integrand: expr, varName: varName, lower: lower.Simplify(), upper: upper.Simplify()}
}

func siftDelta(expr Expr, varName string, lower, upper Expr) (Expr, bool) {
	factors := Factors(expr)
	for _, name := range []string{deltaName, deltaDerivName} {
		for i, f := range factors {
			fn, ok := f.(*Func)
			if !ok || fn.name != name {
				continue
			}
			a, b, ok := LinearCoefficients(fn.arg, varName)
			if !ok {
				continue
			}
			root := MulOf(N(-1), numRecip(a), b)
			in, decided := inInterval(root, lower, upper)
			if !decided {
				continue
			}
			if !in {
				return N(0), true
			}
			rest := make([]Expr, 0, len(factors)-1)
			rest = append(rest, factors[:i]...)
			rest = append(rest, factors[i+1:]...)
			restExpr := MulOf(rest...)
			scale := numRecip(numAbs(a))
			if name == deltaName {
				return MulOf(scale, restExpr.Sub(varName, root)), true
			}
			return MulOf(N(-1), scale, numRecip(a), restExpr.Diff(varName).Sub(varName, root)), true
		}
	}
	return nil, false
}

// inInterval reports whether root lies in [lower, upper). A symbolic root is
// only decided on the whole real line.
func inInterval(root, lower, upper Expr) (in, decided bool) {
	lo, lok := boundValue(lower)
	hi, hok := boundValue(upper)
	if !lok || !hok {
		return false, false
	}
	if math.IsInf(lo, -1) && math.IsInf(hi, 1) {
		return true, true
	}
	r, ok := root.Eval()
	if !ok {
		return false, false
	}
	rf := r.Float64()
	return lo <= rf && rf < hi, true
}

func boundValue(e Expr) (float64, bool) {
	if inf, ok := e.(*Infinity); ok {
		return inf.Float64(), true
	}
	if n, ok := e.Eval(); ok {
		return n.Float64(), true
	}
	return 0, false
}
