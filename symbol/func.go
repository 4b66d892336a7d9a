package symbol

import "math"

// ============================================================
// Func: named function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

const (
	deltaName      = "DiracDelta"
	deltaDerivName = "D[DiracDelta]"
)

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func ExpOf(arg Expr) Expr { return funcOf("exp", arg).Simplify() }
func LnOf(arg Expr) Expr  { return funcOf("ln", arg).Simplify() }

// DiracDeltaOf returns δ(arg). The delta is even, so the argument is stored
// with a positive leading coefficient; δ(0) is the placeholder oo and δ(c)
// for a nonzero number c is 0.
func DiracDeltaOf(arg Expr) Expr { return funcOf(deltaName, arg).Simplify() }

// FuncOf builds a named function application and simplifies it.
func FuncOf(name string, arg Expr) Expr { return funcOf(name, arg).Simplify() }

// IsDiracDelta reports whether e is a DiracDelta application.
func IsDiracDelta(e Expr) bool {
	f, ok := e.(*Func)
	return ok && f.name == deltaName
}

func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	if n, ok := arg.(*Num); ok {
		v, _ := n.val.Float64()
		switch f.name {
		case deltaName:
			if n.IsZero() {
				return Oo
			}
			return N(0)
		case deltaDerivName:
			if !n.IsZero() {
				return N(0)
			}
		case "exp":
			return NFloat(math.Exp(v))
		case "ln":
			if v > 0 {
				return NFloat(math.Log(v))
			}
		}
	}
	switch f.name {
	case deltaName:
		if leadingNegative(arg) {
			arg = Negate(arg)
		}
	case deltaDerivName:
		if leadingNegative(arg) {
			return MulOf(N(-1), funcOf(deltaDerivName, Negate(arg)))
		}
	case "ln":
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
	case "exp":
		if inner, ok := arg.(*Func); ok && inner.name == "ln" {
			return inner.arg
		}
	}
	return &Func{name: f.name, arg: arg}
}

// leadingNegative reports whether the first term of e carries a negative
// numeric coefficient.
func leadingNegative(e Expr) bool {
	if a, ok := e.(*Add); ok && len(a.terms) > 0 {
		e = a.terms[0]
	}
	c, _ := extractCoefficient(e)
	return c.IsNegative()
}

// Negate returns -e, distributing over sums so the result stays in
// canonical form.
func Negate(e Expr) Expr {
	if a, ok := e.(*Add); ok {
		terms := make([]Expr, len(a.terms))
		for i, t := range a.terms {
			terms[i] = MulOf(N(-1), t)
		}
		return AddOf(terms...)
	}
	return MulOf(N(-1), e)
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	switch f.name {
	case "exp", "ln":
		return "\\" + f.name + "\\left(" + f.arg.LaTeX() + "\\right)"
	case deltaName:
		return "\\delta\\left(" + f.arg.LaTeX() + "\\right)"
	case deltaDerivName:
		return "\\delta'\\left(" + f.arg.LaTeX() + "\\right)"
	}
	return "\\operatorname{" + f.name + "}\\left(" + f.arg.LaTeX() + "\\right)"
}

func (f *Func) Sub(varName string, value Expr) Expr {
	return funcOf(f.name, f.arg.Sub(varName, value)).Simplify()
}

func (f *Func) Diff(varName string) Expr {
	du := f.arg.Diff(varName)
	var outer Expr
	switch f.name {
	case "exp":
		outer = ExpOf(f.arg)
	case "ln":
		outer = PowOf(f.arg, N(-1))
	default:
		return MulOf(funcOf("D["+f.name+"]", f.arg).Simplify(), du)
	}
	return MulOf(outer, du).Simplify()
}

func (f *Func) Eval() (*Num, bool) {
	n, ok := f.arg.Eval()
	if !ok {
		return nil, false
	}
	v, _ := n.val.Float64()
	switch f.name {
	case "exp":
		return NFloat(math.Exp(v)), true
	case "ln":
		if v <= 0 {
			return nil, false
		}
		return NFloat(math.Log(v)), true
	case deltaName, deltaDerivName:
		if !n.IsZero() {
			return N(0), true
		}
	}
	return nil, false
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) exprType() string { return "func" }
func (f *Func) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "func", "name": f.name, "arg": f.arg.toJSON()}
}
func (f *Func) Arg() Expr { return f.arg }

// ============================================================
// Conjugation
// ============================================================

// ConjugateOf returns the complex conjugate of e. Symbols are real, so only
// the imaginary unit changes sign.
func ConjugateOf(e Expr) Expr {
	switch v := e.(type) {
	case *imagUnit:
		return MulOf(N(-1), I)
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = ConjugateOf(t)
		}
		return AddOf(terms...)
	case *Mul:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = ConjugateOf(f)
		}
		return MulOf(factors...)
	case *Pow:
		return PowOf(ConjugateOf(v.base), ConjugateOf(v.exp))
	case *Func:
		return funcOf(v.name, ConjugateOf(v.arg)).Simplify()
	case *Integral:
		return &Integral{integrand: ConjugateOf(v.integrand), varName: v.varName, lower: v.lower, upper: v.upper}
	}
	return e
}
