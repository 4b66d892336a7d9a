package symbol

import (
	"math"
	"math/cmplx"
)

// EvalComplex evaluates e to a complex number. It fails on free symbols,
// infinities and unevaluated integrals.
func EvalComplex(e Expr) (complex128, bool) {
	var z complex128
	switch v := e.(type) {
	case *Num:
		z = complex(v.Float64(), 0)
	case *imagUnit:
		z = 1i
	case *Const:
		z = complex(v.value, 0)
	case *Add:
		for _, t := range v.terms {
			tz, ok := EvalComplex(t)
			if !ok {
				return 0, false
			}
			z += tz
		}
	case *Mul:
		z = 1
		for _, f := range v.factors {
			fz, ok := EvalComplex(f)
			if !ok {
				return 0, false
			}
			z *= fz
		}
	case *Pow:
		b, ok1 := EvalComplex(v.base)
		p, ok2 := EvalComplex(v.exp)
		if !ok1 || !ok2 {
			return 0, false
		}
		z = cmplx.Pow(b, p)
	case *Func:
		arg, ok := EvalComplex(v.arg)
		if !ok {
			return 0, false
		}
		switch v.name {
		case "exp":
			z = cmplx.Exp(arg)
		case "ln":
			z = cmplx.Log(arg)
		case deltaName, deltaDerivName:
			if arg == 0 {
				return 0, false
			}
			z = 0
		default:
			return 0, false
		}
	default:
		return 0, false
	}
	if cmplx.IsNaN(z) || math.IsInf(real(z), 0) || math.IsInf(imag(z), 0) {
		return 0, false
	}
	return z, true
}
