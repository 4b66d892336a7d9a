package symbol_test

import (
	"encoding/json"
	"math"
	"math/cmplx"
	"testing"

	"github.com/njchilds90/goquantum/symbol"
)

// ============================================================
// Num tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	n := symbol.N(42)
	if n.String() != "42" {
		t.Errorf("want 42, got %s", n.String())
	}
}

func TestNum_Rational(t *testing.T) {
	n := symbol.F(1, 3)
	if n.String() != "1/3" {
		t.Errorf("want 1/3, got %s", n.String())
	}
}

func TestNum_LaTeX_Rational(t *testing.T) {
	n := symbol.F(2, 5)
	if n.LaTeX() != `\frac{2}{5}` {
		t.Errorf("want \\frac{2}{5}, got %s", n.LaTeX())
	}
}

func TestNum_Int64(t *testing.T) {
	if v, ok := symbol.N(-7).Int64(); !ok || v != -7 {
		t.Errorf("want -7, got %d (%v)", v, ok)
	}
	if _, ok := symbol.F(1, 2).Int64(); ok {
		t.Errorf("1/2 is not an integer")
	}
}

// ============================================================
// Sym tests
// ============================================================

func TestSym_Sub_Match(t *testing.T) {
	result := symbol.S("x").Sub("x", symbol.N(3))
	if symbol.String(result) != "3" {
		t.Errorf("want 3, got %s", symbol.String(result))
	}
}

func TestSym_Diff_Other(t *testing.T) {
	result := symbol.S("y").Diff("x")
	if symbol.String(result) != "0" {
		t.Errorf("d/dx(y) should be 0, got %s", symbol.String(result))
	}
}

// ============================================================
// Add / Mul / Pow tests
// ============================================================

func TestAdd_Simple(t *testing.T) {
	expr := symbol.AddOf(symbol.S("x"), symbol.N(3))
	if symbol.String(expr) != "x + 3" {
		t.Errorf("want 'x + 3', got %s", symbol.String(expr))
	}
}

func TestAdd_LikeTerms(t *testing.T) {
	expr := symbol.AddOf(symbol.S("x"), symbol.S("x"))
	if symbol.String(expr) != "2*x" {
		t.Errorf("want '2*x', got %s", symbol.String(expr))
	}
}

func TestAdd_Cancel(t *testing.T) {
	x, y := symbol.S("x"), symbol.S("y")
	expr := symbol.AddOf(symbol.MulOf(symbol.N(2), x, y), symbol.MulOf(symbol.N(-2), y, x))
	if !symbol.IsZero(expr) {
		t.Errorf("want 0, got %s", symbol.String(expr))
	}
	if !symbol.IsZero(symbol.SubOf(x, x)) {
		t.Errorf("x - x should be 0")
	}
}

func TestAdd_Diff(t *testing.T) {
	// d/dx(x^2 + 3x + 1) = 2x + 3
	x := symbol.S("x")
	expr := symbol.AddOf(symbol.PowOf(x, symbol.N(2)), symbol.MulOf(symbol.N(3), x), symbol.N(1))
	d := symbol.Diff(expr, "x")
	if symbol.String(d) != "2*x + 3" {
		t.Errorf("want '2*x + 3', got %s", symbol.String(d))
	}
}

func TestMul_CollectsPowers(t *testing.T) {
	x := symbol.S("x")
	if got := symbol.String(symbol.MulOf(x, x)); got != "x^2" {
		t.Errorf("want x^2, got %s", got)
	}
	if got := symbol.String(symbol.MulOf(symbol.PowOf(x, symbol.N(2)), symbol.PowOf(x, symbol.N(-1)))); got != "x" {
		t.Errorf("want x, got %s", got)
	}
}

func TestMul_ZeroCollapse(t *testing.T) {
	expr := symbol.MulOf(symbol.N(0), symbol.S("x"), symbol.Hbar)
	if symbol.String(expr) != "0" {
		t.Errorf("want 0, got %s", symbol.String(expr))
	}
}

func TestImaginaryUnit_Powers(t *testing.T) {
	cases := []struct {
		exp  int64
		want string
	}{
		{0, "1"}, {1, "I"}, {2, "-1"}, {3, "-1*I"}, {4, "1"}, {-1, "-1*I"},
	}
	for _, c := range cases {
		got := symbol.String(symbol.PowOf(symbol.I, symbol.N(c.exp)))
		if got != c.want {
			t.Errorf("I^%d: want %s, got %s", c.exp, c.want, got)
		}
	}
	if got := symbol.String(symbol.MulOf(symbol.I, symbol.I)); got != "-1" {
		t.Errorf("I*I: want -1, got %s", got)
	}
}

func TestPow_LaTeX(t *testing.T) {
	expr := symbol.PowOf(symbol.S("x"), symbol.N(2))
	if expr.LaTeX() != "x^{2}" {
		t.Errorf("want x^{2}, got %s", expr.LaTeX())
	}
}

// ============================================================
// Func tests
// ============================================================

func TestFunc_Exp_Diff(t *testing.T) {
	twoX := symbol.MulOf(symbol.N(2), symbol.S("x"))
	d := symbol.Diff(symbol.ExpOf(twoX), "x")
	want := symbol.MulOf(symbol.N(2), symbol.ExpOf(twoX))
	if !d.Equal(want) {
		t.Errorf("want %s, got %s", want, d)
	}
}

func TestDiracDelta_Even(t *testing.T) {
	x, x1 := symbol.S("x"), symbol.S("x_1")
	a := symbol.DiracDeltaOf(symbol.SubOf(x, x1))
	b := symbol.DiracDeltaOf(symbol.SubOf(x1, x))
	if !a.Equal(b) {
		t.Errorf("want %s, got %s", a, b)
	}
	if a.String() != "DiracDelta(x + -1*x_1)" {
		t.Errorf("want DiracDelta(x + -1*x_1), got %s", a)
	}
	if !symbol.IsDiracDelta(a) {
		t.Errorf("IsDiracDelta should hold for %s", a)
	}
}

func TestDiracDelta_Numeric(t *testing.T) {
	if got := symbol.DiracDeltaOf(symbol.N(0)); !got.Equal(symbol.Oo) {
		t.Errorf("DiracDelta(0): want oo, got %s", got)
	}
	if got := symbol.DiracDeltaOf(symbol.N(3)); !symbol.IsZero(got) {
		t.Errorf("DiracDelta(3): want 0, got %s", got)
	}
}

func TestDiracDelta_DerivativeIsOdd(t *testing.T) {
	x, y := symbol.S("x"), symbol.S("y")
	d := symbol.Diff(symbol.DiracDeltaOf(symbol.SubOf(x, y)), "y")
	want := symbol.MulOf(symbol.N(-1), symbol.FuncOf("D[DiracDelta]", symbol.SubOf(x, y)))
	if !d.Equal(want) {
		t.Errorf("want %s, got %s", want, d)
	}
}

func TestConjugate(t *testing.T) {
	x := symbol.S("x")
	got := symbol.ConjugateOf(symbol.MulOf(symbol.I, x))
	if got.String() != "-1*I*x" {
		t.Errorf("want -1*I*x, got %s", got)
	}
	e := symbol.ExpOf(symbol.MulOf(symbol.I, x))
	back := symbol.ConjugateOf(symbol.ConjugateOf(e))
	if !back.Equal(e) {
		t.Errorf("conjugate twice: want %s, got %s", e, back)
	}
}

// ============================================================
// Integration tests
// ============================================================

func TestIntegrate_Power(t *testing.T) {
	result, ok := symbol.Integrate(symbol.PowOf(symbol.S("x"), symbol.N(2)), "x")
	if !ok || symbol.String(result) != "1/3*x^3" {
		t.Errorf("want 1/3*x^3, got %v", result)
	}
}

func TestIntegrate_ConstantFactors(t *testing.T) {
	x := symbol.S("x")
	twoX := symbol.MulOf(symbol.N(2), x)
	result, ok := symbol.Integrate(symbol.MulOf(symbol.Hbar, symbol.ExpOf(twoX)), "x")
	if !ok {
		t.Fatal("integration should succeed")
	}
	want := symbol.MulOf(symbol.Hbar, symbol.F(1, 2), symbol.ExpOf(twoX))
	if !result.Equal(want) {
		t.Errorf("want %s, got %s", want, result)
	}
}

func TestIntegrateDefinite_Polynomial(t *testing.T) {
	got := symbol.IntegrateDefinite(symbol.S("x"), "x", symbol.N(0), symbol.N(2))
	if got.String() != "2" {
		t.Errorf("want 2, got %s", got)
	}
}

func TestIntegrateDefinite_DeltaSifting(t *testing.T) {
	x, y := symbol.S("x"), symbol.S("y")
	expr := symbol.MulOf(x, symbol.DiracDeltaOf(symbol.SubOf(x, y)))
	got := symbol.IntegrateDefinite(expr, "x", symbol.NegOo, symbol.Oo)
	if !got.Equal(y) {
		t.Errorf("want y, got %s", got)
	}
}

func TestIntegrateDefinite_ScaledDelta(t *testing.T) {
	x := symbol.S("x")
	// δ(2x - 2) = δ(x - 1)/2
	expr := symbol.MulOf(symbol.PowOf(x, symbol.N(2)), symbol.DiracDeltaOf(symbol.AddOf(symbol.MulOf(symbol.N(2), x), symbol.N(-2))))
	got := symbol.IntegrateDefinite(expr, "x", symbol.NegOo, symbol.Oo)
	if got.String() != "1/2" {
		t.Errorf("want 1/2, got %s", got)
	}
}

func TestIntegrateDefinite_DeltaOutsideInterval(t *testing.T) {
	x := symbol.S("x")
	expr := symbol.DiracDeltaOf(symbol.SubOf(x, symbol.N(5)))
	got := symbol.IntegrateDefinite(expr, "x", symbol.N(0), symbol.N(1))
	if !symbol.IsZero(got) {
		t.Errorf("want 0, got %s", got)
	}
}

func TestIntegrateDefinite_DeltaDerivative(t *testing.T) {
	x, y := symbol.S("x"), symbol.S("y")
	expr := symbol.MulOf(symbol.PowOf(x, symbol.N(2)), symbol.FuncOf("D[DiracDelta]", symbol.SubOf(x, y)))
	got := symbol.IntegrateDefinite(expr, "x", symbol.NegOo, symbol.Oo)
	if got.String() != "-2*y" {
		t.Errorf("want -2*y, got %s", got)
	}
}

func TestIntegrateDefinite_Unevaluated(t *testing.T) {
	x := symbol.S("x")
	got := symbol.IntegrateDefinite(symbol.ExpOf(symbol.PowOf(x, symbol.N(2))), "x", symbol.NegOo, symbol.Oo)
	if got.String() != "Integral(exp(x^2), (x, -oo, oo))" {
		t.Errorf("unexpected %s", got)
	}
	if symbol.Has(got, "x") {
		t.Errorf("integration variable must not be free")
	}
}

func TestLinearCoefficients(t *testing.T) {
	x, y := symbol.S("x"), symbol.S("y")
	a, b, ok := symbol.LinearCoefficients(symbol.AddOf(symbol.MulOf(symbol.N(2), x), y), "x")
	if !ok || a.String() != "2" || !b.Equal(y) {
		t.Errorf("want (2, y), got (%v, %v, %v)", a, b, ok)
	}
	if _, _, ok := symbol.LinearCoefficients(symbol.PowOf(x, symbol.N(2)), "x"); ok {
		t.Errorf("x^2 is not linear")
	}
}

func TestDefiniteIntegrate(t *testing.T) {
	result := symbol.DefiniteIntegrate(symbol.PowOf(symbol.S("x"), symbol.N(2)), "x", 0, 1)
	if math.Abs(result-1.0/3.0) > 1e-6 {
		t.Errorf("want ~0.3333, got %f", result)
	}
}

// ============================================================
// Complex evaluation
// ============================================================

func TestEvalComplex(t *testing.T) {
	z, ok := symbol.EvalComplex(symbol.AddOf(symbol.N(1), symbol.I))
	if !ok || z != complex(1, 1) {
		t.Errorf("want 1+1i, got %v (%v)", z, ok)
	}
	z, ok = symbol.EvalComplex(symbol.ExpOf(symbol.MulOf(symbol.I, symbol.Pi)))
	if !ok || cmplx.Abs(z+1) > 1e-12 {
		t.Errorf("want -1, got %v", z)
	}
	if _, ok := symbol.EvalComplex(symbol.S("x")); ok {
		t.Errorf("free symbol must not evaluate")
	}
}

// ============================================================
// Matrix tests
// ============================================================

func TestMatrix_AdjointOfHermitian(t *testing.T) {
	m := symbol.FromRows(
		[]symbol.Expr{symbol.N(0), symbol.MulOf(symbol.N(-1), symbol.I)},
		[]symbol.Expr{symbol.I, symbol.N(0)},
	)
	if !m.Adjoint().Equal(m) {
		t.Errorf("want %s, got %s", m, m.Adjoint())
	}
}

func TestMatrix_Kronecker(t *testing.T) {
	sx := symbol.FromRows(
		[]symbol.Expr{symbol.N(0), symbol.N(1)},
		[]symbol.Expr{symbol.N(1), symbol.N(0)},
	)
	k := symbol.Identity(2).Kronecker(sx)
	if k.Rows() != 4 || k.Cols() != 4 {
		t.Fatalf("want 4x4, got %dx%d", k.Rows(), k.Cols())
	}
	if k.Get(0, 1).String() != "1" || k.Get(2, 3).String() != "1" || k.Get(0, 3).String() != "0" {
		t.Errorf("unexpected kronecker product %s", k)
	}
}

func TestMatrix_MatPow(t *testing.T) {
	sx := symbol.FromRows(
		[]symbol.Expr{symbol.N(0), symbol.N(1)},
		[]symbol.Expr{symbol.N(1), symbol.N(0)},
	)
	sq, err := sx.MatPow(2)
	if err != nil {
		t.Fatal(err)
	}
	if !sq.Equal(symbol.Identity(2)) {
		t.Errorf("want identity, got %s", sq)
	}
	inv, err := sx.MatPow(-1)
	if err != nil {
		t.Fatal(err)
	}
	if !inv.Equal(sx) {
		t.Errorf("want %s, got %s", sx, inv)
	}
}

// ============================================================
// JSON tests
// ============================================================

func TestFromJSON_RoundTrip(t *testing.T) {
	x := symbol.S("x")
	original := symbol.MulOf(symbol.Hbar, symbol.I, symbol.DiracDeltaOf(symbol.SubOf(x, symbol.S("x_1"))))
	js, err := symbol.ToJSON(original)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(js), &m); err != nil {
		t.Fatal(err)
	}
	back, err := symbol.FromJSON(m)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(original) {
		t.Errorf("want %s, got %s", original, back)
	}
}

func TestFromJSON_UnknownConst(t *testing.T) {
	_, err := symbol.FromJSON(map[string]interface{}{"type": "const", "name": "tau"})
	if err == nil {
		t.Errorf("want error for unknown constant")
	}
}

// ============================================================
// Determinism
// ============================================================

func TestDeterminism(t *testing.T) {
	x, y := symbol.S("x"), symbol.S("y")
	a := symbol.AddOf(symbol.MulOf(y, x), symbol.Hbar, x)
	b := symbol.AddOf(x, symbol.Hbar, symbol.MulOf(x, y))
	if a.String() != b.String() {
		t.Errorf("ordering should be canonical: %s vs %s", a, b)
	}
}
