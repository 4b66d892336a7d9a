package symbol

import "math"

// ============================================================
// Const: named real constants
// ============================================================

type Const struct {
	name  string
	latex string
	value float64
}

var (
	Pi   = &Const{name: "pi", latex: "\\pi", value: math.Pi}
	Hbar = &Const{name: "hbar", latex: "\\hbar", value: 1.054571817e-34}
)

var constants = map[string]*Const{"pi": Pi, "hbar": Hbar}

// ConstNamed returns the registered constant with the given name.
func ConstNamed(name string) (*Const, bool) {
	c, ok := constants[name]
	return c, ok
}

func (c *Const) Simplify() Expr        { return c }
func (c *Const) String() string        { return c.name }
func (c *Const) LaTeX() string         { return c.latex }
func (c *Const) Sub(string, Expr) Expr { return c }
func (c *Const) Diff(string) Expr      { return N(0) }
func (c *Const) Eval() (*Num, bool)    { return NFloat(c.value), true }
func (c *Const) Equal(other Expr) bool { o, ok := other.(*Const); return ok && c.name == o.name }
func (c *Const) exprType() string      { return "const" }
func (c *Const) Name() string          { return c.name }
func (c *Const) Float64() float64      { return c.value }
func (c *Const) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "const", "name": c.name}
}

// ============================================================
// I: imaginary unit
// ============================================================

type imagUnit struct{}

// I is the imaginary unit. Integer powers of I fold to ±1 or ±I.
var I Expr = &imagUnit{}

func (*imagUnit) Simplify() Expr        { return I }
func (*imagUnit) String() string        { return "I" }
func (*imagUnit) LaTeX() string         { return "i" }
func (*imagUnit) Sub(string, Expr) Expr { return I }
func (*imagUnit) Diff(string) Expr      { return N(0) }
func (*imagUnit) Eval() (*Num, bool)    { return nil, false }
func (*imagUnit) Equal(other Expr) bool { _, ok := other.(*imagUnit); return ok }
func (*imagUnit) exprType() string      { return "imag" }
func (*imagUnit) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "imag"}
}

// ============================================================
// Infinity
// ============================================================

type Infinity struct{ negative bool }

var (
	Oo    = &Infinity{}
	NegOo = &Infinity{negative: true}
)

func (o *Infinity) Simplify() Expr        { return o }
func (o *Infinity) Sub(string, Expr) Expr { return o }
func (o *Infinity) Diff(string) Expr      { return N(0) }
func (o *Infinity) Eval() (*Num, bool)    { return nil, false }
func (o *Infinity) exprType() string      { return "inf" }
func (o *Infinity) Equal(other Expr) bool {
	p, ok := other.(*Infinity)
	return ok && p.negative == o.negative
}
func (o *Infinity) String() string {
	if o.negative {
		return "-oo"
	}
	return "oo"
}
func (o *Infinity) LaTeX() string {
	if o.negative {
		return "-\\infty"
	}
	return "\\infty"
}
func (o *Infinity) Float64() float64 {
	if o.negative {
		return math.Inf(-1)
	}
	return math.Inf(1)
}
func (o *Infinity) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "inf", "negative": o.negative}
}

// IsInfinite reports whether e is oo or -oo.
func IsInfinite(e Expr) bool {
	_, ok := e.(*Infinity)
	return ok
}
