package quantum

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/njchilds90/goquantum/symbol"
)

// ============================================================
// Kind: the type of a leaf
// ============================================================

type Class int

const (
	ClassKet Class = iota
	ClassBra
	ClassOperator
	ClassHermitian
)

func (c Class) String() string {
	switch c {
	case ClassKet:
		return "ket"
	case ClassBra:
		return "bra"
	case ClassOperator:
		return "operator"
	case ClassHermitian:
		return "hermitian"
	}
	return "unknown"
}

// BuildFunc constructs a leaf of kind k. Labels are already defaulted.
type BuildFunc func(k *Kind, labels []string) Object

type Kind struct {
	name     string
	class    Class
	defaults []string
	build    BuildFunc
	dual     *Kind
}

// NewKind describes an operator kind. A nil build yields a rule-less leaf.
func NewKind(name string, class Class, defaults []string, build BuildFunc) *Kind {
	return &Kind{name: name, class: class, defaults: defaults, build: build}
}

// NewStateKinds describes a ket kind and its dual bra kind.
func NewStateKinds(ketName, braName string, defaults []string, ketBuild, braBuild BuildFunc) (ket, bra *Kind) {
	ket = &Kind{name: ketName, class: ClassKet, defaults: defaults, build: ketBuild}
	bra = &Kind{name: braName, class: ClassBra, defaults: defaults, build: braBuild}
	ket.dual, bra.dual = bra, ket
	return ket, bra
}

func (k *Kind) Name() string            { return k.name }
func (k *Kind) Class() Class            { return k.class }
func (k *Kind) Dual() *Kind             { return k.dual }
func (k *Kind) IsKet() bool             { return k.class == ClassKet }
func (k *Kind) IsBra() bool             { return k.class == ClassBra }
func (k *Kind) IsState() bool           { return k.class == ClassKet || k.class == ClassBra }
func (k *Kind) IsOperator() bool        { return k.class == ClassOperator || k.class == ClassHermitian }
func (k *Kind) DefaultLabels() []string { return slices.Clone(k.defaults) }
func (k *Kind) String() string          { return k.name }
func (k *Kind) basisKind() *Kind        { return k }

// New builds a leaf of this kind. Missing labels fall back to the defaults.
func (k *Kind) New(labels ...string) Object {
	if len(labels) == 0 {
		labels = k.defaults
	}
	labels = slices.Clone(labels)
	if k.build == nil {
		return &Leaf{Base: NewBase(k, labels)}
	}
	return k.build(k, labels)
}

// Default is New with the default labels.
func (k *Kind) Default() Object { return k.New() }

// ============================================================
// Registry
// ============================================================

var registry = struct {
	sync.RWMutex
	kinds map[string]*Kind
}{kinds: map[string]*Kind{}}

// RegisterKind makes k available by name, for the wire format and tools.
// Registering a second kind under the same name panics.
func RegisterKind(kinds ...*Kind) {
	registry.Lock()
	defer registry.Unlock()
	for _, k := range kinds {
		if prev, ok := registry.kinds[k.name]; ok && prev != k {
			panic(fmt.Sprintf("quantum: kind %q registered twice", k.name))
		}
		registry.kinds[k.name] = k
	}
}

func LookupKind(name string) (*Kind, bool) {
	registry.RLock()
	defer registry.RUnlock()
	k, ok := registry.kinds[name]
	return k, ok
}

// Kinds lists the registered kinds sorted by name.
func Kinds() []*Kind {
	registry.RLock()
	defer registry.RUnlock()
	out := make([]*Kind, 0, len(registry.kinds))
	for _, k := range registry.kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// ============================================================
// Object: leaf instances
// ============================================================

// Basis is a basis specifier: a *Kind or an Object.
type Basis interface {
	basisKind() *Kind
}

// Object is a leaf: a state or an operator.
type Object interface {
	Expr
	Basis
	Kind() *Kind
	Labels() []string
	// TryRepresent returns the representation of the leaf in basis, or an
	// error wrapping ErrDeclined when no rule applies.
	TryRepresent(basis Basis, ctx *Context) (Value, error)
	// FormatValue converts a raw representation to format f.
	FormatValue(v Value, f Format) (Value, error)
}

// Applier is implemented by operators that act on kets.
type Applier interface {
	ApplyTo(ket Object) (Expr, bool)
}

// InnerProducter is implemented by states that evaluate their overlap with
// another state: a ket is handed the bra.
type InnerProducter interface {
	EvalInnerProduct(other Object) (symbol.Expr, bool)
}

// Supported is implemented by operators whose eigenbasis is continuous over
// [start, end).
type Supported interface {
	SupportInterval() (start, end symbol.Expr)
}

// Base carries kind and labels. Concrete leaves embed it and override
// TryRepresent.
type Base struct {
	kind   *Kind
	labels []string
}

func NewBase(k *Kind, labels []string) Base { return Base{kind: k, labels: labels} }

func (b Base) Kind() *Kind         { return b.kind }
func (b Base) Labels() []string    { return slices.Clone(b.labels) }
func (b Base) Label() string       { return b.labels[0] }
func (b Base) Symbol() *symbol.Sym { return symbol.S(b.labels[0]) }
func (b Base) basisKind() *Kind    { return b.kind }
func (Base) quantumNode()          {}

func (b Base) String() string {
	l := strings.Join(b.labels, ",")
	switch b.kind.class {
	case ClassKet:
		return "|" + l + ">"
	case ClassBra:
		return "<" + l + "|"
	}
	return l
}

func (b Base) TryRepresent(Basis, *Context) (Value, error) {
	return nil, fmt.Errorf("%w: no rule for %s", ErrDeclined, b.kind.name)
}

// FormatValue converts symbolic matrices to the numeric containers; scalars
// pass through.
func (b Base) FormatValue(v Value, f Format) (Value, error) {
	return FormatMatrix(v, f)
}

// SameObject reports whether a and b have the same kind and labels.
func SameObject(a, b Object) bool {
	return a.Kind() == b.Kind() && slices.Equal(a.Labels(), b.Labels())
}

// Dual maps a ket to its bra and back. Operators are returned unchanged.
func Dual(o Object) Object {
	d := o.Kind().Dual()
	if d == nil {
		return o
	}
	return d.New(o.Labels()...)
}

// ============================================================
// Generic kinds
// ============================================================

// Leaf is a rule-less leaf built by kinds without a constructor.
type Leaf struct{ Base }

// State is a generic state; generic states are orthonormal by label.
type State struct{ Base }

func (s *State) EvalInnerProduct(other Object) (symbol.Expr, bool) {
	if other.Kind() != BraKind && other.Kind() != KetKind {
		return nil, false
	}
	if slices.Equal(s.labels, other.Labels()) {
		return symbol.N(1), true
	}
	return symbol.N(0), true
}

func buildState(k *Kind, labels []string) Object { return &State{Base: NewBase(k, labels)} }

var (
	KetKind, BraKind       = NewStateKinds("Ket", "Bra", []string{"psi"}, buildState, buildState)
	OperatorKind           = NewKind("Operator", ClassOperator, []string{"A"}, nil)
	HermitianOperatorKind  = NewKind("HermitianOperator", ClassHermitian, []string{"H"}, nil)
)

func init() {
	RegisterKind(KetKind, BraKind, OperatorKind, HermitianOperatorKind)
}
