package quantum

import (
	"fmt"

	"github.com/njchilds90/goquantum/quantum/matrixutils"
	"github.com/njchilds90/goquantum/symbol"
)

// ============================================================
// JSON wire format
// ============================================================

// ToJSON returns the wire form of e.
func ToJSON(e Expr) map[string]interface{} {
	switch v := e.(type) {
	case *Scalar:
		return map[string]interface{}{"type": "scalar", "expr": symbol.ToMap(v.Value())}
	case *Add:
		return map[string]interface{}{"type": "add", "args": listJSON(v.Terms())}
	case *Mul:
		return map[string]interface{}{"type": "mul", "args": listJSON(v.Factors())}
	case *TensorProduct:
		return map[string]interface{}{"type": "tensor", "args": listJSON(v.Factors())}
	case *Pow:
		return map[string]interface{}{"type": "pow", "base": ToJSON(v.Base()), "exp": symbol.ToMap(v.Exp())}
	case *Dagger:
		return map[string]interface{}{"type": "dagger", "arg": ToJSON(v.Arg())}
	case *Commutator:
		a, b := v.Args()
		return map[string]interface{}{"type": "commutator", "a": ToJSON(a), "b": ToJSON(b)}
	case *AntiCommutator:
		a, b := v.Args()
		return map[string]interface{}{"type": "anticommutator", "a": ToJSON(a), "b": ToJSON(b)}
	case *InnerProduct:
		return map[string]interface{}{"type": "innerproduct", "bra": ToJSON(v.Bra()), "ket": ToJSON(v.Ket())}
	case Object:
		return objectJSON(v)
	}
	return map[string]interface{}{"type": "unknown"}
}

func objectJSON(o Object) map[string]interface{} {
	labels := o.Labels()
	out := map[string]interface{}{"type": "object", "kind": o.Kind().Name()}
	if len(labels) == 1 {
		out["label"] = labels[0]
	} else {
		out["labels"] = labels
	}
	return out
}

func listJSON(es []Expr) []map[string]interface{} {
	out := make([]map[string]interface{}, len(es))
	for i, e := range es {
		out[i] = ToJSON(e)
	}
	return out
}

// FromJSON decodes the form produced by ToJSON. Object kinds are looked up
// in the registry.
func FromJSON(data map[string]interface{}) (Expr, error) {
	if data == nil {
		return nil, fmt.Errorf("expression must be an object")
	}
	typ, _ := data["type"].(string)
	if typ == "" {
		return nil, fmt.Errorf("field 'type' must be a non-empty string")
	}

	sub := func(field string) (Expr, error) {
		m, ok := data[field].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an object", typ, field)
		}
		e, err := FromJSON(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", typ, field, err)
		}
		return e, nil
	}
	subSym := func(field string) (symbol.Expr, error) {
		m, ok := data[field].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an object", typ, field)
		}
		e, err := symbol.FromJSON(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", typ, field, err)
		}
		return e, nil
	}
	subList := func() ([]Expr, error) {
		raw, ok := data["args"].([]interface{})
		if !ok || len(raw) == 0 {
			return nil, fmt.Errorf("%s: 'args' must be a non-empty array", typ)
		}
		out := make([]Expr, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%s: args[%d] must be an object", typ, i)
			}
			e, err := FromJSON(m)
			if err != nil {
				return nil, fmt.Errorf("%s: args[%d]: %w", typ, i, err)
			}
			out[i] = e
		}
		return out, nil
	}
	pair := func() (Expr, Expr, error) {
		a, err := sub("a")
		if err != nil {
			return nil, nil, err
		}
		b, err := sub("b")
		if err != nil {
			return nil, nil, err
		}
		return a, b, nil
	}

	switch typ {
	case "object":
		return objectFromJSON(data)
	case "scalar":
		e, err := subSym("expr")
		if err != nil {
			return nil, err
		}
		return NewScalar(e), nil
	case "add":
		args, err := subList()
		if err != nil {
			return nil, err
		}
		return NewAdd(args...), nil
	case "mul":
		args, err := subList()
		if err != nil {
			return nil, err
		}
		return NewMul(args...), nil
	case "tensor":
		args, err := subList()
		if err != nil {
			return nil, err
		}
		return NewTensorProduct(args...), nil
	case "pow":
		base, err := sub("base")
		if err != nil {
			return nil, err
		}
		exp, err := subSym("exp")
		if err != nil {
			return nil, err
		}
		return NewPow(base, exp), nil
	case "dagger":
		arg, err := sub("arg")
		if err != nil {
			return nil, err
		}
		return NewDagger(arg), nil
	case "commutator":
		a, b, err := pair()
		if err != nil {
			return nil, err
		}
		return NewCommutator(a, b), nil
	case "anticommutator":
		a, b, err := pair()
		if err != nil {
			return nil, err
		}
		return NewAntiCommutator(a, b), nil
	case "innerproduct":
		bra, err := sub("bra")
		if err != nil {
			return nil, err
		}
		ket, err := sub("ket")
		if err != nil {
			return nil, err
		}
		bo, ok1 := bra.(Object)
		ko, ok2 := ket.(Object)
		if !ok1 || !ok2 {
			return nil, &ValueError{Op: "inner product", Value: bra.String() + ket.String(), Err: ErrTypeMismatch}
		}
		ip, err := NewInnerProduct(bo, ko)
		if err != nil {
			return nil, err
		}
		return ip, nil
	}
	return nil, fmt.Errorf("unknown expression type: %s", typ)
}

func objectFromJSON(data map[string]interface{}) (Object, error) {
	name, _ := data["kind"].(string)
	k, ok := LookupKind(name)
	if !ok {
		return nil, fmt.Errorf("object: unknown kind %q", name)
	}
	var labels []string
	if l, ok := data["label"].(string); ok {
		labels = []string{l}
	} else if raw, ok := data["labels"].([]interface{}); ok {
		for i, it := range raw {
			s, ok := it.(string)
			if !ok {
				return nil, fmt.Errorf("object: labels[%d] must be a string", i)
			}
			labels = append(labels, s)
		}
	}
	return k.New(labels...), nil
}

// BasisFromJSON decodes a basis specifier: an object (instance), a
// {"kind": name} object (type) or a bare kind name.
func BasisFromJSON(v interface{}) (Basis, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		if x == "" {
			return nil, nil
		}
		k, ok := LookupKind(x)
		if !ok {
			return nil, fmt.Errorf("basis: unknown kind %q", x)
		}
		return k, nil
	case map[string]interface{}:
		if _, ok := x["type"]; ok {
			return objectFromJSON(x)
		}
		return BasisFromJSON(x["kind"])
	}
	return nil, fmt.Errorf("basis: must be a kind name or an object")
}

// ============================================================
// Values
// ============================================================

// ValueToJSON returns the wire form of a representation.
func ValueToJSON(v Value) map[string]interface{} {
	switch x := v.(type) {
	case symbol.Expr:
		return map[string]interface{}{"type": "expr", "expr": symbol.ToMap(x), "string": x.String(), "latex": x.LaTeX()}
	case *symbol.Matrix:
		out := symbol.MatrixToMap(x)
		out["string"] = x.String()
		out["latex"] = x.LaTeX()
		return out
	case matrixutils.Complex:
		return complexJSON(complex128(x))
	case *matrixutils.Dense:
		rows := make([][]map[string]interface{}, x.Rows())
		for i := range rows {
			rows[i] = make([]map[string]interface{}, x.Cols())
			for j := range rows[i] {
				rows[i][j] = complexJSON(x.At(i, j))
			}
		}
		return map[string]interface{}{"type": "dense", "rows": rows, "string": x.String()}
	case *matrixutils.Sparse:
		var entries []map[string]interface{}
		for i := 0; i < x.Rows(); i++ {
			for j := 0; j < x.Cols(); j++ {
				if z := x.At(i, j); z != 0 {
					e := complexJSON(z)
					e["row"], e["col"] = i, j
					entries = append(entries, e)
				}
			}
		}
		return map[string]interface{}{
			"type": "sparse", "shape": []int{x.Rows(), x.Cols()},
			"entries": entries, "string": x.String(),
		}
	}
	return map[string]interface{}{"type": "unknown", "string": ValueString(v)}
}

func complexJSON(z complex128) map[string]interface{} {
	return map[string]interface{}{"type": "complex", "re": real(z), "im": imag(z)}
}
